package trash

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chamilad/trashbin/internal/fs"
)

const (
	trashInfoHeader = "[Trash Info]"
	trashInfoExt    = ".trashinfo"

	// DeletionDate is RFC 3339 at seconds precision with the offset
	// stripped: a naive local timestamp. Reading reattaches the machine's
	// current offset, which is lossy across DST transitions; the on-disk
	// format is kept for compatibility with other implementations.
	timeFormat = "2006-01-02T15:04:05"
)

// Info is the content of one .trashinfo file: the original path of a
// trashed item and when it was deleted. Path is absolute for home-trash
// entries and mount-relative for topdir entries.
type Info struct {
	Path string

	// OriginalName is the base name of the original path
	OriginalName string

	DeletionDate time.Time

	// MountRoot resolves relative Path values for topdir entries
	MountRoot string
}

// NewInfo builds the record for a path about to be trashed. For topdir
// roots the stored path is made relative to the root's mount point.
func NewInfo(originalPath string, deletedAt time.Time, root *Root) (*Info, error) {
	storedPath := originalPath
	mountRoot := ""
	if root.Kind != RootHome {
		mountRoot = root.Device.MountPoint
		rel, err := fs.RelativeTo(originalPath, mountRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize path: %w", err)
		}
		storedPath = rel
	}

	return &Info{
		Path:         storedPath,
		OriginalName: filepath.Base(originalPath),
		DeletionDate: deletedAt,
		MountRoot:    mountRoot,
	}, nil
}

// ParseInfo reads a .trashinfo record from r. The [Trash Info] header must
// be the first non-blank line, Path must precede DeletionDate, and both
// fields must be present; anything else is rejected as corrupt. Unknown
// Key=Value lines are skipped so records written by other trash tools keep
// parsing.
func ParseInfo(r io.Reader) (*Info, error) {
	scanner := bufio.NewScanner(r)
	info := &Info{}
	var headerFound bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !headerFound {
			if line != trashInfoHeader {
				return nil, fmt.Errorf("%w: first line is not %s", ErrCorruptInfo, trashInfoHeader)
			}
			headerFound = true
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "Path":
			path, err := url.PathUnescape(value)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid Path encoding: %v", ErrCorruptInfo, err)
			}
			info.Path = path
			info.OriginalName = filepath.Base(path)

		case "DeletionDate":
			if info.Path == "" {
				return nil, fmt.Errorf("%w: DeletionDate before Path", ErrCorruptInfo)
			}
			date, err := time.ParseInLocation(timeFormat, value, time.Local)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid DeletionDate format: %v", ErrCorruptInfo, err)
			}
			info.DeletionDate = date
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading info file: %w", err)
	}

	if !headerFound {
		return nil, fmt.Errorf("%w: missing %s header", ErrCorruptInfo, trashInfoHeader)
	}
	if info.Path == "" {
		return nil, fmt.Errorf("%w: missing Path field", ErrCorruptInfo)
	}
	if info.DeletionDate.IsZero() {
		return nil, fmt.Errorf("%w: missing DeletionDate field", ErrCorruptInfo)
	}

	return info, nil
}

// LoadInfo parses the .trashinfo file at path.
func LoadInfo(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open info file: %w", err)
	}
	defer f.Close()

	return ParseInfo(f)
}

// AbsolutePath returns the original location of the trashed item. Relative
// topdir paths are resolved against the mount root.
func (i *Info) AbsolutePath() string {
	if filepath.IsAbs(i.Path) {
		return i.Path
	}
	if i.MountRoot != "" {
		return filepath.Join(i.MountRoot, i.Path)
	}
	return i.Path
}

// Render serializes the record into the exact on-disk block.
func (i *Info) Render() string {
	var b strings.Builder
	fmt.Fprintln(&b, trashInfoHeader)
	fmt.Fprintf(&b, "Path=%s\n", encodeTrashPath(i.Path))
	fmt.Fprintf(&b, "DeletionDate=%s\n", i.DeletionDate.Format(timeFormat))
	return b.String()
}

// Save writes the record to path with create-new-exclusive semantics. If
// another process claimed the name first the write fails with
// ErrAlreadyExists instead of overwriting.
func (i *Info) Save(path string) error {
	f, err := fs.Create(path, 0600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return fmt.Errorf("failed to create info file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(i.Render()); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write info file: %w", err)
	}

	return nil
}

// encodeTrashPath percent-encodes a path for the Path key:
// - Forward slashes are not encoded
// - Spaces are encoded as %20 (not +)
// - Other special characters are percent-encoded
func encodeTrashPath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		subparts := strings.Split(part, " ")
		for j, subpart := range subparts {
			subparts[j] = url.QueryEscape(subpart)
		}
		parts[i] = strings.Join(subparts, "%20")
	}
	return strings.Join(parts, "/")
}
