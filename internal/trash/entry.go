package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chamilad/trashbin/internal/fs"
)

// Entry is one trashed item: the original location, the reserved pair of
// files/ and info/ paths and the root that governs them. Entries come from
// two places: NewEntry reserves names for a file about to be trashed, and
// entriesFromRoot rebuilds them from .trashinfo files already on disk. In
// both cases every path field is populated; there is no partially
// initialized state.
type Entry struct {
	// OriginalPath is the absolute path the item was (or will be) trashed
	// from
	OriginalPath string

	// FilesPath is the entry inside the root's files/ directory
	FilesPath string

	// InfoPath is the sidecar .trashinfo inside the root's info/ directory
	InfoPath string

	Root *Root

	// DeletedAt is when the item was trashed; for pending entries it is the
	// timestamp the .trashinfo will carry
	DeletedAt time.Time

	IsDir     bool
	IsSymlink bool

	// size cache, seeded from file metadata or the directorysizes index
	// during discovery
	size      int64
	sizeKnown bool
}

// NewEntry reserves collision-free trash entry names for the file at
// absPath and returns the fully populated entry. Nothing is written to disk
// until CreateInfo and Trash run.
func NewEntry(absPath string, root *Root) (*Entry, error) {
	if !filepath.IsAbs(absPath) {
		return nil, fmt.Errorf("file path is not absolute: %s", absPath)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, absPath)
		}
		return nil, err
	}

	filesPath, infoPath, err := generateEntryNames(root, filepath.Base(absPath))
	if err != nil {
		return nil, err
	}

	return &Entry{
		OriginalPath: absPath,
		FilesPath:    filesPath,
		InfoPath:     infoPath,
		Root:         root,
		DeletedAt:    time.Now(),
		IsDir:        info.IsDir(),
		IsSymlink:    info.Mode()&os.ModeSymlink != 0,
	}, nil
}

// CreateInfo writes the .trashinfo sidecar with exclusive-create semantics.
// Losing the race to another process surfaces as ErrAlreadyExists.
func (e *Entry) CreateInfo() error {
	info, err := NewInfo(e.OriginalPath, e.DeletedAt, e.Root)
	if err != nil {
		return NewOpError("trash", e.OriginalPath, err)
	}
	if err := info.Save(e.InfoPath); err != nil {
		return NewOpError("trash", e.OriginalPath, err)
	}
	return nil
}

// Trash moves the original file into the files/ directory. Home roots allow
// the copy+delete fallback: home_only resolution can route files from other
// devices here, where rename(2) cannot reach. Directories get a best-effort
// directorysizes update afterwards; the index is a cache, not source of
// truth, so its failure never rolls back a completed move.
func (e *Entry) Trash() error {
	if err := fs.Move(e.OriginalPath, e.FilesPath, e.Root.Kind == RootHome); err != nil {
		return NewOpError("trash", e.OriginalPath, err)
	}

	if e.IsDir {
		if err := addDirSizesEntry(e.Root, e.FilesPath, e.InfoPath); err != nil {
			slog.Warn("error while updating directorysizes", "error", err)
		}
	}

	return nil
}

// Restore moves the entry back to its original path and deletes the
// sidecar. The original parent directory must still exist and the
// destination must be free.
func (e *Entry) Restore() error {
	parent := filepath.Dir(e.OriginalPath)
	if _, err := os.Stat(parent); err != nil {
		return NewOpError("restore", e.OriginalPath,
			fmt.Errorf("original parent directory no longer exists: %w", err))
	}

	if _, err := os.Lstat(e.OriginalPath); err == nil {
		return NewOpError("restore", e.OriginalPath, ErrFileExists)
	}

	if err := fs.Move(e.FilesPath, e.OriginalPath, e.Root.Kind == RootHome); err != nil {
		return NewOpError("restore", e.OriginalPath, err)
	}

	if err := os.Remove(e.InfoPath); err != nil {
		// The file is already back home; a leftover sidecar is an orphan
		// the prune command can collect.
		slog.Warn("failed to remove trash info", "path", e.InfoPath, "error", err)
	}

	if e.IsDir {
		if err := cleanDirSizes(e.Root); err != nil {
			slog.Warn("failed to clean directorysizes", "error", err)
		}
	}

	return nil
}

// Purge permanently removes the entry and its sidecar. For directories the
// directorysizes update is a hard error: once the item is gone the cache
// can never self-heal by re-scanning it.
func (e *Entry) Purge() error {
	if err := os.RemoveAll(e.FilesPath); err != nil {
		return NewOpError("purge", e.FilesPath, err)
	}

	if err := os.Remove(e.InfoPath); err != nil && !os.IsNotExist(err) {
		return NewOpError("purge", e.InfoPath, err)
	}

	if e.IsDir {
		if err := cleanDirSizes(e.Root); err != nil {
			return NewOpError("purge", e.FilesPath, err)
		}
	}

	return nil
}

// Size returns the entry's size in bytes: the link size for symlinks, the
// recursive block-based size for directories and the metadata size for
// regular files.
func (e *Entry) Size() (int64, error) {
	if e.sizeKnown {
		return e.size, nil
	}

	info, err := os.Lstat(e.FilesPath)
	if err != nil {
		return 0, err
	}

	var size int64
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		size = info.Size()
	case info.IsDir():
		size, err = fs.DirSize(e.FilesPath)
		if err != nil {
			return 0, err
		}
	default:
		size = info.Size()
	}

	e.size, e.sizeKnown = size, true
	return size, nil
}

// Exists reports whether the entry is still present in the trash.
func (e *Entry) Exists() bool {
	_, err := os.Lstat(e.FilesPath)
	return err == nil
}

// Name returns the original base name of the trashed item.
func (e *Entry) Name() string {
	return filepath.Base(e.OriginalPath)
}

// DisplayPath renders the original path for humans, contracting the home
// directory to "~".
func (e *Entry) DisplayPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return e.OriginalPath
	}
	if e.OriginalPath == home {
		return "~"
	}
	if strings.HasPrefix(e.OriginalPath, home+string(filepath.Separator)) {
		return "~" + e.OriginalPath[len(home):]
	}
	return e.OriginalPath
}

// Filterable implementation

func (e *Entry) GetName() string { return e.Name() }

func (e *Entry) GetSize() int64 { return e.SizeOrZero() }

func (e *Entry) GetDeletedAt() time.Time { return e.DeletedAt }
