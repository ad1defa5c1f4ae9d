package trash

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// SortOrder selects how listings are arranged.
type SortOrder string

const (
	// SortByDate is newest first, directories before files on equal dates
	SortByDate SortOrder = "date"

	// SortBySize is largest first, newest first on equal sizes
	SortBySize SortOrder = "size"

	// SortByName is case-insensitive original file name
	SortByName SortOrder = "name"

	// SortByDevice groups by origin root device id
	SortByDevice SortOrder = "device"
)

// ParseSortOrder validates a user-supplied sort order name.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(s) {
	case SortByDate, SortBySize, SortByName, SortByDevice:
		return SortOrder(s), true
	case "":
		return SortByDate, true
	default:
		return "", false
	}
}

// ListAll gathers trashed entries from every reachable trash root. A root
// that fails to list is reported and skipped; one stale mount must not hide
// the rest of the trash.
func ListAll() ([]*Entry, error) {
	roots, err := EnumerateRoots()
	if err != nil {
		slog.Warn("trash root enumeration incomplete", "error", err)
	}

	var all []*Entry
	for _, root := range roots {
		entries, err := entriesFromRoot(root)
		if err != nil {
			slog.Warn("failed to list trash root", "root", root.Path, "error", err)
			continue
		}
		all = append(all, entries...)
	}

	return all, nil
}

// entriesFromRoot reads a root's files/ directory and pairs each entry with
// its .trashinfo sidecar. Entries without a valid sidecar are skipped; the
// prune command collects the orphans. A root without a files/ directory
// holds nothing.
func entriesFromRoot(root *Root) ([]*Entry, error) {
	dirEntries, err := os.ReadDir(root.FilesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	sizes := loadDirSizesIndex(root)

	var entries []*Entry
	for _, dirEntry := range dirEntries {
		infoPath := filepath.Join(root.InfoDir, dirEntry.Name()+trashInfoExt)
		info, err := LoadInfo(infoPath)
		if err != nil {
			slog.Debug("skipping entry without valid trashinfo",
				"entry", dirEntry.Name(), "error", err)
			continue
		}
		if root.Kind != RootHome && root.Device != nil {
			info.MountRoot = root.Device.MountPoint
		}

		filesPath := filepath.Join(root.FilesDir, dirEntry.Name())
		fileInfo, err := os.Lstat(filesPath)
		if err != nil {
			continue
		}

		entry := &Entry{
			OriginalPath: info.AbsolutePath(),
			FilesPath:    filesPath,
			InfoPath:     infoPath,
			Root:         root,
			DeletedAt:    info.DeletionDate,
			IsDir:        fileInfo.IsDir(),
			IsSymlink:    fileInfo.Mode()&os.ModeSymlink != 0,
		}

		if entry.IsDir {
			if size, ok := sizes[dirEntry.Name()]; ok {
				entry.size = size
				entry.sizeKnown = true
			}
		} else {
			entry.size = fileInfo.Size()
			entry.sizeKnown = true
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// loadDirSizesIndex reads the root's directorysizes cache so listings can
// avoid re-walking large trees. A missing or unreadable index just means
// sizes are computed on demand.
func loadDirSizesIndex(root *Root) map[string]int64 {
	content, err := os.ReadFile(filepath.Join(root.Path, dirSizesFile))
	if err != nil {
		return nil
	}

	sizes := make(map[string]int64)
	for _, line := range strings.Split(string(content), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		size, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		name, err := url.PathUnescape(fields[2])
		if err != nil {
			continue
		}
		sizes[name] = size
	}
	return sizes
}

// Sort arranges entries in place according to order.
func Sort(entries []*Entry, order SortOrder) {
	switch order {
	case SortBySize:
		sort.SliceStable(entries, func(i, j int) bool {
			si, sj := entries[i].SizeOrZero(), entries[j].SizeOrZero()
			if si != sj {
				return si > sj
			}
			return entries[i].DeletedAt.After(entries[j].DeletedAt)
		})

	case SortByName:
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
		})

	case SortByDevice:
		sort.SliceStable(entries, func(i, j int) bool {
			di, dj := entries[i].deviceID(), entries[j].deviceID()
			if di != dj {
				return di < dj
			}
			return entries[i].DeletedAt.After(entries[j].DeletedAt)
		})

	default: // SortByDate
		sort.SliceStable(entries, func(i, j int) bool {
			if !entries[i].DeletedAt.Equal(entries[j].DeletedAt) {
				return entries[i].DeletedAt.After(entries[j].DeletedAt)
			}
			return entries[i].IsDir && !entries[j].IsDir
		})
	}
}

func (e *Entry) deviceID() uint64 {
	if e.Root == nil || e.Root.Device == nil {
		return 0
	}
	return e.Root.Device.Number.ID
}

// SizeOrZero is Size with failures collapsed to zero, for sorting and
// display.
func (e *Entry) SizeOrZero() int64 {
	size, err := e.Size()
	if err != nil {
		return 0
	}
	return size
}
