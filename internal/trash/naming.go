package trash

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// generateEntryNames picks a collision-free pair of destination paths inside
// the root's files/ and info/ directories for a file named baseName. Both
// paths must be free: a stale orphaned .trashinfo without a matching file
// would otherwise be silently overwritten.
func generateEntryNames(root *Root, baseName string) (filesPath, infoPath string, err error) {
	for n := uint32(1); n < math.MaxUint32; n++ {
		name := trashableName(baseName, n)
		filesPath = filepath.Join(root.FilesDir, name)
		infoPath = filepath.Join(root.InfoDir, name+".trashinfo")

		_, errFile := os.Lstat(filesPath)
		_, errInfo := os.Lstat(infoPath)
		if os.IsNotExist(errFile) && os.IsNotExist(errInfo) {
			return filesPath, infoPath, nil
		}
		// Anything but "slot taken" means the root itself is broken and
		// no amount of renaming will find a free pair.
		if errFile != nil && !os.IsNotExist(errFile) {
			return "", "", fmt.Errorf("cannot probe trash slot %s: %w", filesPath, errFile)
		}
		if errInfo != nil && !os.IsNotExist(errInfo) {
			return "", "", fmt.Errorf("cannot probe trash slot %s: %w", infoPath, errInfo)
		}
	}

	return "", "", ErrNameExhausted
}

// trashableName is the idx'th candidate name for a file. Following the
// nautilus convention duplicates start from suffix 2, inserted before the
// first dot so "archive.tar.gz" becomes "archive.2.tar.gz"; dotless names
// get the suffix appended.
func trashableName(name string, idx uint32) string {
	if idx < 2 {
		return name
	}

	if i := strings.Index(name, "."); i >= 0 {
		return fmt.Sprintf("%s.%d%s", name[:i], idx, name[i:])
	}

	return fmt.Sprintf("%s.%d", name, idx)
}
