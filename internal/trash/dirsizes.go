package trash

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/chamilad/trashbin/internal/fs"
)

const (
	dirSizesFile = "directorysizes"

	// subdirectory for index temp files, under os.TempDir for the home
	// trash and under the root itself for topdir trashes
	tempDirName = "trashbin"
)

// dirSizesPath returns the root's directorysizes file, creating an empty one
// if absent. The existing path must be a regular file the caller could
// delete; updating the index is deliberately tied to delete capability, so
// only users who can trash into this root may rewrite its cache.
func dirSizesPath(root *Root) (string, error) {
	path := filepath.Join(root.Path, dirSizesFile)

	info, err := os.Lstat(path)
	switch {
	case os.IsNotExist(err):
		f, err := fs.Create(path, 0600)
		if err != nil {
			return "", fmt.Errorf("cannot create directorysizes: %w", err)
		}
		f.Close()
	case err != nil:
		return "", fmt.Errorf("cannot stat directorysizes: %w", err)
	case !info.Mode().IsRegular():
		return "", fmt.Errorf("%s is not a file, not updating directorysizes", path)
	}

	if !fs.CanDelete(path) {
		return "", fmt.Errorf("%w: not enough permissions to edit directorysizes", ErrPermissionDenied)
	}

	return path, nil
}

// addDirSizesEntry records a freshly trashed directory in the root's
// directorysizes cache. Non-directories are a no-op. The whole index is
// rewritten: stale lines are pruned, a line colliding with the new name is
// dropped (a restore under a non-compliant tool can leave one behind), the
// new entry is appended and the result atomically replaces the index.
func addDirSizesEntry(root *Root, filesPath, infoPath string) error {
	entryInfo, err := os.Lstat(filesPath)
	if err != nil {
		return fmt.Errorf("cannot stat trashed entry: %w", err)
	}
	if !entryInfo.IsDir() {
		return nil
	}

	indexPath, err := dirSizesPath(root)
	if err != nil {
		return err
	}

	size, err := fs.DirSize(filesPath)
	if err != nil {
		return fmt.Errorf("cannot compute directory size: %w", err)
	}

	// The entry's timestamp is the .trashinfo file's mtime, per spec.
	infoStat, err := os.Lstat(infoPath)
	if err != nil {
		return fmt.Errorf("cannot update directorysizes: cannot get mtime: %w", err)
	}
	mtime := infoStat.ModTime().Unix()

	name := filepath.Base(filesPath)
	line := fmt.Sprintf("%d %d %s\n", size, mtime, encodeTrashPath(name))

	return rewriteDirSizes(root, indexPath, name, line)
}

// cleanDirSizes prunes stale entries after a restore or purge removed a
// directory from the trash. Roots without an index need no cleanup.
func cleanDirSizes(root *Root) error {
	indexPath := filepath.Join(root.Path, dirSizesFile)
	if _, err := os.Lstat(indexPath); os.IsNotExist(err) {
		return nil
	}

	indexPath, err := dirSizesPath(root)
	if err != nil {
		return err
	}
	return rewriteDirSizes(root, indexPath, "", "")
}

// rewriteDirSizes rebuilds the index, dropping lines whose files-dir target
// no longer exists or whose name equals skipName, then appending appendLine.
// The rewrite goes to a temp file on the same filesystem and is renamed over
// the index so readers never observe a half-written file. There is no
// locking: concurrent writers race last-writer-wins, the same best-effort
// cache behavior as other trash implementations.
func rewriteDirSizes(root *Root, indexPath, skipName, appendLine string) error {
	var content strings.Builder

	existing, err := os.ReadFile(indexPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot read directorysizes: %w", err)
	}

	for _, entry := range strings.Split(string(existing), "\n") {
		fields := strings.Fields(entry)
		if len(fields) != 3 {
			continue
		}

		name, err := url.PathUnescape(fields[2])
		if err != nil {
			continue
		}
		if skipName != "" && name == skipName {
			continue
		}
		if _, err := os.Lstat(filepath.Join(root.FilesDir, name)); err != nil {
			continue
		}

		content.WriteString(entry)
		content.WriteString("\n")
	}

	content.WriteString(appendLine)

	// rename(2) does not work across mount points, so the temp file must be
	// created on the same filesystem as the index.
	tempBase := os.TempDir()
	if root.Kind != RootHome {
		tempBase = root.Path
	}
	tempDir := filepath.Join(tempBase, tempDirName)
	if err := fs.EnsureDir(tempDir, 0700); err != nil {
		return err
	}

	temp, err := os.CreateTemp(tempDir, dirSizesFile+"-")
	if err != nil {
		return fmt.Errorf("cannot create directorysizes temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.WriteString(content.String()); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("couldn't update directorysizes: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("couldn't update directorysizes: %w", err)
	}

	if err := os.Rename(tempPath, indexPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("couldn't replace directorysizes: %w", err)
	}

	slog.Debug("directorysizes rewritten", "root", root.Path, "added", strings.TrimSpace(appendLine))
	return nil
}
