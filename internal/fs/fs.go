// Package fs provides the filesystem primitives shared by the trash core:
// exclusive creation, directory bootstrap, rename-with-fallback moves and
// block-based size accounting.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	cp "github.com/otiai10/copy"
	"golang.org/x/sys/unix"
)

// Create creates a new file with O_EXCL to guarantee atomic creation.
// Returns an error if the file already exists.
func Create(path string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
}

// EnsureDir makes sure path exists as a directory, creating it if absent.
// An existing non-directory is an error.
func EnsureDir(path string, perm os.FileMode) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.Mkdir(path, perm); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", path, err)
			}
			return nil
		}
		return fmt.Errorf("cannot verify directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory: %s", path)
	}
	return nil
}

// Move moves a file or directory from src to dst. Rename(2) is tried first;
// when it fails across devices and fallbackCopy is set, the move degrades to
// copy and delete.
func Move(src, dst string, fallbackCopy bool) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := os.Rename(src, dst); err != nil {
		if !fallbackCopy {
			return fmt.Errorf("failed to move file: %w", err)
		}

		if err := cp.Copy(src, dst); err != nil {
			return fmt.Errorf("failed to copy file: %w", err)
		}

		if err := os.RemoveAll(src); err != nil {
			_ = os.RemoveAll(dst)
			return fmt.Errorf("failed to remove source after copy: %w", err)
		}
	}

	return nil
}

// IsWritableDir reports whether the current user can enter and write to the
// directory. The check uses access(2), so it answers for the real uid; a
// sudo invocation that only raises the effective uid may still be refused.
func IsWritableDir(path string) bool {
	return unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK) == nil
}

// CanDelete reports whether the file at path can be unlinked: rwx on the
// parent directory plus rw on the file itself. Symlinks are judged by the
// parent alone; access(2) would follow the link and a dangling target must
// not block unlinking the link itself.
func CanDelete(path string) bool {
	parent := filepath.Dir(path)
	if !IsWritableDir(parent) {
		return false
	}
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return true
	}
	return unix.Access(path, unix.R_OK|unix.W_OK) == nil
}

// DirSize returns the disk usage of a directory tree in bytes, computed from
// block counts the way `du -B1` does. Symlinked children are not followed
// and contribute nothing.
func DirSize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("path is not a directory: %s", path)
	}

	var total int64
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		total += stat.Blocks * 512
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		if entry.IsDir() {
			size, err := DirSize(childPath)
			if err != nil {
				return 0, err
			}
			total += size
			continue
		}
		childInfo, err := entry.Info()
		if err != nil {
			return 0, err
		}
		if stat, ok := childInfo.Sys().(*syscall.Stat_t); ok {
			total += stat.Blocks * 512
		}
	}

	return total, nil
}
