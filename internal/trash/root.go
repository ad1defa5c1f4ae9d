// Package trash implements the freedesktop.org Trash specification: trash
// root resolution, trash entry naming and lifecycle, the .trashinfo codec
// and the directorysizes cache.
package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chamilad/trashbin/internal/env"
	"github.com/chamilad/trashbin/internal/fs"
)

// RootKind tells which of the spec's trash root flavors a Root is. It
// decides the path encoding inside .trashinfo files (absolute for Home,
// mount-relative for topdirs) and where directorysizes temp files go.
type RootKind int

const (
	// RootHome is $XDG_DATA_HOME/Trash
	RootHome RootKind = iota

	// RootTopDirAdmin is $topdir/.Trash/$euid, requiring the sticky bit on
	// the administrator-created .Trash
	RootTopDirAdmin

	// RootTopDirUser is the $topdir/.Trash-$euid fallback
	RootTopDirUser
)

func (k RootKind) String() string {
	switch k {
	case RootHome:
		return "home"
	case RootTopDirAdmin:
		return "topdir-admin"
	case RootTopDirUser:
		return "topdir-user"
	default:
		return "unknown"
	}
}

// Root is one trash directory triple: the root itself plus its files/ and
// info/ subdirectories. Values are re-resolved per operation and never
// cached across trashing sessions; another tool may delete the root at any
// time.
type Root struct {
	Device   *Device
	Path     string
	FilesDir string
	InfoDir  string
	Kind     RootKind
}

func newRoot(device *Device, path string, kind RootKind) *Root {
	return &Root{
		Device:   device,
		Path:     path,
		FilesDir: filepath.Join(path, "files"),
		InfoDir:  filepath.Join(path, "info"),
		Kind:     kind,
	}
}

// ensureLayout creates the files/ and info/ subdirectories if absent. Every
// write operation requires them.
func (r *Root) ensureLayout() error {
	if err := os.MkdirAll(r.FilesDir, 0700); err != nil {
		return fmt.Errorf("failed to create files directory: %w", err)
	}
	if err := os.MkdirAll(r.InfoDir, 0700); err != nil {
		return fmt.Errorf("failed to create info directory: %w", err)
	}
	return nil
}

// Contains reports whether path lives inside this trash root.
func (r *Root) Contains(path string) bool {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !filepath.IsAbs(rel) && !hasDotDotPrefix(rel))
}

func hasDotDotPrefix(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == "../"
}

// homeRootPath is $XDG_DATA_HOME/Trash, with the base-dir spec fallback
// applied when the variable is unset.
func homeRootPath() string {
	return filepath.Join(env.DataHome(), "Trash")
}

// HomeRoot builds the home trash root value without creating anything on
// disk. Listing flows use it; the write path goes through ResolveRoot.
func HomeRoot() (*Root, error) {
	path := homeRootPath()
	device, err := DeviceFor(env.DataHome())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home trash device: %w", err)
	}
	return newRoot(device, path, RootHome), nil
}

// ResolveHomeRoot returns the home trash root with its layout created. The
// home_only config option routes every file here regardless of device.
func ResolveHomeRoot() (*Root, error) {
	root, err := HomeRoot()
	if err != nil {
		return nil, err
	}
	if err := root.ensureLayout(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRoot, err)
	}
	return root, nil
}

// ResolveRoot determines the trash root governing absPath, per the spec's
// fallback chain, and guarantees its files/ and info/ layout exists.
//
// A file on the same device as $XDG_DATA_HOME goes to the home trash. Any
// other file goes to its mount's topdir trash: the admin-created .Trash if
// it passes the writability, symlink and sticky-bit checks, otherwise the
// per-user .Trash-$euid. A failed admin check is reported and swallowed;
// the spec mandates the fallback must not abort the operation.
func ResolveRoot(absPath string) (*Root, error) {
	fileDev, err := DeviceFor(absPath)
	if err != nil {
		return nil, err
	}

	dataHome := env.DataHome()
	dataHomeDev, err := DeviceFor(dataHome)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve XDG data home device: %w", err)
	}

	if fileDev.Number.ID == dataHomeDev.Number.ID {
		// The home trash MUST be available for every user, created on
		// demand without warnings or delays.
		root := newRoot(fileDev, homeRootPath(), RootHome)
		if err := root.ensureLayout(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedRoot, err)
		}
		return root, nil
	}

	if err := fileDev.ResolveMount(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRoot, err)
	}
	topDir := fileDev.MountPoint

	// Effective uid, not real uid: a sudo invocation trashes into the
	// elevated user's trash so restore permissions stay consistent.
	euid := os.Geteuid()

	var root *Root
	trashHome, err := tryTopDirAdminTrash(topDir, euid)
	if err == nil {
		root = newRoot(fileDev, trashHome, RootTopDirAdmin)
	} else {
		// If the admin topdir trash fails at any point the implementation
		// MUST fall back to the per-user topdir trash, reporting the failed
		// check rather than propagating it.
		slog.Warn("top directory trash for file is unusable", "error", err)
		fmt.Fprintf(os.Stderr, "top directory trash for file is unusable: %v\n", err)

		trashHome, err = tryTopDirUserTrash(topDir, euid)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedRoot, err)
		}
		root = newRoot(fileDev, trashHome, RootTopDirUser)
	}

	if err := root.ensureLayout(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRoot, err)
	}
	return root, nil
}

// tryTopDirAdminTrash checks $topdir/.Trash and returns the per-user
// directory under it, created on demand. The .Trash directory must exist,
// be writable, not be a symlink and carry the sticky bit.
func tryTopDirAdminTrash(topDir string, euid int) (string, error) {
	adminTrash := filepath.Join(topDir, ".Trash")

	info, err := os.Lstat(adminTrash)
	if err != nil {
		return "", fmt.Errorf("%w: top directory trash '%s' does not exist", ErrInvalidRoot, adminTrash)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("%w: top directory trash '%s' is a symlink", ErrInvalidRoot, adminTrash)
	}

	if !fs.IsWritableDir(adminTrash) {
		return "", fmt.Errorf("%w: top directory trash '%s' isn't writable", ErrPermissionDenied, adminTrash)
	}

	if info.Mode()&os.ModeSticky == 0 {
		return "", fmt.Errorf("%w: top directory trash '%s' sticky bit not set", ErrInvalidRoot, adminTrash)
	}

	// $topdir/.Trash/$euid MUST be created immediately if absent.
	userTrash := filepath.Join(adminTrash, strconv.Itoa(euid))
	if err := fs.EnsureDir(userTrash, 0700); err != nil {
		return "", err
	}
	if !fs.IsWritableDir(userTrash) {
		return "", fmt.Errorf("%w: user directory in top directory trash '%s' isn't writable", ErrPermissionDenied, userTrash)
	}

	return userTrash, nil
}

// tryTopDirUserTrash returns $topdir/.Trash-$euid, created on demand.
func tryTopDirUserTrash(topDir string, euid int) (string, error) {
	userTrash := filepath.Join(topDir, fmt.Sprintf(".Trash-%d", euid))
	if err := fs.EnsureDir(userTrash, 0700); err != nil {
		return "", err
	}
	if !fs.IsWritableDir(userTrash) {
		return "", fmt.Errorf("%w: user directory in top directory trash '%s' isn't writable", ErrPermissionDenied, userTrash)
	}

	return userTrash, nil
}
