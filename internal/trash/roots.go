package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/moby/sys/mountinfo"
	"github.com/samber/lo"
	"golang.org/x/sys/unix"
)

// EnumerateRoots discovers every currently usable trash root across mounted
// devices: the home trash plus, per mount point, an existing admin topdir
// trash for this user or an existing per-user topdir trash. Discovery never
// creates directories; creation only happens on the write path. Mounts that
// fail both probes are skipped silently.
func EnumerateRoots() ([]*Root, error) {
	var roots []*Root

	if home, err := HomeRoot(); err == nil {
		roots = append(roots, home)
	} else {
		slog.Warn("home trash root unavailable", "error", err)
	}

	mounts, err := mountinfo.GetMounts(func(info *mountinfo.Info) (skip, stop bool) {
		return !isTrashableMount(info), false
	})
	if err != nil {
		return roots, fmt.Errorf("failed to get mount info: %w", err)
	}

	euid := os.Geteuid()
	seen := map[string]bool{}
	for _, m := range mounts {
		if seen[m.Mountpoint] {
			continue
		}
		seen[m.Mountpoint] = true

		root, ok := probeTopDir(m, euid)
		if !ok {
			continue
		}
		roots = append(roots, root)
	}

	return lo.UniqBy(roots, func(r *Root) string { return r.Path }), nil
}

// isTrashableMount keeps mounts backed by real block devices. Virtual
// filesystems, loop devices and /boot never carry topdir trashes.
func isTrashableMount(info *mountinfo.Info) bool {
	if !strings.HasPrefix(info.Source, "/dev/") {
		return false
	}
	if strings.HasPrefix(info.Source, "/dev/loop") {
		return false
	}
	if info.Mountpoint == "/boot" || strings.HasPrefix(info.Mountpoint, "/boot/") {
		return false
	}
	return true
}

// probeTopDir looks for an existing, usable trash root under a mount point,
// first the admin .Trash/$euid, then .Trash-$euid.
func probeTopDir(m *mountinfo.Info, euid int) (*Root, bool) {
	device := &Device{
		Number: DeviceNumber{
			ID:    unix.Mkdev(uint32(m.Major), uint32(m.Minor)),
			Major: uint32(m.Major),
			Minor: uint32(m.Minor),
		},
		Name:       m.Source,
		MountRoot:  m.Root,
		MountPoint: m.Mountpoint,
	}

	adminTrash := filepath.Join(m.Mountpoint, ".Trash")
	if info, err := os.Lstat(adminTrash); err == nil &&
		info.IsDir() &&
		info.Mode()&os.ModeSymlink == 0 &&
		info.Mode()&os.ModeSticky != 0 {
		userDir := filepath.Join(adminTrash, strconv.Itoa(euid))
		if fi, err := os.Lstat(userDir); err == nil && fi.IsDir() {
			return newRoot(device, userDir, RootTopDirAdmin), true
		}
	}

	userTrash := filepath.Join(m.Mountpoint, fmt.Sprintf(".Trash-%d", euid))
	if fi, err := os.Lstat(userTrash); err == nil && fi.IsDir() {
		return newRoot(device, userTrash, RootTopDirUser), true
	}

	return nil, false
}
