package trash

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/moby/sys/mountinfo"
	"golang.org/x/sys/unix"
)

// ErrMountNotFound is returned when a device id has no entry in the mount
// table. A live path always has one; this guards the race where its device
// is unmounted between stat and lookup.
var ErrMountNotFound = errors.New("could not find mount point for device id")

// DeviceNumber is a path's device id decomposed into the kernel's
// major/minor encoding. Two paths with an equal ID are on the same
// filesystem.
type DeviceNumber struct {
	ID    uint64
	Major uint32
	Minor uint32
}

// DeviceNumberFor stats path without following symlinks and extracts its
// device number.
func DeviceNumberFor(path string) (DeviceNumber, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return DeviceNumber{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return DeviceNumber{}, fmt.Errorf("no device information for %s", path)
	}

	id := uint64(stat.Dev)
	return DeviceNumber{
		ID:    id,
		Major: unix.Major(id),
		Minor: unix.Minor(id),
	}, nil
}

// Device identifies the filesystem a path lives on. The mount-table fields
// are empty until ResolveMount fills them.
type Device struct {
	Number DeviceNumber

	// Populated by ResolveMount
	Name       string
	MountRoot  string
	MountPoint string
}

// DeviceFor returns the Device for path, with only the device number
// resolved.
func DeviceFor(path string) (*Device, error) {
	num, err := DeviceNumberFor(path)
	if err != nil {
		return nil, err
	}
	return &Device{Number: num}, nil
}

// ResolveMount scans the running process's mount table for the entry whose
// major:minor matches this device and records its source name, mount root
// and mount point. Idempotent once resolved.
func (d *Device) ResolveMount() error {
	if d.MountPoint != "" {
		return nil
	}

	mounts, err := mountinfo.GetMounts(nil)
	if err != nil {
		return fmt.Errorf("failed to get mount info: %w", err)
	}

	for _, m := range mounts {
		if uint32(m.Major) == d.Number.Major && uint32(m.Minor) == d.Number.Minor {
			d.Name = m.Source
			d.MountRoot = m.Root
			d.MountPoint = m.Mountpoint
			slog.Debug("resolved mount for device",
				"major", d.Number.Major,
				"minor", d.Number.Minor,
				"mountpoint", d.MountPoint,
				"source", d.Name)
			return nil
		}
	}

	return ErrMountNotFound
}
