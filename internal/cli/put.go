package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chamilad/trashbin/internal/fs"
	"github.com/chamilad/trashbin/internal/trash"
	"github.com/chamilad/trashbin/internal/ui"
)

func (c *CLI) Put(args []string) error {
	slog.Debug("cli.put started")
	defer slog.Debug("cli.put finished")

	if len(args) == 0 {
		return fmt.Errorf("%w: too few arguments", errUsage)
	}

	// Process every operand even when one fails; report each failure and
	// exit with the most severe code, like rm does.
	var failed error
	for _, arg := range args {
		err := c.putPath(arg)
		if err == nil {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: cannot trash '%s': %v\n", c.version.AppName, arg, err)
		slog.Error("trashing failed", "path", arg, "error", err)
		if failed == nil || ExitCode(err) > ExitCode(failed) {
			failed = err
		}
	}

	if failed != nil {
		return reportedError{failed}
	}
	return nil
}

func (c *CLI) putPath(path string) error {
	if fs.IsUnsafePath(path) {
		return fmt.Errorf("%w: refusing to trash root or dot directories", errUsage)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Lstat: a symlink is trashed itself, never its target, and a broken
	// symlink is still a valid operand.
	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			if c.option.Rm.Force {
				return nil
			}
			return fmt.Errorf("%w: no such file or directory", trash.ErrNotFound)
		}
		return err
	}

	// Check before mutating anything; a file we cannot unlink must not get
	// a trash entry reserved for it.
	if !fs.CanDelete(absPath) {
		return fmt.Errorf("%w: no permission to delete", trash.ErrPermissionDenied)
	}

	root, err := c.resolveRoot(absPath)
	if err != nil {
		return err
	}

	if root.Contains(absPath) {
		return trash.ErrTrashingTrash
	}

	entry, err := trash.NewEntry(absPath, root)
	if err != nil {
		return err
	}

	if c.option.Rm.Interactive && !c.option.Rm.Force {
		kind := "file"
		if info.IsDir() {
			kind = "directory"
		}
		ok, err := ui.Confirm(fmt.Sprintf("trash %s '%s'?", kind, path))
		if err != nil {
			return err
		}
		if !ok {
			slog.Debug("skipped by user", "path", path)
			return nil
		}
	}

	if err := entry.CreateInfo(); err != nil {
		return err
	}
	if err := entry.Trash(); err != nil {
		// Drop the sidecar so a failed move leaves no orphaned metadata.
		if rmErr := os.Remove(entry.InfoPath); rmErr != nil {
			slog.Warn("failed to remove info after failed move",
				"path", entry.InfoPath, "error", rmErr)
		}
		return err
	}

	slog.Debug("trashed",
		"from", absPath,
		"to", entry.FilesPath,
		"root", root.Path,
		"kind", root.Kind.String())

	if c.option.Rm.Verbose {
		if info.IsDir() {
			fmt.Printf("removed directory '%s'\n", path)
		} else {
			fmt.Printf("removed '%s'\n", path)
		}
	}

	return nil
}
