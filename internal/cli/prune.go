package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chamilad/trashbin/internal/trash"
	"github.com/chamilad/trashbin/internal/ui"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// OrphanedFile is a .trashinfo sidecar whose files/ twin is gone. Crashed
// or interrupted trash operations leave these behind.
type OrphanedFile struct {
	DeletedAt     time.Time
	OriginalPath  string
	TrashInfoPath string
}

// Prune cleans up trash metadata. The only supported target is "orphans".
func (c *CLI) Prune(target string) error {
	slog.Debug("pruning trash contents started", "target", target)
	defer slog.Debug("pruning trash contents finished")

	switch target {
	case "orphans":
		return c.pruneOrphans()
	default:
		return fmt.Errorf("%w: unknown prune target: %s", errUsage, target)
	}
}

func (c *CLI) pruneOrphans() error {
	roots, err := trash.EnumerateRoots()
	if err != nil {
		slog.Warn("trash root enumeration incomplete", "error", err)
	}

	var orphanedFiles []OrphanedFile
	for _, root := range roots {
		files, err := findOrphanedMetadata(root)
		if err != nil {
			slog.Error("failed to find orphaned metadata in trash root",
				"root", root.Path, "error", err)
			continue
		}
		orphanedFiles = append(orphanedFiles, files...)
	}

	if len(orphanedFiles) == 0 {
		fmt.Println("No orphaned metadata files found.")
		return nil
	}

	printOrphanedFilesTable(orphanedFiles)

	if !c.option.Rm.Force {
		ok, err := ui.Confirm(fmt.Sprintf("Remove %d orphaned metadata files?", len(orphanedFiles)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Pruning canceled.")
			return nil
		}
	}

	var failedRemovals []string
	for _, file := range orphanedFiles {
		if err := os.Remove(file.TrashInfoPath); err != nil {
			slog.Error("failed to remove orphaned metadata file",
				"file", file.TrashInfoPath, "error", err)
			failedRemovals = append(failedRemovals, file.TrashInfoPath)
		}
	}

	if len(failedRemovals) > 0 {
		fmt.Printf("Failed to remove %d files:\n", len(failedRemovals))
		for _, file := range failedRemovals {
			fmt.Println(file)
		}
		return fmt.Errorf("some orphaned metadata files could not be removed")
	}

	fmt.Printf("Successfully removed %d orphaned metadata files.\n", len(orphanedFiles))
	return nil
}

// findOrphanedMetadata scans a root's info/ directory for .trashinfo files
// without a corresponding files/ entry.
func findOrphanedMetadata(root *trash.Root) ([]OrphanedFile, error) {
	entries, err := os.ReadDir(root.InfoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read info directory: %w", err)
	}

	var orphanedFiles []OrphanedFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), ".trashinfo") {
			continue
		}

		if strings.HasPrefix(entry.Name(), "._") {
			// exclude mac resource fork
			slog.Debug("skipped mac resource fork of .trashinfo", "path", entry.Name())
			continue
		}

		fileName := strings.TrimSuffix(entry.Name(), ".trashinfo")
		infoPath := filepath.Join(root.InfoDir, entry.Name())

		if _, err := os.Lstat(filepath.Join(root.FilesDir, fileName)); !os.IsNotExist(err) {
			continue
		}

		info, err := trash.LoadInfo(infoPath)
		if err != nil {
			// Corrupt AND orphaned; still a pruning candidate.
			orphanedFiles = append(orphanedFiles, OrphanedFile{TrashInfoPath: infoPath})
			continue
		}
		if root.Kind != trash.RootHome && root.Device != nil {
			info.MountRoot = root.Device.MountPoint
		}
		orphanedFiles = append(orphanedFiles, OrphanedFile{
			DeletedAt:     info.DeletionDate,
			OriginalPath:  info.AbsolutePath(),
			TrashInfoPath: infoPath,
		})
	}

	return orphanedFiles, nil
}

func printOrphanedFilesTable(files []OrphanedFile) {
	green := color.New(color.FgHiGreen).SprintfFunc()
	white := color.New(color.FgWhite).SprintfFunc()

	fmt.Printf("%s %s %s\n",
		green("%-20s", "Deleted At"),
		green("%-10s", "Size"),
		green("%-30s", "Path"),
	)

	for _, file := range files {
		info, err := os.Stat(file.TrashInfoPath)
		if err != nil {
			continue
		}

		fmt.Printf("%s %s %s\n",
			white("%-20s", file.DeletedAt.Format("2006-01-02 15:04:05")),
			white("%-10s", humanize.Bytes(uint64(info.Size()))),
			white("%-30s", file.TrashInfoPath),
		)
	}
	fmt.Println()
}
