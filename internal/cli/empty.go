package cli

import (
	"fmt"
	"log/slog"

	"github.com/chamilad/trashbin/internal/trash"
	"github.com/chamilad/trashbin/internal/ui"
)

// Empty permanently deletes every entry in every trash root. The batch is
// best-effort per item and never aborts mid-way; failures are aggregated
// into a single report.
func (c *CLI) Empty() error {
	slog.Debug("cli.empty started")
	defer slog.Debug("cli.empty finished")

	entries, err := trash.ListAll()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Trash is already empty.")
		return nil
	}

	if !c.option.Rm.Force {
		ok, err := ui.Confirm(fmt.Sprintf("Permanently delete %d trashed items?", len(entries)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Emptying canceled.")
			return nil
		}
	}

	var errs []error
	for _, entry := range entries {
		if err := entry.Purge(); err != nil {
			slog.Error("failed to purge entry", "path", entry.FilesPath, "error", err)
			errs = append(errs, fmt.Errorf("purge %s: %w", entry.Name(), err))
			continue
		}
		if c.option.Rm.Verbose {
			fmt.Printf("deleted '%s'\n", entry.Name())
		}
	}

	fmt.Printf("Deleted %d items.\n", len(entries)-len(errs))
	return formatErrors(errs)
}
