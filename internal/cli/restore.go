package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/chamilad/trashbin/internal/trash"
	"github.com/chamilad/trashbin/internal/ui"
)

func (c *CLI) Restore(args []string) error {
	slog.Debug("cli.restore started")
	defer slog.Debug("cli.restore finished")

	entries, err := trash.ListAll()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: no files in trash", errUsage)
	}

	if len(args) > 0 {
		return c.restoreByPath(entries, args[0])
	}

	filtered := trash.Filter(entries, c.filterOptions())
	if len(filtered) == 0 {
		return fmt.Errorf("%w: no files match the filter criteria", errUsage)
	}
	trash.Sort(filtered, trash.SortByDate)

	selected, err := ui.RenderList(filtered, c.config.UI)
	if err != nil {
		if errors.Is(err, ui.ErrPickerCanceled) {
			return nil
		}
		return fmt.Errorf("file selection: %w", err)
	}

	var errs []error
	for _, entry := range selected {
		if err := c.restoreEntry(entry); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", entry.Name(), err))
		}
	}
	return formatErrors(errs)
}

// restoreByPath restores the newest entry whose original path matches the
// given operand.
func (c *CLI) restoreByPath(entries []*trash.Entry, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var candidates []*trash.Entry
	for _, entry := range entries {
		if entry.OriginalPath == absPath {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: '%s' is not in trash", trash.ErrNotFound, path)
	}

	trash.Sort(candidates, trash.SortByDate)
	return c.restoreEntry(candidates[0])
}

func (c *CLI) restoreEntry(entry *trash.Entry) error {
	if c.config.Core.Restore.Confirm {
		ok, err := ui.Confirm(fmt.Sprintf("restore '%s' to %s?", entry.Name(), entry.DisplayPath()))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	err := entry.Restore()
	if trash.IsFileExists(err) {
		// The destination grew a new occupant since trashing; offer to
		// restore under a different name.
		newName, inputErr := ui.InputFilename(entry.Name())
		if inputErr != nil {
			if errors.Is(inputErr, ui.ErrInputCanceled) {
				return fmt.Errorf("restore canceled by user")
			}
			return inputErr
		}
		entry.OriginalPath = filepath.Join(filepath.Dir(entry.OriginalPath), newName)
		err = entry.Restore()
	}
	if err != nil {
		return err
	}

	if c.config.Core.Restore.Verbose {
		fmt.Printf("restored '%s' to %s\n", entry.Name(), entry.DisplayPath())
	}
	return nil
}

func formatErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := fmt.Sprintf("%d errors occurred:\n", len(errs))
	for _, err := range errs {
		msg += fmt.Sprintf("  * %v\n", err)
	}
	return errors.New(msg)
}
