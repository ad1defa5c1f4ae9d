package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/chamilad/trashbin/internal/trash"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

func (c *CLI) List(order string) error {
	if order == "default" {
		order = c.config.Listing.Sort
		if order == "" {
			order = "date"
		}
	}
	slog.Debug("cli.list started", "order", order)
	defer slog.Debug("cli.list finished")

	sortOrder, ok := trash.ParseSortOrder(order)
	if !ok {
		return fmt.Errorf("%w: unknown sort order: %s", errUsage, order)
	}

	entries, err := trash.ListAll()
	if err != nil {
		return err
	}

	filtered := trash.Filter(entries, c.filterOptions())
	trash.Sort(filtered, sortOrder)

	if len(filtered) == 0 {
		fmt.Println("Trash is empty.")
		return nil
	}

	printEntriesTable(filtered)
	return nil
}

func printEntriesTable(entries []*trash.Entry) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Original Path", "Deleted", "Size", "Trash Root"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	if !color.NoColor {
		headerColor := tablewriter.Colors{tablewriter.FgHiGreenColor}
		table.SetHeaderColor(headerColor, headerColor, headerColor, headerColor, headerColor)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir {
			name += "/"
		}
		table.Append([]string{
			name,
			entry.DisplayPath(),
			humanize.Time(entry.DeletedAt),
			humanize.Bytes(uint64(entry.SizeOrZero())),
			entry.Root.Kind.String(),
		})
	}
	table.Render()
}
