package ui

import (
	"fmt"

	"github.com/chamilad/trashbin/internal/trash"
	"github.com/dustin/go-humanize"
)

// item adapts a trash entry to the bubbles list.Item interface.
type item struct {
	entry    *trash.Entry
	selected bool
}

func (i item) Title() string {
	name := i.entry.Name()
	if i.entry.IsDir {
		name += "/"
	}
	if i.selected {
		return "✓ " + name
	}
	return name
}

func (i item) Description() string {
	return fmt.Sprintf("%s • %s • %s",
		i.entry.DisplayPath(),
		humanize.Bytes(uint64(i.entry.SizeOrZero())),
		humanize.Time(i.entry.DeletedAt),
	)
}

func (i item) FilterValue() string {
	return i.entry.Name()
}
