package ui

import (
	"errors"

	"github.com/chamilad/trashbin/internal/config"
	"github.com/chamilad/trashbin/internal/trash"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 66
	defaultHeight = 26
)

// ErrPickerCanceled is returned when the user leaves the picker without
// confirming a selection.
var ErrPickerCanceled = errors.New("selection canceled")

type pickerKeyMap struct {
	Toggle key.Binding
	Enter  key.Binding
	Quit   key.Binding
}

func newPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("tab", " "),
			key.WithHelp("tab", "toggle selection"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "restore"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type pickerModel struct {
	list     list.Model
	keys     pickerKeyMap
	items    []*item
	choices  []*trash.Entry
	canceled bool
}

func newPickerModel(entries []*trash.Entry, cfg config.UI) pickerModel {
	items := make([]*item, len(entries))
	listItems := make([]list.Item, len(entries))
	for i, entry := range entries {
		items[i] = &item{entry: entry}
		listItems[i] = items[i]
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = cfg.Density != "compact"
	if cursor := cfg.Style.ListView.Cursor; cursor != "" {
		delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
			Foreground(lipgloss.Color(cursor)).
			BorderLeftForeground(lipgloss.Color(cursor))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle.
			Foreground(lipgloss.Color(cursor))
	}

	l := list.New(listItems, delegate, defaultWidth, defaultHeight)
	l.Title = "Select files to restore"
	l.SetShowStatusBar(false)
	if cfg.Paginator == "arabic" {
		l.Paginator.Type = paginator.Arabic
	}

	return pickerModel{
		list:  l,
		keys:  newPickerKeyMap(),
		items: items,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Toggle):
			if it, ok := m.list.SelectedItem().(*item); ok {
				it.selected = !it.selected
			}
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			for _, it := range m.items {
				if it.selected {
					m.choices = append(m.choices, it.entry)
				}
			}
			// Bare enter restores the item under the cursor.
			if len(m.choices) == 0 {
				if it, ok := m.list.SelectedItem().(*item); ok {
					m.choices = append(m.choices, it.entry)
				}
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Quit):
			m.canceled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.list.View()
}

// RenderList shows an interactive picker over the given entries and returns
// the ones the user chose to restore.
func RenderList(entries []*trash.Entry, cfg config.UI) ([]*trash.Entry, error) {
	m := newPickerModel(entries, cfg)
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}

	final, ok := result.(pickerModel)
	if !ok {
		return nil, errors.New("unexpected picker model type")
	}
	if final.canceled || len(final.choices) == 0 {
		return nil, ErrPickerCanceled
	}
	return final.choices, nil
}
