package ui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmPromptStyle = lipgloss.NewStyle().Bold(true)
	confirmHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// confirmModel is a single-keypress yes/no prompt. Anything other than y
// counts as no.
type confirmModel struct {
	prompt   string
	accepted bool
	done     bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch strings.ToLower(msg.String()) {
		case "y":
			m.accepted = true
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		answer := "n"
		if m.accepted {
			answer = "y"
		}
		return confirmPromptStyle.Render(m.prompt) + " " + answer + "\n"
	}
	return confirmPromptStyle.Render(m.prompt) + " " + confirmHintStyle.Render("[y/N]") + " "
}

// Confirm asks the user a yes/no question. Any key other than y answers no.
// The error is non-nil when the prompt itself failed, for instance on a
// closed stdin.
func Confirm(prompt string) (bool, error) {
	result, err := tea.NewProgram(confirmModel{prompt: prompt}).Run()
	if err != nil {
		slog.Error("confirm failed", "error", err)
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	m, ok := result.(confirmModel)
	return ok && m.accepted, nil
}
