package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInputCanceled is returned when the user aborts a text prompt.
var ErrInputCanceled = errors.New("input is canceled")

type inputModel struct {
	input    textinput.Model
	original string
	value    string
	canceled bool
	errMsg   string
}

func newInputModel(prompt, original string) inputModel {
	input := textinput.New()
	input.Prompt = prompt + " "
	input.Placeholder = original
	input.Focus()
	return inputModel{input: input, original: original}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := m.input.Value()
			switch {
			case value == "":
				m.errMsg = "name must not be empty"
			case value == m.original:
				m.errMsg = "name must differ from the current one"
			default:
				m.value = value
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	view := m.input.View()
	if m.errMsg != "" {
		view += "\n" + confirmHintStyle.Render(m.errMsg)
	}
	return view + "\n"
}

// InputFilename prompts for a replacement file name when the restore
// destination is already occupied.
func InputFilename(current string) (string, error) {
	prompt := fmt.Sprintf("%q already exists, restore as:", current)
	result, err := tea.NewProgram(newInputModel(prompt, current)).Run()
	if err != nil {
		return "", err
	}
	m, ok := result.(inputModel)
	if !ok || m.canceled {
		return "", ErrInputCanceled
	}
	return m.value, nil
}
