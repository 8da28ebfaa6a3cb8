package tui

import (
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptCancelled is returned when the operator aborts a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// PasswordModel asks for a secret with masked echo.
type PasswordModel struct {
	label     string
	input     textinput.Model
	submitted bool
	cancelled bool
}

// NewPasswordModel returns a focused, masked input labelled with label.
func NewPasswordModel(label string) PasswordModel {
	ti := textinput.New()
	ti.Placeholder = "password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Prompt = "> "
	ti.Focus()
	return PasswordModel{label: label, input: ti}
}

// Init satisfies the tea.Model interface.
func (m PasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update satisfies the tea.Model interface.
func (m PasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			if m.input.Value() == "" {
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View satisfies the tea.Model interface.
func (m PasswordModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	return HeaderStyle.Render(m.label) + "\n" + m.input.View() + "\n" + FaintStyle.Render("enter to submit, esc to cancel") + "\n"
}

// Value returns the entered secret once submitted.
func (m PasswordModel) Value() (string, error) {
	if !m.submitted {
		return "", ErrPromptCancelled
	}
	return m.input.Value(), nil
}

// PromptPassword runs a PasswordModel on the given streams.
func PromptPassword(in io.Reader, out io.Writer, label string) (string, error) {
	p := tea.NewProgram(NewPasswordModel(label), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(PasswordModel).Value()
}
