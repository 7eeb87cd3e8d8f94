package ui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stackvity/tree-sweep/pkg/sweep"
)

// ConfirmModel asks a yes/no question. The answer is typed and confirmed
// with Enter; Esc and Ctrl+C answer no.
type ConfirmModel struct {
	question  string
	styles    Styles
	input     []rune
	answered  bool
	confirmed bool
}

// NewConfirmModel creates a prompt for question.
func NewConfirmModel(question string, styles Styles) *ConfirmModel {
	return &ConfirmModel{question: question, styles: styles}
}

// Init implements tea.Model.
func (m *ConfirmModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.answered {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.answered = true
		m.confirmed = sweep.ParseConfirmation(string(m.input))
		return m, tea.Quit
	case tea.KeyCtrlC, tea.KeyEsc:
		m.answered = true
		m.confirmed = false
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input = append(m.input, key.Runes...)
	}
	return m, nil
}

// View implements tea.Model.
func (m *ConfirmModel) View() string {
	view := m.styles.Prompt.Render(m.question) + string(m.input)
	if m.answered {
		return view + "\n"
	}
	return view
}

// Answered reports whether the user gave an answer.
func (m *ConfirmModel) Answered() bool { return m.answered }

// Confirmed reports whether the answer was affirmative.
func (m *ConfirmModel) Confirmed() bool { return m.confirmed }

// Confirm runs a ConfirmModel on in and out and returns the answer.
func Confirm(question string, in io.Reader, out io.Writer) (bool, error) {
	model := NewConfirmModel(question, DefaultStyles())
	final, err := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return false, fmt.Errorf("running confirmation prompt: %w", err)
	}
	m, ok := final.(*ConfirmModel)
	return ok && m.Confirmed(), nil
}
