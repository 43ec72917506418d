package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learncoach/internal/ui/theme"
)

// TextInput is a labelled bubbles text input with a one-line error slot
// that clears on the next key press.
type TextInput struct {
	Model textinput.Model
	Label string
	err   string
}

func NewTextInput(label, placeholder string, charLimit int) TextInput {
	m := textinput.New()
	m.Placeholder = placeholder
	m.CharLimit = charLimit
	m.Focus()
	return TextInput{Model: m, Label: label}
}

func (t TextInput) Init() tea.Cmd { return t.Model.Focus() }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		t.err = ""
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	lines := []string{theme.Section.Render(t.Label), t.Model.View()}
	if t.err != "" {
		lines = append(lines, theme.Warning.Render("! "+t.err))
	}
	return strings.Join(lines, "\n")
}

// Value is the input with surrounding spaces removed.
func (t TextInput) Value() string { return strings.TrimSpace(t.Model.Value()) }

func (t *TextInput) SetError(msg string) { t.err = msg }

func (t TextInput) Err() string { return t.err }
