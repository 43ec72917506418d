// Package screen defines what the terminal dashboard's router stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learncoach/internal/ui/layout"
)

// Screen is one page of the terminal dashboard.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StudentProvider is implemented by screens that belong to one student,
// whose name the header then shows.
type StudentProvider interface {
	StudentName() string
}
