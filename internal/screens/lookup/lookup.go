// Package lookup asks for a student id and opens that student's home
// screen.
package lookup

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/router"
	"github.com/abhisek/learncoach/internal/screen"
	"github.com/abhisek/learncoach/internal/screens/home"
	"github.com/abhisek/learncoach/internal/store"
	"github.com/abhisek/learncoach/internal/ui/components"
	"github.com/abhisek/learncoach/internal/ui/layout"
	"github.com/abhisek/learncoach/internal/ui/theme"
)

// Loader fetches a student's snapshot.
type Loader func(ctx context.Context, id string) (*coach.Snapshot, error)

// LoadedMsg carries the result of a lookup.
type LoadedMsg struct {
	ID       string
	Snapshot *coach.Snapshot
	Err      error
}

type LookupScreen struct {
	input   components.TextInput
	load    Loader
	loading bool
}

var _ screen.Screen = (*LookupScreen)(nil)

func New(load Loader) *LookupScreen {
	return &LookupScreen{
		input: components.NewTextInput("Student ID", "student_ada_lovelace", 64),
		load:  load,
	}
}

func (s *LookupScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *LookupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		s.loading = false
		if msg.Err != nil {
			if errors.Is(msg.Err, store.ErrNotFound) {
				s.input.SetError(fmt.Sprintf("No student with id %q", msg.ID))
			} else {
				s.input.SetError(msg.Err.Error())
			}
			return s, nil
		}
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: home.New(msg.Snapshot)} }

	case tea.KeyMsg:
		if msg.String() == "enter" {
			if s.loading {
				return s, nil
			}
			id := s.input.Value()
			if id == "" {
				s.input.SetError("Enter a student id")
				return s, nil
			}
			s.loading = true
			return s, s.fetch(id)
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LookupScreen) fetch(id string) tea.Cmd {
	load := s.load
	return func() tea.Msg {
		snap, err := load(context.Background(), id)
		return LoadedMsg{ID: id, Snapshot: snap, Err: err}
	}
}

func (s *LookupScreen) View(width, height int) string {
	body := theme.Title.Render("Open a student dashboard") + "\n\n" + s.input.View()
	if s.loading {
		body += "\n\n" + theme.Hint.Render("Loading...")
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(body)
}

func (s *LookupScreen) Title() string { return "Find Student" }

func (s *LookupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
