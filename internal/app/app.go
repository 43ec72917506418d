// Package app is the terminal progress dashboard.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncoach/internal/router"
	"github.com/abhisek/learncoach/internal/screen"
	"github.com/abhisek/learncoach/internal/screens/home"
	"github.com/abhisek/learncoach/internal/screens/lookup"
	"github.com/abhisek/learncoach/internal/ui/layout"
)

// Options configure the dashboard.
type Options struct {
	// Load fetches a student snapshot.
	Load lookup.Loader
	// StudentID opens that student directly; empty starts at the lookup.
	StudentID string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(initial screen.Screen) AppModel {
	return AppModel{router: router.New(initial)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "home":
			return m, func() tea.Msg { return router.HomeMsg{} }
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var student string
	if sp, ok := active.(screen.StudentProvider); ok {
		student = sp.StudentName()
	}
	header := layout.RenderHeader(m.router.Trail(), student, m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) hints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		return hp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Home", Description: "Start"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

// Run starts the dashboard. With a student id the snapshot is loaded up
// front so a bad id fails before the screen is taken over.
func Run(ctx context.Context, opts Options) error {
	if opts.Load == nil {
		return fmt.Errorf("dashboard needs a snapshot loader")
	}

	var initial screen.Screen = lookup.New(opts.Load)
	if opts.StudentID != "" {
		snap, err := opts.Load(ctx, opts.StudentID)
		if err != nil {
			return fmt.Errorf("load student %s: %w", opts.StudentID, err)
		}
		initial = home.New(snap)
	}

	p := tea.NewProgram(newAppModel(initial), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
