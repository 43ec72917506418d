// Package home is the dashboard's main menu for one student.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/router"
	"github.com/abhisek/learncoach/internal/screen"
	"github.com/abhisek/learncoach/internal/screens/insights"
	"github.com/abhisek/learncoach/internal/screens/pathview"
	"github.com/abhisek/learncoach/internal/screens/progressview"
	"github.com/abhisek/learncoach/internal/ui/components"
	"github.com/abhisek/learncoach/internal/ui/layout"
	"github.com/abhisek/learncoach/internal/ui/theme"
)

// Menu labels in display order.
var Labels = []string{"Progress", "Learning Path", "Insights", "Quit"}

// HomeScreen shows headline numbers and the section menu.
type HomeScreen struct {
	snap *coach.Snapshot
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(snap *coach.Snapshot) *HomeScreen {
	push := func(s screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}
	items := []components.MenuItem{
		{Label: Labels[0], Shortcut: "p", Action: push(progressview.New(snap))},
		{Label: Labels[1], Shortcut: "l", Action: push(pathview.New(snap))},
		{Label: Labels[2], Shortcut: "i", Action: push(insights.New(snap)), Disabled: len(snap.Insights) == 0},
		{Label: Labels[3], Shortcut: "q", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{snap: snap, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	p := h.snap.Profile
	r := h.snap.Report

	greeting := theme.Title.Render(fmt.Sprintf("Hi %s!", p.Name))
	sub := theme.Subtitle.Render(fmt.Sprintf("%s · %s", p.Topic(), p.ExperienceLevel))

	stats := []string{
		fmt.Sprintf("%d/%d topics", r.CompletedCount, r.TotalTopics),
		fmt.Sprintf("%d sessions", r.SessionCount),
		fmt.Sprintf("%.1f h studied", r.TotalStudyHours),
		fmt.Sprintf("effectiveness %.0f", r.AverageEffectiveness),
	}
	statsBox := theme.Card.Render(theme.Body.Render(strings.Join(stats, "   ")))

	bar := components.FromPercent("Path progress", r.ProgressPercent, lipgloss.Width(statsBox))

	content := strings.Join([]string{greeting, sub, "", statsBox, bar.View(), "", h.menu.View()}, "\n")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) StudentName() string {
	return h.snap.Profile.Name
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "p/l/i", Description: "Jump"},
		{Key: "q", Description: "Quit"},
	}
}
