// Package insights pages through a student's adaptive insights.
package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/screen"
	"github.com/abhisek/learncoach/internal/ui/layout"
	"github.com/abhisek/learncoach/internal/ui/theme"
)

type InsightsScreen struct {
	snap     *coach.Snapshot
	selected int
}

var _ screen.Screen = (*InsightsScreen)(nil)

func New(snap *coach.Snapshot) *InsightsScreen {
	return &InsightsScreen{snap: snap}
}

func (s *InsightsScreen) Init() tea.Cmd { return nil }

// Update moves between insights with left/right (or h/l).
func (s *InsightsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch k.String() {
	case "left", "h":
		if s.selected > 0 {
			s.selected--
		}
	case "right", "l":
		if s.selected < len(s.snap.Insights)-1 {
			s.selected++
		}
	}
	return s, nil
}

func (s *InsightsScreen) Selected() int { return s.selected }

func (s *InsightsScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(s.render())
}

func (s *InsightsScreen) render() string {
	if len(s.snap.Insights) == 0 {
		return theme.Hint.Render("No insights yet.")
	}
	in := s.snap.Insights[s.selected]

	var a domain.AdaptiveAnalysis
	if err := json.Unmarshal(in.Data, &a); err != nil {
		return theme.Warning.Render("Unreadable insight: " + err.Error())
	}

	header := theme.Title.Render(fmt.Sprintf("Insight %d of %d", s.selected+1, len(s.snap.Insights))) +
		"  " + theme.Subtitle.Render(fmt.Sprintf("%s · average score %.1f%%", in.CreatedAt.Format("2006-01-02 15:04"), in.EffectivenessScore))

	sections := []string{header}
	if a.Agent.Strategy != "" {
		sections = append(sections, theme.Body.Render(a.Agent.Strategy))
	}
	sections = append(sections,
		theme.Section.Render("Recommendations"),
		layout.Bullets(a.Recommendations, "none"),
		theme.Section.Render("Adjustments"),
		layout.Bullets(append(append([]string{}, a.Agent.Adjustments...), a.DifficultyAdjustments...), "none"),
		theme.Section.Render("Next topics"),
		layout.Bullets(a.Agent.NextTopics, "none suggested"),
	)
	if len(a.FocusAreas) > 0 {
		sections = append(sections, theme.Section.Render("Focus areas"), layout.Bullets(a.FocusAreas, ""))
	}
	return strings.Join(sections, "\n\n")
}

func (s *InsightsScreen) Title() string { return "Insights" }

func (s *InsightsScreen) StudentName() string { return s.snap.Profile.Name }

func (s *InsightsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Newer/older"},
		{Key: "Esc", Description: "Back"},
	}
}
