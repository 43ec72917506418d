// Package pathview shows the active learning path and weekly plan.
package pathview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/screen"
	"github.com/abhisek/learncoach/internal/ui/theme"
)

type PathScreen struct {
	snap *coach.Snapshot
}

var _ screen.Screen = (*PathScreen)(nil)

func New(snap *coach.Snapshot) *PathScreen {
	return &PathScreen{snap: snap}
}

func (s *PathScreen) Init() tea.Cmd { return nil }

func (s *PathScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func (s *PathScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(s.render())
}

func (s *PathScreen) render() string {
	path := s.snap.Path
	if path == nil || len(path.Topics) == 0 {
		return theme.Hint.Render("No learning path yet. Run `coach run --student " + s.snap.Profile.StudentID + "` to create one.")
	}

	done := make(map[string]bool, len(s.snap.Report.CompletedTopics))
	for _, t := range s.snap.Report.CompletedTopics {
		done[strings.ToLower(t)] = true
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(path.Topic) + "  " + theme.Subtitle.Render("stage: "+path.CurrentStage) + "\n\n")
	for i, t := range path.Topics {
		mark := theme.Hint.Render("○")
		name := theme.Body.Render(t.Name)
		if done[strings.ToLower(t.Name)] {
			mark = theme.Done.Render("✓")
			name = theme.Done.Render(t.Name)
		}
		fmt.Fprintf(&b, "%s %d. %s  %s\n", mark, i+1, name, theme.Subtitle.Render(t.EstimatedTime))
		if t.Description != "" {
			b.WriteString("     " + theme.Hint.Render(t.Description) + "\n")
		}
	}

	if sch := s.snap.Schedule; sch != nil && len(sch.Schedule.WeeklySessions) > 0 {
		b.WriteString("\n" + theme.Section.Render(fmt.Sprintf("This week (%d h)", sch.Schedule.TotalWeeklyHours)) + "\n")
		for _, blk := range sch.Schedule.WeeklySessions {
			fmt.Fprintf(&b, "  %-9s %-6s %s\n", blk.Day, blk.Time, blk.Activity)
		}
	}
	return b.String()
}

func (s *PathScreen) Title() string { return "Learning Path" }

func (s *PathScreen) StudentName() string { return s.snap.Profile.Name }
