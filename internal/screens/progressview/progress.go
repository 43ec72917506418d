// Package progressview shows a student's progress report.
package progressview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/screen"
	"github.com/abhisek/learncoach/internal/ui/components"
	"github.com/abhisek/learncoach/internal/ui/layout"
	"github.com/abhisek/learncoach/internal/ui/theme"
)

type ProgressScreen struct {
	snap *coach.Snapshot
}

var _ screen.Screen = (*ProgressScreen)(nil)

func New(snap *coach.Snapshot) *ProgressScreen {
	return &ProgressScreen{snap: snap}
}

func (s *ProgressScreen) Init() tea.Cmd { return nil }

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func (s *ProgressScreen) View(width, height int) string {
	r := s.snap.Report
	target := s.snap.Profile.Threshold()
	barWidth := width - 4
	if barWidth > 70 {
		barWidth = 70
	}

	bars := []string{
		components.FromPercent("Path progress", r.ProgressPercent, barWidth).View(),
		components.FromPercent("Avg effectiveness", r.AverageEffectiveness, barWidth).View(),
		components.FromPercent("Avg assessment", r.AverageScore, barWidth).Against(target).View(),
	}

	status := theme.Done.Render(fmt.Sprintf("Meeting your %.0f%% target", target))
	if r.AssessmentCount == 0 {
		status = theme.Hint.Render("No assessments recorded yet")
	} else if r.AverageScore < target {
		status = theme.Warning.Render(fmt.Sprintf("%.1f%% below your %.0f%% target", target-r.AverageScore, target))
	}

	last := "never"
	if r.LastStudyDate != nil {
		last = r.LastStudyDate.Format("2006-01-02")
	}
	facts := theme.Subtitle.Render(fmt.Sprintf(
		"%d sessions · %.1f hours · last studied %s · mood %.1f/5 · productivity %.1f/5",
		r.SessionCount, r.TotalStudyHours, last, r.AverageMood, r.AverageProductivity,
	))

	sections := []string{
		strings.Join(bars, "\n"),
		status,
		facts,
		theme.Section.Render("Completed topics"),
		layout.Bullets(r.CompletedTopics, "none yet"),
		theme.Section.Render("Concepts learned"),
		layout.Bullets(r.ConceptsLearned, "none yet"),
		theme.Section.Render("Needs review"),
		layout.Bullets(r.AreasNeedingReview, "nothing flagged"),
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(strings.Join(sections, "\n\n"))
}

func (s *ProgressScreen) Title() string { return "Progress" }

func (s *ProgressScreen) StudentName() string { return s.snap.Profile.Name }
