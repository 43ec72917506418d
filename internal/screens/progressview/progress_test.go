package progressview

import (
	"strings"
	"testing"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/domain"
)

func TestProgressScreen_Threshold(t *testing.T) {
	tests := []struct {
		name  string
		r     domain.ProgressReport
		match string
	}{
		{"no assessments", domain.ProgressReport{}, "No assessments recorded yet"},
		{"below", domain.ProgressReport{AssessmentCount: 2, AverageScore: 60}, "15.0% below your 75% target"},
		{"meeting", domain.ProgressReport{AssessmentCount: 1, AverageScore: 90}, "Meeting your 75% target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&coach.Snapshot{Report: tt.r})
			if view := s.View(100, 40); !strings.Contains(view, tt.match) {
				t.Errorf("view missing %q:\n%s", tt.match, view)
			}
		})
	}
}

func TestProgressScreen_Lists(t *testing.T) {
	s := New(&coach.Snapshot{Report: domain.ProgressReport{
		CompletedTopics:    []string{"Python Basics"},
		AreasNeedingReview: []string{"recursion"},
	}})
	view := s.View(100, 40)
	for _, want := range []string{"Python Basics", "recursion", "Concepts learned", "none yet"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
