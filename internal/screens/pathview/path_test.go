package pathview

import (
	"regexp"
	"strings"
	"testing"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/domain"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansiSeq.ReplaceAllString(s, "") }

func TestPathScreen_MarksCompletedTopics(t *testing.T) {
	snap := &coach.Snapshot{
		Profile: domain.StudentProfile{StudentID: "s1"},
		Path:    &domain.LearningPath{Topic: "Go", CurrentStage: "Getting Started", Topics: domain.DefaultTopics("Go")},
		Report:  domain.ProgressReport{CompletedTopics: []string{"introduction to go"}},
		Schedule: &domain.StoredSchedule{Schedule: domain.Schedule{
			TotalWeeklyHours: 4,
			WeeklySessions:   []domain.ScheduledBlock{{Day: "Monday", Time: "09:00", Activity: "Study Go"}},
		}},
	}
	view := plain(New(snap).render())

	if !strings.Contains(view, "✓ 1.") {
		t.Errorf("expected first topic marked done:\n%s", view)
	}
	if !strings.Contains(view, "○ 2.") {
		t.Errorf("expected second topic open:\n%s", view)
	}
	if !strings.Contains(view, "Study Go") {
		t.Error("expected weekly plan")
	}
}

func TestPathScreen_NoPath(t *testing.T) {
	view := plain(New(&coach.Snapshot{Profile: domain.StudentProfile{StudentID: "s1"}}).render())
	if !strings.Contains(view, "coach run --student s1") {
		t.Errorf("unexpected view: %s", view)
	}
}
