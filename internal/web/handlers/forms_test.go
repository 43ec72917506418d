package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/learncoach/internal/domain"
)

func TestStudentForm_Profile(t *testing.T) {
	f := StudentForm{
		Name:          "  Ada Lovelace ",
		Goals:         "Build an app\n\n  Learn tests  \n",
		AvailableDays: []string{"Monday"},
		Morning:       true,
		WeeklyHours:   5,
	}
	p := f.Profile()
	assert.Equal(t, "student_ada_lovelace", p.StudentID)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, domain.DefaultTopic, p.CurrentTopic)
	assert.Equal(t, []string{"Build an app", "Learn tests"}, p.Goals)
	assert.True(t, p.Schedule.TimePreferences.Morning)
	assert.Equal(t, 5, p.Schedule.WeeklyHours)

	f.ID = "custom"
	f.Topic = "Go"
	p = f.Profile()
	assert.Equal(t, "custom", p.StudentID)
	assert.Equal(t, "Go", p.CurrentTopic)
}

func TestAssessmentForm_DefaultsAttempts(t *testing.T) {
	a := AssessmentForm{Type: "quiz", Name: " Loops ", MaxScore: 10, AchievedScore: 7}.Assessment()
	assert.Equal(t, 1, a.Attempts)
	assert.Equal(t, "Loops", a.Name)
}

func TestSessionForm_Session(t *testing.T) {
	s := SessionForm{Topic: " Python ", Activities: "loops\n\nfunctions", DurationMinutes: 30}.Session()
	assert.Equal(t, "Python", s.Topic)
	assert.Equal(t, []string{"loops", "functions"}, s.Activities)
	assert.Zero(t, s.MoodRating)
}

func TestMarkTopics(t *testing.T) {
	path := &domain.LearningPath{Topics: domain.DefaultTopics("Go")}
	got := markTopics(path, []string{"go fundamentals"})
	assert.Len(t, got, 3)
	assert.False(t, got[0].Completed)
	assert.True(t, got[1].Completed)
	assert.Nil(t, markTopics(nil, nil))
}

func TestStudentURL(t *testing.T) {
	assert.Equal(t, "/students/s1", studentURL("s1", "", ""))
	assert.Equal(t, "/students/s1?error=bad&flash=ok", studentURL("s1", "ok", "bad"))
}
