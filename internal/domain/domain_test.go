package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentIDFor(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Ada Lovelace", "student_ada_lovelace"},
		{"  grace   hopper ", "student_grace_hopper"},
		{"Linus", "student_linus"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StudentIDFor(tc.name))
		})
	}
}

func TestProfileDefaults(t *testing.T) {
	p := StudentProfile{StudentID: "s1"}
	assert.Equal(t, DefaultTopic, p.Topic())
	assert.Equal(t, DefaultSuccessThreshold, p.Threshold())
	assert.Equal(t, "s1", p.Student().Name)

	p.Success.SuccessThreshold = 82
	p.CurrentTopic = "Go"
	assert.Equal(t, 82.0, p.Threshold())
	assert.Equal(t, "Go", p.Topic())
}

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics("Rust")
	require.Len(t, topics, 3)
	assert.Equal(t, "Introduction to Rust", topics[0].Name)
	assert.Equal(t, "Rust Fundamentals", topics[1].Name)
	assert.Equal(t, "Practical Rust", topics[2].Name)
	assert.Equal(t, "4 hours", topics[2].EstimatedTime)

	assert.Equal(t, "Introduction to Programming", DefaultTopics("")[0].Name)
}

func TestValidate_Session(t *testing.T) {
	s := StudySession{Topic: "Go", DurationMinutes: 30, MoodRating: 6, ProductivityRating: 3}
	err := Validate(s)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "MoodRating")

	s.MoodRating = 5
	assert.NoError(t, Validate(s))
}

func TestValidate_Assessment(t *testing.T) {
	a := Assessment{Type: "quiz", Name: "Q1", MaxScore: 10, AchievedScore: 12}
	require.Error(t, Validate(a))

	a.AchievedScore = 8
	require.NoError(t, Validate(a))

	a.Type = "essay"
	require.Error(t, Validate(a))
}

func TestSessionWithDefaults(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	s := StudySession{Topic: "Go"}.WithDefaults(now)
	assert.Equal(t, 3, s.MoodRating)
	assert.Equal(t, 3, s.ProductivityRating)
	assert.Equal(t, now, s.SessionDate)
}

func TestScorePercentage(t *testing.T) {
	assert.InDelta(t, 80.0, ScorePercentage(8, 10), 1e-9)
	assert.Zero(t, ScorePercentage(5, 0))
}

func TestWeekStart(t *testing.T) {
	sun := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), WeekStart(sun))
	mon := time.Date(2024, 3, 4, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), WeekStart(mon))
}

func TestScheduleDays(t *testing.T) {
	s := Schedule{WeeklySchedule: map[string][]TimeSlot{
		"Friday": {{Time: "09:00"}},
		"Monday": {{Time: "10:00"}},
		"Sunday": nil,
	}}
	assert.Equal(t, []string{"Monday", "Friday"}, s.Days())
}
