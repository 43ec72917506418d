package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
)

var idCounter atomic.Int64

// UniqueStudentID returns a student id not used by any other fixture.
func UniqueStudentID() string {
	return fmt.Sprintf("student_%d", idCounter.Add(1))
}

// SampleProfile returns a fully populated profile for a Python beginner.
func SampleProfile(id string) domain.StudentProfile {
	return domain.StudentProfile{
		StudentID:       id,
		Name:            "Sample Student",
		ExperienceLevel: "beginner",
		CurrentTopic:    "Python",
		Goals:           []string{"Learn programming basics", "Build projects"},
		AvailableTime:   "10 hours per week",
		Learning: domain.LearningPreferences{
			LearningStyle:        []string{"Hands-on practice", "Video tutorials"},
			DifficultyPreference: "medium",
		},
		Schedule: domain.SchedulePreferences{
			AvailableDays:   []string{"Monday", "Wednesday"},
			TimePreferences: domain.TimePreferences{Morning: true, Afternoon: true},
			StudyDuration:   2,
			WeeklyHours:     8,
			BreakFrequency:  "Every hour",
			BreakDuration:   "10 minutes",
		},
		Success: domain.SuccessCriteria{SuccessThreshold: 75},
	}
}

// PythonPath returns a three-topic path for the student.
func PythonPath(studentID string) domain.LearningPath {
	return domain.LearningPath{
		StudentID:    studentID,
		Topic:        "Python",
		Topics:       domain.DefaultTopics("Python"),
		CurrentStage: "Getting Started",
	}
}

// JSON marshals v into a canned mock reply, panicking on failure.
func JSON(v any) llm.MockResponse {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return llm.MockResponse{Content: b, Usage: llm.Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30}}
}

// Failure returns a canned mock reply that fails with a provider error.
func Failure() llm.MockResponse {
	return llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}
}
