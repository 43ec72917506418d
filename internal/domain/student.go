package domain

import (
	"strings"
	"time"
)

// DefaultTopic is used when a profile names no current topic.
const DefaultTopic = "Programming"

// DefaultSuccessThreshold is the assessment average a student aims for
// unless they set their own.
const DefaultSuccessThreshold = 75.0

// Student is the persisted student record.
type Student struct {
	ID              string    `json:"student_id"`
	Name            string    `json:"student_name"`
	Email           string    `json:"email,omitempty"`
	ExperienceLevel string    `json:"experience_level"`
	CurrentTopic    string    `json:"current_topic"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LearningPreferences captures how a student likes to learn.
type LearningPreferences struct {
	LearningStyle        []string `json:"learning_style"`
	DifficultyPreference string   `json:"difficulty_preference"`
}

// HasStyle reports whether the given style is among the student's choices.
func (p LearningPreferences) HasStyle(style string) bool {
	for _, s := range p.LearningStyle {
		if s == style {
			return true
		}
	}
	return false
}

// TimePreferences marks the parts of the day a student can study in.
type TimePreferences struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
	Evening   bool `json:"evening"`
}

// SchedulePreferences captures when and how long a student studies.
type SchedulePreferences struct {
	AvailableDays    []string        `json:"available_days"`
	TimePreferences  TimePreferences `json:"time_preferences"`
	StudyDuration    float64         `json:"study_duration" validate:"gte=0,lte=12"`
	WeeklyHours      int             `json:"weekly_hours" validate:"gte=0,lte=80"`
	BreakFrequency   string          `json:"break_frequency"`
	BreakDuration    string          `json:"break_duration"`
	UnavailableTimes string          `json:"unavailable_times"`
	CustomHabits     string          `json:"custom_habits"`
}

// SuccessCriteria holds the student's own definition of doing well.
type SuccessCriteria struct {
	SuccessThreshold float64 `json:"success_threshold" validate:"gte=0,lte=100"`
}

// StudentProfile is everything the coach knows about a student when a
// pipeline run starts: the persisted record plus free-form intake data.
type StudentProfile struct {
	StudentID       string              `json:"student_id" validate:"required"`
	Name            string              `json:"student_name"`
	Email           string              `json:"email,omitempty" validate:"omitempty,email"`
	ExperienceLevel string              `json:"experience_level"`
	CurrentTopic    string              `json:"current_topic" validate:"required"`
	Goals           []string            `json:"goals,omitempty"`
	AvailableTime   string              `json:"available_time,omitempty"`
	Learning        LearningPreferences `json:"learning_preferences"`
	Schedule        SchedulePreferences `json:"schedule_preferences"`
	Success         SuccessCriteria     `json:"success_criteria"`
}

// Student returns the persisted part of the profile.
func (p StudentProfile) Student() Student {
	name := p.Name
	if name == "" {
		name = p.StudentID
	}
	return Student{
		ID:              p.StudentID,
		Name:            name,
		Email:           p.Email,
		ExperienceLevel: p.ExperienceLevel,
		CurrentTopic:    p.CurrentTopic,
	}
}

// Topic returns the current topic, or DefaultTopic when unset.
func (p StudentProfile) Topic() string {
	if t := strings.TrimSpace(p.CurrentTopic); t != "" {
		return t
	}
	return DefaultTopic
}

// Threshold returns the success threshold, or DefaultSuccessThreshold when unset.
func (p StudentProfile) Threshold() float64 {
	if p.Success.SuccessThreshold > 0 {
		return p.Success.SuccessThreshold
	}
	return DefaultSuccessThreshold
}

// StudentIDFor derives a student id from a display name, e.g.
// "Ada Lovelace" -> "student_ada_lovelace".
func StudentIDFor(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return "student_" + strings.Join(fields, "_")
}
