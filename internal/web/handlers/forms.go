package handlers

import (
	"strings"

	"github.com/abhisek/learncoach/internal/domain"
)

// StudentForm is the new-student intake form.
type StudentForm struct {
	Name             string   `form:"name" binding:"required"`
	ID               string   `form:"student_id"`
	Email            string   `form:"email"`
	Experience       string   `form:"experience_level"`
	Topic            string   `form:"current_topic"`
	Goals            string   `form:"goals"`
	AvailableTime    string   `form:"available_time"`
	LearningStyle    []string `form:"learning_style"`
	Difficulty       string   `form:"difficulty"`
	AvailableDays    []string `form:"available_days"`
	Morning          bool     `form:"morning"`
	Afternoon        bool     `form:"afternoon"`
	Evening          bool     `form:"evening"`
	StudyDuration    float64  `form:"study_duration" binding:"gte=0,lte=12"`
	WeeklyHours      int      `form:"weekly_hours" binding:"gte=0,lte=80"`
	BreakFrequency   string   `form:"break_frequency"`
	BreakDuration    string   `form:"break_duration"`
	UnavailableTimes string   `form:"unavailable_times"`
	CustomHabits     string   `form:"custom_habits"`
	SuccessThreshold float64  `form:"success_threshold" binding:"gte=0,lte=100"`
}

// Profile converts the form to a profile. The id is derived from the
// name when left blank.
func (f StudentForm) Profile() domain.StudentProfile {
	name := strings.TrimSpace(f.Name)
	id := strings.TrimSpace(f.ID)
	if id == "" {
		id = domain.StudentIDFor(name)
	}
	topic := strings.TrimSpace(f.Topic)
	if topic == "" {
		topic = domain.DefaultTopic
	}
	return domain.StudentProfile{
		StudentID:       id,
		Name:            name,
		Email:           strings.TrimSpace(f.Email),
		ExperienceLevel: f.Experience,
		CurrentTopic:    topic,
		Goals:           lines(f.Goals),
		AvailableTime:   f.AvailableTime,
		Learning: domain.LearningPreferences{
			LearningStyle:        f.LearningStyle,
			DifficultyPreference: f.Difficulty,
		},
		Schedule: domain.SchedulePreferences{
			AvailableDays: f.AvailableDays,
			TimePreferences: domain.TimePreferences{
				Morning:   f.Morning,
				Afternoon: f.Afternoon,
				Evening:   f.Evening,
			},
			StudyDuration:    f.StudyDuration,
			WeeklyHours:      f.WeeklyHours,
			BreakFrequency:   f.BreakFrequency,
			BreakDuration:    f.BreakDuration,
			UnavailableTimes: f.UnavailableTimes,
			CustomHabits:     f.CustomHabits,
		},
		Success: domain.SuccessCriteria{SuccessThreshold: f.SuccessThreshold},
	}
}

// SessionForm logs one study session.
type SessionForm struct {
	Topic              string `form:"topic"`
	DurationMinutes    int    `form:"duration_minutes"`
	Activities         string `form:"activities"`
	Notes              string `form:"notes"`
	MoodRating         int    `form:"mood_rating"`
	ProductivityRating int    `form:"productivity_rating"`
}

func (f SessionForm) Session() domain.StudySession {
	return domain.StudySession{
		Topic:              strings.TrimSpace(f.Topic),
		DurationMinutes:    f.DurationMinutes,
		Activities:         lines(f.Activities),
		Notes:              f.Notes,
		MoodRating:         f.MoodRating,
		ProductivityRating: f.ProductivityRating,
	}
}

// AssessmentForm records a graded assessment.
type AssessmentForm struct {
	Topic            string  `form:"topic"`
	Type             string  `form:"assessment_type"`
	Name             string  `form:"assessment_name"`
	MaxScore         float64 `form:"max_score"`
	AchievedScore    float64 `form:"achieved_score"`
	TimeTakenMinutes int     `form:"time_taken_minutes"`
	Attempts         int     `form:"attempts"`
	Feedback         string  `form:"feedback"`
}

func (f AssessmentForm) Assessment() domain.Assessment {
	attempts := f.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	return domain.Assessment{
		Topic:            strings.TrimSpace(f.Topic),
		Type:             f.Type,
		Name:             strings.TrimSpace(f.Name),
		MaxScore:         f.MaxScore,
		AchievedScore:    f.AchievedScore,
		TimeTakenMinutes: f.TimeTakenMinutes,
		Attempts:         attempts,
		Feedback:         f.Feedback,
	}
}

// CompleteTopicRequest marks a path topic as done.
type CompleteTopicRequest struct {
	Topic string `form:"topic" json:"topic" binding:"required"`
}

// lines splits newline-separated text, dropping blank lines.
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
