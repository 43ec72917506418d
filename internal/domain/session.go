package domain

import "time"

// StudySession is one logged block of study.
type StudySession struct {
	ID                 string    `json:"id,omitempty"`
	StudentID          string    `json:"student_id,omitempty"`
	Topic              string    `json:"topic" validate:"required"`
	SessionDate        time.Time `json:"session_date"`
	DurationMinutes    int       `json:"duration_minutes" validate:"gte=1,lte=1440"`
	Activities         []string  `json:"activities,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	MoodRating         int       `json:"mood_rating" validate:"gte=1,lte=5"`
	ProductivityRating int       `json:"productivity_rating" validate:"gte=1,lte=5"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
}

// WithDefaults fills a neutral 3/5 for unset ratings and today's date.
func (s StudySession) WithDefaults(now time.Time) StudySession {
	if s.MoodRating == 0 {
		s.MoodRating = 3
	}
	if s.ProductivityRating == 0 {
		s.ProductivityRating = 3
	}
	if s.SessionDate.IsZero() {
		s.SessionDate = now
	}
	return s
}

// Assessment is a scored quiz, project, exercise or test.
type Assessment struct {
	ID               string    `json:"id,omitempty"`
	StudentID        string    `json:"student_id,omitempty"`
	Topic            string    `json:"topic"`
	Type             string    `json:"assessment_type" validate:"required,oneof=quiz project exercise test"`
	Name             string    `json:"assessment_name" validate:"required"`
	MaxScore         float64   `json:"max_score" validate:"gt=0"`
	AchievedScore    float64   `json:"achieved_score" validate:"gte=0,ltefield=MaxScore"`
	Percentage       float64   `json:"percentage"`
	TimeTakenMinutes int       `json:"time_taken_minutes,omitempty" validate:"gte=0"`
	Attempts         int       `json:"attempts" validate:"gte=0"`
	Feedback         string    `json:"feedback,omitempty"`
	Date             time.Time `json:"assessment_date"`
}

// ScorePercentage returns achieved/max as a percentage, 0 when max is not positive.
func ScorePercentage(achieved, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return achieved / max * 100
}
