package domain

import "time"

// Progress is the accumulated per-student progress record.
type Progress struct {
	ID                     string     `json:"id,omitempty"`
	StudentID              string     `json:"student_id"`
	CompletedTopics        []string   `json:"completed_topics"`
	ConceptsLearned        []string   `json:"concepts_learned"`
	AreasNeedingReview     []string   `json:"areas_needing_review"`
	LastEffectivenessScore float64    `json:"last_effectiveness_score"`
	LastStudyDate          *time.Time `json:"last_study_date,omitempty"`
	TotalStudySessions     int        `json:"total_study_sessions"`
	AverageEffectiveness   float64    `json:"average_effectiveness"`
	CreatedAt              time.Time  `json:"created_at,omitempty"`
	UpdatedAt              time.Time  `json:"updated_at,omitempty"`
}

// SessionStats aggregates a student's study sessions.
type SessionStats struct {
	Count               int     `json:"session_count"`
	AverageMood         float64 `json:"average_mood"`
	AverageProductivity float64 `json:"average_productivity"`
	TotalMinutes        int     `json:"total_minutes"`
}

// AssessmentStats aggregates a student's assessments.
type AssessmentStats struct {
	Count          int     `json:"assessment_count"`
	AveragePercent float64 `json:"average_score"`
}

// ProgressReport is the read model shown on dashboards.
type ProgressReport struct {
	StudentID              string     `json:"student_id"`
	CompletedTopics        []string   `json:"completed_topics"`
	ConceptsLearned        []string   `json:"concepts_learned"`
	AreasNeedingReview     []string   `json:"areas_needing_review"`
	TotalTopics            int        `json:"total_topics"`
	CompletedCount         int        `json:"completed_count"`
	ProgressPercent        float64    `json:"progress_percentage"`
	LastEffectivenessScore float64    `json:"last_effectiveness_score"`
	LastStudyDate          *time.Time `json:"last_study_date,omitempty"`
	TotalStudySessions     int        `json:"total_study_sessions"`
	AverageEffectiveness   float64    `json:"average_effectiveness"`
	AverageScore           float64    `json:"average_score"`
	AssessmentCount        int        `json:"assessment_count"`
	SessionCount           int        `json:"session_count"`
	AverageMood            float64    `json:"average_mood"`
	AverageProductivity    float64    `json:"average_productivity"`
	TotalStudyHours        float64    `json:"total_study_time_hours"`
	PathTopicCount         int        `json:"path_topic_count"`
}

// HistoricalData is what the progress stage reads before summarising.
type HistoricalData struct {
	HasHistory bool              `json:"has_history"`
	Progress   ProgressReport    `json:"progress"`
	Paths      []LearningPath    `json:"learning_paths"`
	Sessions   []StudySession    `json:"recent_sessions"`
	Insights   []AdaptiveInsight `json:"insights"`
}
