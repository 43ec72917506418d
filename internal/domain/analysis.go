package domain

import "time"

// Duration appropriateness values reported by a session analysis.
const (
	DurationTooShort = "too_short"
	DurationOptimal  = "optimal"
	DurationTooLong  = "too_long"
)

// TopicAlignment says how well a session fit the learning path.
type TopicAlignment struct {
	MatchesLearningPath    bool     `json:"matches_learning_path"`
	RelevantTopicsCovered  []string `json:"relevant_topics_covered"`
	ProgressOnCurrentStage string   `json:"progress_on_current_stage"`
	AlignmentScore         float64  `json:"alignment_score"`
}

// ScheduleAnalysis says how well a session fit the student's schedule.
type ScheduleAnalysis struct {
	FollowsPreferredSchedule bool   `json:"follows_preferred_schedule"`
	OptimalTimeSlot          bool   `json:"optimal_time_slot"`
	DurationAppropriateness  string `json:"duration_appropriateness"`
	ConsistencyWithHabits    string `json:"consistency_with_habits"`
}

// LearningEffectiveness rates the session itself.
type LearningEffectiveness struct {
	ProductivityAssessment  string   `json:"productivity_assessment"`
	MoodImpact              string   `json:"mood_impact"`
	ComprehensionIndicators []string `json:"comprehension_indicators"`
	EffectivenessScore      float64  `json:"effectiveness_score"`
}

// ProgressUpdate is the part of an analysis that feeds reconciliation.
type ProgressUpdate struct {
	TopicsToMarkCompleted []string `json:"topics_to_mark_completed"`
	NewConceptsLearned    []string `json:"new_concepts_learned"`
	SkillImprovements     []string `json:"skill_improvements"`
	AreasNeedingReview    []string `json:"areas_needing_review"`
}

// SessionRecommendations are next steps suggested after a session.
type SessionRecommendations struct {
	ImmediateNextSteps     []string `json:"immediate_next_steps"`
	ScheduleAdjustments    []string `json:"schedule_adjustments"`
	StudyMethodSuggestions []string `json:"study_method_suggestions"`
	FocusAreasNextSession  []string `json:"focus_areas_next_session"`
}

// SessionInsights are qualitative observations.
type SessionInsights struct {
	PatternsObserved      []string `json:"patterns_observed"`
	StrengthsDemonstrated []string `json:"strengths_demonstrated"`
	ChallengesIdentified  []string `json:"challenges_identified"`
	MotivationIndicators  []string `json:"motivation_indicators"`
}

// SessionAnalysis is the model's assessment of one study session.
type SessionAnalysis struct {
	TopicAlignment        TopicAlignment         `json:"topic_alignment"`
	ScheduleAnalysis      ScheduleAnalysis       `json:"schedule_analysis"`
	LearningEffectiveness LearningEffectiveness  `json:"learning_effectiveness"`
	ProgressUpdate        ProgressUpdate         `json:"progress_update"`
	Recommendations       SessionRecommendations `json:"recommendations"`
	Insights              SessionInsights        `json:"insights"`

	AnalysisTimestamp time.Time     `json:"analysis_timestamp"`
	Session           *StudySession `json:"session_data,omitempty"`
	RawAnalysis       string        `json:"raw_analysis,omitempty"`
	Error             string        `json:"error,omitempty"`
}

// EffectivenessScore is a shorthand for the learning effectiveness score.
func (a SessionAnalysis) EffectivenessScore() float64 {
	return a.LearningEffectiveness.EffectivenessScore
}

// StoredAnalysis is a persisted session analysis.
type StoredAnalysis struct {
	ID                  string          `json:"id"`
	StudentID           string          `json:"student_id"`
	SessionID           string          `json:"session_id"`
	Analysis            SessionAnalysis `json:"analysis_data"`
	TopicAlignmentScore float64         `json:"topic_alignment_score"`
	EffectivenessScore  float64         `json:"effectiveness_score"`
	CreatedAt           time.Time       `json:"created_at"`
}
