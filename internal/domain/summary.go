package domain

import (
	"encoding/json"
	"time"
)

// SuccessThresholdStatus compares a student's average to their own target.
type SuccessThresholdStatus struct {
	CurrentThreshold  float64 `json:"current_threshold"`
	StudentSetting    float64 `json:"student_setting"`
	MeetingThreshold  bool    `json:"meeting_threshold"`
	ThresholdAnalysis string  `json:"threshold_analysis"`
}

// ProgressSummary is the output of the progress stage.
type ProgressSummary struct {
	AverageScore        float64                 `json:"average_score"`
	CompletedTopics     []string                `json:"completed_topics"`
	ImprovementAreas    []string                `json:"improvement_areas"`
	NextSteps           []string                `json:"next_steps"`
	TotalStudyTimeHours float64                 `json:"total_study_time_hours,omitempty"`
	LastStudyDate       string                  `json:"last_study_date,omitempty"`
	SuccessThreshold    *SuccessThresholdStatus `json:"success_threshold,omitempty"`
	AIInsights          []string                `json:"ai_insights,omitempty"`
	Error               string                  `json:"error,omitempty"`
}

// Recommendations is the adaptive agent's output.
type Recommendations struct {
	Adjustments []string `json:"adjustments"`
	NextTopics  []string `json:"next_topics"`
	Strategy    string   `json:"learning_strategy"`
}

// AdaptiveAnalysis is the output of the adaptive stage.
type AdaptiveAnalysis struct {
	Recommendations       []string        `json:"recommendations"`
	DifficultyAdjustments []string        `json:"difficulty_adjustments"`
	FocusAreas            []string        `json:"focus_areas"`
	Agent                 Recommendations `json:"agent_recommendations"`
	Error                 string          `json:"error,omitempty"`
}

// Insight types stored in adaptive_insights.
const (
	InsightRecommendation = "recommendation"
)

// AdaptiveInsight is a persisted recommendation.
type AdaptiveInsight struct {
	ID                 string          `json:"id"`
	StudentID          string          `json:"student_id"`
	Type               string          `json:"insight_type"`
	Data               json.RawMessage `json:"insight_data"`
	EffectivenessScore float64         `json:"effectiveness_score"`
	Implemented        bool            `json:"implemented"`
	CreatedAt          time.Time       `json:"created_at"`
}
