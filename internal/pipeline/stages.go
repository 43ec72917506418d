package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/learncoach/internal/agents"
	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/schedule"
)

// CurrentThreshold is the fixed reference threshold reported next to the
// student's own setting.
const CurrentThreshold = 70.0

// engagedHours is the study time above which engagement is called
// consistent.
const engagedHours = 5.0

const stageErrorLabel = "Error"

func (p *Pipeline) learningPath(ctx context.Context, st *State) error {
	profile := st.Student
	persist := profile.StudentID != ""
	if persist {
		if err := p.coach.SaveStudent(ctx, profile); err != nil {
			return fmt.Errorf("save student: %w", err)
		}
	}

	path := p.agents.Path.Generate(ctx, profile)
	if persist {
		saved, err := p.coach.SaveGeneratedPath(ctx, profile.StudentID, path, profile.CurrentTopic)
		if err != nil {
			return fmt.Errorf("save learning path: %w", err)
		}
		path = *saved
	}
	st.LearningPath = path
	return nil
}

func learningPathFallback(st *State) {
	st.LearningPath = domain.LearningPath{Topics: []domain.Topic{}, CurrentStage: stageErrorLabel, Progress: 0}
}

func (p *Pipeline) progressSummary(ctx context.Context, st *State) error {
	profile := st.Student
	if profile.StudentID != "" {
		hist, err := p.coach.HistoricalData(ctx, profile.StudentID)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if hist.HasHistory {
			st.ProgressSummary = EnhancedSummary(hist.Progress, profile)
			return nil
		}
	}
	st.ProgressSummary = p.agents.Progress.Summarize(ctx, profile, &st.LearningPath)
	return nil
}

func progressSummaryFallback(st *State) {
	st.ProgressSummary = domain.ProgressSummary{Error: "Failed to get progress summary"}
}

// EnhancedSummary builds the progress summary of a student with history
// from the stored report, without calling the model.
func EnhancedSummary(r domain.ProgressReport, profile domain.StudentProfile) domain.ProgressSummary {
	setting := profile.Threshold()
	lastStudy := ""
	if r.LastStudyDate != nil {
		lastStudy = r.LastStudyDate.Format("2006-01-02")
	}
	engagement := "Consider increasing study frequency"
	if r.TotalStudyHours > engagedHours {
		engagement = "Progress tracking shows consistent engagement"
	}
	return domain.ProgressSummary{
		AverageScore:        r.AverageScore,
		CompletedTopics:     nonNil(r.CompletedTopics),
		ImprovementAreas:    nonNil(r.AreasNeedingReview),
		TotalStudyTimeHours: r.TotalStudyHours,
		LastStudyDate:       lastStudy,
		SuccessThreshold: &domain.SuccessThresholdStatus{
			CurrentThreshold:  CurrentThreshold,
			StudentSetting:    setting,
			MeetingThreshold:  r.AverageScore >= setting,
			ThresholdAnalysis: "Based on historical performance data",
		},
		AIInsights: []string{
			fmt.Sprintf("Student has completed %d topics", len(r.CompletedTopics)),
			fmt.Sprintf("Total study time: %.1f hours", r.TotalStudyHours),
			fmt.Sprintf("Average performance: %.1f%%", r.AverageScore),
			engagement,
		},
		NextSteps: []string{
			"Continue with current learning plan",
			"Focus on improvement areas identified",
			"Maintain regular study schedule",
		},
	}
}

func (p *Pipeline) buildSchedule(ctx context.Context, st *State) error {
	sched := schedule.Plan(st.Student)
	sched.WeeklySchedule = p.agents.Schedule.Generate(ctx, st.Student, &st.LearningPath)
	if st.Student.StudentID != "" {
		if _, err := p.coach.SaveSchedule(ctx, st.Student.StudentID, sched); err != nil {
			return fmt.Errorf("save schedule: %w", err)
		}
	}
	st.Schedule = sched
	return nil
}

func scheduleFallback(st *State) {
	st.Schedule = domain.Schedule{Error: "Failed to get schedule"}
}

func (p *Pipeline) adaptiveAnalysis(ctx context.Context, st *State) error {
	summary := st.ProgressSummary
	rec := p.agents.Adaptive.Recommend(ctx, agents.AdaptiveInput{
		Profile: st.Student,
		Path:    &st.LearningPath,
		Summary: summary,
	})
	analysis := domain.AdaptiveAnalysis{
		Recommendations:       agents.RuleRecommendations(summary),
		DifficultyAdjustments: agents.DifficultyAdjustments(),
		FocusAreas:            nonNil(summary.ImprovementAreas),
		Agent:                 rec,
	}

	if st.Student.StudentID != "" {
		data, err := json.Marshal(analysis)
		if err != nil {
			return fmt.Errorf("encode insight: %w", err)
		}
		insight := &domain.AdaptiveInsight{
			StudentID:          st.Student.StudentID,
			Type:               domain.InsightRecommendation,
			Data:               data,
			EffectivenessScore: summary.AverageScore,
		}
		if err := p.coach.SaveInsight(ctx, insight); err != nil {
			return fmt.Errorf("save insight: %w", err)
		}
	}
	st.AdaptiveAnalysis = analysis
	return nil
}

func adaptiveFallback(st *State) {
	st.AdaptiveAnalysis = domain.AdaptiveAnalysis{Error: "Failed to get adaptive analysis"}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
