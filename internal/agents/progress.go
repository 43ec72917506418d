package agents

import (
	"context"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/logger"
)

// ProgressAgent summarizes progress for students without stored history.
type ProgressAgent struct {
	caller
	cfg Settings
}

// NewProgressAgent creates a ProgressAgent.
func NewProgressAgent(p llm.Provider, log *logger.Logger, cfg Settings) *ProgressAgent {
	return &ProgressAgent{caller: newCaller(p, log, "progress"), cfg: cfg}
}

// Summarize returns the model's view of the student's progress.
func (a *ProgressAgent) Summarize(ctx context.Context, p domain.StudentProfile, path *domain.LearningPath) domain.ProgressSummary {
	req := llm.UserPrompt(progressSystemPrompt, buildProgressUserMessage(p, path), ProgressSummarySchema, a.cfg.MaxTokens, a.cfg.Temperature)

	var out domain.ProgressSummary
	if _, err := a.call(ctx, PurposeProgress, req, &out); err != nil {
		a.fallback(PurposeProgress, err)
		return FallbackSummary()
	}
	return domain.ProgressSummary{
		AverageScore:     clamp(out.AverageScore, 0, 100),
		CompletedTopics:  cleanList(out.CompletedTopics),
		ImprovementAreas: cleanList(out.ImprovementAreas),
		NextSteps:        cleanList(out.NextSteps),
	}
}

// FallbackSummary is returned when the model cannot be used.
func FallbackSummary() domain.ProgressSummary {
	return domain.ProgressSummary{
		AverageScore:     0,
		CompletedTopics:  []string{},
		ImprovementAreas: []string{"Data not available for analysis"},
		NextSteps:        []string{"Continue with current learning plan", "Review progress regularly"},
	}
}
