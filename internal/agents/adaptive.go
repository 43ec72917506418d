package agents

import (
	"context"
	"strings"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/logger"
)

// FundamentalsThreshold is the average score below which the rules advise
// revisiting fundamentals.
const FundamentalsThreshold = 70.0

// StrategyContinue is the fallback learning strategy.
const StrategyContinue = "Continue current path"

// AdaptiveInput is what the adaptive agent reasons over.
type AdaptiveInput struct {
	Profile domain.StudentProfile
	Path    *domain.LearningPath
	Summary domain.ProgressSummary
}

// AdaptiveAgent proposes adjustments, next topics and a strategy.
type AdaptiveAgent struct {
	caller
	cfg Settings
}

// NewAdaptiveAgent creates an AdaptiveAgent.
func NewAdaptiveAgent(p llm.Provider, log *logger.Logger, cfg Settings) *AdaptiveAgent {
	return &AdaptiveAgent{caller: newCaller(p, log, "adaptive"), cfg: cfg}
}

type adaptiveOutput struct {
	Adjustments []string `json:"adjustments"`
	NextTopics  []string `json:"next_topics"`
	Strategy    string   `json:"strategy"`
}

// Recommend returns the model's recommendations, or the rule-based ones.
func (a *AdaptiveAgent) Recommend(ctx context.Context, in AdaptiveInput) domain.Recommendations {
	req := llm.UserPrompt(adaptiveSystemPrompt, buildAdaptiveUserMessage(in), AdaptiveSchema, a.cfg.MaxTokens, a.cfg.Temperature)

	var out adaptiveOutput
	if _, err := a.call(ctx, PurposeAdaptive, req, &out); err != nil {
		a.fallback(PurposeAdaptive, err)
		return FallbackRecommendations(in)
	}

	rec := domain.Recommendations{
		Adjustments: cleanList(out.Adjustments),
		NextTopics:  cleanList(out.NextTopics),
		Strategy:    strings.TrimSpace(out.Strategy),
	}
	if rec.Strategy == "" {
		rec.Strategy = StrategyContinue
	}
	return rec
}

// FallbackRecommendations derives recommendations without the model.
func FallbackRecommendations(in AdaptiveInput) domain.Recommendations {
	return domain.Recommendations{
		Adjustments: RuleRecommendations(in.Summary),
		NextTopics:  NextOpenTopics(in.Path, in.Summary.CompletedTopics, 3),
		Strategy:    StrategyContinue,
	}
}

// RuleRecommendations applies the fixed recommendation rules to a summary.
func RuleRecommendations(s domain.ProgressSummary) []string {
	recs := []string{}
	if s.AverageScore < FundamentalsThreshold {
		recs = append(recs, "Focus on fundamentals before advancing")
	}
	if len(s.CompletedTopics) == 0 {
		recs = append(recs, "Start with introductory topics")
	}
	return recs
}

// DifficultyAdjustments are the standing difficulty suggestions.
func DifficultyAdjustments() []string {
	return []string{"Keep current level", "Add more practice exercises"}
}

// NextOpenTopics returns up to n path topics not in completed, in path
// order. Completed names match ignoring case.
func NextOpenTopics(path *domain.LearningPath, completed []string, n int) []string {
	done := make(map[string]bool, len(completed))
	for _, c := range completed {
		done[strings.ToLower(strings.TrimSpace(c))] = true
	}
	out := []string{}
	for _, name := range path.TopicNames() {
		if len(out) == n {
			break
		}
		if !done[strings.ToLower(name)] {
			out = append(out, name)
		}
	}
	return out
}
