package agents

import (
	"context"
	"strings"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/logger"
)

// StageGettingStarted is the stage of a fresh or fallback path.
const StageGettingStarted = "Getting Started"

// PathAgent generates a learning path for a student profile.
type PathAgent struct {
	caller
	cfg Settings
}

// NewPathAgent creates a PathAgent.
func NewPathAgent(p llm.Provider, log *logger.Logger, cfg Settings) *PathAgent {
	return &PathAgent{caller: newCaller(p, log, "path"), cfg: cfg}
}

type pathOutput struct {
	Topics       []domain.Topic `json:"topics"`
	CurrentStage string         `json:"current_stage"`
	Progress     float64        `json:"progress"`
}

// Generate returns a learning path for the profile. A profile without a
// student id or current topic gets the fallback path.
func (a *PathAgent) Generate(ctx context.Context, p domain.StudentProfile) domain.LearningPath {
	if err := domain.Validate(p); err != nil {
		a.fallback(PurposePath, err)
		return FallbackPath(p.Topic())
	}

	req := llm.UserPrompt(pathSystemPrompt, buildPathUserMessage(p), LearningPathSchema, a.cfg.MaxTokens, a.cfg.Temperature)

	var out pathOutput
	if _, err := a.call(ctx, PurposePath, req, &out); err != nil {
		a.fallback(PurposePath, err)
		return FallbackPath(p.Topic())
	}

	path := domain.LearningPath{
		Topic:        p.Topic(),
		Topics:       cleanTopics(out.Topics),
		CurrentStage: strings.TrimSpace(out.CurrentStage),
		Progress:     clamp(out.Progress, 0, 1),
	}
	if len(path.Topics) == 0 {
		path.Topics = domain.DefaultTopics(p.Topic())
	}
	if path.CurrentStage == "" {
		path.CurrentStage = StageGettingStarted
	}
	a.log.Info("generated learning path", "student_id", p.StudentID, "topics", len(path.Topics))
	return path
}

// FallbackPath is the three-topic starter path for a subject.
func FallbackPath(subject string) domain.LearningPath {
	if strings.TrimSpace(subject) == "" {
		subject = domain.DefaultTopic
	}
	return domain.LearningPath{
		Topic:        subject,
		Topics:       domain.DefaultTopics(subject),
		CurrentStage: StageGettingStarted,
		Progress:     0,
	}
}

func cleanTopics(in []domain.Topic) []domain.Topic {
	out := make([]domain.Topic, 0, len(in))
	for _, t := range in {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			continue
		}
		t.Description = strings.TrimSpace(t.Description)
		t.EstimatedTime = strings.TrimSpace(t.EstimatedTime)
		out = append(out, t)
	}
	return out
}
