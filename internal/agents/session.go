package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/logger"
)

// Scores of the simple and fallback analyses.
const (
	SimpleAnalysisScore = 75.0
	FallbackAlignment   = 70.0
)

const (
	fallbackErrorMessage  = "Fallback analysis used due to LLM error"
	productivityToPercent = 20
)

// SessionInput is everything the analyzer looks at for one session.
type SessionInput struct {
	Session  domain.StudySession
	Paths    []domain.LearningPath // newest first
	Progress domain.Progress
	Schedule domain.SchedulePreferences
}

// SessionAnalyzer assesses a study session against the student's path,
// progress and schedule.
type SessionAnalyzer struct {
	caller
	cfg Settings
	now func() time.Time
}

// NewSessionAnalyzer creates a SessionAnalyzer.
func NewSessionAnalyzer(p llm.Provider, log *logger.Logger, cfg Settings) *SessionAnalyzer {
	return &SessionAnalyzer{
		caller: newCaller(p, log, "session"),
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Analyze returns the analysis of in.Session. It never fails: a reply that
// is not JSON yields the simple analysis, and a provider error yields the
// fallback analysis.
func (a *SessionAnalyzer) Analyze(ctx context.Context, in SessionInput) domain.SessionAnalysis {
	s := in.Session.WithDefaults(a.now())
	path := RelevantPath(s.Topic, in.Paths)

	req := llm.UserPrompt(sessionSystemPrompt, buildSessionUserMessage(s, path, in.Progress, in.Schedule), SessionAnalysisSchema, a.cfg.MaxTokens, a.cfg.Temperature)

	var analysis domain.SessionAnalysis
	resp, err := a.call(ctx, PurposeSession, req, &analysis)
	var invalid *llm.ErrInvalidResponse
	switch {
	case err == nil:
		normalizeAnalysis(&analysis)
	case resp != nil && errors.As(err, &invalid):
		a.log.Warn("session analysis was not JSON, using simple analysis", "error", err)
		analysis = SimpleAnalysis(llm.TextContent(resp.Content))
	default:
		a.fallback(PurposeSession, err)
		analysis = FallbackAnalysis(s)
	}

	analysis.AnalysisTimestamp = a.now()
	analysis.Session = &s
	return analysis
}

// RelevantPath picks the path whose topic contains the session topic or is
// contained by it, ignoring case. Otherwise it returns the first (newest)
// path, or nil when there are none.
func RelevantPath(topic string, paths []domain.LearningPath) *domain.LearningPath {
	if len(paths) == 0 {
		return nil
	}
	t := strings.ToLower(strings.TrimSpace(topic))
	for i := range paths {
		pt := strings.ToLower(strings.TrimSpace(paths[i].Topic))
		if pt == "" || t == "" {
			continue
		}
		if strings.Contains(pt, t) || strings.Contains(t, pt) {
			return &paths[i]
		}
	}
	return &paths[0]
}

// SimpleAnalysis is used when the model answered in free text.
func SimpleAnalysis(raw string) domain.SessionAnalysis {
	return domain.SessionAnalysis{
		TopicAlignment: domain.TopicAlignment{
			MatchesLearningPath:    true,
			RelevantTopicsCovered:  []string{},
			ProgressOnCurrentStage: "Session completed",
			AlignmentScore:         SimpleAnalysisScore,
		},
		ScheduleAnalysis: domain.ScheduleAnalysis{
			FollowsPreferredSchedule: true,
			OptimalTimeSlot:          true,
			DurationAppropriateness:  domain.DurationOptimal,
			ConsistencyWithHabits:    "Good consistency",
		},
		LearningEffectiveness: domain.LearningEffectiveness{
			ProductivityAssessment:  "Good session",
			MoodImpact:              "Positive learning experience",
			ComprehensionIndicators: []string{"Completed session"},
			EffectivenessScore:      SimpleAnalysisScore,
		},
		ProgressUpdate: domain.ProgressUpdate{
			TopicsToMarkCompleted: []string{},
			NewConceptsLearned:    []string{},
			SkillImprovements:     []string{},
			AreasNeedingReview:    []string{},
		},
		Recommendations: domain.SessionRecommendations{
			ImmediateNextSteps:     []string{"Continue with next topic"},
			ScheduleAdjustments:    []string{},
			StudyMethodSuggestions: []string{},
			FocusAreasNextSession:  []string{},
		},
		Insights: domain.SessionInsights{
			PatternsObserved:      []string{},
			StrengthsDemonstrated: []string{"Consistent study habit"},
			ChallengesIdentified:  []string{},
			MotivationIndicators:  []string{"Completed study session"},
		},
		RawAnalysis: raw,
	}
}

// FallbackAnalysis is used when the model could not be reached. The
// effectiveness score follows the student's own productivity rating.
func FallbackAnalysis(s domain.StudySession) domain.SessionAnalysis {
	topic := s.Topic
	if topic == "" {
		topic = "Unknown"
	}
	productivity := s.ProductivityRating
	if productivity == 0 {
		productivity = 3
	}
	mood := s.MoodRating
	if mood == 0 {
		mood = 3
	}
	return domain.SessionAnalysis{
		TopicAlignment: domain.TopicAlignment{
			MatchesLearningPath:    true,
			RelevantTopicsCovered:  []string{topic},
			ProgressOnCurrentStage: "Session logged successfully",
			AlignmentScore:         FallbackAlignment,
		},
		ScheduleAnalysis: domain.ScheduleAnalysis{
			FollowsPreferredSchedule: true,
			OptimalTimeSlot:          true,
			DurationAppropriateness:  domain.DurationOptimal,
			ConsistencyWithHabits:    "Session completed",
		},
		LearningEffectiveness: domain.LearningEffectiveness{
			ProductivityAssessment:  fmt.Sprintf("Productivity rated %d/5", productivity),
			MoodImpact:              fmt.Sprintf("Mood rated %d/5", mood),
			ComprehensionIndicators: []string{"Session completed"},
			EffectivenessScore:      float64(productivity * productivityToPercent),
		},
		ProgressUpdate: domain.ProgressUpdate{
			TopicsToMarkCompleted: []string{},
			NewConceptsLearned:    []string{topic},
			SkillImprovements:     []string{},
			AreasNeedingReview:    []string{},
		},
		Recommendations: domain.SessionRecommendations{
			ImmediateNextSteps:     []string{"Continue learning"},
			ScheduleAdjustments:    []string{},
			StudyMethodSuggestions: []string{},
			FocusAreasNextSession:  []string{topic},
		},
		Insights: domain.SessionInsights{
			PatternsObserved:      []string{"Regular study session"},
			StrengthsDemonstrated: []string{"Consistent learning"},
			ChallengesIdentified:  []string{},
			MotivationIndicators:  []string{"Active learning"},
		},
		Error: fallbackErrorMessage,
	}
}

func normalizeAnalysis(a *domain.SessionAnalysis) {
	a.TopicAlignment.AlignmentScore = clamp(a.TopicAlignment.AlignmentScore, 0, 100)
	a.LearningEffectiveness.EffectivenessScore = clamp(a.LearningEffectiveness.EffectivenessScore, 0, 100)

	switch a.ScheduleAnalysis.DurationAppropriateness {
	case domain.DurationTooShort, domain.DurationOptimal, domain.DurationTooLong:
	default:
		a.ScheduleAnalysis.DurationAppropriateness = domain.DurationOptimal
	}

	lists := []*[]string{
		&a.TopicAlignment.RelevantTopicsCovered,
		&a.LearningEffectiveness.ComprehensionIndicators,
		&a.ProgressUpdate.TopicsToMarkCompleted,
		&a.ProgressUpdate.NewConceptsLearned,
		&a.ProgressUpdate.SkillImprovements,
		&a.ProgressUpdate.AreasNeedingReview,
		&a.Recommendations.ImmediateNextSteps,
		&a.Recommendations.ScheduleAdjustments,
		&a.Recommendations.StudyMethodSuggestions,
		&a.Recommendations.FocusAreasNextSession,
		&a.Insights.PatternsObserved,
		&a.Insights.StrengthsDemonstrated,
		&a.Insights.ChallengesIdentified,
		&a.Insights.MotivationIndicators,
	}
	for _, l := range lists {
		*l = cleanList(*l)
	}
	// The model must not overwrite these.
	a.Session = nil
	a.Error = ""
	a.RawAnalysis = ""
}
