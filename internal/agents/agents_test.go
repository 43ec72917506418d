package agents

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/testutil"
)

func TestPathAgent_Generate(t *testing.T) {
	mock := llm.NewMockProvider(testutil.JSON(map[string]any{
		"topics": []map[string]any{
			{"name": " Python Syntax ", "description": "Variables and types", "estimated_time": "2 hours"},
			{"name": "", "description": "dropped", "estimated_time": "1 hour"},
			{"name": "Control Flow", "description": "if and loops", "estimated_time": "3 hours"},
		},
		"current_stage": "",
		"progress":      1.7,
	}))
	a := NewPathAgent(mock, nil, DefaultConfig().Path)

	path := a.Generate(context.Background(), testutil.SampleProfile("s1"))

	require.Len(t, path.Topics, 2)
	assert.Equal(t, "Python Syntax", path.Topics[0].Name)
	assert.Equal(t, StageGettingStarted, path.CurrentStage)
	assert.Equal(t, 1.0, path.Progress)
	assert.Equal(t, "Python", path.Topic)

	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, []string{PurposePath}, mock.Purposes)
	req := mock.Calls[0]
	assert.Equal(t, 0.3, req.Temperature)
	assert.Equal(t, LearningPathSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Current Topic: Python")
	assert.Contains(t, req.Messages[0].Content, "Learn programming basics")
}

func TestPathAgent_Fallbacks(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		a := NewPathAgent(llm.NewMockProvider(testutil.Failure()), nil, DefaultConfig().Path)
		path := a.Generate(context.Background(), testutil.SampleProfile("s1"))
		assert.Equal(t, FallbackPath("Python"), path)
	})

	t.Run("empty topic list", func(t *testing.T) {
		mock := llm.NewMockProvider(testutil.JSON(map[string]any{"topics": []any{}, "current_stage": "Start", "progress": 0}))
		path := NewPathAgent(mock, nil, DefaultConfig().Path).Generate(context.Background(), testutil.SampleProfile("s1"))
		assert.Equal(t, domain.DefaultTopics("Python"), path.Topics)
		assert.Equal(t, "Start", path.CurrentStage)
	})

	t.Run("invalid profile skips the model", func(t *testing.T) {
		mock := llm.NewMockProvider()
		p := testutil.SampleProfile("")
		path := NewPathAgent(mock, nil, DefaultConfig().Path).Generate(context.Background(), p)
		assert.Equal(t, 0, mock.CallCount())
		assert.Equal(t, "Introduction to Python", path.Topics[0].Name)
	})

	t.Run("nil provider", func(t *testing.T) {
		path := NewPathAgent(nil, nil, DefaultConfig().Path).Generate(context.Background(), testutil.SampleProfile("s1"))
		assert.Len(t, path.Topics, 3)
	})
}

func TestFallbackPath(t *testing.T) {
	p := FallbackPath("")
	require.Len(t, p.Topics, 3)
	assert.Equal(t, "Introduction to Programming", p.Topics[0].Name)
	assert.Equal(t, "Programming Fundamentals", p.Topics[1].Name)
	assert.Equal(t, "Practical Programming", p.Topics[2].Name)
	assert.Equal(t, "4 hours", p.Topics[2].EstimatedTime)
	assert.Equal(t, StageGettingStarted, p.CurrentStage)
	assert.Zero(t, p.Progress)
}

func TestProgressAgent_Summarize(t *testing.T) {
	mock := llm.NewMockProvider(testutil.JSON(map[string]any{
		"average_score":     140,
		"completed_topics":  []string{"Intro"},
		"improvement_areas": []string{"Loops", " "},
		"next_steps":        []string{"Practice"},
	}))
	path := testutil.PythonPath("s1")
	sum := NewProgressAgent(mock, nil, DefaultConfig().Progress).Summarize(context.Background(), testutil.SampleProfile("s1"), &path)

	assert.Equal(t, 100.0, sum.AverageScore)
	assert.Equal(t, []string{"Intro"}, sum.CompletedTopics)
	assert.Equal(t, []string{"Loops"}, sum.ImprovementAreas)
	assert.Equal(t, []string{PurposeProgress}, mock.Purposes)
}

func TestProgressAgent_Fallback(t *testing.T) {
	sum := NewProgressAgent(llm.NewMockProvider(testutil.Failure()), nil, DefaultConfig().Progress).
		Summarize(context.Background(), testutil.SampleProfile("s1"), nil)

	assert.Equal(t, 0.0, sum.AverageScore)
	assert.Equal(t, []string{}, sum.CompletedTopics)
	assert.Equal(t, []string{"Data not available for analysis"}, sum.ImprovementAreas)
	assert.Equal(t, []string{"Continue with current learning plan", "Review progress regularly"}, sum.NextSteps)
}

func TestScheduleAgent_Generate(t *testing.T) {
	mock := llm.NewMockProvider(testutil.JSON(map[string]any{
		"days": []map[string]any{
			{"day": "monday", "slots": []map[string]any{{"time": "09:00", "topic": "Python Syntax", "duration": "2 hours"}}},
			{"day": "Funday", "slots": []map[string]any{{"time": "10:00", "topic": "x", "duration": "1 hour"}}},
			{"day": "Friday", "slots": []map[string]any{{"time": "18:00", "topic": "Control Flow", "duration": "1 hour"}}},
		},
	}))
	path := testutil.PythonPath("s1")
	slots := NewScheduleAgent(mock, nil, DefaultConfig().Schedule).Generate(context.Background(), testutil.SampleProfile("s1"), &path)

	assert.Len(t, slots, 2)
	assert.Equal(t, []domain.TimeSlot{{Time: "09:00", Topic: "Python Syntax", Duration: "2 hours"}}, slots["Monday"])
	assert.Contains(t, slots, "Friday")
	assert.Equal(t, 0.7, mock.Calls[0].Temperature)
}

func TestScheduleAgent_FallsBackToPlanner(t *testing.T) {
	tests := []struct {
		name  string
		reply llm.MockResponse
	}{
		{"provider error", testutil.Failure()},
		{"no usable days", testutil.JSON(map[string]any{"days": []any{}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewScheduleAgent(llm.NewMockProvider(tt.reply), nil, DefaultConfig().Schedule)
			slots := a.Generate(context.Background(), testutil.SampleProfile("s1"), nil)

			require.Len(t, slots, 2, "sample profile studies Monday and Wednesday")
			assert.Equal(t, []domain.TimeSlot{
				{Time: "09:00", Topic: "Python", Duration: "2 hours"},
				{Time: "14:00", Topic: "Python", Duration: "2 hours"},
			}, slots["Wednesday"])
		})
	}
}

func TestAdaptiveAgent_Recommend(t *testing.T) {
	mock := llm.NewMockProvider(testutil.JSON(map[string]any{
		"adjustments": []string{"Add weekly review"},
		"next_topics": []string{"Decorators"},
		"strategy":    "Spaced repetition",
	}))
	rec := NewAdaptiveAgent(mock, nil, DefaultConfig().Adaptive).Recommend(context.Background(), AdaptiveInput{Profile: testutil.SampleProfile("s1")})

	assert.Equal(t, domain.Recommendations{
		Adjustments: []string{"Add weekly review"},
		NextTopics:  []string{"Decorators"},
		Strategy:    "Spaced repetition",
	}, rec)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, `"success_threshold":75`)
}

func TestAdaptiveAgent_Fallback(t *testing.T) {
	path := testutil.PythonPath("s1")
	in := AdaptiveInput{
		Profile: testutil.SampleProfile("s1"),
		Path:    &path,
		Summary: domain.ProgressSummary{AverageScore: 50, CompletedTopics: []string{"introduction to python"}},
	}
	rec := NewAdaptiveAgent(llm.NewMockProvider(testutil.Failure()), nil, DefaultConfig().Adaptive).Recommend(context.Background(), in)

	assert.Equal(t, []string{"Focus on fundamentals before advancing"}, rec.Adjustments)
	assert.Equal(t, []string{"Python Fundamentals", "Practical Python"}, rec.NextTopics)
	assert.Equal(t, StrategyContinue, rec.Strategy)
}

func TestRuleRecommendations(t *testing.T) {
	tests := []struct {
		name    string
		summary domain.ProgressSummary
		want    []string
	}{
		{"new student", domain.ProgressSummary{}, []string{"Focus on fundamentals before advancing", "Start with introductory topics"}},
		{"at threshold", domain.ProgressSummary{AverageScore: 70, CompletedTopics: []string{"a"}}, []string{}},
		{"low average", domain.ProgressSummary{AverageScore: 69.9, CompletedTopics: []string{"a"}}, []string{"Focus on fundamentals before advancing"}},
		{"no completions", domain.ProgressSummary{AverageScore: 90}, []string{"Start with introductory topics"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RuleRecommendations(tt.summary))
		})
	}
}

func TestNextOpenTopics(t *testing.T) {
	path := &domain.LearningPath{Topics: []domain.Topic{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}}}
	assert.Equal(t, []string{"A", "C", "D"}, NextOpenTopics(path, []string{"b"}, 3))
	assert.Equal(t, []string{}, NextOpenTopics(nil, nil, 3))
}

func sessionInput() SessionInput {
	return SessionInput{
		Session: domain.StudySession{
			Topic:              "Python Fundamentals",
			DurationMinutes:    90,
			ProductivityRating: 4,
			Notes:              "worked through loops",
			SessionDate:        time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
		Paths: []domain.LearningPath{
			{Topic: "Rust", Topics: domain.DefaultTopics("Rust")},
			{Topic: "Python", Topics: domain.DefaultTopics("Python")},
		},
	}
}

func fixedAnalyzer(p llm.Provider) *SessionAnalyzer {
	a := NewSessionAnalyzer(p, nil, DefaultConfig().Session)
	a.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
	return a
}

func TestSessionAnalyzer_StructuredReply(t *testing.T) {
	reply := map[string]any{
		"topic_alignment":        map[string]any{"matches_learning_path": true, "relevant_topics_covered": []string{"Python Fundamentals"}, "alignment_score": 120},
		"schedule_analysis":      map[string]any{"duration_appropriateness": "way_too_long"},
		"learning_effectiveness": map[string]any{"effectiveness_score": 85},
		"progress_update":        map[string]any{"topics_to_mark_completed": []string{"Python Fundamentals"}, "new_concepts_learned": []string{"for loops"}},
		"error":                  "model must not set this",
	}
	mock := llm.NewMockProvider(testutil.JSON(reply))
	a := fixedAnalyzer(mock)

	got := a.Analyze(context.Background(), sessionInput())

	assert.Equal(t, 100.0, got.TopicAlignment.AlignmentScore)
	assert.Equal(t, 85.0, got.EffectivenessScore())
	assert.Equal(t, domain.DurationOptimal, got.ScheduleAnalysis.DurationAppropriateness)
	assert.Equal(t, []string{"Python Fundamentals"}, got.ProgressUpdate.TopicsToMarkCompleted)
	assert.Equal(t, []string{}, got.Insights.PatternsObserved)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.Session)
	assert.Equal(t, "Python Fundamentals", got.Session.Topic)
	assert.Equal(t, 3, got.Session.MoodRating, "unset mood defaults to 3")
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), got.AnalysisTimestamp)

	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Mood rating: 3/5")
	assert.Contains(t, msg, "Productivity rating: 4/5")
	assert.Contains(t, msg, `"topic": "Python"`, "the Python path is selected over the newer Rust one")
	assert.Equal(t, 2000, mock.Calls[0].MaxTokens)
	assert.True(t, mock.Calls[0].Schema.Loose)
}

func TestSessionAnalyzer_ProseWrappedJSON(t *testing.T) {
	text := "Here is my analysis:\n{\"learning_effectiveness\": {\"effectiveness_score\": 64}}\nGood luck!"
	quoted, err := json.Marshal(text)
	require.NoError(t, err)
	mock := llm.NewMockProvider(llm.MockResponse{Content: quoted})

	got := fixedAnalyzer(mock).Analyze(context.Background(), sessionInput())
	assert.Equal(t, 64.0, got.EffectivenessScore())
	assert.Empty(t, got.RawAnalysis)
}

func TestSessionAnalyzer_FreeText(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("The session went well overall.")})

	got := fixedAnalyzer(mock).Analyze(context.Background(), sessionInput())
	assert.Equal(t, SimpleAnalysisScore, got.EffectivenessScore())
	assert.Equal(t, SimpleAnalysisScore, got.TopicAlignment.AlignmentScore)
	assert.Equal(t, "The session went well overall.", got.RawAnalysis)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.Session)
}

func TestSessionAnalyzer_ProviderError(t *testing.T) {
	got := fixedAnalyzer(llm.NewMockProvider(testutil.Failure())).Analyze(context.Background(), sessionInput())

	assert.Equal(t, FallbackAlignment, got.TopicAlignment.AlignmentScore)
	assert.Equal(t, 80.0, got.EffectivenessScore(), "productivity 4 x 20")
	assert.Equal(t, []string{"Python Fundamentals"}, got.ProgressUpdate.NewConceptsLearned)
	assert.Equal(t, []string{"Python Fundamentals"}, got.Recommendations.FocusAreasNextSession)
	assert.Equal(t, "Fallback analysis used due to LLM error", got.Error)
	assert.Equal(t, "Mood rated 3/5", got.LearningEffectiveness.MoodImpact)
}

func TestRelevantPath(t *testing.T) {
	paths := []domain.LearningPath{{Topic: "Go"}, {Topic: "Machine Learning"}, {Topic: "Python"}}

	tests := []struct {
		topic string
		want  string
	}{
		{"python", "Python"},
		{"Advanced Python Decorators", "Python"},
		{"learning", "Machine Learning"},
		{"Cooking", "Go"},
		{"", "Go"},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got := RelevantPath(tt.topic, paths)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Topic)
		})
	}
	assert.Nil(t, RelevantPath("x", nil))
}

func TestNewSet(t *testing.T) {
	s := NewSet(nil, nil, DefaultConfig())
	require.NotNil(t, s.Path)
	require.NotNil(t, s.Session)
	got := s.Session.Analyze(context.Background(), SessionInput{Session: domain.StudySession{Topic: "Go", ProductivityRating: 5}})
	assert.Equal(t, 100.0, got.EffectivenessScore())
}
