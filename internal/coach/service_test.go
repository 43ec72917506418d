package coach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncoach/internal/agents"
	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/store"
	"github.com/abhisek/learncoach/internal/testutil"
)

func newService(t *testing.T, replies ...llm.MockResponse) (*Service, *store.Store, *llm.MockProvider) {
	t.Helper()
	st := testutil.NewTestStore(t)
	mock := llm.NewMockProvider(replies...)
	analyzer := agents.NewSessionAnalyzer(mock, nil, agents.DefaultConfig().Session)
	return NewService(st, analyzer, nil, 0), st, mock
}

func analysisReply(effectiveness float64, review ...string) llm.MockResponse {
	return testutil.JSON(map[string]any{
		"learning_effectiveness": map[string]any{"effectiveness_score": effectiveness},
		"progress_update":        map[string]any{"areas_needing_review": review, "new_concepts_learned": []string{"loops"}},
	})
}

func TestSaveStudentAndFind(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	p := testutil.SampleProfile(StudentIDFor("Ada Lovelace"))
	p.Name = "Ada Lovelace"
	require.NoError(t, svc.SaveStudent(ctx, p))

	got, err := svc.FindStudent(ctx, "student_ada_lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, []string{"Monday", "Wednesday"}, got.Schedule.AvailableDays)
	assert.Equal(t, 75.0, got.Success.SuccessThreshold)

	byName, err := svc.FindStudentsByName(ctx, "  ada lovelace ")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	_, err = svc.FindStudentByNameAndID(ctx, "Ada Lovelace", "student_other")
	assert.ErrorIs(t, err, store.ErrNotFound)

	prefs, err := svc.Preferences(ctx, "student_ada_lovelace")
	require.NoError(t, err)
	assert.Contains(t, prefs, store.PrefSchedule)
}

func TestSaveStudent_Invalid(t *testing.T) {
	svc, _, _ := newService(t)
	err := svc.SaveStudent(context.Background(), domain.StudentProfile{Name: "No ID"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestSaveGeneratedPath_DeactivatesPrevious(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))

	first, err := svc.SaveGeneratedPath(ctx, "s1", testutil.PythonPath("s1"), "")
	require.NoError(t, err)
	second, err := svc.SaveGeneratedPath(ctx, "s1", domain.LearningPath{Topics: domain.DefaultTopics("Go")}, "Go")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	paths, err := svc.LearningPaths(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	active := 0
	for _, p := range paths {
		if p.IsActive {
			active++
			assert.Equal(t, "Go", p.Topic)
		}
	}
	assert.Equal(t, 1, active)

	got, err := svc.ActivePath(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestActivePath_None(t *testing.T) {
	svc, _, _ := newService(t)
	p, err := svc.ActivePath(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRecordAnalyzedSession_CompletesTopicOnce(t *testing.T) {
	svc, st, mock := newService(t, analysisReply(85, "closures"), analysisReply(75))
	ctx := context.Background()
	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))
	testutil.SeedActivePath(t, st, testutil.PythonPath("s1"))

	sess := domain.StudySession{Topic: "Python Fundamentals", DurationMinutes: 60, MoodRating: 4, ProductivityRating: 4}

	first, err := svc.RecordAnalyzedSession(ctx, "s1", sess)
	require.NoError(t, err)
	assert.True(t, first.Decision.MarkedComplete)
	assert.Equal(t, "Python Fundamentals", first.Decision.MatchedTopic)
	assert.NotEmpty(t, first.Session.ID)
	assert.Equal(t, first.Session.ID, first.Analysis.SessionID)

	second, err := svc.RecordAnalyzedSession(ctx, "s1", sess)
	require.NoError(t, err)
	assert.False(t, second.Decision.MarkedComplete)
	assert.True(t, second.Decision.AlreadyDone)

	p, err := st.Repos().Progress.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python Fundamentals"}, p.CompletedTopics)
	assert.Equal(t, []string{"loops", "Python Fundamentals"}, p.ConceptsLearned)
	assert.Equal(t, []string{"closures"}, p.AreasNeedingReview)
	assert.Equal(t, 2, p.TotalStudySessions)
	assert.Equal(t, 75.0, p.LastEffectivenessScore)
	assert.InDelta(t, 80.0, p.AverageEffectiveness, 1e-9)

	assert.Equal(t, []string{agents.PurposeSession, agents.PurposeSession}, mock.Purposes)

	report, err := svc.Progress(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalTopics)
	assert.InDelta(t, 100.0/3, report.ProgressPercent, 1e-9)
	assert.Equal(t, 2, report.SessionCount)
}

func TestRecordAnalyzedSession_BelowThreshold(t *testing.T) {
	svc, st, _ := newService(t, analysisReply(69.5))
	ctx := context.Background()
	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))
	testutil.SeedActivePath(t, st, testutil.PythonPath("s1"))

	res, err := svc.RecordAnalyzedSession(ctx, "s1", domain.StudySession{Topic: "introduction to python", DurationMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, "Introduction to Python", res.Decision.MatchedTopic)
	assert.False(t, res.Decision.MarkedComplete)
	assert.Empty(t, res.Progress.CompletedTopics)
	assert.Equal(t, 3, res.Session.MoodRating)
}

func TestRecordAnalyzedSession_FallbackAnalysis(t *testing.T) {
	svc, st, _ := newService(t, testutil.Failure())
	ctx := context.Background()
	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))

	res, err := svc.RecordAnalyzedSession(ctx, "s1", domain.StudySession{Topic: "Rust", DurationMinutes: 45, ProductivityRating: 5})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Analysis.EffectivenessScore)
	assert.NotEmpty(t, res.Analysis.Analysis.Error)
	assert.Equal(t, []string{"Rust"}, res.Progress.CompletedTopics, "no active path, literal topic")
}

func TestRecordAnalyzedSession_Errors(t *testing.T) {
	svc, st, mock := newService(t)
	ctx := context.Background()

	_, err := svc.RecordAnalyzedSession(ctx, "ghost", domain.StudySession{Topic: "Go", DurationMinutes: 10})
	assert.ErrorIs(t, err, store.ErrNotFound)

	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))
	_, err = svc.RecordAnalyzedSession(ctx, "s1", domain.StudySession{Topic: "", DurationMinutes: 10})
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, mock.CallCount())
}

func TestRecordAssessment(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))

	a, err := svc.RecordAssessment(ctx, "s1", domain.Assessment{Type: "quiz", Name: "Loops", Topic: "Python", MaxScore: 20, AchievedScore: 17})
	require.NoError(t, err)
	assert.InDelta(t, 85.0, a.Percentage, 1e-9)
	assert.Equal(t, 1, a.Attempts)

	_, err = svc.RecordAssessment(ctx, "s1", domain.Assessment{Type: "quiz", Name: "Bad", MaxScore: 10, AchievedScore: 11})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.RecordAssessment(ctx, "ghost", domain.Assessment{Type: "quiz", Name: "Q", MaxScore: 10, AchievedScore: 5})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompleteTopic(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))
	testutil.SeedActivePath(t, st, testutil.PythonPath("s1"))

	changed, err := svc.CompleteTopic(ctx, "s1", "practical python")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.CompleteTopic(ctx, "s1", "Practical Python")
	require.NoError(t, err)
	assert.False(t, changed)

	p, err := st.Repos().Progress.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []string{"Practical Python"}, p.CompletedTopics)

	_, err = svc.CompleteTopic(ctx, "s1", " ")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CompleteTopic(ctx, "ghost", "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompleteTopic_RecordsTypedTopic(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))
	testutil.SeedActivePath(t, st, testutil.PythonPath("s1"))

	changed, err := svc.CompleteTopic(ctx, "s1", "Python")
	require.NoError(t, err)
	assert.True(t, changed)

	p, err := st.Repos().Progress.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, p.CompletedTopics)

	active, err := st.Repos().Paths.Active(ctx, "s1")
	require.NoError(t, err)
	ok, err := st.Repos().Paths.MarkTopicCompleted(ctx, active.ID, "Introduction to Python")
	require.NoError(t, err)
	assert.True(t, ok, "path topic should still be open")
}

func TestCompleteTopic_WithoutPath(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))

	changed, err := svc.CompleteTopic(ctx, "s1", "Recursion")
	require.NoError(t, err)
	assert.True(t, changed)

	report, err := svc.Progress(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.CompletedCount)
	assert.Equal(t, 100.0, report.ProgressPercent)
}

func TestInsights(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testutil.SeedStudent(t, st, testutil.SampleProfile("s1"))
	for i := 0; i < InsightLimit+2; i++ {
		require.NoError(t, st.Repos().Insights.Create(ctx, &domain.AdaptiveInsight{StudentID: "s1", Type: domain.InsightRecommendation}))
	}
	got, err := svc.Insights(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got, InsightLimit)
}

func TestSnapshot(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Snapshot(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)

	p := testutil.SampleProfile("student_snap")
	testutil.SeedStudent(t, st, p)

	snap, err := svc.Snapshot(ctx, "student_snap")
	require.NoError(t, err)
	assert.Equal(t, "Python", snap.Profile.CurrentTopic)
	assert.Nil(t, snap.Path)
	assert.Nil(t, snap.Schedule)
	assert.Empty(t, snap.Insights)

	testutil.SeedActivePath(t, st, testutil.PythonPath("student_snap"))
	snap, err = svc.Snapshot(ctx, "student_snap")
	require.NoError(t, err)
	require.NotNil(t, snap.Path)
	assert.NotEmpty(t, snap.Path.Topics)
}
