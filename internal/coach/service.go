// Package coach is the application service shared by the CLI, the web
// dashboard and the pipeline. It owns every multi-step write.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/learncoach/internal/agents"
	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/logger"
	"github.com/abhisek/learncoach/internal/progress"
	"github.com/abhisek/learncoach/internal/store"
)

// InsightLimit is how many insights Insights returns.
const InsightLimit = 20

// Service manages students, sessions and progress.
type Service struct {
	store     *store.Store
	analyzer  *agents.SessionAnalyzer
	log       *logger.Logger
	threshold float64
	now       func() time.Time
}

// NewService creates a Service. A threshold of zero or less uses
// progress.DefaultCompletionThreshold.
func NewService(st *store.Store, analyzer *agents.SessionAnalyzer, log *logger.Logger, threshold float64) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if threshold <= 0 {
		threshold = progress.DefaultCompletionThreshold
	}
	return &Service{
		store:     st,
		analyzer:  analyzer,
		log:       log,
		threshold: threshold,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SessionResult is everything RecordAnalyzedSession wrote.
type SessionResult struct {
	Session  domain.StudySession   `json:"session"`
	Analysis domain.StoredAnalysis `json:"analysis"`
	Progress domain.Progress       `json:"progress"`
	Decision progress.Decision     `json:"-"`
}

// StudentIDFor derives a student id from a display name.
func StudentIDFor(name string) string {
	return domain.StudentIDFor(name)
}

// SaveStudent upserts the student and replaces their preferences.
func (s *Service) SaveStudent(ctx context.Context, p domain.StudentProfile) error {
	if err := domain.Validate(p); err != nil {
		return err
	}
	prefs, err := store.PreferencesFromProfile(p)
	if err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		return r.Students.Upsert(ctx, p.Student(), prefs)
	})
}

// SaveGeneratedPath stores path as the student's only active path.
func (s *Service) SaveGeneratedPath(ctx context.Context, studentID string, path domain.LearningPath, topic string) (*domain.LearningPath, error) {
	path.ID = ""
	path.StudentID = studentID
	if strings.TrimSpace(topic) != "" {
		path.Topic = topic
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		return r.Paths.SaveActive(ctx, &path)
	})
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// SaveSchedule stores s as the student's active schedule.
func (s *Service) SaveSchedule(ctx context.Context, studentID string, sch domain.Schedule) (*domain.StoredSchedule, error) {
	var stored *domain.StoredSchedule
	err := s.store.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		var err error
		stored, err = r.Schedules.SaveActive(ctx, studentID, sch)
		return err
	})
	return stored, err
}

// SaveInsight stores an adaptive insight for the student.
func (s *Service) SaveInsight(ctx context.Context, in *domain.AdaptiveInsight) error {
	return s.store.Repos().Insights.Create(ctx, in)
}

// FindStudent returns the student's profile.
func (s *Service) FindStudent(ctx context.Context, id string) (*domain.StudentProfile, error) {
	return s.store.Repos().Students.Profile(ctx, id)
}

// FindStudentsByName returns students with the name, ignoring case.
func (s *Service) FindStudentsByName(ctx context.Context, name string) ([]domain.Student, error) {
	return s.store.Repos().Students.FindByName(ctx, strings.TrimSpace(name))
}

// FindStudentByNameAndID returns the student only if both match.
func (s *Service) FindStudentByNameAndID(ctx context.Context, name, id string) (*domain.Student, error) {
	return s.store.Repos().Students.FindByNameAndID(ctx, strings.TrimSpace(name), strings.TrimSpace(id))
}

// ListStudents returns every student.
func (s *Service) ListStudents(ctx context.Context) ([]domain.Student, error) {
	return s.store.Repos().Students.List(ctx)
}

// LearningPaths returns the student's paths, newest first.
func (s *Service) LearningPaths(ctx context.Context, id string) ([]domain.LearningPath, error) {
	return s.store.Repos().Paths.List(ctx, id)
}

// ActivePath returns the student's active path, or nil when there is none.
func (s *Service) ActivePath(ctx context.Context, id string) (*domain.LearningPath, error) {
	p, err := s.store.Repos().Paths.Active(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// ActiveSchedule returns the student's active schedule, or nil.
func (s *Service) ActiveSchedule(ctx context.Context, id string) (*domain.StoredSchedule, error) {
	sch, err := s.store.Repos().Schedules.Active(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return sch, err
}

// Preferences returns the student's preferences grouped by type.
func (s *Service) Preferences(ctx context.Context, id string) (store.Preferences, error) {
	return s.store.Repos().Students.Preferences(ctx, id)
}

// Progress returns the dashboard progress report.
func (s *Service) Progress(ctx context.Context, id string) (domain.ProgressReport, error) {
	return s.store.Repos().ProgressReport(ctx, id)
}

// HistoricalData returns the history the progress stage summarizes.
func (s *Service) HistoricalData(ctx context.Context, id string) (domain.HistoricalData, error) {
	return s.store.Repos().HistoricalData(ctx, id)
}

// RecentAnalyses returns the student's latest n session analyses.
func (s *Service) RecentAnalyses(ctx context.Context, id string, n int) ([]domain.StoredAnalysis, error) {
	return s.store.Repos().Analyses.ListRecent(ctx, id, n)
}

// Insights returns the student's latest adaptive insights.
func (s *Service) Insights(ctx context.Context, id string) ([]domain.AdaptiveInsight, error) {
	return s.store.Repos().Insights.Latest(ctx, id, InsightLimit)
}

// RecordAnalyzedSession saves the session, has it analyzed and folds the
// analysis into the student's progress. The analysis, progress upsert and
// topic completion commit together. The model is called outside the
// transaction.
func (s *Service) RecordAnalyzedSession(ctx context.Context, studentID string, sess domain.StudySession) (*SessionResult, error) {
	sess = sess.WithDefaults(s.now())
	if err := domain.Validate(sess); err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	profile, err := repos.Students.Profile(ctx, studentID)
	if err != nil {
		return nil, err
	}

	sess.StudentID = studentID
	if err := repos.Sessions.Create(ctx, &sess); err != nil {
		return nil, err
	}

	paths, err := repos.Paths.List(ctx, studentID)
	if err != nil {
		return nil, err
	}
	current, err := repos.Progress.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	analysis := s.analyzer.Analyze(llm.WithStudent(ctx, studentID), agents.SessionInput{
		Session:  sess,
		Paths:    paths,
		Progress: current,
		Schedule: profile.Schedule,
	})

	res := &SessionResult{Session: sess}
	err = s.store.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		stored, err := r.Analyses.Create(ctx, studentID, sess.ID, analysis)
		if err != nil {
			return err
		}
		res.Analysis = *stored

		current, err := r.Progress.Get(ctx, studentID)
		if err != nil {
			return err
		}
		var pathTopics []string
		active, err := r.Paths.Active(ctx, studentID)
		switch {
		case err == nil:
			pathTopics = active.TopicNames()
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		next, decision := progress.Reconcile(current, analysis, pathTopics, s.threshold)
		avg, n, err := r.Analyses.AverageEffectiveness(ctx, studentID)
		if err != nil {
			return err
		}
		if n == 0 {
			avg = analysis.EffectivenessScore()
		}
		next.AverageEffectiveness = avg

		if err := r.Progress.Upsert(ctx, &next); err != nil {
			return err
		}
		if decision.MarkedComplete && active != nil {
			if _, err := r.Paths.MarkTopicCompleted(ctx, active.ID, decision.MatchedTopic); err != nil {
				return err
			}
		}
		res.Progress = next
		res.Decision = decision
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile session %s: %w", sess.ID, err)
	}

	s.log.Info("reconciled progress",
		"student_id", studentID,
		"studied", res.Decision.StudiedTopic,
		"matched", res.Decision.MatchedTopic,
		"effectiveness", res.Decision.Effectiveness,
		"marked_complete", res.Decision.MarkedComplete,
		"already_done", res.Decision.AlreadyDone,
	)
	return res, nil
}

// RecordAssessment stores an assessment for the student. The percentage
// is derived from the scores.
func (s *Service) RecordAssessment(ctx context.Context, studentID string, a domain.Assessment) (*domain.Assessment, error) {
	if err := domain.Validate(a); err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	if _, err := repos.Students.Get(ctx, studentID); err != nil {
		return nil, err
	}
	a.StudentID = studentID
	if err := repos.Assessments.Create(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CompleteTopic marks a topic completed by hand. A case-insensitive match
// against the active path picks the path's spelling; otherwise the topic is
// recorded as typed. It creates the progress record when
// missing and reports whether anything changed; completing a topic twice
// is a no-op.
func (s *Service) CompleteTopic(ctx context.Context, studentID, topic string) (bool, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return false, &domain.ValidationError{Fields: []string{"topic (required)"}, Err: errors.New("topic is required")}
	}
	var changed bool
	err := s.store.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		if _, err := r.Students.Get(ctx, studentID); err != nil {
			return err
		}
		active, err := r.Paths.Active(ctx, studentID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		name := progress.CanonicalTopic(topic, active.TopicNames())

		p, err := r.Progress.Get(ctx, studentID)
		if err != nil {
			return err
		}
		changed = progress.MarkCompleted(&p, name)
		if changed || p.ID == "" {
			if err := r.Progress.Upsert(ctx, &p); err != nil {
				return err
			}
		}
		if active != nil {
			if _, err := r.Paths.MarkTopicCompleted(ctx, active.ID, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	s.log.Info("completed topic", "student_id", studentID, "topic", topic, "changed", changed)
	return changed, nil
}

// Snapshot is a read-only view of one student for dashboards.
type Snapshot struct {
	Profile  domain.StudentProfile    `json:"student"`
	Report   domain.ProgressReport    `json:"progress"`
	Path     *domain.LearningPath     `json:"learning_path,omitempty"`
	Schedule *domain.StoredSchedule   `json:"schedule,omitempty"`
	Insights []domain.AdaptiveInsight `json:"insights"`
}

// Snapshot loads everything a dashboard shows for the student.
func (s *Service) Snapshot(ctx context.Context, id string) (*Snapshot, error) {
	profile, err := s.FindStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Profile: *profile}
	if snap.Report, err = s.Progress(ctx, id); err != nil {
		return nil, err
	}
	if snap.Path, err = s.ActivePath(ctx, id); err != nil {
		return nil, err
	}
	if snap.Schedule, err = s.ActiveSchedule(ctx, id); err != nil {
		return nil, err
	}
	if snap.Insights, err = s.Insights(ctx, id); err != nil {
		return nil, err
	}
	return snap, nil
}
