package handlers

import (
	"context"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/pipeline"
)

// Coach is the part of coach.Service the handlers use.
type Coach interface {
	SaveStudent(ctx context.Context, p domain.StudentProfile) error
	FindStudent(ctx context.Context, id string) (*domain.StudentProfile, error)
	FindStudentsByName(ctx context.Context, name string) ([]domain.Student, error)
	FindStudentByNameAndID(ctx context.Context, name, id string) (*domain.Student, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
	LearningPaths(ctx context.Context, id string) ([]domain.LearningPath, error)
	ActivePath(ctx context.Context, id string) (*domain.LearningPath, error)
	ActiveSchedule(ctx context.Context, id string) (*domain.StoredSchedule, error)
	Progress(ctx context.Context, id string) (domain.ProgressReport, error)
	RecentAnalyses(ctx context.Context, id string, n int) ([]domain.StoredAnalysis, error)
	Insights(ctx context.Context, id string) ([]domain.AdaptiveInsight, error)
	RecordAnalyzedSession(ctx context.Context, id string, sess domain.StudySession) (*coach.SessionResult, error)
	RecordAssessment(ctx context.Context, id string, a domain.Assessment) (*domain.Assessment, error)
	CompleteTopic(ctx context.Context, id, topic string) (bool, error)
}

// Runner runs the coaching pipeline for a profile.
type Runner interface {
	Run(ctx context.Context, profile domain.StudentProfile) *pipeline.State
}

var (
	_ Coach  = (*coach.Service)(nil)
	_ Runner = (*pipeline.Pipeline)(nil)
)
