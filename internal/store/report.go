package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/progress"
)

// ProgressReport assembles the dashboard read model for a student from
// the progress record, the active path and the session and assessment
// aggregates.
func (r Repos) ProgressReport(ctx context.Context, studentID string) (domain.ProgressReport, error) {
	p, err := r.Progress.Get(ctx, studentID)
	if err != nil {
		return domain.ProgressReport{}, err
	}

	pathTopics := 0
	path, err := r.Paths.Active(ctx, studentID)
	switch {
	case err == nil:
		pathTopics = len(path.Topics)
	case !errors.Is(err, ErrNotFound):
		return domain.ProgressReport{}, err
	}

	sessions, err := r.Sessions.Stats(ctx, studentID)
	if err != nil {
		return domain.ProgressReport{}, err
	}
	assessments, err := r.Assessments.Stats(ctx, studentID)
	if err != nil {
		return domain.ProgressReport{}, err
	}

	completed := len(p.CompletedTopics)
	return domain.ProgressReport{
		StudentID:              studentID,
		CompletedTopics:        p.CompletedTopics,
		ConceptsLearned:        p.ConceptsLearned,
		AreasNeedingReview:     p.AreasNeedingReview,
		TotalTopics:            max(pathTopics, completed),
		CompletedCount:         completed,
		ProgressPercent:        progress.ProgressPercent(completed, completed, pathTopics),
		LastEffectivenessScore: p.LastEffectivenessScore,
		LastStudyDate:          p.LastStudyDate,
		TotalStudySessions:     p.TotalStudySessions,
		AverageEffectiveness:   p.AverageEffectiveness,
		AverageScore:           assessments.AveragePercent,
		AssessmentCount:        assessments.Count,
		SessionCount:           sessions.Count,
		AverageMood:            sessions.AverageMood,
		AverageProductivity:    sessions.AverageProductivity,
		TotalStudyHours:        float64(sessions.TotalMinutes) / 60,
		PathTopicCount:         pathTopics,
	}, nil
}

// HistoricalData gathers what the progress stage needs to decide whether
// a student has history. A student has history when they have tracked
// topics or any learning path.
func (r Repos) HistoricalData(ctx context.Context, studentID string) (domain.HistoricalData, error) {
	report, err := r.ProgressReport(ctx, studentID)
	if err != nil {
		return domain.HistoricalData{}, fmt.Errorf("progress report: %w", err)
	}
	paths, err := r.Paths.List(ctx, studentID)
	if err != nil {
		return domain.HistoricalData{}, err
	}
	sessions, err := r.Sessions.ListRecent(ctx, studentID, 10)
	if err != nil {
		return domain.HistoricalData{}, err
	}
	insights, err := r.Insights.Latest(ctx, studentID, 20)
	if err != nil {
		return domain.HistoricalData{}, err
	}
	return domain.HistoricalData{
		HasHistory: report.TotalTopics > 0 || len(paths) > 0,
		Progress:   report,
		Paths:      paths,
		Sessions:   sessions,
		Insights:   insights,
	}, nil
}
