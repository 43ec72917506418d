package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/learncoach/internal/domain"
)

// ProgressRepo persists the one-per-student progress record.
type ProgressRepo struct{ repoBase }

var progressColumns = []string{"id", "student_id", "completed_topics", "concepts_learned", "areas_needing_review",
	"last_effectiveness_score", "last_study_date", "total_study_sessions", "average_effectiveness", "created_at", "updated_at"}

// Get returns the student's progress, or a zero-value record with empty
// lists when none has been written yet.
func (r *ProgressRepo) Get(ctx context.Context, studentID string) (domain.Progress, error) {
	b := r.builder()
	q := b.Select(progressColumns...).From(b.Table("student_progress")).Where(entsql.EQ("student_id", studentID))

	var (
		p                                   domain.Progress
		completed, concepts, review, lastSt sql.NullString
		createdAt, updatedAt                string
	)
	err := r.queryRow(ctx, q).Scan(&p.ID, &p.StudentID, &completed, &concepts, &review,
		&p.LastEffectivenessScore, &lastSt, &p.TotalStudySessions, &p.AverageEffectiveness, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Progress{
			StudentID:          studentID,
			CompletedTopics:    []string{},
			ConceptsLearned:    []string{},
			AreasNeedingReview: []string{},
		}, nil
	}
	if err != nil {
		return domain.Progress{}, fmt.Errorf("get progress for %s: %w", studentID, err)
	}
	p.CompletedTopics = stringList(completed)
	p.ConceptsLearned = stringList(concepts)
	p.AreasNeedingReview = stringList(review)
	p.LastStudyDate = parseNullableTime(lastSt)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// Upsert writes the progress record, updating the existing row for the
// student if there is one.
func (r *ProgressRepo) Upsert(ctx context.Context, p *domain.Progress) error {
	now := r.now()
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	b := r.builder()
	insert := b.Insert("student_progress").
		Columns(progressColumns...).
		Values(p.ID, p.StudentID, mustJSONList(p.CompletedTopics), mustJSONList(p.ConceptsLearned), mustJSONList(p.AreasNeedingReview),
			p.LastEffectivenessScore, nullableTime(p.LastStudyDate), p.TotalStudySessions, p.AverageEffectiveness,
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt)).
		OnConflict(
			entsql.ConflictColumns("student_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range []string{"completed_topics", "concepts_learned", "areas_needing_review",
					"last_effectiveness_score", "last_study_date", "total_study_sessions", "average_effectiveness", "updated_at"} {
					u.SetExcluded(c)
				}
			}),
		)
	if _, err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("upsert progress for %s: %w", p.StudentID, err)
	}
	return nil
}

// InsightRepo persists adaptive insights.
type InsightRepo struct{ repoBase }

var insightColumns = []string{"id", "student_id", "insight_type", "insight_data", "effectiveness_score", "implemented", "created_at"}

// Create stores an insight.
func (r *InsightRepo) Create(ctx context.Context, in *domain.AdaptiveInsight) error {
	if in.ID == "" {
		in.ID = newID()
	}
	in.CreatedAt = r.stamp(in.CreatedAt)
	data := string(in.Data)
	if data == "" {
		data = "{}"
	}

	b := r.builder()
	insert := b.Insert("adaptive_insights").
		Columns(insightColumns...).
		Values(in.ID, in.StudentID, in.Type, data, in.EffectivenessScore, boolToInt(in.Implemented), formatTime(in.CreatedAt))
	if _, err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

// Latest returns the student's newest n insights.
func (r *InsightRepo) Latest(ctx context.Context, studentID string, n int) ([]domain.AdaptiveInsight, error) {
	b := r.builder()
	q := b.Select(insightColumns...).From(b.Table("adaptive_insights")).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("created_at")).
		Limit(n)
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query insights for %s: %w", studentID, err)
	}
	defer rows.Close()

	var out []domain.AdaptiveInsight
	for rows.Next() {
		var (
			in            domain.AdaptiveInsight
			data, created string
			implemented   int
		)
		if err := rows.Scan(&in.ID, &in.StudentID, &in.Type, &data, &in.EffectivenessScore, &implemented, &created); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		in.Data = []byte(data)
		in.Implemented = implemented != 0
		in.CreatedAt = parseTime(created)
		out = append(out, in)
	}
	return out, rows.Err()
}
