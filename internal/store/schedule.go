package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/learncoach/internal/domain"
)

// ScheduleRepo persists weekly schedules.
type ScheduleRepo struct{ repoBase }

var scheduleColumns = []string{"id", "student_id", "schedule_data", "week_start_date", "is_active", "created_at"}

// SaveActive deactivates the student's older schedules and stores s as
// the active one.
func (r *ScheduleRepo) SaveActive(ctx context.Context, studentID string, s domain.Schedule) (*domain.StoredSchedule, error) {
	b := r.builder()
	deactivate := b.Update("schedules").
		Set("is_active", 0).
		Where(entsql.And(entsql.EQ("student_id", studentID), entsql.EQ("is_active", 1)))
	if _, err := r.exec(ctx, deactivate); err != nil {
		return nil, fmt.Errorf("deactivate schedules for %s: %w", studentID, err)
	}

	data, err := marshalJSON(s)
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	now := r.now()
	stored := &domain.StoredSchedule{
		ID:            newID(),
		StudentID:     studentID,
		Schedule:      s,
		WeekStartDate: domain.WeekStart(now),
		IsActive:      true,
		CreatedAt:     now,
	}
	insert := b.Insert("schedules").
		Columns(scheduleColumns...).
		Values(stored.ID, studentID, data, formatTime(stored.WeekStartDate), 1, formatTime(now))
	if _, err := r.exec(ctx, insert); err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	return stored, nil
}

// Active returns the student's active schedule.
func (r *ScheduleRepo) Active(ctx context.Context, studentID string) (*domain.StoredSchedule, error) {
	b := r.builder()
	q := b.Select(scheduleColumns...).From(b.Table("schedules")).
		Where(entsql.And(entsql.EQ("student_id", studentID), entsql.EQ("is_active", 1))).
		OrderBy(entsql.Desc("created_at")).
		Limit(1)

	var (
		s                   domain.StoredSchedule
		data, week, created string
		active              int
	)
	err := r.queryRow(ctx, q).Scan(&s.ID, &s.StudentID, &data, &week, &active, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active schedule for %s: %w", studentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get active schedule for %s: %w", studentID, err)
	}
	if err := json.Unmarshal([]byte(data), &s.Schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	s.WeekStartDate = parseTime(week)
	s.IsActive = active != 0
	s.CreatedAt = parseTime(created)
	return &s, nil
}
