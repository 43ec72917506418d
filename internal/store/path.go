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

// Topic statuses stored in the topics table.
const (
	TopicNotStarted = "not_started"
	TopicCompleted  = "completed"
)

// PathRepo persists learning paths and their topic rows.
type PathRepo struct{ repoBase }

var pathColumns = []string{"id", "student_id", "topic", "current_stage", "overall_progress", "topics", "is_active", "created_at"}

// SaveActive deactivates every active path of the student, then inserts
// p as the new active path along with one topics row per topic. Run it
// inside a transaction so the two steps are atomic.
func (r *PathRepo) SaveActive(ctx context.Context, p *domain.LearningPath) error {
	b := r.builder()

	deactivate := b.Update("learning_paths").
		Set("is_active", 0).
		Where(entsql.And(entsql.EQ("student_id", p.StudentID), entsql.EQ("is_active", 1)))
	if _, err := r.exec(ctx, deactivate); err != nil {
		return fmt.Errorf("deactivate paths for %s: %w", p.StudentID, err)
	}

	topicsJSON, err := marshalJSON(nonNilTopics(p.Topics))
	if err != nil {
		return fmt.Errorf("encode path topics: %w", err)
	}

	if p.ID == "" {
		p.ID = newID()
	}
	p.CreatedAt = r.stamp(p.CreatedAt)
	p.IsActive = true

	insert := b.Insert("learning_paths").
		Columns(pathColumns...).
		Values(p.ID, p.StudentID, p.Topic, p.CurrentStage, p.Progress*100, topicsJSON, 1, formatTime(p.CreatedAt))
	if _, err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("insert learning path: %w", err)
	}

	for i, t := range p.Topics {
		ins := b.Insert("topics").
			Columns("id", "learning_path_id", "topic_name", "description", "estimated_time", "order_index", "status").
			Values(newID(), p.ID, t.Name, t.Description, t.EstimatedTime, i+1, TopicNotStarted)
		if _, err := r.exec(ctx, ins); err != nil {
			return fmt.Errorf("insert topic %d: %w", i+1, err)
		}
	}
	return nil
}

// Active returns the student's active path.
func (r *PathRepo) Active(ctx context.Context, studentID string) (*domain.LearningPath, error) {
	b := r.builder()
	q := b.Select(pathColumns...).From(b.Table("learning_paths")).
		Where(entsql.And(entsql.EQ("student_id", studentID), entsql.EQ("is_active", 1))).
		OrderBy(entsql.Desc("created_at")).
		Limit(1)
	p, err := scanPath(r.queryRow(ctx, q))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active path for %s: %w", studentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get active path for %s: %w", studentID, err)
	}
	return p, nil
}

// List returns all of the student's paths, newest first.
func (r *PathRepo) List(ctx context.Context, studentID string) ([]domain.LearningPath, error) {
	b := r.builder()
	q := b.Select(pathColumns...).From(b.Table("learning_paths")).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("created_at"))
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query paths for %s: %w", studentID, err)
	}
	defer rows.Close()

	var out []domain.LearningPath
	for rows.Next() {
		p, err := scanPath(rows)
		if err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Count returns how many paths the student has, active or not.
func (r *PathRepo) Count(ctx context.Context, studentID string) (int, error) {
	b := r.builder()
	q := b.Select(entsql.Count("*")).From(b.Table("learning_paths")).Where(entsql.EQ("student_id", studentID))
	var n int
	if err := r.queryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count paths for %s: %w", studentID, err)
	}
	return n, nil
}

// MarkTopicCompleted sets the status of the named topic on the path.
// Returns false when the path has no topic with that exact name.
func (r *PathRepo) MarkTopicCompleted(ctx context.Context, pathID, topicName string) (bool, error) {
	b := r.builder()
	u := b.Update("topics").
		Set("status", TopicCompleted).
		Set("completion_date", formatTime(r.now())).
		Where(entsql.And(
			entsql.EQ("learning_path_id", pathID),
			entsql.EQ("topic_name", topicName),
			entsql.NEQ("status", TopicCompleted),
		))
	res, err := r.exec(ctx, u)
	if err != nil {
		return false, fmt.Errorf("complete topic %q: %w", topicName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, nil
	}
	return n > 0, nil
}

func scanPath(row scanner) (*domain.LearningPath, error) {
	var (
		p          domain.LearningPath
		topicsJSON string
		active     int
		createdAt  string
		progress   float64
	)
	if err := row.Scan(&p.ID, &p.StudentID, &p.Topic, &p.CurrentStage, &progress, &topicsJSON, &active, &createdAt); err != nil {
		return nil, err
	}
	p.Progress = progress / 100
	p.IsActive = active != 0
	p.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(topicsJSON), &p.Topics); err != nil {
		p.Topics = nil
	}
	return &p, nil
}

func nonNilTopics(t []domain.Topic) []domain.Topic {
	if t == nil {
		return []domain.Topic{}
	}
	return t
}
