package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/learncoach/internal/domain"
)

// Preference groups stored in student_preferences.
const (
	PrefLearning = "learning"
	PrefSchedule = "schedule"
	PrefSuccess  = "success"
	PrefProfile  = "profile"
)

// Preferences holds a student's preference values grouped by type, then
// by key. Values are JSON.
type Preferences map[string]map[string]json.RawMessage

// PreferencesFromProfile flattens a profile's preference sections into
// preference rows.
func PreferencesFromProfile(p domain.StudentProfile) (Preferences, error) {
	prefs := Preferences{}
	sections := []struct {
		kind string
		v    any
	}{
		{PrefLearning, p.Learning},
		{PrefSchedule, p.Schedule},
		{PrefSuccess, p.Success},
		{PrefProfile, struct {
			Goals         []string `json:"goals"`
			AvailableTime string   `json:"available_time"`
		}{p.Goals, p.AvailableTime}},
	}
	for _, s := range sections {
		raw, err := json.Marshal(s.v)
		if err != nil {
			return nil, fmt.Errorf("encode %s preferences: %w", s.kind, err)
		}
		var kv map[string]json.RawMessage
		if err := json.Unmarshal(raw, &kv); err != nil {
			return nil, fmt.Errorf("split %s preferences: %w", s.kind, err)
		}
		prefs[s.kind] = kv
	}
	return prefs, nil
}

// Apply decodes the grouped preferences back onto a profile. Unknown keys
// are ignored and malformed groups are skipped.
func (p Preferences) Apply(profile *domain.StudentProfile) {
	decode := func(kind string, into any) {
		group, ok := p[kind]
		if !ok {
			return
		}
		raw, err := json.Marshal(group)
		if err != nil {
			return
		}
		_ = json.Unmarshal(raw, into)
	}
	decode(PrefLearning, &profile.Learning)
	decode(PrefSchedule, &profile.Schedule)
	decode(PrefSuccess, &profile.Success)

	var extra struct {
		Goals         []string `json:"goals"`
		AvailableTime string   `json:"available_time"`
	}
	decode(PrefProfile, &extra)
	profile.Goals = extra.Goals
	profile.AvailableTime = extra.AvailableTime
}

// StudentRepo persists students and their preferences.
type StudentRepo struct{ repoBase }

var studentColumns = []string{"student_id", "student_name", "email", "experience_level", "current_topic", "created_at", "updated_at"}

// Upsert inserts or updates the student and replaces all of their
// preferences. Run it inside a transaction to make both steps atomic.
func (r *StudentRepo) Upsert(ctx context.Context, s domain.Student, prefs Preferences) error {
	now := formatTime(r.now())
	b := r.builder()

	insert := b.Insert("students").
		Columns(studentColumns...).
		Values(s.ID, s.Name, s.Email, s.ExperienceLevel, s.CurrentTopic, now, now).
		OnConflict(
			entsql.ConflictColumns("student_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("student_name")
				u.SetExcluded("email")
				u.SetExcluded("experience_level")
				u.SetExcluded("current_topic")
				u.SetExcluded("updated_at")
			}),
		)
	if _, err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("upsert student %s: %w", s.ID, err)
	}

	del := b.Delete("student_preferences").Where(entsql.EQ("student_id", s.ID))
	if _, err := r.exec(ctx, del); err != nil {
		return fmt.Errorf("clear preferences for %s: %w", s.ID, err)
	}

	kinds := make([]string, 0, len(prefs))
	for kind := range prefs {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		keys := make([]string, 0, len(prefs[kind]))
		for key := range prefs[kind] {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			ins := b.Insert("student_preferences").
				Columns("id", "student_id", "preference_type", "preference_key", "preference_value", "created_at").
				Values(newID(), s.ID, kind, key, string(prefs[kind][key]), now)
			if _, err := r.exec(ctx, ins); err != nil {
				return fmt.Errorf("save preference %s.%s: %w", kind, key, err)
			}
		}
	}
	return nil
}

// Get returns the student with the given id.
func (r *StudentRepo) Get(ctx context.Context, id string) (*domain.Student, error) {
	b := r.builder()
	q := b.Select(studentColumns...).From(b.Table("students")).Where(entsql.EQ("student_id", id))
	s, err := scanStudent(r.queryRow(ctx, q))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get student %s: %w", id, err)
	}
	return s, nil
}

// FindByName returns students whose name equals name, ignoring case,
// newest first.
func (r *StudentRepo) FindByName(ctx context.Context, name string) ([]domain.Student, error) {
	b := r.builder()
	q := b.Select(studentColumns...).From(b.Table("students")).
		Where(entsql.EqualFold("student_name", name)).
		OrderBy(entsql.Desc("created_at"))
	return r.list(ctx, q)
}

// FindByNameAndID returns the student only if both the id and the
// case-insensitive name match.
func (r *StudentRepo) FindByNameAndID(ctx context.Context, name, id string) (*domain.Student, error) {
	b := r.builder()
	q := b.Select(studentColumns...).From(b.Table("students")).
		Where(entsql.And(entsql.EQ("student_id", id), entsql.EqualFold("student_name", name)))
	s, err := scanStudent(r.queryRow(ctx, q))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %s named %q: %w", id, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find student %s: %w", id, err)
	}
	return s, nil
}

// List returns every student, most recently updated first.
func (r *StudentRepo) List(ctx context.Context) ([]domain.Student, error) {
	b := r.builder()
	q := b.Select(studentColumns...).From(b.Table("students")).OrderBy(entsql.Desc("updated_at"))
	return r.list(ctx, q)
}

// Preferences returns the student's preferences grouped by type.
func (r *StudentRepo) Preferences(ctx context.Context, id string) (Preferences, error) {
	b := r.builder()
	q := b.Select("preference_type", "preference_key", "preference_value").
		From(b.Table("student_preferences")).
		Where(entsql.EQ("student_id", id)).
		OrderBy("preference_type", "preference_key")
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query preferences for %s: %w", id, err)
	}
	defer rows.Close()

	prefs := Preferences{}
	for rows.Next() {
		var kind, key, value string
		if err := rows.Scan(&kind, &key, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		if prefs[kind] == nil {
			prefs[kind] = map[string]json.RawMessage{}
		}
		if !json.Valid([]byte(value)) {
			quoted, _ := json.Marshal(value)
			value = string(quoted)
		}
		prefs[kind][key] = json.RawMessage(value)
	}
	return prefs, rows.Err()
}

// Profile loads the student and their preferences as a profile.
func (r *StudentRepo) Profile(ctx context.Context, id string) (*domain.StudentProfile, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	prefs, err := r.Preferences(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &domain.StudentProfile{
		StudentID:       s.ID,
		Name:            s.Name,
		Email:           s.Email,
		ExperienceLevel: s.ExperienceLevel,
		CurrentTopic:    s.CurrentTopic,
	}
	prefs.Apply(p)
	return p, nil
}

func (r *StudentRepo) list(ctx context.Context, q *entsql.Selector) ([]domain.Student, error) {
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var out []domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (*domain.Student, error) {
	var (
		s                    domain.Student
		createdAt, updatedAt string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.ExperienceLevel, &s.CurrentTopic, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}
