package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// timeLayout is fixed-width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// repoBase carries what every repository needs.
type repoBase struct {
	db      DBTX
	dialect string
	now     func() time.Time
}

func (r repoBase) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

func (r repoBase) exec(ctx context.Context, q interface{ Query() (string, []any) }) (sql.Result, error) {
	query, args := q.Query()
	return r.db.ExecContext(ctx, query, args...)
}

func (r repoBase) query(ctx context.Context, q interface{ Query() (string, []any) }) (*sql.Rows, error) {
	query, args := q.Query()
	return r.db.QueryContext(ctx, query, args...)
}

func (r repoBase) queryRow(ctx context.Context, q interface{ Query() (string, []any) }) *sql.Row {
	query, args := q.Query()
	return r.db.QueryRowContext(ctx, query, args...)
}

func (r repoBase) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return r.now()
	}
	return t.UTC()
}

func newID() string {
	return uuid.NewString()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// nullableTime converts a *time.Time to a value for storage, nil meaning NULL.
func nullableTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

// boolToInt converts a Go bool to 0 or 1 for storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// stringList decodes a JSON array column, tolerating NULL and garbage.
func stringList(s sql.NullString) []string {
	out := []string{}
	if !s.Valid || s.String == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return []string{}
	}
	return out
}

func mustJSONList(v []string) string {
	if v == nil {
		v = []string{}
	}
	s, err := marshalJSON(v)
	if err != nil {
		return "[]"
	}
	return s
}
