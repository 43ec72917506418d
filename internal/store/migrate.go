package store

import (
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
)

// Migrate runs all schema migrations. Statements are idempotent and run on
// every open.
func Migrate(db *sql.DB, d string) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(render(stmt, d)); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// render substitutes dialect-specific column types.
func render(stmt, d string) string {
	float := "REAL"
	if d == dialect.Postgres {
		float = "DOUBLE PRECISION"
	}
	return strings.ReplaceAll(stmt, "{{float}}", float)
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS students (
		student_id       TEXT PRIMARY KEY,
		student_name     TEXT NOT NULL,
		email            TEXT NOT NULL DEFAULT '',
		experience_level TEXT NOT NULL DEFAULT '',
		current_topic    TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS student_preferences (
		id               TEXT PRIMARY KEY,
		student_id       TEXT NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
		preference_type  TEXT NOT NULL,
		preference_key   TEXT NOT NULL,
		preference_value TEXT NOT NULL,
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_student_preferences_student ON student_preferences(student_id)`,

	`CREATE TABLE IF NOT EXISTS learning_paths (
		id               TEXT PRIMARY KEY,
		student_id       TEXT NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
		topic            TEXT NOT NULL DEFAULT '',
		current_stage    TEXT NOT NULL DEFAULT '',
		overall_progress {{float}} NOT NULL DEFAULT 0,
		topics           TEXT NOT NULL DEFAULT '[]',
		is_active        INTEGER NOT NULL DEFAULT 1,
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_learning_paths_student ON learning_paths(student_id, is_active)`,

	`CREATE TABLE IF NOT EXISTS topics (
		id               TEXT PRIMARY KEY,
		learning_path_id TEXT NOT NULL REFERENCES learning_paths(id) ON DELETE CASCADE,
		topic_name       TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		estimated_time   TEXT NOT NULL DEFAULT '',
		order_index      INTEGER NOT NULL,
		status           TEXT NOT NULL DEFAULT 'not_started',
		completion_date  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_topics_path ON topics(learning_path_id)`,

	`CREATE TABLE IF NOT EXISTS study_sessions (
		id                  TEXT PRIMARY KEY,
		student_id          TEXT NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
		topic               TEXT NOT NULL,
		session_date        TEXT NOT NULL,
		duration_minutes    INTEGER NOT NULL,
		activities          TEXT NOT NULL DEFAULT '[]',
		notes               TEXT NOT NULL DEFAULT '',
		mood_rating         INTEGER NOT NULL CHECK(mood_rating BETWEEN 1 AND 5),
		productivity_rating INTEGER NOT NULL CHECK(productivity_rating BETWEEN 1 AND 5),
		created_at          TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_study_sessions_student ON study_sessions(student_id, session_date)`,

	`CREATE TABLE IF NOT EXISTS assessments (
		id                 TEXT PRIMARY KEY,
		student_id         TEXT NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
		topic              TEXT NOT NULL DEFAULT '',
		assessment_type    TEXT NOT NULL,
		assessment_name    TEXT NOT NULL,
		max_score          {{float}} NOT NULL,
		achieved_score     {{float}} NOT NULL,
		percentage         {{float}} NOT NULL,
		time_taken_minutes INTEGER NOT NULL DEFAULT 0,
		attempts           INTEGER NOT NULL DEFAULT 1,
		feedback           TEXT NOT NULL DEFAULT '',
		assessment_date    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_student ON assessments(student_id, assessment_date)`,

	`CREATE TABLE IF NOT EXISTS study_session_analyses (
		id                    TEXT PRIMARY KEY,
		student_id            TEXT NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
		session_id            TEXT NOT NULL DEFAULT '',
		analysis_data         TEXT NOT NULL,
		topic_alignment_score {{float}} NOT NULL DEFAULT 0,
		effectiveness_score   {{float}} NOT NULL DEFAULT 0,
		created_at            TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_analyses_student ON study_session_analyses(student_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS student_progress (
		id                       TEXT PRIMARY KEY,
		student_id               TEXT NOT NULL UNIQUE REFERENCES students(student_id) ON DELETE CASCADE,
		completed_topics         TEXT NOT NULL DEFAULT '[]',
		concepts_learned         TEXT NOT NULL DEFAULT '[]',
		areas_needing_review     TEXT NOT NULL DEFAULT '[]',
		last_effectiveness_score {{float}} NOT NULL DEFAULT 0,
		last_study_date          TEXT,
		total_study_sessions     INTEGER NOT NULL DEFAULT 0,
		average_effectiveness    {{float}} NOT NULL DEFAULT 0,
		created_at               TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS adaptive_insights (
		id                  TEXT PRIMARY KEY,
		student_id          TEXT NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
		insight_type        TEXT NOT NULL,
		insight_data        TEXT NOT NULL,
		effectiveness_score {{float}} NOT NULL DEFAULT 0,
		implemented         INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_adaptive_insights_student ON adaptive_insights(student_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id              TEXT PRIMARY KEY,
		student_id      TEXT NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
		schedule_data   TEXT NOT NULL,
		week_start_date TEXT NOT NULL,
		is_active       INTEGER NOT NULL DEFAULT 1,
		created_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_student ON schedules(student_id, is_active)`,

	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            TEXT PRIMARY KEY,
		timestamp     TEXT NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		student_id    TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_ts ON llm_request_events(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_student ON llm_request_events(student_id)`,
}
