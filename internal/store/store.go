package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store owns the database handle and hands out repositories bound to it.
type Store struct {
	db      *sql.DB
	dialect string
	uow     *UnitOfWork
	now     func() time.Time
}

// Open connects to the database, applies pragmas (SQLite only) and runs
// migrations. driver is "sqlite" or "postgres"; an empty driver means sqlite.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "", DriverSQLite:
		return openSQLite(dsn)
	case DriverPostgres:
		return openPostgres(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver: %q", driver)
	}
}

func openSQLite(dsn string) (*Store, error) {
	if !isMemoryDSN(dsn) {
		if err := ensureDir(strings.TrimPrefix(dsn, "file:")); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps in-memory databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	return newStore(db, dialect.SQLite)
}

func openPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return newStore(db, dialect.Postgres)
}

func newStore(db *sql.DB, d string) (*Store, error) {
	if err := Migrate(db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{
		db:      db,
		dialect: d,
		uow:     NewUnitOfWork(db),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name of the connection.
func (s *Store) Dialect() string {
	return s.dialect
}

// SetClock overrides the time source used to stamp new rows.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Repos returns repositories bound to the connection pool.
func (s *Store) Repos() Repos {
	return newRepos(s.db, s.dialect, s.now)
}

// WithinTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, newRepos(tx, s.dialect, s.now))
	})
}

// EventRepo returns the LLM audit event repository.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, dialect: s.dialect, now: s.now}
}

// Repos groups every repository over one DBTX.
type Repos struct {
	Students    *StudentRepo
	Paths       *PathRepo
	Sessions    *SessionRepo
	Assessments *AssessmentRepo
	Analyses    *AnalysisRepo
	Progress    *ProgressRepo
	Insights    *InsightRepo
	Schedules   *ScheduleRepo
}

func newRepos(db DBTX, d string, now func() time.Time) Repos {
	base := repoBase{db: db, dialect: d, now: now}
	return Repos{
		Students:    &StudentRepo{base},
		Paths:       &PathRepo{base},
		Sessions:    &SessionRepo{base},
		Assessments: &AssessmentRepo{base},
		Analyses:    &AnalysisRepo{base},
		Progress:    &ProgressRepo{base},
		Insights:    &InsightRepo{base},
		Schedules:   &ScheduleRepo{base},
	}
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. COACH_DB environment variable
// 2. $XDG_DATA_HOME/learncoach/coach.db
// 3. ~/.local/share/learncoach/coach.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("COACH_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "learncoach", "coach.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
