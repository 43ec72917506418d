package testutil

import (
	"context"
	"testing"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/store"
)

// NewTestStore opens an in-memory SQLite store with migrations applied.
// It is closed when the test finishes.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// SeedStudent saves the profile and its preferences.
func SeedStudent(t *testing.T, s *store.Store, p domain.StudentProfile) {
	t.Helper()
	prefs, err := store.PreferencesFromProfile(p)
	if err != nil {
		t.Fatalf("encode preferences: %v", err)
	}
	if err := s.Repos().Students.Upsert(context.Background(), p.Student(), prefs); err != nil {
		t.Fatalf("seed student %s: %v", p.StudentID, err)
	}
}

// SeedActivePath saves path as the student's active path.
func SeedActivePath(t *testing.T, s *store.Store, path domain.LearningPath) *domain.LearningPath {
	t.Helper()
	if err := s.Repos().Paths.SaveActive(context.Background(), &path); err != nil {
		t.Fatalf("seed path for %s: %v", path.StudentID, err)
	}
	return &path
}
