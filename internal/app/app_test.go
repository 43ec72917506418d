package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/screens/home"
)

func TestAppModel_HeaderShowsStudent(t *testing.T) {
	snap := &coach.Snapshot{Profile: domain.StudentProfile{StudentID: "s1", Name: "Ada Lovelace"}}
	m := newAppModel(home.New(snap))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := updated.(AppModel).render()
	if !strings.Contains(view, "Ada Lovelace") || !strings.Contains(view, "Home") {
		t.Errorf("header missing trail or student name:\n%s", view)
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	m := newAppModel(home.New(&coach.Snapshot{}))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	if !strings.Contains(updated.(AppModel).render(), "needs at least 60×20") {
		t.Error("expected size warning")
	}
}

func TestRun_RequiresLoader(t *testing.T) {
	if err := Run(context.Background(), Options{}); err == nil {
		t.Error("expected an error without a loader")
	}
}

func TestRun_UnknownStudent(t *testing.T) {
	load := func(ctx context.Context, id string) (*coach.Snapshot, error) {
		return nil, errors.New("not found")
	}
	err := Run(context.Background(), Options{Load: load, StudentID: "nobody"})
	if err == nil || !strings.Contains(err.Error(), "load student nobody") {
		t.Errorf("err = %v", err)
	}
}
