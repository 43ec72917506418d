package lookup

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/router"
	"github.com/abhisek/learncoach/internal/store"
)

func loader(ctx context.Context, id string) (*coach.Snapshot, error) {
	if id != "s1" {
		return nil, fmt.Errorf("student %s: %w", id, store.ErrNotFound)
	}
	return &coach.Snapshot{Profile: domain.StudentProfile{StudentID: "s1", Name: "Ada"}}, nil
}

func typeText(s *LookupScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestLookup_EmptyID(t *testing.T) {
	s := New(loader)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty id")
	}
	if s.input.Err() == "" {
		t.Error("expected an error message")
	}
}

func TestLookup_Found(t *testing.T) {
	s := New(loader)
	typeText(s, "s1")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	loaded, ok := cmd().(LoadedMsg)
	if !ok || loaded.Err != nil {
		t.Fatalf("unexpected load result %+v", loaded)
	}

	_, cmd = s.Update(loaded)
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg")
	}
	if push.Screen.Title() != "Home" {
		t.Errorf("pushed %q, want Home", push.Screen.Title())
	}
}

func TestLookup_NotFound(t *testing.T) {
	s := New(loader)
	s.Update(LoadedMsg{ID: "nobody", Err: fmt.Errorf("x: %w", store.ErrNotFound)})
	if !strings.Contains(s.input.Err(), `No student with id "nobody"`) {
		t.Errorf("error = %q", s.input.Err())
	}
	if !strings.Contains(s.View(80, 20), "No student with id") {
		t.Error("expected error in view")
	}
}
