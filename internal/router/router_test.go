package router

import (
	"reflect"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learncoach/internal/screen"
)

type page struct {
	title string
	inits int
	seen  []tea.Msg
}

func (p *page) Init() tea.Cmd { p.inits++; return nil }

func (p *page) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	p.seen = append(p.seen, msg)
	return p, nil
}

func (p *page) View(w, h int) string { return "view:" + p.title }
func (p *page) Title() string        { return p.title }

func TestNavigation(t *testing.T) {
	home := &page{title: "Home"}
	progress := &page{title: "Progress"}
	path := &page{title: "Learning Path"}
	r := New(home)

	steps := []struct {
		msg   tea.Msg
		trail []string
	}{
		{PushScreenMsg{Screen: progress}, []string{"Home", "Progress"}},
		{ReplaceScreenMsg{Screen: path}, []string{"Home", "Learning Path"}},
		{PushScreenMsg{Screen: &page{title: "Insights"}}, []string{"Home", "Learning Path", "Insights"}},
		{PopScreenMsg{}, []string{"Home", "Learning Path"}},
		{HomeMsg{}, []string{"Home"}},
		{PopScreenMsg{}, []string{"Home"}},
	}
	for i, st := range steps {
		r.Update(st.msg)
		if got := r.Trail(); !reflect.DeepEqual(got, st.trail) {
			t.Fatalf("step %d: trail = %v, want %v", i, got, st.trail)
		}
	}
	if progress.inits != 1 || path.inits != 1 {
		t.Errorf("inits: progress=%d path=%d", progress.inits, path.inits)
	}
	if r.Depth() != 1 || r.Active() != home {
		t.Errorf("expected to be back home, depth %d", r.Depth())
	}
}

func TestOtherMessagesReachActiveScreen(t *testing.T) {
	home := &page{title: "Home"}
	top := &page{title: "Progress"}
	r := New(home)
	r.Update(PushScreenMsg{Screen: top})

	r.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if len(top.seen) != 1 || len(home.seen) != 0 {
		t.Fatalf("top saw %d, home saw %d", len(top.seen), len(home.seen))
	}
	if v := r.View(80, 24); v != "view:Progress" {
		t.Errorf("View = %q", v)
	}
}
