package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderHeaderTrimsTrail(t *testing.T) {
	trail := []string{"Home", "Learning Path", "A rather long screen title"}

	wide := RenderHeader(trail, "Ada", 120)
	for _, want := range []string{"Home", "Learning Path", "Ada"} {
		if !strings.Contains(wide, want) {
			t.Errorf("wide header missing %q", want)
		}
	}

	narrow := RenderHeader(trail, "Ada", 40)
	if strings.Contains(narrow, "Home") {
		t.Error("narrow header should drop the leading crumbs")
	}
	if !strings.Contains(narrow, "…") || !strings.Contains(narrow, "A rather long screen title") {
		t.Errorf("narrow header = %q", narrow)
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader([]string{"Home"}, "", 80)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "Quit"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 24)
	if h := lipgloss.Height(frame); h != 24 {
		t.Errorf("frame height = %d, want 24", h)
	}
}

func TestBullets(t *testing.T) {
	if got := Bullets(nil, "none yet"); !strings.Contains(got, "none yet") {
		t.Errorf("empty = %q", got)
	}
	got := Bullets([]string{"loops", "lists"}, "")
	if strings.Count(got, "•") != 2 || strings.Count(got, "\n") != 1 {
		t.Errorf("bullets = %q", got)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) || IsTooSmall(MinWidth, MinHeight) {
		t.Error("size check off by one")
	}
}
