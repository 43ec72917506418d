package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/learncoach/internal/ui/theme"
)

const (
	barLabelWidth = 20
	barValueWidth = 6
	barFill       = "█"
	barTrack      = "░"
)

// ProgressBar draws "label  ██████░░░░  42%". With a Target set the fill is
// coloured by theme.Score against it; otherwise it uses the done colour.
type ProgressBar struct {
	Label   string
	Percent float64
	Target  float64
	Width   int
}

// FromPercent builds a bar for a 0-100 value.
func FromPercent(label string, pct float64, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: pct, Width: width}
}

// Against sets the target used to colour the fill.
func (p ProgressBar) Against(target float64) ProgressBar {
	p.Target = target
	return p
}

func (p ProgressBar) View() string {
	pct := min(max(p.Percent, 0), 100)
	label := p.Label
	if r := []rune(label); len(r) > barLabelWidth-1 {
		label = string(r[:barLabelWidth-2]) + "…"
	}

	track := max(p.Width-barLabelWidth-barValueWidth, 4)
	filled := int(float64(track) * pct / 100)

	fill := theme.Done
	if p.Target > 0 {
		fill = theme.Score(pct, p.Target)
	}
	return theme.Body.Render(fmt.Sprintf("%-*s", barLabelWidth, label)) +
		fill.Render(strings.Repeat(barFill, filled)) +
		theme.Subtitle.Render(strings.Repeat(barTrack, track-filled)) +
		theme.Subtitle.Render(fmt.Sprintf("%*.0f%%", barValueWidth-1, pct))
}
