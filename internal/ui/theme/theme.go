// Package theme holds the dashboard palette and shared lipgloss styles.
package theme

import "charm.land/lipgloss/v2"

var (
	Ink   = lipgloss.Color("#E5E7EB")
	Faint = lipgloss.Color("#9CA3AF")
	Brand = lipgloss.Color("#0EA5E9")
	Leaf  = lipgloss.Color("#10B981")
	Amber = lipgloss.Color("#F59E0B")
	Alert = lipgloss.Color("#EF4444")
	Panel = lipgloss.Color("#111827")
	Edge  = lipgloss.Color("#374151")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Brand)
	Subtitle = lipgloss.NewStyle().Foreground(Faint)
	Body     = lipgloss.NewStyle().Foreground(Ink)
	Hint     = lipgloss.NewStyle().Foreground(Faint).Italic(true)
	Section  = lipgloss.NewStyle().Bold(true).Foreground(Leaf)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Edge).
		Padding(1, 2)

	Bar = lipgloss.NewStyle().
		Background(Panel).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Edge)

	Selected = lipgloss.NewStyle().Bold(true).Foreground(Brand)
	Done     = lipgloss.NewStyle().Bold(true).Foreground(Leaf)
	Caution  = lipgloss.NewStyle().Bold(true).Foreground(Amber)
	Warning  = lipgloss.NewStyle().Bold(true).Foreground(Alert)
)

// Score picks the style for a 0-100 score measured against the student's
// success threshold: at or above it, within ten points, or further below.
func Score(score, threshold float64) lipgloss.Style {
	switch {
	case score >= threshold:
		return Done
	case score >= threshold-10:
		return Caution
	default:
		return Warning
	}
}
