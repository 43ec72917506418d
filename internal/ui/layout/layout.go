// Package layout draws the dashboard frame around the active screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncoach/internal/ui/theme"
)

// The frame needs this much room; smaller terminals get a resize notice.
const (
	MinWidth  = 60
	MinHeight = 20
)

const crumbSep = " › "

// KeyHint is one "key: action" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("The dashboard needs at least %d×%d.\nThis terminal is %d×%d.", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render(msg))
}

// RenderHeader shows the navigation trail on the left and the student on
// the right. Leading crumbs are dropped when the trail does not fit.
func RenderHeader(trail []string, student string, width int) string {
	inner := max(width-4, 0)
	right := theme.Subtitle.Render(student)
	room := inner - lipgloss.Width(right) - 1

	crumbs := trail
	left := renderTrail(crumbs)
	for len(crumbs) > 1 && lipgloss.Width(left) > room {
		crumbs = crumbs[1:]
		left = theme.Subtitle.Render("…"+crumbSep) + renderTrail(crumbs)
	}

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return theme.Bar.Width(width).Render(" " + left + strings.Repeat(" ", gap) + right)
}

func renderTrail(trail []string) string {
	parts := make([]string, len(trail))
	for i, t := range trail {
		if i == len(trail)-1 {
			parts[i] = theme.Title.Render(t)
		} else {
			parts[i] = theme.Subtitle.Render(t)
		}
	}
	return strings.Join(parts, theme.Subtitle.Render(crumbSep))
}

func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, theme.Body.Bold(true).Render(h.Key)+" "+theme.Subtitle.Render(h.Description))
	}
	return theme.Bar.Width(width).Render(" " + strings.Join(parts, "  ·  "))
}

// RenderFrame stacks header, content and footer, sizing the content to
// whatever height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}

// Bullets renders items as a bullet list, or the empty note when there are none.
func Bullets(items []string, empty string) string {
	if len(items) == 0 {
		return theme.Hint.Render("  " + empty)
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(theme.Body.Render("  • " + it))
	}
	return b.String()
}
