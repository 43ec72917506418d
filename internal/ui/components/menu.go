package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learncoach/internal/ui/theme"
)

// MenuItem is one menu entry. Shortcut, when set, runs the item directly
// from anywhere in the menu.
type MenuItem struct {
	Label    string
	Shortcut string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor that skips disabled items.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = max(m.step(-1, 1), 0)
	return m
}

// step walks from index from in direction dir and returns the first
// enabled item, or -1.
func (m Menu) step(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k := key.String(); k {
	case "up", "k":
		if i := m.step(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
	case "down", "j":
		if i := m.step(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
	case "enter":
		return m, m.run(m.Selected)
	default:
		for i, it := range m.Items {
			if it.Shortcut == k && !it.Disabled {
				m.Selected = i
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	it := m.Items[i]
	if it.Disabled || it.Action == nil {
		return nil
	}
	return it.Action()
}

func (m Menu) View() string {
	var b strings.Builder
	for i, it := range m.Items {
		var key string
		if it.Shortcut != "" {
			key = theme.Subtitle.Render("  " + it.Shortcut)
		}
		switch {
		case it.Disabled:
			b.WriteString(theme.Hint.Render("    " + it.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ "+it.Label) + key)
		default:
			b.WriteString(theme.Body.Render("    "+it.Label) + key)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
