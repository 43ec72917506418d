// Package router keeps the dashboard's screen stack. Screens navigate by
// returning the message types below as commands.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learncoach/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct{ Screen screen.Screen }

// ReplaceScreenMsg swaps the current screen for Screen.
type ReplaceScreenMsg struct{ Screen screen.Screen }

// PopScreenMsg goes back one screen.
type PopScreenMsg struct{}

// HomeMsg goes back to the bottom screen.
type HomeMsg struct{}

// Router is a non-empty stack of screens; only the top one sees input.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) Active() screen.Screen { return r.stack[len(r.stack)-1] }

func (r *Router) Depth() int { return len(r.stack) }

// Trail lists screen titles from the bottom of the stack up.
func (r *Router) Trail() []string {
	out := make([]string, len(r.stack))
	for i, s := range r.stack {
		out[i] = s.Title()
	}
	return out
}

// Update applies navigation messages itself and hands anything else to the
// active screen. A pushed or replacing screen gets its Init run.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		r.stack = append(r.stack, msg.Screen)
		return msg.Screen.Init()
	case ReplaceScreenMsg:
		r.stack[len(r.stack)-1] = msg.Screen
		return msg.Screen.Init()
	case PopScreenMsg:
		if len(r.stack) > 1 {
			r.stack = r.stack[:len(r.stack)-1]
		}
		return nil
	case HomeMsg:
		r.stack = r.stack[:1]
		return nil
	}

	next, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
