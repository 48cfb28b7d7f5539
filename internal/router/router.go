package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/session"
)

// Factory builds the view for a session screen.
type Factory func(s session.Screen) screen.Screen

// Router keeps the mounted view in step with the session's current screen.
type Router struct {
	factory Factory
	mounted session.Screen
	active  screen.Screen
}

// New creates a Router with nothing mounted.
func New(factory Factory) *Router {
	return &Router{factory: factory, mounted: -1}
}

// Sync mounts the view for s if it is not already mounted and returns the
// new view's Init command.
func (r *Router) Sync(s session.Screen) tea.Cmd {
	if r.active != nil && r.mounted == s {
		return nil
	}
	return r.Replace(s, r.factory(s))
}

// Replace mounts v as the view for s and calls its Init().
func (r *Router) Replace(s session.Screen, v screen.Screen) tea.Cmd {
	r.mounted = s
	r.active = v
	if v == nil {
		return nil
	}
	return v.Init()
}

// Active returns the mounted view.
func (r *Router) Active() screen.Screen {
	return r.active
}

// Mounted returns the session screen the active view belongs to.
func (r *Router) Mounted() session.Screen {
	return r.mounted
}

// Update forwards a message to the active view.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if r.active == nil {
		return nil
	}
	updated, cmd := r.active.Update(msg)
	r.active = updated
	return cmd
}

// View renders the active view.
func (r *Router) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}
