package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpulse/internal/screen"
)

// PushScreenMsg requests the router to push a new screen over the active tab.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the top pushed screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg requests the router to replace the top screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// SelectTabMsg requests the router to switch to the tab at Index.
type SelectTabMsg struct {
	Index int
}

// Router manages a row of tabs. Each tab owns a stack of screens whose
// bottom is the tab's root screen; switching tabs keeps every stack intact.
type Router struct {
	tabs   [][]screen.Screen
	active int
}

// New creates a Router with one tab per root screen.
func New(roots ...screen.Screen) *Router {
	r := &Router{tabs: make([][]screen.Screen, 0, len(roots))}
	for _, s := range roots {
		r.tabs = append(r.tabs, []screen.Screen{s})
	}
	return r
}

// Init runs Init on every root screen.
func (r *Router) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(r.tabs))
	for _, stack := range r.tabs {
		cmds = append(cmds, stack[0].Init())
	}
	return tea.Batch(cmds...)
}

// Push adds a screen on top of the active tab and calls its Init().
func (r *Router) Push(s screen.Screen) tea.Cmd {
	if len(r.tabs) == 0 {
		r.tabs = append(r.tabs, []screen.Screen{s})
		return s.Init()
	}
	r.tabs[r.active] = append(r.tabs[r.active], s)
	return s.Init()
}

// Pop removes the top screen of the active tab. No-op at the root.
func (r *Router) Pop() tea.Cmd {
	if r.Depth() <= 1 {
		return nil
	}
	stack := r.tabs[r.active]
	r.tabs[r.active] = stack[:len(stack)-1]
	return nil
}

// Replace swaps the top screen of the active tab and calls its Init().
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.tabs) == 0 {
		return r.Push(s)
	}
	stack := r.tabs[r.active]
	stack[len(stack)-1] = s
	return s.Init()
}

// Select switches to tab i. Out-of-range indexes are ignored.
func (r *Router) Select(i int) {
	if i >= 0 && i < len(r.tabs) {
		r.active = i
	}
}

// Next switches to the following tab, wrapping around.
func (r *Router) Next() {
	if len(r.tabs) > 0 {
		r.active = (r.active + 1) % len(r.tabs)
	}
}

// Prev switches to the preceding tab, wrapping around.
func (r *Router) Prev() {
	if len(r.tabs) > 0 {
		r.active = (r.active - 1 + len(r.tabs)) % len(r.tabs)
	}
}

// ActiveTab returns the index of the active tab.
func (r *Router) ActiveTab() int {
	return r.active
}

// TabTitles returns the titles of each tab's root screen.
func (r *Router) TabTitles() []string {
	titles := make([]string, len(r.tabs))
	for i, stack := range r.tabs {
		titles[i] = stack[0].Title()
	}
	return titles
}

// Active returns the top screen of the active tab.
func (r *Router) Active() screen.Screen {
	if len(r.tabs) == 0 {
		return nil
	}
	stack := r.tabs[r.active]
	return stack[len(stack)-1]
}

// Depth returns the number of screens on the active tab's stack.
func (r *Router) Depth() int {
	if len(r.tabs) == 0 {
		return 0
	}
	return len(r.tabs[r.active])
}

// Update forwards a message to the active screen and handles navigation messages.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case SelectTabMsg:
		r.Select(msg.Index)
		return nil
	}

	active := r.Active()
	if active == nil {
		return nil
	}

	updated, cmd := active.Update(msg)
	stack := r.tabs[r.active]
	stack[len(stack)-1] = updated
	return cmd
}

// Broadcast delivers msg to every screen on every tab, not only the
// active one.
func (r *Router) Broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, stack := range r.tabs {
		for i, s := range stack {
			updated, cmd := s.Update(msg)
			stack[i] = updated
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
