package router

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-va/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Busy is implemented by screens that must not be left while an operation
// is in flight.
type Busy interface {
	Busy() bool
}

// Factory builds the screen for a route. Nil means the route is unknown.
type Factory func(route ui.Route) Screen

// Router manages navigation between screens using a stack-based approach
type Router struct {
	stack   []Screen
	routes  []ui.Route
	factory Factory
	width   int
	height  int
}

// New creates a router with the main menu at the bottom of the stack.
func New(factory Factory) *Router {
	r := &Router{factory: factory}
	if s := factory(ui.RouteMainMenu); s != nil {
		r.stack = []Screen{s}
		r.routes = []ui.Route{ui.RouteMainMenu}
	}
	return r
}

// Init initializes the current screen
func (r *Router) Init() tea.Cmd {
	if s := r.Current(); s != nil {
		return s.Init()
	}
	return nil
}

// Update processes messages and updates the current screen
func (r *Router) Update(msg tea.Msg) (*Router, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RouterMsg:
		return r, r.Navigate(msg.To)

	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "esc" && r.CanGoBack() && !r.busy() {
			return r, r.Pop()
		}
	}

	s := r.Current()
	if s == nil {
		return r, nil
	}
	updated, cmd := s.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return r, cmd
}

func (r *Router) busy() bool {
	b, ok := r.Current().(Busy)
	return ok && b.Busy()
}

// View renders the current screen
func (r *Router) View() string {
	if s := r.Current(); s != nil {
		return s.View()
	}
	return "No screen available"
}

// SetSize sets the size for the router and current screen
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	if s := r.Current(); s != nil {
		s.SetSize(width, height)
	}
}

// Navigate opens the route. The main menu clears the stack; a route that is
// already open is brought back instead of stacked twice.
func (r *Router) Navigate(route ui.Route) tea.Cmd {
	if route == ui.RouteMainMenu {
		return r.Clear()
	}
	for i, open := range r.routes {
		if open == route {
			r.stack = r.stack[:i+1]
			r.routes = r.routes[:i+1]
			return r.reinit()
		}
	}
	s := r.factory(route)
	if s == nil {
		return nil
	}
	return r.Push(route, s)
}

// Push adds a new screen to the navigation stack
func (r *Router) Push(route ui.Route, screen Screen) tea.Cmd {
	screen.SetSize(r.width, r.height)
	r.stack = append(r.stack, screen)
	r.routes = append(r.routes, route)
	return screen.Init()
}

// Pop removes the current screen from the stack
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	r.routes = r.routes[:len(r.routes)-1]
	return r.reinit()
}

// Clear removes all screens except the first one
func (r *Router) Clear() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:1]
	r.routes = r.routes[:1]
	return r.reinit()
}

func (r *Router) reinit() tea.Cmd {
	s := r.Current()
	s.SetSize(r.width, r.height)
	return s.Init()
}

// Current returns the current screen
func (r *Router) Current() Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Route returns the route of the current screen.
func (r *Router) Route() ui.Route {
	if len(r.routes) == 0 {
		return ui.RouteMainMenu
	}
	return r.routes[len(r.routes)-1]
}

// Depth returns the current navigation depth
func (r *Router) Depth() int {
	return len(r.stack)
}

// CanGoBack returns true if there are screens to go back to
func (r *Router) CanGoBack() bool {
	return len(r.stack) > 1
}
