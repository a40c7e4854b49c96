package router

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-va/internal/ui"
)

type stubScreen struct {
	name   string
	inits  int
	width  int
	height int
	busy   bool
	seen   []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View() string { return s.name }

func (s *stubScreen) SetSize(w, h int) { s.width, s.height = w, h }

func (s *stubScreen) Busy() bool { return s.busy }

func newTestRouter() (*Router, map[ui.Route]int) {
	built := map[ui.Route]int{}
	r := New(func(route ui.Route) Screen {
		if route == ui.Route(99) {
			return nil
		}
		built[route]++
		return &stubScreen{name: route.String()}
	})
	return r, built
}

func TestRouter_NavigateAndBack(t *testing.T) {
	r, built := newTestRouter()
	r.SetSize(80, 24)
	assert.Equal(t, "main_menu", r.View())

	r.Update(ui.RouterMsg{To: ui.RouteOrders})
	assert.Equal(t, ui.RouteOrders, r.Route())
	assert.Equal(t, 2, r.Depth())
	orders := r.Current().(*stubScreen)
	assert.Equal(t, 80, orders.width)
	assert.Equal(t, 1, orders.inits)

	r.Update(ui.RouterMsg{To: ui.RouteLogs})
	assert.Equal(t, 3, r.Depth())

	// повторный переход возвращает уже открытый экран
	r.Update(ui.RouterMsg{To: ui.RouteOrders})
	assert.Equal(t, 2, r.Depth())
	assert.Same(t, orders, r.Current())
	assert.Equal(t, 2, orders.inits)
	assert.Equal(t, 1, built[ui.RouteOrders])

	r.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, ui.RouteMainMenu, r.Route())

	// esc на корне уходит в экран
	r.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, r.Depth())
	assert.Len(t, r.Current().(*stubScreen).seen, 1)
}

func TestRouter_MainMenuClearsStack(t *testing.T) {
	r, _ := newTestRouter()
	r.Update(ui.RouterMsg{To: ui.RouteOpenOrder})
	r.Update(ui.RouterMsg{To: ui.RouteHistory})
	require.Equal(t, 3, r.Depth())

	r.Update(ui.RouterMsg{To: ui.RouteMainMenu})
	assert.Equal(t, 1, r.Depth())
	assert.False(t, r.CanGoBack())
}

func TestRouter_BusyScreenKeepsEsc(t *testing.T) {
	r, _ := newTestRouter()
	r.Update(ui.RouterMsg{To: ui.RouteOpenOrder})
	s := r.Current().(*stubScreen)
	s.busy = true

	r.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 2, r.Depth())
	require.Len(t, s.seen, 1)
	assert.Equal(t, "esc", s.seen[0].(tea.KeyMsg).String())
}

func TestRouter_UnknownRoute(t *testing.T) {
	r, _ := newTestRouter()
	_, cmd := r.Update(ui.RouterMsg{To: ui.Route(99)})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, r.Depth())
}
