package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Tab      key.Binding
	ShiftTab key.Binding

	// Orders
	Submit  key.Binding
	Deposit key.Binding
	Close   key.Binding
	Refresh key.Binding
	Export  key.Binding

	// Logs
	ToggleLogs  key.Binding
	FilterDebug key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),

		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Deposit: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "deposit"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "withdraw & close"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/F5", "refresh"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),

		ToggleLogs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle logs"),
		),
		FilterDebug: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("F4", "toggle debug"),
		),
	}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteMainMenu:
		return []key.Binding{k.Up, k.Down, k.Enter, k.ToggleLogs, k.Quit}
	case RouteOpenOrder:
		return []key.Binding{k.Tab, k.ShiftTab, k.Submit, k.Back, k.Quit}
	case RouteOrders:
		return []key.Binding{k.Up, k.Down, k.Deposit, k.Close, k.Refresh, k.Back}
	case RouteHistory:
		return []key.Binding{k.Up, k.Down, k.Refresh, k.Export, k.Back}
	case RouteLogs:
		return []key.Binding{k.Up, k.Down, k.FilterDebug, k.Back, k.Quit}
	default:
		return []key.Binding{k.Back, k.Quit}
	}
}
