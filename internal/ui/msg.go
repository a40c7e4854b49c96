package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-va/internal/notify"
	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/submit"
)

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// NotificationMsg carries a user-facing notification to the toast area.
type NotificationMsg struct {
	Notification notify.Notification
}

// PendingMsg announces that an operation was sent to the submitter.
type PendingMsg struct {
	Operation submit.Operation
}

// SubmitResultMsg is returned by a finished submission command.
type SubmitResultMsg struct {
	Result submit.Result
}

// SubmitErrorMsg means the form was rejected before anything was built.
type SubmitErrorMsg struct {
	Err error
}

// OrdersLoadedMsg carries the open orders of the connected wallet.
type OrdersLoadedMsg struct {
	Orders []overview.OpenOrder
	Err    error
}

// HistoryLoadedMsg carries the closed orders of the connected wallet.
type HistoryLoadedMsg struct {
	Orders []overview.ClosedOrder
	Err    error
}

// ExportedMsg reports where the fill export was written.
type ExportedMsg struct {
	Path string
	Err  error
}

// Bus доставляет уведомления из фоновых горутин в tea.Program.
var Bus = make(chan tea.Msg, 256)

// Publish sends msg to the bus. A full bus drops the message.
func Publish(msg tea.Msg) bool {
	select {
	case Bus <- msg:
		return true
	default:
		return false
	}
}

// PublishNotification publishes a notification to the UI bus
func PublishNotification(n notify.Notification) bool {
	return Publish(NotificationMsg{Notification: n})
}

// ListenBus returns a tea.Cmd that listens to the event bus
func ListenBus() tea.Cmd {
	return func() tea.Msg {
		return <-Bus
	}
}

// BusNotifier delivers notifications to the running TUI.
type BusNotifier struct{}

func (BusNotifier) Notify(n notify.Notification) {
	PublishNotification(n)
}

// Route represents different screens in the application
type Route int

const (
	RouteMainMenu Route = iota
	RouteOpenOrder
	RouteOrders
	RouteHistory
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteMainMenu:
		return "main_menu"
	case RouteOpenOrder:
		return "open_order"
	case RouteOrders:
		return "orders"
	case RouteHistory:
		return "history"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}
