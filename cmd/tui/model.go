package main

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-va/internal/ui"
	"github.com/rovshanmuradov/solana-va/internal/ui/component"
	"github.com/rovshanmuradov/solana-va/internal/ui/router"
	"github.com/rovshanmuradov/solana-va/internal/ui/screen"
)

const (
	notificationTTL = 8 * time.Second
	logPanelHeight  = 8
)

type clearNotificationMsg struct{ seq int }

// AppModel represents the main TUI application model
type AppModel struct {
	services ui.ServiceProvider
	keyMap   ui.KeyMap
	router   *router.Router
	header   *component.StatusHeader
	logs     *component.LogPanel
	width    int
	height   int
	notifSeq int
}

// screens builds a screen for every route.
func screens(services ui.ServiceProvider) router.Factory {
	return func(route ui.Route) router.Screen {
		switch route {
		case ui.RouteMainMenu:
			return screen.NewMainMenuScreen(services)
		case ui.RouteOpenOrder:
			return screen.NewOpenOrderScreen(services)
		case ui.RouteOrders:
			return screen.NewOrdersScreen(services)
		case ui.RouteHistory:
			return screen.NewHistoryScreen(services)
		case ui.RouteLogs:
			return screen.NewLogsScreen(services)
		}
		return nil
	}
}

// NewAppModel creates a new application model
func NewAppModel(services ui.ServiceProvider) *AppModel {
	header := component.NewStatusHeader()
	header.SetWallet(services.WalletAddress())
	header.SetNetwork(services.Network())

	logs := component.NewLogPanel(services.GetLogBuffer())
	logs.SetVisible(false)

	return &AppModel{
		services: services,
		keyMap:   ui.DefaultKeyMap(),
		router:   router.New(screens(services)),
		header:   header,
		logs:     logs,
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Init(), ui.ListenBus())
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.ToggleLogs):
			m.logs.Toggle()
			m.layout()
			return m, nil
		}

	case ui.NotificationMsg:
		m.header.SetNotification(msg.Notification)
		m.notifSeq++
		seq := m.notifSeq
		m.layout()
		return m, tea.Batch(ui.ListenBus(), tea.Tick(notificationTTL, func(time.Time) tea.Msg {
			return clearNotificationMsg{seq: seq}
		}))

	case clearNotificationMsg:
		if msg.seq == m.notifSeq {
			m.header.ClearNotification()
			m.layout()
		}
		return m, nil

	case ui.PendingMsg:
		m.header.SetPending(string(msg.Operation))
		return m, nil

	case ui.SubmitResultMsg, ui.SubmitErrorMsg:
		m.header.SetPending("")
	}

	var cmd tea.Cmd
	m.router, cmd = m.router.Update(msg)
	return m, cmd
}

// layout gives the router whatever the header and the log panel leave.
func (m *AppModel) layout() {
	if m.width == 0 {
		return
	}
	m.header.SetWidth(m.width)
	used := lipgloss.Height(m.header.View())
	if m.logs.IsVisible() {
		m.logs.SetSize(m.width, logPanelHeight)
		used += logPanelHeight
	}
	m.router.SetSize(m.width, max(m.height-used, 5))
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	parts := []string{m.header.View(), m.router.View()}
	if m.logs.IsVisible() {
		parts = append(parts, m.logs.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
