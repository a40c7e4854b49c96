package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-va/internal/ui"
	"github.com/rovshanmuradov/solana-va/internal/ui/component"
	"github.com/rovshanmuradov/solana-va/internal/ui/router"
	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

const logsRefreshInterval = time.Second

type logsTickMsg time.Time

// LogsScreen shows the full log buffer.
type LogsScreen struct {
	services ui.ServiceProvider
	keyMap   ui.KeyMap
	width    int
	height   int

	panel   *component.LogPanel
	helpBar *component.HelpBar
}

// NewLogsScreen creates a new logs screen
func NewLogsScreen(services ui.ServiceProvider) *LogsScreen {
	keyMap := ui.DefaultKeyMap()

	return &LogsScreen{
		services: services,
		keyMap:   keyMap,
		panel:    component.NewLogPanel(services.GetLogBuffer()).SetTitle("Application Logs").SetLimit(1000),
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteLogs)),
	}
}

func tickLogs() tea.Cmd {
	return tea.Tick(logsRefreshInterval, func(t time.Time) tea.Msg {
		return logsTickMsg(t)
	})
}

// Init starts the refresh ticker
func (s *LogsScreen) Init() tea.Cmd {
	return tickLogs()
}

// Update handles screen updates
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case logsTickMsg:
		return s, tickLogs()

	case tea.KeyMsg:
		if key.Matches(msg, s.keyMap.FilterDebug) {
			s.panel.ToggleDebug()
			return s, nil
		}
		return s, s.panel.Update(msg)
	}
	return s, nil
}

// View renders the screen
func (s *LogsScreen) View() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Logs"))
	b.WriteString("\n")
	b.WriteString(s.panel.View())
	b.WriteString("\n")

	status := "debug hidden"
	if s.panel.Filter().ShowDebug {
		status = "debug shown"
	}
	if buf := s.services.GetLogBuffer(); buf != nil {
		total, dropped := buf.GetStats()
		status = fmt.Sprintf("%s • %d entries • %d dropped", status, total, dropped)
	}
	b.WriteString(style.MutedStyle.Render(status))
	b.WriteString(s.helpBar.View())
	return style.ContainerStyle.Render(b.String())
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.panel.SetSize(width-4, height-8)
	s.helpBar.SetWidth(width)
}
