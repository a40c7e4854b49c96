package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-va/internal/ui"
	"github.com/rovshanmuradov/solana-va/internal/ui/component"
	"github.com/rovshanmuradov/solana-va/internal/ui/router"
	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

// MenuItem represents a menu item
type MenuItem struct {
	Label       string
	Description string
	Route       ui.Route
}

// MainMenuScreen represents the main menu screen
type MainMenuScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	helpBar *component.HelpBar

	selectedIndex int
	menuItems     []MenuItem
	readOnly      bool

	menuItemStyle    lipgloss.Style
	selectedStyle    lipgloss.Style
	descriptionStyle lipgloss.Style
	boxStyle         lipgloss.Style
}

// NewMainMenuScreen creates a new main menu screen
func NewMainMenuScreen(services ui.ServiceProvider) *MainMenuScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	return &MainMenuScreen{
		keyMap:   keyMap,
		readOnly: services.WalletAddress() == "",
		menuItems: []MenuItem{
			{
				Label:       "✚ Open Order",
				Description: "Start a new value average order",
				Route:       ui.RouteOpenOrder,
			},
			{
				Label:       "▤ Open Orders",
				Description: "Deposit into or close your running orders",
				Route:       ui.RouteOrders,
			},
			{
				Label:       "◷ History",
				Description: "Closed orders with their fills",
				Route:       ui.RouteHistory,
			},
			{
				Label:       "📜 Logs",
				Description: "View application logs and activity",
				Route:       ui.RouteLogs,
			},
		},
		helpBar: component.NewHelpBar().
			SetKeyBindings(keyMap.ContextualHelp(ui.RouteMainMenu)),

		menuItemStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 2),

		selectedStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 2).
			Bold(true),

		descriptionStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 4).
			Italic(true),

		boxStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(1, 4),
	}
}

// Init initializes the main menu screen
func (m *MainMenuScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (m *MainMenuScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msgKey, m.keyMap.Up):
		m.selectedIndex = (m.selectedIndex - 1 + len(m.menuItems)) % len(m.menuItems)
	case key.Matches(msgKey, m.keyMap.Down):
		m.selectedIndex = (m.selectedIndex + 1) % len(m.menuItems)
	case key.Matches(msgKey, m.keyMap.Enter):
		return m, navigate(m.SelectedRoute())
	}
	return m, nil
}

// View renders the main menu screen
func (m *MainMenuScreen) View() string {
	items := make([]string, 0, len(m.menuItems)*2)
	for i, item := range m.menuItems {
		if i == m.selectedIndex {
			items = append(items, m.selectedStyle.Render(item.Label), m.descriptionStyle.Render(item.Description))
			continue
		}
		items = append(items, m.menuItemStyle.Render(item.Label))
	}

	var b strings.Builder
	b.WriteString(m.boxStyle.Render(strings.Join(items, "\n")))
	if m.readOnly {
		b.WriteString("\n")
		b.WriteString(style.WarningStyle.Render("No wallet loaded: orders can be viewed but not submitted."))
	}
	b.WriteString("\n")
	b.WriteString(m.helpBar.View())

	return style.ContainerStyle.Render(b.String())
}

// SetSize sets the screen dimensions
func (m *MainMenuScreen) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.helpBar.SetWidth(width)
}

// SelectedRoute returns the currently selected route
func (m *MainMenuScreen) SelectedRoute() ui.Route {
	return m.menuItems[m.selectedIndex].Route
}

func navigate(route ui.Route) tea.Cmd {
	return func() tea.Msg {
		return ui.RouterMsg{To: route}
	}
}
