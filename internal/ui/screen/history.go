package screen

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-va/internal/notify"
	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/ui"
	"github.com/rovshanmuradov/solana-va/internal/ui/component"
	"github.com/rovshanmuradov/solana-va/internal/ui/router"
	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

// HistoryScreen shows closed orders and the fills of the selected one.
type HistoryScreen struct {
	services ui.ServiceProvider
	keyMap   ui.KeyMap
	width    int
	height   int

	orders  *component.Table
	fills   *component.Table
	helpBar *component.HelpBar

	closed   []overview.ClosedOrder
	loading  bool
	loadErr  error
	exported string
}

// NewHistoryScreen creates the history screen.
func NewHistoryScreen(services ui.ServiceProvider) *HistoryScreen {
	keyMap := ui.DefaultKeyMap()

	return &HistoryScreen{
		services: services,
		keyMap:   keyMap,
		orders: component.NewTable(
			component.TableColumn{Header: "Pair"},
			component.TableColumn{Header: "Spent", Align: lipgloss.Right},
			component.TableColumn{Header: "Received", Align: lipgloss.Right},
			component.TableColumn{Header: "Fills", Width: 7, Align: lipgloss.Right},
		),
		fills: component.NewTable(
			component.TableColumn{Header: "From", Align: lipgloss.Right},
			component.TableColumn{Header: "Rate", Width: 12, Align: lipgloss.Right},
			component.TableColumn{Header: "To", Align: lipgloss.Right},
			component.TableColumn{Header: "Date", Width: 18},
			component.TableColumn{Header: "Tx", Width: 16},
		),
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteHistory)),
	}
}

// Init loads the history
func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	s.loading = true
	ctx := s.services.GetContext()
	return func() tea.Msg {
		orders, err := s.services.ClosedOrders(ctx)
		return ui.HistoryLoadedMsg{Orders: orders, Err: err}
	}
}

func (s *HistoryScreen) export() tea.Cmd {
	orders := s.closed
	return func() tea.Msg {
		path, err := s.services.ExportFills(orders)
		if err != nil {
			s.services.GetNotifier().Notify(notify.FromError(err))
		} else {
			s.services.GetNotifier().Notify(notify.Notification{
				Level:  notify.LevelSuccess,
				Title:  "Fills exported",
				Detail: path,
			})
		}
		return ui.ExportedMsg{Path: path, Err: err}
	}
}

// Update handles screen updates
func (s *HistoryScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.HistoryLoadedMsg:
		s.loading = false
		s.loadErr = msg.Err
		if msg.Err == nil {
			s.setOrders(msg.Orders)
		}

	case ui.ExportedMsg:
		if msg.Err == nil {
			s.exported = msg.Path
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Up):
			s.orders.MoveUp()
			s.syncFills()
		case key.Matches(msg, s.keyMap.Down):
			s.orders.MoveDown()
			s.syncFills()
		case key.Matches(msg, s.keyMap.Refresh):
			return s, s.load()
		case key.Matches(msg, s.keyMap.Export):
			if len(s.closed) > 0 {
				return s, s.export()
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) setOrders(closed []overview.ClosedOrder) {
	s.closed = closed
	rows := make([][]string, 0, len(closed))
	for _, o := range closed {
		rows = append(rows, []string{
			o.Input.Label() + " → " + o.Output.Label(),
			o.Spent.Fixed(4),
			o.Received.Fixed(4),
			strconv.Itoa(len(o.Fills)),
		})
	}
	s.orders.SetRows(rows)
	s.syncFills()
}

func (s *HistoryScreen) syncFills() {
	o, ok := s.Selected()
	if !ok {
		s.fills.SetRows(nil)
		return
	}
	rows := make([][]string, 0, len(o.Fills))
	for _, f := range o.Fills {
		rows = append(rows, []string{
			f.In.Fixed(4),
			f.Rate.StringFixed(4),
			f.Out.Fixed(4),
			f.ConfirmedAt.Local().Format("2006-01-02 15:04"),
			tokens.ShortenAddress(f.Signature, 6),
		})
	}
	s.fills.SetRows(rows)
}

// Selected returns the highlighted closed order.
func (s *HistoryScreen) Selected() (overview.ClosedOrder, bool) {
	i := s.orders.Selected()
	if i < 0 || i >= len(s.closed) {
		return overview.ClosedOrder{}, false
	}
	return s.closed[i], true
}

// View renders the screen
func (s *HistoryScreen) View() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Order History"))
	b.WriteString("\n")

	switch {
	case s.loading && len(s.closed) == 0:
		b.WriteString(style.MutedStyle.Render("Loading history…"))
	case s.loadErr != nil:
		b.WriteString(style.ErrorStyle.Render("Failed to load history: " + s.loadErr.Error()))
	case len(s.closed) == 0:
		b.WriteString(style.MutedStyle.Render("No closed orders."))
	default:
		b.WriteString(s.orders.View())
		if o, ok := s.Selected(); ok {
			b.WriteString("\n")
			b.WriteString(style.SubHeaderStyle.Render("Fills"))
			b.WriteString("\n")
			b.WriteString(s.fills.View())
			b.WriteString("\n")
			b.WriteString(style.MutedStyle.Render("open " + tokens.ShortenAddress(o.OpenTx, 8) +
				" • close " + tokens.ShortenAddress(o.CloseTx, 8)))
		}
	}

	if s.exported != "" {
		b.WriteString("\n")
		b.WriteString(style.SuccessStyle.Render("Exported to " + s.exported))
	}
	b.WriteString("\n")
	b.WriteString(s.helpBar.View())
	return style.ContainerStyle.Render(b.String())
}

// SetSize sets the screen dimensions
func (s *HistoryScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.orders.SetSize(width-4, min(height/3, 10))
	s.fills.SetSize(width-4, min(height/3, 12))
	s.helpBar.SetWidth(width)
}
