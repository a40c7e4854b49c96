package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/submit"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/ui"
	"github.com/rovshanmuradov/solana-va/internal/ui/component"
	"github.com/rovshanmuradov/solana-va/internal/ui/router"
	"github.com/rovshanmuradov/solana-va/internal/ui/style"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

type ordersMode int

const (
	modeList ordersMode = iota
	modeDeposit
	modeConfirmClose
)

// OrdersScreen lists open orders and runs deposit / close on them.
type OrdersScreen struct {
	services ui.ServiceProvider
	keyMap   ui.KeyMap
	width    int
	height   int

	table   *component.Table
	helpBar *component.HelpBar
	deposit *component.Form

	orders   []overview.OpenOrder
	loading  bool
	loadErr  error
	mode     ordersMode
	inFlight bool
}

// NewOrdersScreen creates the open orders screen.
func NewOrdersScreen(services ui.ServiceProvider) *OrdersScreen {
	keyMap := ui.DefaultKeyMap()

	return &OrdersScreen{
		services: services,
		keyMap:   keyMap,
		table: component.NewTable(
			component.TableColumn{Header: "Pair"},
			component.TableColumn{Header: "Balance", Align: lipgloss.Right},
			component.TableColumn{Header: "Spent", Width: 9, Align: lipgloss.Right},
			component.TableColumn{Header: "Every", Width: 12},
			component.TableColumn{Header: "Next order", Width: 18},
		),
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteOrders)),
	}
}

// Init loads the orders
func (s *OrdersScreen) Init() tea.Cmd {
	return s.load()
}

func (s *OrdersScreen) load() tea.Cmd {
	s.loading = true
	ctx := s.services.GetContext()
	return func() tea.Msg {
		orders, err := s.services.OpenOrders(ctx)
		return ui.OrdersLoadedMsg{Orders: orders, Err: err}
	}
}

// Busy keeps esc inside the screen while a prompt is open or a
// transaction is in flight.
func (s *OrdersScreen) Busy() bool {
	return s.inFlight || s.mode != modeList
}

// Update handles screen updates
func (s *OrdersScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.OrdersLoadedMsg:
		s.loading = false
		s.loadErr = msg.Err
		if msg.Err == nil {
			s.setOrders(msg.Orders)
		}
		return s, nil

	case ui.SubmitErrorMsg:
		s.inFlight = false
		if s.deposit != nil && applyFieldErrors(s.deposit, msg.Err) {
			s.mode = modeDeposit
			s.deposit.SetDisabled(false)
			return s, nil
		}
		s.deposit = nil
		return s, nil

	case ui.SubmitResultMsg:
		if msg.Result.Operation != submit.OpDeposit && msg.Result.Operation != submit.OpWithdrawAndClose {
			return s, nil
		}
		s.inFlight = false
		s.deposit = nil
		return s, s.load()

	case tea.KeyMsg:
		if s.inFlight {
			return s, nil
		}
		switch s.mode {
		case modeDeposit:
			return s, s.updateDeposit(msg)
		case modeConfirmClose:
			return s, s.updateConfirm(msg)
		}
		return s, s.updateList(msg)
	}
	return s, nil
}

func (s *OrdersScreen) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keyMap.Up):
		s.table.MoveUp()
	case key.Matches(msg, s.keyMap.Down):
		s.table.MoveDown()
	case key.Matches(msg, s.keyMap.Refresh):
		return s.load()
	case key.Matches(msg, s.keyMap.Deposit):
		if o, ok := s.Selected(); ok {
			s.deposit = component.NewForm().
				AddField(units.FieldDeposit, component.FieldTypeNumber,
					"Deposit "+o.Input.Label(), true, "Amount in "+o.Input.Label())
			s.deposit.SetWidth(40)
			s.mode = modeDeposit
		}
	case key.Matches(msg, s.keyMap.Close):
		if _, ok := s.Selected(); ok {
			s.mode = modeConfirmClose
		}
	}
	return nil
}

func (s *OrdersScreen) updateDeposit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.mode = modeList
		s.deposit = nil
		return nil
	case "enter":
		if !s.deposit.Validate() {
			return nil
		}
		o, ok := s.Selected()
		if !ok {
			return nil
		}
		addr, err := solana.PublicKeyFromBase58(o.Address)
		if err != nil {
			s.deposit.SetFieldError(units.FieldDeposit, err.Error())
			return nil
		}
		amount := s.deposit.GetValue(units.FieldDeposit)
		s.inFlight = true
		s.mode = modeList
		s.deposit.SetDisabled(true)
		ctx := s.services.GetContext()
		return submitCmd(s.services, submit.OpDeposit, func() (submit.Result, error) {
			return s.services.Deposit(ctx, addr, amount)
		})
	}
	var cmd tea.Cmd
	s.deposit, cmd = s.deposit.Update(msg)
	return cmd
}

func (s *OrdersScreen) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	s.mode = modeList
	if msg.String() != "y" && msg.String() != "Y" {
		return nil
	}
	o, ok := s.Selected()
	if !ok {
		return nil
	}
	addr, err := solana.PublicKeyFromBase58(o.Address)
	if err != nil {
		s.loadErr = err
		return nil
	}
	s.inFlight = true
	ctx := s.services.GetContext()
	return submitCmd(s.services, submit.OpWithdrawAndClose, func() (submit.Result, error) {
		return s.services.Close(ctx, addr), nil
	})
}

func (s *OrdersScreen) setOrders(orders []overview.OpenOrder) {
	s.orders = orders
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		next := "-"
		if !o.NextOrderAt.IsZero() {
			next = o.NextOrderAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			o.Input.Label() + " → " + o.Output.Label(),
			o.Balance.Fixed(4),
			o.SpentPercent.StringFixed(1) + "%",
			o.Interval,
			next,
		})
	}
	s.table.SetRows(rows)
}

// Selected returns the highlighted order.
func (s *OrdersScreen) Selected() (overview.OpenOrder, bool) {
	i := s.table.Selected()
	if i < 0 || i >= len(s.orders) {
		return overview.OpenOrder{}, false
	}
	return s.orders[i], true
}

// View renders the screen
func (s *OrdersScreen) View() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Open Orders"))
	b.WriteString("\n")

	switch {
	case s.loading && len(s.orders) == 0:
		b.WriteString(style.MutedStyle.Render("Loading orders…"))
	case s.loadErr != nil:
		b.WriteString(style.ErrorStyle.Render("Failed to load orders: " + s.loadErr.Error()))
	case len(s.orders) == 0:
		b.WriteString(style.MutedStyle.Render("No open orders."))
	default:
		b.WriteString(s.table.View())
		if o, ok := s.Selected(); ok {
			b.WriteString("\n\n")
			b.WriteString(s.renderSelected(o))
		}
	}

	b.WriteString("\n")
	b.WriteString(s.renderPrompt())
	b.WriteString(s.helpBar.View())
	return style.ContainerStyle.Render(b.String())
}

func (s *OrdersScreen) renderSelected(o overview.OpenOrder) string {
	pct, _ := o.SpentPercent.Float64()
	progress := fmt.Sprintf("%s %s", style.ProgressBar(pct, 30), o.SpentPercent.StringFixed(1)+"%")
	return style.PanelStyle.Render(
		style.SubHeaderStyle.Render(tokens.ShortenAddress(o.Address, 6)) + "\n" +
			progress + "\n\n" +
			component.Details(o.Rows()))
}

func (s *OrdersScreen) renderPrompt() string {
	switch {
	case s.inFlight:
		return style.WarningStyle.Render("Submitting… waiting for confirmation") + "\n"
	case s.mode == modeDeposit && s.deposit != nil:
		return style.ActivePanelStyle.Render(s.deposit.View()+style.MutedStyle.Render("enter to send • esc to cancel")) + "\n"
	case s.mode == modeConfirmClose:
		o, _ := s.Selected()
		return style.WarningStyle.Render(fmt.Sprintf(
			"Withdraw all balances and close %s → %s? (y/n)", o.Input.Label(), o.Output.Label())) + "\n"
	}
	return ""
}

// SetSize sets the screen dimensions
func (s *OrdersScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.table.SetSize(width-4, min(height/2, 14))
	s.helpBar.SetWidth(width)
}
