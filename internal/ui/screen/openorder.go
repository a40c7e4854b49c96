package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-va/internal/app"
	"github.com/rovshanmuradov/solana-va/internal/order"
	"github.com/rovshanmuradov/solana-va/internal/submit"
	"github.com/rovshanmuradov/solana-va/internal/ui"
	"github.com/rovshanmuradov/solana-va/internal/ui/component"
	"github.com/rovshanmuradov/solana-va/internal/ui/router"
	"github.com/rovshanmuradov/solana-va/internal/ui/style"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

const (
	fieldTimeframe = "timeframe"
	fieldStart     = "start"
)

var startLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// OpenOrderScreen is the form that opens a new value average order.
type OpenOrderScreen struct {
	services ui.ServiceProvider
	keyMap   ui.KeyMap
	width    int
	height   int

	form     *component.Form
	helpBar  *component.HelpBar
	inFlight bool
	last     *submit.Result
}

// NewOpenOrderScreen creates the open order form.
func NewOpenOrderScreen(services ui.ServiceProvider) *OpenOrderScreen {
	keyMap := ui.DefaultKeyMap()

	timeframes := make([]string, 0, 5)
	for _, tf := range units.Timeframes() {
		timeframes = append(timeframes, string(tf))
	}

	form := component.NewForm().
		SetTitle("Open Value Average Order").
		AddField(string(order.SideInput), component.FieldTypeText, "Input token", true, "Symbol or mint you spend, e.g. USDC").
		AddField(string(order.SideOutput), component.FieldTypeText, "Output token", true, "Symbol or mint you accumulate").
		AddField(units.FieldDeposit, component.FieldTypeNumber, "Total deposit", true, "Amount of the input token to lock").
		AddField(units.FieldIncrement, component.FieldTypeNumber, "Increment per interval", true, "Target value growth each interval").
		AddField(units.FieldInterval, component.FieldTypeNumber, "Every", false, "1").
		AddField(fieldTimeframe, component.FieldTypeSelect, "Timeframe", true, "←/→ to change").
		SetSelectOptions(fieldTimeframe, timeframes).
		SetFieldValue(fieldTimeframe, string(order.DefaultTimeframe)).
		AddField(fieldStart, component.FieldTypeText, "Start at", false, "empty = now, or 2006-01-02 15:04")

	return &OpenOrderScreen{
		services: services,
		keyMap:   keyMap,
		form:     form,
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteOpenOrder)),
	}
}

// Init initializes the screen
func (s *OpenOrderScreen) Init() tea.Cmd {
	return nil
}

// Busy keeps the screen open while the transaction is in flight.
func (s *OpenOrderScreen) Busy() bool {
	return s.inFlight
}

// Update handles screen updates
func (s *OpenOrderScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, s.keyMap.Submit) {
			return s, s.submit()
		}
		var cmd tea.Cmd
		s.form, cmd = s.form.Update(msg)
		return s, cmd

	case ui.SubmitErrorMsg:
		s.unlock()
		applyFieldErrors(s.form, msg.Err)

	case ui.SubmitResultMsg:
		if msg.Result.Operation != submit.OpOpen {
			return s, nil
		}
		s.unlock()
		res := msg.Result
		s.last = &res
		if res.OK() {
			s.form.SetFieldValue(units.FieldDeposit, "").
				SetFieldValue(units.FieldIncrement, "")
		}
	}
	return s, nil
}

func (s *OpenOrderScreen) unlock() {
	s.inFlight = false
	s.form.SetDisabled(false)
}

// submit validates locally what only the form knows and hands the rest to
// the app, which validates again before building.
func (s *OpenOrderScreen) submit() tea.Cmd {
	if s.inFlight {
		return nil
	}
	s.form.ClearErrors()

	values := s.form.GetValues()
	startAt, err := parseStart(values[fieldStart])
	if err != nil {
		s.form.SetFieldError(fieldStart, err.Error())
		return nil
	}
	tf, err := units.ParseTimeframe(values[fieldTimeframe])
	if err != nil {
		s.form.SetFieldError(fieldTimeframe, err.Error())
		return nil
	}

	form := app.OpenForm{
		Input:     values[string(order.SideInput)],
		Output:    values[string(order.SideOutput)],
		Interval:  values[units.FieldInterval],
		Timeframe: tf,
		Deposit:   values[units.FieldDeposit],
		Increment: values[units.FieldIncrement],
		StartAt:   startAt,
	}

	s.inFlight = true
	s.form.SetDisabled(true)
	s.last = nil
	ctx := s.services.GetContext()
	return submitCmd(s.services, submit.OpOpen, func() (submit.Result, error) {
		return s.services.Open(ctx, form)
	})
}

func parseStart(text string) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("use 2006-01-02 15:04 or RFC3339")
}

// View renders the screen
func (s *OpenOrderScreen) View() string {
	var b strings.Builder
	b.WriteString(s.form.View())

	switch {
	case s.inFlight:
		b.WriteString("\n")
		b.WriteString(style.WarningStyle.Render("Submitting… waiting for confirmation"))
	case s.last != nil && s.last.OK():
		b.WriteString("\n")
		b.WriteString(style.SuccessStyle.Render("Order opened: " + s.last.Order.String()))
	}

	b.WriteString("\n")
	b.WriteString(s.helpBar.View())
	return style.ContainerStyle.Render(b.String())
}

// SetSize sets the screen dimensions
func (s *OpenOrderScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form.SetWidth(min(width-4, 60))
	s.helpBar.SetWidth(width)
}

// Form exposes the form for tests.
func (s *OpenOrderScreen) Form() *component.Form {
	return s.form
}
