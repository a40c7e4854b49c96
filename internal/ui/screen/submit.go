package screen

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-va/internal/notify"
	"github.com/rovshanmuradov/solana-va/internal/order"
	"github.com/rovshanmuradov/solana-va/internal/submit"
	"github.com/rovshanmuradov/solana-va/internal/ui"
	"github.com/rovshanmuradov/solana-va/internal/ui/component"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

// submitCmd runs op off the UI goroutine and reports the outcome both as a
// notification and as a message for the screen that started it.
func submitCmd(services ui.ServiceProvider, op submit.Operation, run func() (submit.Result, error)) tea.Cmd {
	pending := func() tea.Msg { return ui.PendingMsg{Operation: op} }
	work := func() tea.Msg {
		res, err := run()
		if err != nil {
			services.GetNotifier().Notify(notify.FromError(err))
			return ui.SubmitErrorMsg{Err: err}
		}
		services.GetNotifier().Notify(notify.FromResult(res))
		return ui.SubmitResultMsg{Result: res}
	}
	return tea.Batch(pending, work)
}

// applyFieldErrors marks the form fields an error points at. It returns
// false when the error is not tied to any field.
func applyFieldErrors(form *component.Form, err error) bool {
	var verr *units.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			form.SetFieldError(f.Field, f.Err.Error())
		}
		return true
	}

	var tok *order.TokenNotSelectedError
	if errors.As(err, &tok) {
		form.SetFieldError(string(tok.Side), "Select a token")
		return true
	}
	if errors.Is(err, order.ErrSameMint) {
		form.SetFieldError(string(order.SideOutput), "Must differ from the input token")
		return true
	}
	return false
}
