// =============================
// File: internal/notify/notify.go
// =============================
package notify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-va/internal/order"
	"github.com/rovshanmuradov/solana-va/internal/submit"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

// ExplorerTxURL is the transaction link format.
const ExplorerTxURL = "https://solscan.io/tx/%s"

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a user-facing message about one outcome.
type Notification struct {
	Level  Level
	Title  string
	Detail string
	Lines  []string // extra lines, e.g. one per rejected field
	Link   string
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(n Notification)
}

// TxLink returns the explorer URL of a signature, or "" for a zero one.
func TxLink(sig solana.Signature) string {
	if sig.IsZero() {
		return ""
	}
	return fmt.Sprintf(ExplorerTxURL, sig.String())
}

var operationTitles = map[submit.Operation]string{
	submit.OpOpen:             "Order",
	submit.OpDeposit:          "Deposit",
	submit.OpWithdrawAndClose: "Withdraw and close",
}

// FromResult maps a submission result to its notification. Every kind gets
// its own title.
func FromResult(res submit.Result) Notification {
	what, ok := operationTitles[res.Operation]
	if !ok {
		what = "Transaction"
	}

	n := Notification{Link: TxLink(res.Signature)}
	switch res.Kind {
	case submit.Confirmed:
		n.Level = LevelSuccess
		n.Title = what + " confirmed"
		if !res.Order.IsZero() {
			n.Detail = "Order " + res.Order.String()
		}
	case submit.WalletNotConnected:
		n.Level = LevelWarning
		n.Title = "Wallet not connected"
		n.Detail = "Connect a wallet before submitting."
	case submit.BuildFailed:
		n.Level = LevelError
		n.Title = what + " could not be prepared"
		n.Detail = errText(res.Err)
	case submit.SendFailed:
		n.Level = LevelError
		n.Title = what + " was not sent"
		n.Detail = errText(res.Err)
	case submit.ConfirmationFailed:
		n.Level = LevelError
		n.Title = what + " confirmation failed"
		switch {
		case res.Timeout():
			n.Level = LevelWarning
			n.Title = what + " not confirmed in time"
			n.Detail = "The transaction may still land; check the explorer."
		case res.Expired():
			n.Detail = "Blockhash expired before the transaction was confirmed. Please try again."
		default:
			if txErr, ok := res.OnChainError(); ok {
				n.Detail = fmt.Sprintf("Transaction failed on-chain: %v", txErr.Err)
			} else {
				n.Detail = errText(res.Err)
			}
		}
	default:
		n.Level = LevelError
		n.Title = what + " failed"
		n.Detail = errText(res.Err)
	}
	return n
}

// FromError maps an error raised before submission (form validation,
// missing wallet or token) to a notification.
func FromError(err error) Notification {
	var verr *units.ValidationError
	if errors.As(err, &verr) {
		n := Notification{Level: LevelError, Title: "Invalid input"}
		for _, f := range verr.Fields {
			n.Lines = append(n.Lines, fmt.Sprintf("%s: %v", f.Field, f.Err))
		}
		return n
	}

	var tokErr *order.TokenNotSelectedError
	switch {
	case errors.Is(err, order.ErrWalletNotConnected):
		return Notification{Level: LevelWarning, Title: "Wallet not connected", Detail: "Connect a wallet before submitting."}
	case errors.As(err, &tokErr):
		return Notification{Level: LevelWarning, Title: "Token not selected", Detail: "Select the " + string(tokErr.Side) + " token."}
	case errors.Is(err, order.ErrSameMint):
		return Notification{Level: LevelError, Title: "Invalid pair", Detail: "Input and output tokens must differ."}
	}
	return Notification{Level: LevelError, Title: "Error", Detail: errText(err)}
}

// String renders the notification as plain text.
func (n Notification) String() string {
	var b strings.Builder
	b.WriteString(n.Title)
	if n.Detail != "" {
		b.WriteString(": ")
		b.WriteString(n.Detail)
	}
	for _, l := range n.Lines {
		b.WriteString("\n  ")
		b.WriteString(l)
	}
	if n.Link != "" {
		b.WriteString("\n  ")
		b.WriteString(n.Link)
	}
	return b.String()
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
