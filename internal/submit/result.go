// =============================
// File: internal/submit/result.go
// =============================
package submit

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-va/internal/blockchain"
)

// Kind is the terminal state of one submission.
type Kind int

const (
	Confirmed Kind = iota
	WalletNotConnected
	BuildFailed
	SendFailed
	ConfirmationFailed
)

func (k Kind) String() string {
	switch k {
	case Confirmed:
		return "confirmed"
	case WalletNotConnected:
		return "wallet_not_connected"
	case BuildFailed:
		return "build_failed"
	case SendFailed:
		return "send_failed"
	case ConfirmationFailed:
		return "confirmation_failed"
	}
	return "unknown"
}

// Operation names the workflow that produced a result.
type Operation string

const (
	OpOpen             Operation = "open"
	OpDeposit          Operation = "deposit"
	OpWithdrawAndClose Operation = "withdraw_and_close"
)

// ErrNoInstructions is reported when the program client built nothing to send.
var ErrNoInstructions = errors.New("no instructions to submit")

// Result is what the view layer gets back from every workflow.
type Result struct {
	Operation Operation
	Kind      Kind
	Signature solana.Signature // set whenever the wallet broadcast the transaction
	Order     solana.PublicKey // order address when known
	Err       error
}

// OK reports a confirmed transaction.
func (r Result) OK() bool {
	return r.Kind == Confirmed
}

// Broadcast reports whether a signature exists.
func (r Result) Broadcast() bool {
	return !r.Signature.IsZero()
}

// Timeout reports a confirmation that did not arrive in time.
func (r Result) Timeout() bool {
	return errors.Is(r.Err, blockchain.ErrConfirmationTimeout)
}

// Expired reports a blockhash that expired before confirmation.
func (r Result) Expired() bool {
	return errors.Is(r.Err, blockchain.ErrBlockhashExpired)
}

// OnChainError returns the execution failure, if that is what stopped confirmation.
func (r Result) OnChainError() (*blockchain.TxError, bool) {
	var txErr *blockchain.TxError
	ok := errors.As(r.Err, &txErr)
	return txErr, ok
}
