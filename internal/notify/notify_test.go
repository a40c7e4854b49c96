package notify

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/solana-va/internal/blockchain"
	"github.com/rovshanmuradov/solana-va/internal/order"
	"github.com/rovshanmuradov/solana-va/internal/submit"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

var sig = solana.Signature{7, 7, 7}

func TestFromResult_DistinctPerKind(t *testing.T) {
	results := []submit.Result{
		{Operation: submit.OpOpen, Kind: submit.Confirmed, Signature: sig},
		{Operation: submit.OpOpen, Kind: submit.WalletNotConnected},
		{Operation: submit.OpOpen, Kind: submit.BuildFailed, Err: errors.New("bad")},
		{Operation: submit.OpOpen, Kind: submit.SendFailed, Err: errors.New("rejected")},
		{Operation: submit.OpOpen, Kind: submit.ConfirmationFailed, Signature: sig, Err: blockchain.ErrBlockhashExpired},
	}

	seen := make(map[string]bool)
	for _, res := range results {
		n := FromResult(res)
		assert.False(t, seen[n.Title], "duplicate title %q", n.Title)
		seen[n.Title] = true
	}
}

func TestFromResult_Confirmed(t *testing.T) {
	orderKey := solana.NewWallet().PublicKey()
	n := FromResult(submit.Result{Operation: submit.OpDeposit, Kind: submit.Confirmed, Signature: sig, Order: orderKey})

	assert.Equal(t, LevelSuccess, n.Level)
	assert.Equal(t, "Deposit confirmed", n.Title)
	assert.Equal(t, "https://solscan.io/tx/"+sig.String(), n.Link)
	assert.Contains(t, n.Detail, orderKey.String())
}

func TestFromResult_ConfirmationFailures(t *testing.T) {
	timeout := FromResult(submit.Result{
		Operation: submit.OpWithdrawAndClose,
		Kind:      submit.ConfirmationFailed,
		Signature: sig,
		Err:       fmt.Errorf("wait: %w", blockchain.ErrConfirmationTimeout),
	})
	assert.Equal(t, LevelWarning, timeout.Level)
	assert.Equal(t, "Withdraw and close not confirmed in time", timeout.Title)
	assert.NotEmpty(t, timeout.Link)

	onChain := FromResult(submit.Result{
		Operation: submit.OpOpen,
		Kind:      submit.ConfirmationFailed,
		Signature: sig,
		Err:       &blockchain.TxError{Signature: sig, Err: "custom program error: 0x1771"},
	})
	assert.Equal(t, LevelError, onChain.Level)
	assert.Contains(t, onChain.Detail, "0x1771")
}

func TestFromResult_NoLinkWithoutSignature(t *testing.T) {
	n := FromResult(submit.Result{Operation: submit.OpOpen, Kind: submit.SendFailed, Err: errors.New("user rejected")})
	assert.Empty(t, n.Link)
	assert.Equal(t, "user rejected", n.Detail)
}

func TestFromError(t *testing.T) {
	verr := &units.ValidationError{}
	verr.Add(units.FieldInterval, "0", units.ErrMalformed)
	verr.Add(units.FieldDeposit, "x", units.ErrMalformed)

	n := FromError(fmt.Errorf("build: %w", verr))
	assert.Equal(t, "Invalid input", n.Title)
	require.Len(t, n.Lines, 2)
	assert.Contains(t, n.Lines[0], units.FieldInterval)
	assert.Contains(t, n.Lines[1], units.FieldDeposit)

	assert.Equal(t, "Wallet not connected", FromError(order.ErrWalletNotConnected).Title)
	assert.Equal(t, "Select the output token.",
		FromError(&order.TokenNotSelectedError{Side: order.SideOutput}).Detail)
	assert.Equal(t, "Invalid pair", FromError(order.ErrSameMint).Title)
	assert.Equal(t, "boom", FromError(errors.New("boom")).Detail)
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleNotifier(&buf).Notify(Notification{
		Level:  LevelError,
		Title:  "Invalid input",
		Lines:  []string{"deposit: malformed number"},
		Link:   TxLink(sig),
		Detail: "fix the form",
	})

	out := buf.String()
	assert.Contains(t, out, "Invalid input")
	assert.Contains(t, out, "deposit: malformed number")
	assert.Contains(t, out, sig.String())
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	n := NewLogNotifier(zap.New(core))

	Multi{n}.Notify(Notification{Level: LevelWarning, Title: "Order not confirmed in time", Link: "x"})
	Multi{n}.Notify(Notification{Level: LevelSuccess, Title: "Order confirmed"})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "x", entries[0].ContextMap()["link"])
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
}

func TestString(t *testing.T) {
	n := Notification{Title: "Deposit confirmed", Detail: "ok", Link: "l"}
	assert.Equal(t, "Deposit confirmed: ok\n  l", n.String())
}
