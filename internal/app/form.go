// internal/app/form.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-va/internal/order"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

// OpenForm holds the raw text of the open order form.
type OpenForm struct {
	Input     string // address or symbol
	Output    string
	Interval  string // count of Timeframe units, empty means 1
	Timeframe units.Timeframe
	Deposit   string
	Increment string
	StartAt   *time.Time
}

// ResolveToken finds a token by address or symbol. An address missing from
// the list resolves through the chain and fails when its decimals cannot
// be read.
func ResolveToken(ctx context.Context, r *tokens.Resolver, ref string) (*tokens.Token, error) {
	if ref == "" {
		return nil, nil
	}
	if t, ok := r.Directory().Find(ref); ok {
		return &t, nil
	}
	if _, err := solana.PublicKeyFromBase58(ref); err != nil {
		return nil, fmt.Errorf("unknown token %q", ref)
	}
	t, err := r.ResolveDecimals(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// PrepareOpen validates the form and builds an open request. Validation
// happens before any transaction is built.
func (a *App) PrepareOpen(ctx context.Context, form OpenForm) (order.Request, error) {
	user := a.wallet.PublicKey()
	if user.IsZero() {
		return order.Request{}, order.ErrWalletNotConnected
	}

	resolver, err := a.Tokens(ctx)
	if err != nil {
		resolver = tokens.NewResolver(nil, a.client, a.logger)
	}

	input, err := ResolveToken(ctx, resolver, form.Input)
	if err != nil {
		return order.Request{}, err
	}
	output, err := ResolveToken(ctx, resolver, form.Output)
	if err != nil {
		return order.Request{}, err
	}

	return BuildOpen(user, input, output, form, a.config.Precision())
}

// BuildOpen converts the form values and builds the request without any
// network access.
func BuildOpen(user solana.PublicKey, input, output *tokens.Token, form OpenForm, p units.Precision) (order.Request, error) {
	if user.IsZero() {
		return order.Request{}, order.ErrWalletNotConnected
	}
	if input == nil {
		return order.Request{}, &order.TokenNotSelectedError{Side: order.SideInput}
	}
	if output == nil {
		return order.Request{}, &order.TokenNotSelectedError{Side: order.SideOutput}
	}

	values, err := units.ValidateAndConvert(form.Interval, form.Deposit, form.Increment, input.Decimals, p)
	if err != nil {
		return order.Request{}, err
	}

	tf := form.Timeframe
	if tf == "" {
		tf = order.DefaultTimeframe
	}
	return order.Build(order.Params{
		User:      user,
		Input:     input,
		Output:    output,
		Values:    values,
		Timeframe: tf,
		StartAt:   form.StartAt,
	})
}

// PrepareDeposit converts a deposit amount typed in input token units to
// base units of the order's input mint.
func (a *App) PrepareDeposit(ctx context.Context, orderAddr solana.PublicKey, amount string) (uint64, error) {
	in, err := a.OrderInputToken(ctx, orderAddr)
	if err != nil {
		return 0, err
	}
	base, err := units.ToBaseUnits(amount, in.Decimals)
	if err != nil {
		verr := &units.ValidationError{}
		verr.Add(units.FieldDeposit, amount, err)
		return 0, verr
	}
	return base, nil
}
