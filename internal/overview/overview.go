// =============================
// File: internal/overview/overview.go
// =============================
package overview

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-va/internal/program/valueaverage"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

// TokenLookup resolves a mint to token metadata. Unknown mints come back
// as a Token carrying only the address.
type TokenLookup interface {
	Lookup(mint string) tokens.Token
}

// Reference describes the currency increments are denominated in.
type Reference struct {
	Symbol   string
	Decimals uint8
}

// DefaultReference is USDC.
func DefaultReference() Reference {
	return Reference{Symbol: "USDC", Decimals: units.DefaultPrecision().ReferenceDecimals}
}

// Amount is a human-readable token quantity.
type Amount struct {
	Value  decimal.Decimal
	Symbol string
}

func newAmount(base uint64, tok tokens.Token) Amount {
	return Amount{Value: units.FromBaseUnits(base, tok.Decimals), Symbol: tok.Label()}
}

func (a Amount) String() string {
	return a.Value.String() + " " + a.Symbol
}

// Fixed renders the value with exactly places fractional digits.
func (a Amount) Fixed(places int32) string {
	return a.Value.StringFixed(places) + " " + a.Symbol
}

// Row is one label/value line of an overview.
type Row struct {
	Label string
	Value string
}

// OpenOrder is an active order prepared for display.
type OpenOrder struct {
	Address       string
	Input         tokens.Token
	Output        tokens.Token
	Balance       Amount // input left in the vault
	Received      Amount
	InWithdrawn   Amount
	OutWithdrawn  Amount
	OutAvailable  Amount
	Deposited     Amount
	Spent         Amount
	SpentPercent  decimal.Decimal
	Increment     Amount
	SupposedValue Amount
	Interval      string
	NextOrderAt   time.Time
	CreatedAt     time.Time
}

// Builder turns raw order state into display models.
type Builder struct {
	tokens    TokenLookup
	reference Reference
}

// NewBuilder creates a builder.
func NewBuilder(lookup TokenLookup, ref Reference) *Builder {
	if ref.Symbol == "" {
		ref = DefaultReference()
	}
	return &Builder{tokens: lookup, reference: ref}
}

func (b *Builder) token(mint string) tokens.Token {
	if b.tokens == nil {
		return tokens.Token{Address: mint}
	}
	return b.tokens.Lookup(mint)
}

func (b *Builder) referenceAmount(base uint64) Amount {
	return Amount{Value: units.FromBaseUnits(base, b.reference.Decimals), Symbol: b.reference.Symbol}
}

// Open builds the overview of an active order.
func (b *Builder) Open(acc valueaverage.OrderAccount) OpenOrder {
	va := acc.Account
	in := b.token(va.InputMint.String())
	out := b.token(va.OutputMint.String())

	return OpenOrder{
		Address:       acc.PublicKey.String(),
		Input:         in,
		Output:        out,
		Balance:       newAmount(va.InLeft, in),
		Received:      newAmount(va.OutReceived, out),
		InWithdrawn:   newAmount(va.InWithdrawn, in),
		OutWithdrawn:  newAmount(va.OutWithdrawn, out),
		OutAvailable:  newAmount(va.OutAvailable(), out),
		Deposited:     newAmount(va.InDeposited, in),
		Spent:         newAmount(va.InUsed, in),
		SpentPercent:  SpentPercent(va.InUsed, va.InDeposited),
		Increment:     b.referenceAmount(va.IncrementUsdcValue),
		SupposedValue: b.referenceAmount(va.SupposedUsdcValue),
		Interval:      intervalText(va.OrderInterval),
		NextOrderAt:   unixTime(va.NextOrderAt),
		CreatedAt:     unixTime(va.CreatedAt),
	}
}

// OpenAll builds overviews in the given order.
func (b *Builder) OpenAll(accounts []valueaverage.OrderAccount) []OpenOrder {
	out := make([]OpenOrder, 0, len(accounts))
	for _, acc := range accounts {
		if acc.Account == nil {
			continue
		}
		out = append(out, b.Open(acc))
	}
	return out
}

// Rows lists the order fields the way the views print them.
func (o OpenOrder) Rows() []Row {
	return []Row{
		{"Order", o.Address},
		{"VA " + o.Input.Label() + " balance", o.Balance.String()},
		{"VA " + o.Output.Label() + " balance", o.Received.String()},
		{"Withdrawable", o.OutAvailable.String()},
		{"Amount withdrawn", o.InWithdrawn.String() + " / " + o.OutWithdrawn.String()},
		{"Total deposited", o.Deposited.String()},
		{"Total spent", o.Spent.String() + " (" + o.SpentPercent.StringFixed(0) + "%)"},
		{"Increment value", o.Increment.String()},
		{"Supposed value", o.SupposedValue.String()},
		{"Buying", o.Output.Label()},
		{"Order interval", "Every " + o.Interval},
		{"Next order", formatTime(o.NextOrderAt)},
		{"Created at", formatTime(o.CreatedAt)},
	}
}

// SpentPercent returns used / deposited × 100, or zero when nothing was deposited.
func SpentPercent(used, deposited uint64) decimal.Decimal {
	if deposited == 0 {
		return decimal.Zero
	}
	return units.FromBaseUnits(used, 0).
		Mul(decimal.NewFromInt(100)).
		Div(units.FromBaseUnits(deposited, 0))
}

func intervalText(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return FormatInterval(uint64(seconds))
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
