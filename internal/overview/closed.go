package overview

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-va/internal/program/valueaverage"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

// FillRow is one executed purchase prepared for display.
type FillRow struct {
	In          Amount
	Out         Amount
	Fee         Amount
	Rate        decimal.Decimal // output per one input token
	Signature   string
	ConfirmedAt time.Time
}

// ClosedOrder is a finished order prepared for display.
type ClosedOrder struct {
	Address       string
	Input         tokens.Token
	Output        tokens.Token
	Balance       Amount
	Received      Amount
	InWithdrawn   Amount
	OutWithdrawn  Amount
	Deposited     Amount
	Spent         Amount
	SpentPercent  decimal.Decimal
	Increment     Amount
	SupposedValue Amount
	Interval      string
	OpenTx        string
	CloseTx       string
	Fills         []FillRow
}

// Rate returns (out / 10^outDecimals) / (in / 10^inDecimals), zero for an empty input.
func Rate(inAmount uint64, inDecimals uint8, outAmount uint64, outDecimals uint8) decimal.Decimal {
	if inAmount == 0 {
		return decimal.Zero
	}
	return units.FromBaseUnits(outAmount, outDecimals).Div(units.FromBaseUnits(inAmount, inDecimals))
}

// Closed builds the overview of a past order.
func (b *Builder) Closed(order valueaverage.ClosedOrder) ClosedOrder {
	acc := order.Account
	in := b.token(acc.InputMint)
	out := b.token(acc.OutputMint)

	co := ClosedOrder{
		Address:       order.PublicKey,
		Input:         in,
		Output:        out,
		Balance:       newAmount(uint64(acc.InLeft), in),
		Received:      newAmount(uint64(acc.OutReceived), out),
		InWithdrawn:   newAmount(uint64(acc.InWithdrawn), in),
		OutWithdrawn:  newAmount(uint64(acc.OutWithdrawn), out),
		Deposited:     newAmount(uint64(acc.InDeposited), in),
		Spent:         newAmount(uint64(acc.InUsed), in),
		SpentPercent:  SpentPercent(uint64(acc.InUsed), uint64(acc.InDeposited)),
		Increment:     b.referenceAmount(uint64(acc.IncrementUsdcValue)),
		SupposedValue: b.referenceAmount(uint64(acc.SupposedUsdcValue)),
		Interval:      FormatInterval(uint64(acc.OrderInterval)),
		OpenTx:        acc.OpenTxHash,
		CloseTx:       acc.CloseTxHash,
		Fills:         make([]FillRow, 0, len(order.Fills)),
	}

	for _, f := range order.Fills {
		feeToken := b.token(f.FeeMint)
		co.Fills = append(co.Fills, FillRow{
			In:          newAmount(uint64(f.InputAmount), in),
			Out:         newAmount(uint64(f.OutputAmount), out),
			Fee:         newAmount(uint64(f.Fee), feeToken),
			Rate:        Rate(uint64(f.InputAmount), in.Decimals, uint64(f.OutputAmount), out.Decimals),
			Signature:   f.TxSignature,
			ConfirmedAt: f.ConfirmedAt,
		})
	}
	return co
}

// ClosedAll builds overviews for every past order.
func (b *Builder) ClosedAll(orders []valueaverage.ClosedOrder) []ClosedOrder {
	out := make([]ClosedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, b.Closed(o))
	}
	return out
}

// Rows lists the summary fields of a closed order.
func (c ClosedOrder) Rows() []Row {
	return []Row{
		{"Order", c.Address},
		{"VA " + c.Input.Label() + " balance", c.Balance.String()},
		{"VA " + c.Output.Label() + " balance", c.Received.String()},
		{"Amount withdrawn", c.InWithdrawn.String() + " / " + c.OutWithdrawn.String()},
		{"Total deposited", c.Deposited.String()},
		{"Total spent", c.Spent.String() + " (" + c.SpentPercent.StringFixed(0) + "%)"},
		{"Increment value", c.Increment.String()},
		{"Supposed value", c.SupposedValue.String()},
		{"Buying", c.Output.Label()},
		{"Order interval", "Every " + c.Interval},
		{"Fills", strconv.Itoa(len(c.Fills))},
	}
}
