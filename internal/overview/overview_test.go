package overview

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-va/internal/program/valueaverage"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
)

const (
	solMint  = "So11111111111111111111111111111111111111112"
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	jitoMint = "J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn"
)

func testDirectory() *tokens.Directory {
	return tokens.NewDirectory([]tokens.Token{
		{Address: solMint, Symbol: "SOL", Decimals: 9},
		{Address: usdcMint, Symbol: "USDC", Decimals: 6},
	})
}

type dirLookup struct{ dir *tokens.Directory }

func (d dirLookup) Lookup(mint string) tokens.Token {
	if tok, ok := d.dir.Lookup(mint); ok {
		return tok
	}
	return tokens.Token{Address: mint}
}

func TestFormatInterval(t *testing.T) {
	tests := []struct {
		seconds uint64
		want    string
	}{
		{0, "0 seconds"},
		{1, "1 second"},
		{59, "59 seconds"},
		{60, "1 minute"},
		{90, "1 minute"},
		{3599, "59 minutes"},
		{3600, "1 hour"},
		{86_399, "23 hours"},
		{86_400, "1 day"},
		{6 * 86_400, "6 days"},
		{7 * 86_400, "1 week"},
		{29 * 86_400, "4 weeks"},
		{30 * 86_400, "1 month"},
		{90 * 86_400, "3 months"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatInterval(tt.seconds))
		})
	}
}

func TestSpentPercent(t *testing.T) {
	assert.True(t, SpentPercent(5, 0).IsZero())
	assert.Equal(t, "50", SpentPercent(50, 100).String())
	assert.Equal(t, "33", SpentPercent(1, 3).StringFixed(0))
	assert.Equal(t, "100", SpentPercent(7, 7).String())
}

func TestRate(t *testing.T) {
	// 0.5 SOL bought 75 USDC
	assert.Equal(t, "150", Rate(500_000_000, 9, 75_000_000, 6).String())
	assert.True(t, Rate(0, 9, 1, 6).IsZero())
}

func TestBuilder_Open(t *testing.T) {
	order := solana.NewWallet().PublicKey()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	b := NewBuilder(dirLookup{testDirectory()}, Reference{})
	got := b.Open(valueaverage.OrderAccount{
		PublicKey: order,
		Account: &valueaverage.ValueAverage{
			InputMint:          solana.MustPublicKeyFromBase58(solMint),
			OutputMint:         solana.MustPublicKeyFromBase58(jitoMint),
			IncrementUsdcValue: 10_000_000,
			OrderInterval:      86_400,
			CreatedAt:          created.Unix(),
			InDeposited:        2_000_000_000,
			InLeft:             1_500_000_000,
			InUsed:             500_000_000,
			OutReceived:        480,
			OutWithdrawn:       80,
			SupposedUsdcValue:  20_000_000,
		},
	})

	assert.Equal(t, order.String(), got.Address)
	assert.Equal(t, "1.5 SOL", got.Balance.String())
	assert.Equal(t, "2 SOL", got.Deposited.String())
	assert.Equal(t, "0.5 SOL", got.Spent.String())
	assert.Equal(t, "25", got.SpentPercent.String())
	assert.Equal(t, "10 USDC", got.Increment.String())
	assert.Equal(t, "20 USDC", got.SupposedValue.String())
	assert.Equal(t, "1 day", got.Interval)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.NextOrderAt.IsZero())

	// unknown output mint: address label, zero decimals
	assert.Equal(t, "480 J1to...GCPn", got.Received.String())
	assert.Equal(t, "400 J1to...GCPn", got.OutAvailable.String())

	rows := got.Rows()
	require.NotEmpty(t, rows)
	assert.Equal(t, Row{"Total spent", "0.5 SOL (25%)"}, rows[6])
	assert.Equal(t, Row{"Next order", "-"}, rows[len(rows)-2])
}

func TestBuilder_OpenAllSkipsEmpty(t *testing.T) {
	b := NewBuilder(nil, DefaultReference())
	got := b.OpenAll([]valueaverage.OrderAccount{
		{PublicKey: solana.NewWallet().PublicKey()},
		{PublicKey: solana.NewWallet().PublicKey(), Account: &valueaverage.ValueAverage{}},
	})
	require.Len(t, got, 1)
	assert.True(t, got[0].SpentPercent.IsZero())
}

func TestBuilder_Closed(t *testing.T) {
	confirmed := time.Date(2024, 6, 2, 8, 30, 0, 0, time.UTC)
	b := NewBuilder(dirLookup{testDirectory()}, DefaultReference())

	got := b.Closed(valueaverage.ClosedOrder{
		PublicKey: "order111",
		Account: valueaverage.ClosedAccount{
			InputMint:          solMint,
			OutputMint:         usdcMint,
			InDeposited:        1_000_000_000,
			InUsed:             1_000_000_000,
			OrderInterval:      3600,
			IncrementUsdcValue: 5_000_000,
			CloseTxHash:        "close-sig",
		},
		Fills: []valueaverage.Fill{{
			InputAmount:  500_000_000,
			OutputAmount: 75_000_000,
			FeeMint:      usdcMint,
			Fee:          75_000,
			TxSignature:  "fill-sig",
			ConfirmedAt:  confirmed,
		}},
	})

	assert.Equal(t, "order111", got.Address)
	assert.Equal(t, "100", got.SpentPercent.String())
	assert.Equal(t, "1 hour", got.Interval)
	assert.Equal(t, "close-sig", got.CloseTx)

	require.Len(t, got.Fills, 1)
	fill := got.Fills[0]
	assert.Equal(t, "0.5000 SOL", fill.In.Fixed(4))
	assert.Equal(t, "75.0000 USDC", fill.Out.Fixed(4))
	assert.Equal(t, "0.075 USDC", fill.Fee.String())
	assert.Equal(t, "150.00", fill.Rate.StringFixed(2))
	assert.Equal(t, "fill-sig", fill.Signature)
	assert.Equal(t, Row{"Fills", "1"}, got.Rows()[len(got.Rows())-1])
}
