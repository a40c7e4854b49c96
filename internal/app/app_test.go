package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-va/internal/config"
	"github.com/rovshanmuradov/solana-va/internal/order"
	"github.com/rovshanmuradov/solana-va/internal/program/valueaverage"
	"github.com/rovshanmuradov/solana-va/internal/submit"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

var (
	sol  = &tokens.Token{Address: "So11111111111111111111111111111111111111112", Symbol: "SOL", Decimals: 9}
	usdc = &tokens.Token{Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Decimals: 6}
)

func TestBuildOpen(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	start := time.Unix(1_700_000_000, 0)

	req, err := BuildOpen(user, sol, usdc, OpenForm{
		Interval:  "2",
		Timeframe: units.Week,
		Deposit:   "1.5",
		Increment: "0.01",
		StartAt:   &start,
	}, units.DefaultPrecision())
	require.NoError(t, err)

	assert.Equal(t, user, req.User)
	assert.Equal(t, uint64(2*7*86_400), req.Interval)
	assert.Equal(t, uint64(1_500_000_000), req.Deposit)
	assert.Equal(t, uint64(10_000), req.IncrementValue)
	require.NotNil(t, req.StartAt)
	assert.Equal(t, int64(1_700_000_000), *req.StartAt)
}

func TestBuildOpen_DefaultTimeframe(t *testing.T) {
	req, err := BuildOpen(solana.NewWallet().PublicKey(), sol, usdc, OpenForm{
		Deposit:   "1",
		Increment: "5",
	}, units.DefaultPrecision())
	require.NoError(t, err)
	assert.Equal(t, uint64(86_400), req.Interval)
}

func TestBuildOpen_Errors(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	form := OpenForm{Deposit: "1", Increment: "1"}

	_, err := BuildOpen(solana.PublicKey{}, sol, usdc, form, units.DefaultPrecision())
	assert.ErrorIs(t, err, order.ErrWalletNotConnected)

	_, err = BuildOpen(user, nil, usdc, form, units.DefaultPrecision())
	assert.ErrorIs(t, err, order.ErrTokenNotSelected)

	_, err = BuildOpen(user, sol, sol, form, units.DefaultPrecision())
	assert.ErrorIs(t, err, order.ErrSameMint)

	_, err = BuildOpen(user, sol, usdc, OpenForm{Interval: "0", Deposit: "x", Increment: "1"}, units.DefaultPrecision())
	var verr *units.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{units.FieldInterval, units.FieldDeposit}, verr.FieldNames())
}

func TestResolveToken(t *testing.T) {
	r := tokens.NewResolver(tokens.NewDirectory([]tokens.Token{*sol, *usdc}), nil, zaptest.NewLogger(t))
	ctx := context.Background()

	got, err := ResolveToken(ctx, r, "usdc")
	require.NoError(t, err)
	assert.Equal(t, usdc.Address, got.Address)

	got, err = ResolveToken(ctx, r, "")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ResolveToken(ctx, r, "NOT A TOKEN")
	assert.Error(t, err)
}

type failingAccounts struct{}

func (failingAccounts) GetAccountInfo(context.Context, solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return nil, errors.New("rpc down")
}

func TestResolveToken_UnknownDecimals(t *testing.T) {
	r := tokens.NewResolver(nil, failingAccounts{}, zaptest.NewLogger(t))

	// адрес вне списка без decimals не должен превращаться в токен с 0
	got, err := ResolveToken(context.Background(), r, "J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn")
	assert.ErrorIs(t, err, tokens.ErrDecimalsUnknown)
	assert.Nil(t, got)
}

func writeWallets(t *testing.T) (string, map[string]solana.PrivateKey) {
	t.Helper()
	keys := map[string]solana.PrivateKey{
		"beta":  solana.NewWallet().PrivateKey,
		"alpha": solana.NewWallet().PrivateKey,
	}
	body := "wallets:\n"
	for name, key := range keys {
		body += "  - name: " + name + "\n    private_key: " + base58.Encode(key) + "\n"
	}
	path := filepath.Join(t.TempDir(), "wallets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path, keys
}

func TestSelectWallet(t *testing.T) {
	path, keys := writeWallets(t)
	logger := zaptest.NewLogger(t)

	w, err := selectWallet(&config.Config{WalletsPath: path}, logger)
	require.NoError(t, err)
	assert.Equal(t, "alpha", w.Name)
	assert.Equal(t, keys["alpha"].PublicKey(), w.PublicKey())

	w, err = selectWallet(&config.Config{WalletsPath: path, Wallet: "beta"}, logger)
	require.NoError(t, err)
	assert.Equal(t, keys["beta"].PublicKey(), w.PublicKey())

	_, err = selectWallet(&config.Config{WalletsPath: path, Wallet: "gamma"}, logger)
	assert.Error(t, err)

	_, err = selectWallet(&config.Config{WalletsPath: filepath.Join(t.TempDir(), "none.yaml")}, logger)
	assert.Error(t, err)
}

func TestNew_RequiresProgramID(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	_, err = New(cfg, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, valueaverage.ErrProgramIDNotSet)
}

func TestNew_ReadOnlyWithoutWallet(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.WalletsPath = filepath.Join(t.TempDir(), "missing.yaml")
	cfg.ProgramID = solana.NewWallet().PublicKey().String()

	a, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, a.Wallet().Connected())

	res := a.Submitter().Open(context.Background(), order.Request{})
	assert.Equal(t, submit.WalletNotConnected, res.Kind)

	_, err = a.OpenOrders(context.Background())
	assert.ErrorIs(t, err, order.ErrWalletNotConnected)

	_, err = a.PrepareOpen(context.Background(), OpenForm{})
	assert.ErrorIs(t, err, order.ErrWalletNotConnected)
}
