// internal/tokens/resolver.go
package tokens

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Offset of the decimals byte in an SPL mint account.
const mintDecimalsOffset = 44

// AccountInfoGetter reads raw account data.
type AccountInfoGetter interface {
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

var knownTokens = map[string]Token{
	"So11111111111111111111111111111111111111112":  {Symbol: "SOL", Name: "Wrapped SOL", Decimals: 9},
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {Symbol: "BONK", Name: "Bonk", Decimals: 5},
}

// Resolver finds token metadata for mints, falling back to the mint
// account on chain when the directory does not list them.
type Resolver struct {
	dir      *Directory
	accounts AccountInfoGetter
	logger   *zap.Logger
	cache    sync.Map
}

// NewResolver creates a resolver. dir and accounts may be nil.
func NewResolver(dir *Directory, accounts AccountInfoGetter, logger *zap.Logger) *Resolver {
	if dir == nil {
		dir = NewDirectory(nil)
	}
	return &Resolver{
		dir:      dir,
		accounts: accounts,
		logger:   logger.Named("token-resolver"),
	}
}

// Directory returns the underlying directory.
func (r *Resolver) Directory() *Directory {
	return r.dir
}

// Lookup resolves without touching the network. Unknown mints come back as
// the bare address with zero decimals.
func (r *Resolver) Lookup(mint string) Token {
	if t, ok := r.dir.Lookup(mint); ok {
		return t
	}
	if v, ok := r.cache.Load(mint); ok {
		return v.(Token)
	}
	if t, ok := knownTokens[mint]; ok {
		t.Address = mint
		return t
	}
	return Token{Address: mint}
}

// ErrDecimalsUnknown is returned when a mint is neither listed nor readable
// on chain.
var ErrDecimalsUnknown = errors.New("token decimals are unknown")

// Resolve is Lookup plus an on-chain read of the mint decimals. A failed
// read leaves the decimals at zero; use ResolveDecimals where they matter.
func (r *Resolver) Resolve(ctx context.Context, mint string) Token {
	t, err := r.ResolveDecimals(ctx, mint)
	if err != nil {
		r.logger.Debug("failed to get on-chain mint decimals",
			zap.String("mint", mint),
			zap.Error(err))
		return r.Lookup(mint)
	}
	return t
}

// ResolveDecimals resolves a mint whose decimals must be known: listed
// tokens, cached reads and well-known mints, then the mint account.
func (r *Resolver) ResolveDecimals(ctx context.Context, mint string) (Token, error) {
	if t, ok := r.dir.Lookup(mint); ok {
		return t, nil
	}
	if v, ok := r.cache.Load(mint); ok {
		return v.(Token), nil
	}
	if t, ok := knownTokens[mint]; ok {
		t.Address = mint
		return t, nil
	}
	if r.accounts == nil {
		return Token{}, fmt.Errorf("%w: %s", ErrDecimalsUnknown, mint)
	}

	decimals, err := r.mintDecimals(ctx, mint)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %s: %w", ErrDecimalsUnknown, mint, err)
	}
	t := Token{Address: mint, Decimals: decimals}
	r.cache.Store(mint, t)

	r.logger.Debug("token resolved from chain",
		zap.String("mint", mint),
		zap.Uint8("decimals", decimals))
	return t, nil
}

func (r *Resolver) mintDecimals(ctx context.Context, mint string) (uint8, error) {
	key, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return 0, fmt.Errorf("invalid mint: %w", err)
	}
	acc, err := r.accounts.GetAccountInfo(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to get mint account: %w", err)
	}
	if acc == nil || acc.Value == nil {
		return 0, fmt.Errorf("mint account not found: %s", mint)
	}
	data := acc.Value.Data.GetBinary()
	if len(data) <= mintDecimalsOffset {
		return 0, fmt.Errorf("invalid mint account data length: %d", len(data))
	}
	return data[mintDecimalsOffset], nil
}
