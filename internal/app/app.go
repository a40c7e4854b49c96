// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-va/internal/config"
	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/program/computebudget"
	"github.com/rovshanmuradov/solana-va/internal/program/valueaverage"
	"github.com/rovshanmuradov/solana-va/internal/submit"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/wallet"
)

// App wires configuration, network, wallet and program together for the
// CLI and the terminal UI.
type App struct {
	logger    *zap.Logger
	config    *config.Config
	client    *solbc.Client
	wallet    *wallet.Wallet
	program   *valueaverage.Program
	history   *valueaverage.HistoryClient
	loader    *tokens.Loader
	submitter *submit.Submitter

	mu       sync.Mutex
	resolver *tokens.Resolver
}

// New builds the application from configuration. A missing wallet is not
// an error: the app runs read-only and submissions report WalletNotConnected.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	client := solbc.NewClient(cfg.RPCURL(), solbc.Config{
		Commitment:     cfg.CommitmentType(),
		ConfirmTimeout: cfg.ConfirmTimeout,
		PollInterval:   cfg.ConfirmPoll,
	}, logger)

	program, err := valueaverage.NewProgram(cfg.ProgramPublicKey(), client, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init program client: %w", err)
	}

	w, err := selectWallet(cfg, logger)
	if err != nil {
		logger.Warn("No wallet loaded, running read-only", zap.Error(err))
	} else {
		w.Connect(client, logger)
		logger.Info("Wallet connected",
			zap.String("name", w.Name),
			zap.String("pubkey", w.PublicKey().String()))
	}

	a := &App{
		logger:  logger,
		config:  cfg,
		client:  client,
		wallet:  w,
		program: program,
		history: valueaverage.NewHistoryClient(cfg.HistoryAPIURL, cfg.HTTPTimeout, uint(cfg.Retries)+1, logger),
		loader: tokens.NewLoader(tokens.LoaderConfig{
			URL:      cfg.TokenListURL,
			Timeout:  cfg.HTTPTimeout,
			MaxTries: uint(cfg.Retries) + 1,
		}, logger),
	}
	a.submitter = submit.New(program, client, w, submit.Config{
		SkipPreflight: cfg.SkipPreflight,
		AutoWithdraw:  cfg.AutoWithdraw,
		Budget: computebudget.Config{
			Units:                  cfg.ComputeUnitLimit,
			UnitPriceMicroLamports: cfg.PriorityFee,
		},
	}, logger)
	return a, nil
}

// selectWallet prefers a keygen file, then the named (or first) entry of
// the wallets file.
func selectWallet(cfg *config.Config, logger *zap.Logger) (*wallet.Wallet, error) {
	if cfg.KeypairPath != "" {
		w, err := wallet.FromKeygenFile(cfg.KeypairPath)
		if err != nil {
			return nil, err
		}
		w.Name = "keypair"
		return w, nil
	}

	if cfg.WalletsPath == "" {
		return nil, fmt.Errorf("no keypair_path or wallets_path configured")
	}
	if _, err := os.Stat(cfg.WalletsPath); err != nil {
		return nil, fmt.Errorf("wallets file: %w", err)
	}

	wallets, err := wallet.LoadWallets(cfg.WalletsPath)
	if err != nil {
		return nil, err
	}
	if cfg.Wallet != "" {
		w, ok := wallets[cfg.Wallet]
		if !ok {
			return nil, fmt.Errorf("wallet %q not found in %s", cfg.Wallet, cfg.WalletsPath)
		}
		return w, nil
	}

	names := make([]string, 0, len(wallets))
	for name := range wallets {
		names = append(names, name)
	}
	sort.Strings(names)
	logger.Debug("No wallet selected, using first", zap.String("name", names[0]))
	return wallets[names[0]], nil
}

func (a *App) Logger() *zap.Logger            { return a.logger }
func (a *App) Config() *config.Config         { return a.config }
func (a *App) Wallet() *wallet.Wallet         { return a.wallet }
func (a *App) Submitter() *submit.Submitter   { return a.submitter }
func (a *App) Program() *valueaverage.Program { return a.program }

// OverviewBuilder returns a builder that labels amounts with the loaded
// token metadata.
func (a *App) OverviewBuilder(r *tokens.Resolver) *overview.Builder {
	return overview.NewBuilder(r, overview.Reference{
		Symbol:   a.config.ReferenceSymbol,
		Decimals: a.config.ReferenceDecimals,
	})
}

// Tokens loads the token list once. A failed load is not cached.
func (a *App) Tokens(ctx context.Context) (*tokens.Resolver, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.resolver != nil {
		return a.resolver, nil
	}

	dir, err := a.loader.LoadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	a.resolver = tokens.NewResolver(dir, a.client, a.logger)
	a.logger.Info("Token list loaded", zap.Int("tokens", dir.Len()))
	return a.resolver, nil
}

// Shutdown logs the session end. The caller owns and syncs the logger.
func (a *App) Shutdown() {
	a.logger.Info("Shutting down")
}
