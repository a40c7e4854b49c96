// internal/app/queries.go
package app

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/solana-va/internal/order"
	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/program/valueaverage"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
)

// OpenOrders loads the token list and the user's open orders concurrently.
// A token list failure degrades to on-chain decimals; an order fetch
// failure is returned.
func (a *App) OpenOrders(ctx context.Context) ([]overview.OpenOrder, error) {
	user := a.wallet.PublicKey()
	if user.IsZero() {
		return nil, order.ErrWalletNotConnected
	}

	var (
		resolver *tokens.Resolver
		accounts []valueaverage.OrderAccount
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := a.Tokens(gCtx)
		if err != nil {
			a.logger.Warn("Token list unavailable, labels fall back to mint addresses", zap.Error(err))
			r = tokens.NewResolver(nil, a.client, a.logger)
		}
		resolver = r
		return nil
	})
	g.Go(func() error {
		list, err := a.program.ListByUser(gCtx, user)
		if err != nil {
			return fmt.Errorf("failed to load open orders: %w", err)
		}
		accounts = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, acc := range accounts {
		resolver.Resolve(ctx, acc.Account.InputMint.String())
		resolver.Resolve(ctx, acc.Account.OutputMint.String())
	}
	return a.OverviewBuilder(resolver).OpenAll(accounts), nil
}

// ClosedOrders loads past orders from the history API.
func (a *App) ClosedOrders(ctx context.Context) ([]overview.ClosedOrder, error) {
	user := a.wallet.PublicKey()
	if user.IsZero() {
		return nil, order.ErrWalletNotConnected
	}

	var (
		resolver *tokens.Resolver
		closed   []valueaverage.ClosedOrder
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := a.Tokens(gCtx)
		if err != nil {
			a.logger.Warn("Token list unavailable", zap.Error(err))
			r = tokens.NewResolver(nil, a.client, a.logger)
		}
		resolver = r
		return nil
	})
	g.Go(func() error {
		list, err := a.history.Closed(gCtx, user.String())
		if err != nil {
			return err
		}
		closed = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, c := range closed {
		resolver.Resolve(ctx, c.Account.InputMint)
		resolver.Resolve(ctx, c.Account.OutputMint)
	}
	return a.OverviewBuilder(resolver).ClosedAll(closed), nil
}

// OrderInputToken returns the input token of an order with its decimals.
func (a *App) OrderInputToken(ctx context.Context, orderAddr solana.PublicKey) (tokens.Token, error) {
	va, err := a.program.Get(ctx, orderAddr)
	if err != nil {
		return tokens.Token{}, fmt.Errorf("failed to fetch order: %w", err)
	}

	resolver, err := a.Tokens(ctx)
	if err != nil {
		resolver = tokens.NewResolver(nil, a.client, a.logger)
	}
	in, err := resolver.ResolveDecimals(ctx, va.InputMint.String())
	if err != nil {
		return tokens.Token{}, err
	}
	return in, nil
}
