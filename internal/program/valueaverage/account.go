// =============================
// File: internal/program/valueaverage/account.go
// =============================
package valueaverage

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Offset of the owner key inside the account data:
// discriminator(8) + idx(8) + bump(1).
const userOffset = 8 + 8 + 1

// ValueAverage is the on-chain state of one order.
type ValueAverage struct {
	Idx                  uint64
	Bump                 uint8
	User                 solana.PublicKey
	InputMint            solana.PublicKey
	OutputMint           solana.PublicKey
	IncrementUsdcValue   uint64
	OrderInterval        int64
	InputVault           solana.PublicKey
	OutputVault          solana.PublicKey
	FeeDataAccount       solana.PublicKey
	CreatedAt            int64
	InDeposited          uint64
	InLeft               uint64
	InUsed               uint64
	InWithdrawn          uint64
	OutReceived          uint64
	OutWithdrawn         uint64
	SupposedUsdcValue    uint64
	NextOrderAt          int64
	OutBalanceBeforeSwap uint64
}

// OutAvailable returns output tokens received but not yet withdrawn.
func (va *ValueAverage) OutAvailable() uint64 {
	if va.OutReceived <= va.OutWithdrawn {
		return 0
	}
	return va.OutReceived - va.OutWithdrawn
}

// OrderAccount pairs an order address with its decoded state.
type OrderAccount struct {
	PublicKey solana.PublicKey
	Account   *ValueAverage
}

// DecodeValueAverage parses raw account data.
func DecodeValueAverage(data []byte) (*ValueAverage, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("data too short for %s", accountName)
	}
	if !bytes.Equal(data[:8], AccountDiscriminator) {
		return nil, fmt.Errorf("invalid discriminator for %s", accountName)
	}
	var va ValueAverage
	if err := bin.NewBorshDecoder(data[8:]).Decode(&va); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", accountName, err)
	}
	return &va, nil
}

// Get fetches and decodes one order account.
func (p *Program) Get(ctx context.Context, order solana.PublicKey) (*ValueAverage, error) {
	info, err := p.accounts.GetAccountInfo(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", order, err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("order %s has no data", order)
	}
	if !info.Value.Owner.Equals(p.programID) {
		return nil, fmt.Errorf("order %s is owned by %s, not the program", order, info.Value.Owner)
	}
	return DecodeValueAverage(info.Value.Data.GetBinary())
}

// ListByUser returns every open order owned by user, newest first.
func (p *Program) ListByUser(ctx context.Context, user solana.PublicKey) ([]OrderAccount, error) {
	res, err := p.accounts.GetProgramAccountsWithOpts(ctx, p.programID, &rpc.GetProgramAccountsOpts{
		Encoding: solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: AccountDiscriminator}},
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: userOffset, Bytes: user.Bytes()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]OrderAccount, 0, len(res))
	for _, keyed := range res {
		if keyed == nil || keyed.Account == nil {
			continue
		}
		va, err := DecodeValueAverage(keyed.Account.Data.GetBinary())
		if err != nil {
			p.logger.Warn("Skipping undecodable order account",
				zap.String("account", keyed.Pubkey.String()),
				zap.Error(err))
			continue
		}
		orders = append(orders, OrderAccount{PublicKey: keyed.Pubkey, Account: va})
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Account.CreatedAt > orders[j].Account.CreatedAt
	})
	return orders, nil
}
