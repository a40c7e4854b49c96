// =============================
// File: internal/program/valueaverage/instructions.go
// =============================
package valueaverage

import (
	"context"
	"errors"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

var ErrMintNotInOrder = errors.New("mint does not belong to the order")

// OpenParams describes a new order.
type OpenParams struct {
	User               solana.PublicKey
	Payer              solana.PublicKey // defaults to User
	InputMint          solana.PublicKey
	OutputMint         solana.PublicKey
	OrderInterval      int64 // seconds
	DepositAmount      uint64
	IncrementUsdcValue uint64
	StartAt            *int64 // unix seconds
	AutoWithdraw       bool
	Idx                uint64 // defaults to the current unix time in milliseconds
}

type openArgs struct {
	Idx                uint64
	OrderInterval      int64
	IncrementUsdcValue uint64
	DepositAmount      uint64
	StartAt            *int64 `bin:"optional"`
	AutoWithdraw       bool
}

type amountArgs struct {
	Amount uint64
}

type withdrawArgs struct {
	Amount *uint64 `bin:"optional"`
}

// WithdrawParams selects one vault of an order to withdraw from.
type WithdrawParams struct {
	User    solana.PublicKey
	Order   solana.PublicKey
	Account *ValueAverage
	Mint    solana.PublicKey
	Amount  *uint64 // nil withdraws everything
}

func encode(disc []byte, args interface{}) ([]byte, error) {
	if args == nil {
		return append([]byte{}, disc...), nil
	}
	payload, err := bin.MarshalBorsh(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode instruction args: %w", err)
	}
	data := make([]byte, 0, len(disc)+len(payload))
	data = append(data, disc...)
	return append(data, payload...), nil
}

// Open returns the instructions that create and fund an order, and the
// derived order address.
func (p *Program) Open(_ context.Context, params OpenParams) ([]solana.Instruction, solana.PublicKey, error) {
	if params.User.IsZero() {
		return nil, solana.PublicKey{}, errors.New("user is required")
	}
	if params.Payer.IsZero() {
		params.Payer = params.User
	}
	if params.Idx == 0 {
		params.Idx = uint64(time.Now().UnixMilli())
	}

	order, _, err := p.DeriveOrderAddress(params.User, params.InputMint, params.OutputMint, params.Idx)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("failed to derive order address: %w", err)
	}
	inputVault, outputVault, err := vaults(order, params.InputMint, params.OutputMint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	userInput, _, err := solana.FindAssociatedTokenAddress(params.User, params.InputMint)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("failed to derive user input account: %w", err)
	}

	data, err := encode(openDiscriminator, openArgs{
		Idx:                params.Idx,
		OrderInterval:      params.OrderInterval,
		IncrementUsdcValue: params.IncrementUsdcValue,
		DepositAmount:      params.DepositAmount,
		StartAt:            params.StartAt,
		AutoWithdraw:       params.AutoWithdraw,
	})
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	ix := solana.NewInstruction(p.programID, []*solana.AccountMeta{
		solana.Meta(params.User).SIGNER(),
		solana.Meta(params.Payer).WRITE().SIGNER(),
		solana.Meta(params.InputMint),
		solana.Meta(params.OutputMint),
		solana.Meta(userInput).WRITE(),
		solana.Meta(order).WRITE(),
		solana.Meta(inputVault).WRITE(),
		solana.Meta(outputVault).WRITE(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(p.eventAuthority),
		solana.Meta(p.programID),
	}, data)

	p.logger.Debug("Open instruction built",
		zap.String("order", order.String()),
		zap.Uint64("idx", params.Idx),
		zap.Uint64("deposit", params.DepositAmount))
	return []solana.Instruction{ix}, order, nil
}

// Deposit returns the instructions that add amount of the input token to an
// existing order.
func (p *Program) Deposit(ctx context.Context, user, order solana.PublicKey, amount uint64) ([]solana.Instruction, error) {
	va, err := p.Get(ctx, order)
	if err != nil {
		return nil, err
	}
	userInput, _, err := solana.FindAssociatedTokenAddress(user, va.InputMint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive user input account: %w", err)
	}

	data, err := encode(depositDiscriminator, amountArgs{Amount: amount})
	if err != nil {
		return nil, err
	}

	ix := solana.NewInstruction(p.programID, []*solana.AccountMeta{
		solana.Meta(user).WRITE().SIGNER(),
		solana.Meta(order).WRITE(),
		solana.Meta(va.InputMint),
		solana.Meta(userInput).WRITE(),
		solana.Meta(va.InputVault).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(p.eventAuthority),
		solana.Meta(p.programID),
	}, data)
	return []solana.Instruction{ix}, nil
}

// Withdraw returns the instructions that move tokens of one mint from the
// order vault back to the user, creating the user token account if needed.
func (p *Program) Withdraw(ctx context.Context, params WithdrawParams) ([]solana.Instruction, error) {
	va := params.Account
	if va == nil {
		var err error
		if va, err = p.Get(ctx, params.Order); err != nil {
			return nil, err
		}
	}

	var vault solana.PublicKey
	switch {
	case params.Mint.Equals(va.InputMint):
		vault = va.InputVault
	case params.Mint.Equals(va.OutputMint):
		vault = va.OutputVault
	default:
		return nil, fmt.Errorf("%s: %w", params.Mint, ErrMintNotInOrder)
	}

	createIx, dst, err := createATAIdempotent(params.User, params.User, params.Mint)
	if err != nil {
		return nil, err
	}

	data, err := encode(withdrawDiscriminator, withdrawArgs{Amount: params.Amount})
	if err != nil {
		return nil, err
	}

	ix := solana.NewInstruction(p.programID, []*solana.AccountMeta{
		solana.Meta(params.User).WRITE().SIGNER(),
		solana.Meta(params.Order).WRITE(),
		solana.Meta(params.Mint),
		solana.Meta(dst).WRITE(),
		solana.Meta(vault).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(p.eventAuthority),
		solana.Meta(p.programID),
	}, data)
	return []solana.Instruction{createIx, ix}, nil
}

// Close returns the instruction that closes an order and returns its rent.
func (p *Program) Close(_ context.Context, user, order solana.PublicKey, va *ValueAverage) (solana.Instruction, error) {
	if va == nil {
		return nil, errors.New("order account is required")
	}
	userInput, _, err := solana.FindAssociatedTokenAddress(user, va.InputMint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive user input account: %w", err)
	}
	userOutput, _, err := solana.FindAssociatedTokenAddress(user, va.OutputMint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive user output account: %w", err)
	}

	data, err := encode(closeDiscriminator, nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.programID, []*solana.AccountMeta{
		solana.Meta(user).WRITE().SIGNER(),
		solana.Meta(order).WRITE(),
		solana.Meta(va.InputMint),
		solana.Meta(va.OutputMint),
		solana.Meta(va.InputVault).WRITE(),
		solana.Meta(va.OutputVault).WRITE(),
		solana.Meta(userInput).WRITE(),
		solana.Meta(userOutput).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(p.eventAuthority),
		solana.Meta(p.programID),
	}, data), nil
}
