// =============================
// File: internal/submit/submitter.go
// =============================
package submit

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rovshanmuradov/solana-va/internal/blockchain"
	"github.com/rovshanmuradov/solana-va/internal/logger"
	"github.com/rovshanmuradov/solana-va/internal/order"
	"github.com/rovshanmuradov/solana-va/internal/program/computebudget"
	"github.com/rovshanmuradov/solana-va/internal/program/valueaverage"
	"github.com/rovshanmuradov/solana-va/internal/wallet"
)

// ProgramClient builds Value Average instructions and reads order state.
type ProgramClient interface {
	Open(ctx context.Context, params valueaverage.OpenParams) ([]solana.Instruction, solana.PublicKey, error)
	Deposit(ctx context.Context, user, order solana.PublicKey, amount uint64) ([]solana.Instruction, error)
	Get(ctx context.Context, order solana.PublicKey) (*valueaverage.ValueAverage, error)
	Withdraw(ctx context.Context, params valueaverage.WithdrawParams) ([]solana.Instruction, error)
	Close(ctx context.Context, user, order solana.PublicKey, va *valueaverage.ValueAverage) (solana.Instruction, error)
}

// Network supplies blockhashes and confirms signatures.
type Network interface {
	LatestBlockhash(ctx context.Context) (blockchain.Blockhash, error)
	ConfirmTransaction(ctx context.Context, signature solana.Signature, lastValidBlockHeight uint64) error
}

// Wallet signs and broadcasts on behalf of the user.
type Wallet interface {
	Connected() bool
	PublicKey() solana.PublicKey
	SignAndSend(ctx context.Context, tx *solana.Transaction, opts wallet.SendOptions) (solana.Signature, error)
}

// Config holds submission flags.
type Config struct {
	SkipPreflight bool
	AutoWithdraw  bool
	Budget        computebudget.Config // zero adds no budget instructions
}

// Submitter runs the build, sign, send and confirm workflow.
type Submitter struct {
	program ProgramClient
	network Network
	wallet  Wallet
	cfg     Config
	logger  *zap.Logger
	group   singleflight.Group
}

// New creates a submitter.
func New(program ProgramClient, network Network, w Wallet, cfg Config, logger *zap.Logger) *Submitter {
	return &Submitter{
		program: program,
		network: network,
		wallet:  w,
		cfg:     cfg,
		logger:  logger.Named("submitter"),
	}
}

type buildFunc func(ctx context.Context, user solana.PublicKey) ([]solana.Instruction, solana.PublicKey, error)

// Open creates and funds a new order.
func (s *Submitter) Open(ctx context.Context, req order.Request) Result {
	key := string(OpOpen) + ":" + req.Key()
	return s.run(ctx, OpOpen, key, func(ctx context.Context, user solana.PublicKey) ([]solana.Instruction, solana.PublicKey, error) {
		return s.program.Open(ctx, valueaverage.OpenParams{
			User:               user,
			Payer:              user,
			InputMint:          req.InputMint,
			OutputMint:         req.OutputMint,
			OrderInterval:      int64(req.Interval),
			DepositAmount:      req.Deposit,
			IncrementUsdcValue: req.IncrementValue,
			StartAt:            req.StartAt,
			AutoWithdraw:       s.cfg.AutoWithdraw,
		})
	})
}

// Deposit adds amount input base units to an existing order.
func (s *Submitter) Deposit(ctx context.Context, orderAddr solana.PublicKey, amount uint64) Result {
	key := fmt.Sprintf("%s:%s:%d", OpDeposit, orderAddr, amount)
	return s.run(ctx, OpDeposit, key, func(ctx context.Context, user solana.PublicKey) ([]solana.Instruction, solana.PublicKey, error) {
		ixs, err := s.program.Deposit(ctx, user, orderAddr, amount)
		return ixs, orderAddr, err
	})
}

// WithdrawAllAndClose withdraws every remaining balance of an order and
// closes it in one transaction.
func (s *Submitter) WithdrawAllAndClose(ctx context.Context, orderAddr solana.PublicKey) Result {
	key := fmt.Sprintf("%s:%s", OpWithdrawAndClose, orderAddr)
	return s.run(ctx, OpWithdrawAndClose, key, func(ctx context.Context, user solana.PublicKey) ([]solana.Instruction, solana.PublicKey, error) {
		ixs, err := s.withdrawAndCloseInstructions(ctx, user, orderAddr)
		return ixs, orderAddr, err
	})
}

func (s *Submitter) withdrawAndCloseInstructions(ctx context.Context, user, orderAddr solana.PublicKey) ([]solana.Instruction, error) {
	va, err := s.program.Get(ctx, orderAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order state: %w", err)
	}

	var ixs []solana.Instruction
	if va.InLeft > 0 {
		withdrawIn, err := s.program.Withdraw(ctx, valueaverage.WithdrawParams{
			User:    user,
			Order:   orderAddr,
			Account: va,
			Mint:    va.InputMint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build input withdraw: %w", err)
		}
		ixs = append(ixs, withdrawIn...)
	}
	if va.OutAvailable() > 0 {
		withdrawOut, err := s.program.Withdraw(ctx, valueaverage.WithdrawParams{
			User:    user,
			Order:   orderAddr,
			Account: va,
			Mint:    va.OutputMint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build output withdraw: %w", err)
		}
		ixs = append(ixs, withdrawOut...)
	}

	closeIx, err := s.program.Close(ctx, user, orderAddr, va)
	if err != nil {
		return nil, fmt.Errorf("failed to build close: %w", err)
	}
	return append(ixs, closeIx), nil
}

// run de-duplicates identical in-flight submissions; callers sharing a key
// share one workflow and one result.
func (s *Submitter) run(ctx context.Context, op Operation, key string, build buildFunc) Result {
	if s.wallet == nil || !s.wallet.Connected() {
		return Result{Operation: op, Kind: WalletNotConnected, Err: order.ErrWalletNotConnected}
	}

	v, _, shared := s.group.Do(key, func() (interface{}, error) {
		return s.execute(ctx, op, build), nil
	})
	if shared {
		s.logger.Debug("Joined in-flight submission", zap.String("operation", string(op)))
	}
	return v.(Result)
}

func (s *Submitter) execute(ctx context.Context, op Operation, build buildFunc) Result {
	log := logger.WithOperation(s.logger, string(op))
	defer logger.TrackPerformance(log, string(op))()

	user := s.wallet.PublicKey()
	res := Result{Operation: op}

	ixs, orderAddr, err := build(ctx, user)
	res.Order = orderAddr
	if err == nil && len(ixs) == 0 {
		err = ErrNoInstructions
	}
	if err != nil {
		log.Error("Failed to build instructions", zap.Error(err))
		res.Kind, res.Err = BuildFailed, err
		return res
	}

	if budget := computebudget.Instructions(s.cfg.Budget); len(budget) > 0 {
		ixs = append(budget, ixs...)
	}

	bh, err := s.network.LatestBlockhash(ctx)
	if err != nil {
		log.Error("Failed to get latest blockhash", zap.Error(err))
		res.Kind, res.Err = BuildFailed, fmt.Errorf("failed to get latest blockhash: %w", err)
		return res
	}

	tx, err := solana.NewTransaction(ixs, bh.Hash, solana.TransactionPayer(user))
	if err != nil {
		log.Error("Failed to assemble transaction", zap.Error(err))
		res.Kind, res.Err = BuildFailed, fmt.Errorf("failed to create transaction: %w", err)
		return res
	}

	sig, err := s.wallet.SignAndSend(ctx, tx, wallet.SendOptions{SkipPreflight: s.cfg.SkipPreflight})
	if err != nil {
		log.Error("Failed to send transaction", zap.Error(err))
		res.Kind, res.Err = SendFailed, err
		return res
	}
	res.Signature = sig
	log.Info("Transaction sent",
		zap.String("signature", sig.String()),
		zap.String("order", orderAddr.String()),
		zap.Int("instructions", len(ixs)))

	if err := s.network.ConfirmTransaction(ctx, sig, bh.LastValidBlockHeight); err != nil {
		log.Error("Transaction confirmation failed",
			zap.String("signature", sig.String()),
			zap.Error(err))
		res.Kind, res.Err = ConfirmationFailed, err
		return res
	}

	log.Info("Transaction confirmed", zap.String("signature", sig.String()))
	res.Kind = Confirmed
	return res
}
