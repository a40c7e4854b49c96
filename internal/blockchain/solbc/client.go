// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/blockchain"
)

const (
	defaultConfirmTimeout = 60 * time.Second
	defaultPollInterval   = 500 * time.Millisecond
)

// Config управляет уровнем подтверждения и таймингами опроса.
type Config struct {
	Commitment     rpc.CommitmentType
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
type Client struct {
	rpc      *rpc.Client
	logger   *zap.Logger
	cfg      Config
	analyzer *ErrorAnalyzer
}

// NewClient создаёт новый клиент, принимая RPC URL и логгер через dependency injection.
func NewClient(rpcURL string, cfg Config, logger *zap.Logger) *Client {
	if cfg.Commitment == "" {
		cfg.Commitment = rpc.CommitmentConfirmed
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = defaultConfirmTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	logger = logger.Named("solbc-client")
	return &Client{
		rpc:      rpc.New(rpcURL),
		logger:   logger,
		cfg:      cfg,
		analyzer: NewErrorAnalyzer(logger),
	}
}

// Commitment returns the commitment level reads and confirmations use.
func (c *Client) Commitment() rpc.CommitmentType {
	return c.cfg.Commitment
}

// LatestBlockhash получает последний blockhash и его lastValidBlockHeight.
func (c *Client) LatestBlockhash(ctx context.Context) (blockchain.Blockhash, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, c.cfg.Commitment)
	if err != nil {
		c.logger.Error("LatestBlockhash error", zap.Error(err))
		return blockchain.Blockhash{}, err
	}
	if result == nil || result.Value == nil {
		return blockchain.Blockhash{}, errors.New("empty blockhash response")
	}
	return blockchain.Blockhash{
		Hash:                 result.Value.Blockhash,
		LastValidBlockHeight: result.Value.LastValidBlockHeight,
	}, nil
}

// SendTransactionWithOpts отправляет транзакцию с заданными опциями.
// Program errors found in the preflight logs are attached as *blockchain.AnchorError.
func (c *Client) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error) {
	if opts.PreflightCommitment == "" {
		opts.PreflightCommitment = c.cfg.Commitment
	}
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: opts.PreflightCommitment,
	})
	if err != nil {
		c.logger.Error("SendTransactionWithOpts error", zap.Error(err))
		if anchorErr := c.analyzer.AnchorErrorFrom(err); anchorErr != nil {
			return solana.Signature{}, fmt.Errorf("%w: %w", anchorErr, err)
		}
		return solana.Signature{}, err
	}
	return sig, nil
}

// GetAccountInfo получает информацию об аккаунте.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Commitment: c.cfg.Commitment,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", pubkey, blockchain.ErrAccountNotFound)
		}
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

// GetProgramAccountsWithOpts получает все аккаунты программы с опциями фильтрации
func (c *Client) GetProgramAccountsWithOpts(
	ctx context.Context,
	programID solana.PublicKey,
	opts *rpc.GetProgramAccountsOpts,
) (rpc.GetProgramAccountsResult, error) {
	if opts == nil {
		opts = &rpc.GetProgramAccountsOpts{}
	}
	if opts.Commitment == "" {
		opts.Commitment = c.cfg.Commitment
	}
	if opts.Encoding == "" {
		opts.Encoding = solana.EncodingBase64
	}
	accounts, err := c.rpc.GetProgramAccountsWithOpts(ctx, programID, opts)
	if err != nil {
		c.logger.Debug("GetProgramAccountsWithOpts error",
			zap.String("program_id", programID.String()),
			zap.Error(err))
		return nil, err
	}
	return accounts, nil
}

// GetSignatureStatuses получает статусы транзакций.
func (c *Client) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	result, err := c.rpc.GetSignatureStatuses(ctx, false, signatures...)
	if err != nil {
		c.logger.Error("GetSignatureStatuses error", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// GetBlockHeight возвращает текущую высоту блока.
func (c *Client) GetBlockHeight(ctx context.Context) (uint64, error) {
	height, err := c.rpc.GetBlockHeight(ctx, c.cfg.Commitment)
	if err != nil {
		c.logger.Debug("GetBlockHeight error", zap.Error(err))
		return 0, err
	}
	return height, nil
}

// ConfirmTransaction опрашивает статус подписи до подтверждения. It stops
// with *blockchain.TxError when the transaction failed on chain,
// ErrBlockhashExpired once the block height passes lastValidBlockHeight
// (zero disables that check) and ErrConfirmationTimeout after the
// configured timeout.
func (c *Client) ConfirmTransaction(ctx context.Context, signature solana.Signature, lastValidBlockHeight uint64) error {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	timeout := time.NewTimer(c.cfg.ConfirmTimeout)
	defer timeout.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			c.logger.Warn("Confirmation timed out",
				zap.String("signature", signature.String()),
				zap.Duration("timeout", c.cfg.ConfirmTimeout))
			return fmt.Errorf("%s: %w", signature, blockchain.ErrConfirmationTimeout)
		case <-ticker.C:
			done, err := c.checkSignature(ctx, signature)
			if done {
				return err
			}

			if lastValidBlockHeight == 0 {
				continue
			}
			height, err := c.GetBlockHeight(ctx)
			if err != nil {
				c.logger.Warn("Error getting block height", zap.Error(err))
				continue
			}
			if height > lastValidBlockHeight {
				// The status may have landed between the two calls.
				if done, err := c.checkSignature(ctx, signature); done {
					return err
				}
				return fmt.Errorf("%s at height %d (last valid %d): %w",
					signature, height, lastValidBlockHeight, blockchain.ErrBlockhashExpired)
			}
		}
	}
}

func (c *Client) checkSignature(ctx context.Context, signature solana.Signature) (bool, error) {
	statuses, err := c.GetSignatureStatuses(ctx, signature)
	if err != nil {
		c.logger.Warn("Error getting signature statuses", zap.Error(err))
		return false, nil
	}
	if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
		return false, nil
	}

	status := statuses.Value[0]
	if status.Err != nil {
		return true, &blockchain.TxError{Signature: signature, Err: status.Err}
	}
	if reached(status.ConfirmationStatus, c.cfg.Commitment) {
		c.logger.Debug("Transaction confirmed",
			zap.String("signature", signature.String()),
			zap.String("status", string(status.ConfirmationStatus)))
		return true, nil
	}
	return false, nil
}

func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	switch status {
	case rpc.ConfirmationStatusFinalized:
		return true
	case rpc.ConfirmationStatusConfirmed:
		return want != rpc.CommitmentFinalized
	case rpc.ConfirmationStatusProcessed:
		return want == rpc.CommitmentProcessed
	}
	return false
}

// Гарантируем, что Client реализует интерфейс blockchain.Client.
var _ blockchain.Client = (*Client)(nil)
