// internal/blockchain/types.go
package blockchain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// TransactionOptions определяет опции для отправки транзакций.
type TransactionOptions struct {
	SkipPreflight       bool
	PreflightCommitment rpc.CommitmentType
}

// Blockhash is a recent blockhash and the last block height at which a
// transaction referencing it is still valid.
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// Client определяет общий интерфейс для взаимодействия с блокчейном.
type Client interface {
	// Последний blockhash вместе с высотой, до которой он действителен.
	LatestBlockhash(ctx context.Context) (Blockhash, error)
	// Отправить подписанную транзакцию с опциями.
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts TransactionOptions) (solana.Signature, error)
	// Получить информацию об аккаунте.
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	// Все аккаунты программы, прошедшие фильтры.
	GetProgramAccountsWithOpts(ctx context.Context, programID solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error)
	// Получить статусы подписей транзакций.
	GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	// Текущая высота блока.
	GetBlockHeight(ctx context.Context) (uint64, error)
	// Ожидание подтверждения транзакции.
	ConfirmTransaction(ctx context.Context, signature solana.Signature, lastValidBlockHeight uint64) error
}
