// =============================
// File: internal/program/valueaverage/program.go
// =============================
package valueaverage

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// ErrProgramIDNotSet is returned when no program address is configured.
var ErrProgramIDNotSet = errors.New("value average program id is not set")

const (
	orderSeed          = "value_average"
	eventAuthoritySeed = "__event_authority"
	accountName        = "ValueAverage"
)

// Instruction and account discriminators, Anchor style.
var (
	openDiscriminator     = instructionDiscriminator("open")
	depositDiscriminator  = instructionDiscriminator("deposit")
	withdrawDiscriminator = instructionDiscriminator("withdraw")
	closeDiscriminator    = instructionDiscriminator("close")

	AccountDiscriminator = discriminator("account:" + accountName)
)

func instructionDiscriminator(name string) []byte {
	return discriminator("global:" + name)
}

func discriminator(preimage string) []byte {
	sum := sha256.Sum256([]byte(preimage))
	return sum[:8]
}

// AccountReader reads the accounts the program owns.
type AccountReader interface {
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetProgramAccountsWithOpts(ctx context.Context, programID solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error)
}

// Program builds instructions for, and reads accounts of, the Value Average program.
type Program struct {
	programID      solana.PublicKey
	eventAuthority solana.PublicKey
	accounts       AccountReader
	logger         *zap.Logger
}

// NewProgram creates a program client for the program at programID.
func NewProgram(programID solana.PublicKey, accounts AccountReader, logger *zap.Logger) (*Program, error) {
	if programID.IsZero() {
		return nil, ErrProgramIDNotSet
	}
	eventAuthority, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(eventAuthoritySeed)},
		programID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive event authority: %w", err)
	}
	return &Program{
		programID:      programID,
		eventAuthority: eventAuthority,
		accounts:       accounts,
		logger:         logger.Named("valueaverage"),
	}, nil
}

// ProgramID returns the program address.
func (p *Program) ProgramID() solana.PublicKey {
	return p.programID
}

// DeriveOrderAddress вычисляет PDA ордера для пользователя, пары и индекса.
func (p *Program) DeriveOrderAddress(user, inputMint, outputMint solana.PublicKey, idx uint64) (solana.PublicKey, uint8, error) {
	idxBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(idxBytes, idx)
	return solana.FindProgramAddress(
		[][]byte{
			[]byte(orderSeed),
			user.Bytes(),
			inputMint.Bytes(),
			outputMint.Bytes(),
			idxBytes,
		},
		p.programID,
	)
}

// vaults returns the order-owned token accounts for both mints.
func vaults(order, inputMint, outputMint solana.PublicKey) (solana.PublicKey, solana.PublicKey, error) {
	inputVault, _, err := solana.FindAssociatedTokenAddress(order, inputMint)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("failed to derive input vault: %w", err)
	}
	outputVault, _, err := solana.FindAssociatedTokenAddress(order, outputMint)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("failed to derive output vault: %w", err)
	}
	return inputVault, outputVault, nil
}

// createATAIdempotent создает инструкцию для создания ассоциированного токен-аккаунта
func createATAIdempotent(payer, owner, mint solana.PublicKey) (solana.Instruction, solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("failed to find associated token address: %w", err)
	}

	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		[]*solana.AccountMeta{
			solana.Meta(payer).WRITE().SIGNER(),
			solana.Meta(ata).WRITE(),
			solana.Meta(owner),
			solana.Meta(mint),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.TokenProgramID),
		},
		[]byte{1}, // 1 = create_idempotent
	), ata, nil
}
