// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rovshanmuradov/solana-va/internal/blockchain"
)

// ErrNotConnected возникает при попытке подписать без ключа или без сети.
var ErrNotConnected = errors.New("wallet not connected")

// Sender broadcasts signed transactions.
type Sender interface {
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error)
}

// SendOptions управляет отправкой подписанной транзакции.
type SendOptions struct {
	SkipPreflight bool
}

// Wallet представляет локальный кошелёк Solana.
type Wallet struct {
	Name       string
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
	sender     Sender
	logger     *zap.Logger
}

// NewWallet создаёт новый кошелёк из base58-encoded приватного ключа.
func NewWallet(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	return fromPrivateKey(solana.PrivateKey(privateKeyBytes)), nil
}

// FromKeygenFile загружает ключ из JSON-файла solana-keygen.
func FromKeygenFile(path string) (*Wallet, error) {
	privateKey, err := solana.PrivateKeyFromSolanaKeygenFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair file: %w", err)
	}
	return fromPrivateKey(privateKey), nil
}

func fromPrivateKey(privateKey solana.PrivateKey) *Wallet {
	return &Wallet{
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
		logger:     zap.NewNop(),
	}
}

// WalletConfig represents the structure of wallets YAML file
type WalletConfig struct {
	Wallets []struct {
		Name       string `yaml:"name"`
		PrivateKey string `yaml:"private_key"`
	} `yaml:"wallets"`
}

// LoadWallets загружает кошельки из YAML-файла.
func LoadWallets(path string) (map[string]*Wallet, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config WalletConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(config.Wallets) == 0 {
		return nil, fmt.Errorf("no wallets found in configuration")
	}

	wallets := make(map[string]*Wallet)
	for _, walletData := range config.Wallets {
		if walletData.Name == "" || walletData.PrivateKey == "" {
			continue
		}
		w, err := NewWallet(walletData.PrivateKey)
		if err != nil {
			continue
		}
		w.Name = walletData.Name
		wallets[walletData.Name] = w
	}

	if len(wallets) == 0 {
		return nil, fmt.Errorf("no valid wallets loaded")
	}
	return wallets, nil
}

// Connect привязывает кошелёк к сети для отправки транзакций.
func (w *Wallet) Connect(sender Sender, logger *zap.Logger) *Wallet {
	w.sender = sender
	w.logger = logger.Named("wallet").With(zap.String("pubkey", w.publicKey.String()))
	return w
}

// Connected reports whether the wallet can sign and broadcast.
func (w *Wallet) Connected() bool {
	return w != nil && len(w.privateKey) == 64 && w.sender != nil
}

// PublicKey returns the owner key, zero when the wallet is nil.
func (w *Wallet) PublicKey() solana.PublicKey {
	if w == nil {
		return solana.PublicKey{}
	}
	return w.publicKey
}

// SignTransaction подписывает транзакцию с помощью приватного ключа кошелька.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.publicKey) {
			return &w.privateKey
		}
		return nil
	})
	return err
}

// SignAndSend подписывает транзакцию и отправляет её в сеть.
func (w *Wallet) SignAndSend(ctx context.Context, tx *solana.Transaction, opts SendOptions) (solana.Signature, error) {
	if !w.Connected() {
		return solana.Signature{}, ErrNotConnected
	}
	if err := w.SignTransaction(tx); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := w.sender.SendTransactionWithOpts(ctx, tx, blockchain.TransactionOptions{
		SkipPreflight: opts.SkipPreflight,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	w.logger.Debug("Transaction sent",
		zap.String("signature", sig.String()),
		zap.Bool("skip_preflight", opts.SkipPreflight))
	return sig, nil
}

// String возвращает строковое представление кошелька (его публичный ключ).
func (w *Wallet) String() string {
	return w.publicKey.String()
}
