package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-va/internal/blockchain"
)

type recordingSender struct {
	opts blockchain.TransactionOptions
	tx   *solana.Transaction
	err  error
}

func (s *recordingSender) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error) {
	s.tx = tx
	s.opts = opts
	if s.err != nil {
		return solana.Signature{}, s.err
	}
	return tx.Signatures[0], nil
}

func newTx(t *testing.T, payer solana.PublicKey) *solana.Transaction {
	t.Helper()
	ix := solana.NewInstruction(solana.SystemProgramID,
		[]*solana.AccountMeta{solana.Meta(payer).SIGNER().WRITE()},
		[]byte("va"))
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{}, solana.TransactionPayer(payer))
	require.NoError(t, err)
	return tx
}

func TestNewWallet(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	w, err := NewWallet(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey())
	assert.False(t, w.Connected())

	_, err = NewWallet("abc")
	assert.Error(t, err)

	_, err = NewWallet("0OIl")
	assert.Error(t, err)
}

func TestFromKeygenFile(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	// solana-keygen stores the key as a JSON array of numbers
	var nums []int
	for _, b := range key {
		nums = append(nums, int(b))
	}
	raw, err := json.Marshal(nums)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	w, err := FromKeygenFile(path)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey())
}

func TestLoadWallets(t *testing.T) {
	mainKey := solana.NewWallet().PrivateKey
	content := "wallets:\n" +
		"  - name: main\n    private_key: " + mainKey.String() + "\n" +
		"  - name: broken\n    private_key: nope\n" +
		"  - name: \"\"\n    private_key: " + mainKey.String() + "\n"
	path := filepath.Join(t.TempDir(), "wallets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	wallets, err := LoadWallets(path)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, "main", wallets["main"].Name)
	assert.Equal(t, mainKey.PublicKey(), wallets["main"].PublicKey())

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("wallets: []\n"), 0o600))
	_, err = LoadWallets(empty)
	assert.Error(t, err)
}

func TestSignAndSend(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	w, err := NewWallet(key.String())
	require.NoError(t, err)

	sender := &recordingSender{}
	w.Connect(sender, zaptest.NewLogger(t))
	require.True(t, w.Connected())

	tx := newTx(t, w.PublicKey())
	sig, err := w.SignAndSend(context.Background(), tx, SendOptions{SkipPreflight: true})
	require.NoError(t, err)

	assert.False(t, sig.IsZero())
	assert.True(t, sender.opts.SkipPreflight)
	require.NoError(t, tx.VerifySignatures())
}

func TestSignAndSend_Errors(t *testing.T) {
	var nilWallet *Wallet
	_, err := nilWallet.SignAndSend(context.Background(), nil, SendOptions{})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.True(t, nilWallet.PublicKey().IsZero())

	w, err := NewWallet(solana.NewWallet().PrivateKey.String())
	require.NoError(t, err)
	_, err = w.SignAndSend(context.Background(), newTx(t, w.PublicKey()), SendOptions{})
	assert.ErrorIs(t, err, ErrNotConnected)

	boom := errors.New("node rejected")
	w.Connect(&recordingSender{err: boom}, zaptest.NewLogger(t))
	_, err = w.SignAndSend(context.Background(), newTx(t, w.PublicKey()), SendOptions{})
	assert.ErrorIs(t, err, boom)
}
