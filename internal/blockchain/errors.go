// internal/blockchain/errors.go
package blockchain

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrAccountNotFound is returned when an account has no data on chain.
	ErrAccountNotFound = errors.New("account not found")

	// ErrConfirmationTimeout возникает, когда подтверждение не пришло вовремя
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")

	// ErrBlockhashExpired возникает, когда сеть прошла lastValidBlockHeight
	ErrBlockhashExpired = errors.New("blockhash expired before confirmation")
)

// TxError is an on-chain execution failure reported in the signature status.
type TxError struct {
	Signature solana.Signature
	Err       interface{}
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
}

// AnchorError is a program error decoded from simulation logs.
type AnchorError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

func (e *AnchorError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("program error %d: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("program error %s (%d): %s", e.Name, e.Code, e.Msg)
}
