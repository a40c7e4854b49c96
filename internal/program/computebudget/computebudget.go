// Package computebudget builds the compute budget instructions that set a
// transaction's unit limit and priority fee.
package computebudget

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

// Дискриминаторы инструкций
const (
	setComputeUnitLimit uint8 = 2
	setComputeUnitPrice uint8 = 3
)

// DefaultUnits is enough for open with ATA creation plus a withdraw pair.
const DefaultUnits uint32 = 200_000

// Config is the budget attached to every submitted transaction.
type Config struct {
	Units                  uint32
	UnitPriceMicroLamports uint64
}

// Enabled reports whether any budget instruction should be added.
func (c Config) Enabled() bool {
	return c.Units > 0 || c.UnitPriceMicroLamports > 0
}

// SetComputeUnitLimit returns the instruction capping the transaction's units.
func SetComputeUnitLimit(units uint32) solana.Instruction {
	data := binary.LittleEndian.AppendUint32([]byte{setComputeUnitLimit}, units)
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{}, data)
}

// SetComputeUnitPrice returns the instruction setting the priority fee per unit.
func SetComputeUnitPrice(microLamports uint64) solana.Instruction {
	data := binary.LittleEndian.AppendUint64([]byte{setComputeUnitPrice}, microLamports)
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{}, data)
}

// Instructions returns the budget instructions for cfg. A price without a
// limit uses DefaultUnits so the fee stays bounded.
func Instructions(cfg Config) []solana.Instruction {
	if !cfg.Enabled() {
		return nil
	}
	units := cfg.Units
	if units == 0 {
		units = DefaultUnits
	}
	ixs := []solana.Instruction{SetComputeUnitLimit(units)}
	if cfg.UnitPriceMicroLamports > 0 {
		ixs = append(ixs, SetComputeUnitPrice(cfg.UnitPriceMicroLamports))
	}
	return ixs
}

// PriorityFeeLamports is the worst-case priority fee for cfg in lamports.
func PriorityFeeLamports(cfg Config) uint64 {
	units := cfg.Units
	if units == 0 {
		units = DefaultUnits
	}
	return uint64(units) * cfg.UnitPriceMicroLamports / 1_000_000
}
