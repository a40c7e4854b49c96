package computebudget

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructions(t *testing.T) {
	assert.Empty(t, Instructions(Config{}))

	ixs := Instructions(Config{UnitPriceMicroLamports: 10_000})
	require.Len(t, ixs, 2)

	limit, err := ixs[0].Data()
	require.NoError(t, err)
	assert.Equal(t, setComputeUnitLimit, limit[0])
	assert.Equal(t, DefaultUnits, binary.LittleEndian.Uint32(limit[1:]))

	price, err := ixs[1].Data()
	require.NoError(t, err)
	assert.Len(t, price, 9)
	assert.Equal(t, uint64(10_000), binary.LittleEndian.Uint64(price[1:]))
	assert.Equal(t, ProgramID, ixs[1].ProgramID())
	assert.Empty(t, ixs[1].Accounts())
}

func TestInstructions_LimitOnly(t *testing.T) {
	ixs := Instructions(Config{Units: 300_000})
	require.Len(t, ixs, 1)
	data, err := ixs[0].Data()
	require.NoError(t, err)
	assert.Equal(t, uint32(300_000), binary.LittleEndian.Uint32(data[1:]))
}

func TestPriorityFeeLamports(t *testing.T) {
	assert.Equal(t, uint64(2_000), PriorityFeeLamports(Config{UnitPriceMicroLamports: 10_000}))
	assert.Equal(t, uint64(0), PriorityFeeLamports(Config{Units: 400_000}))
}
