package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
)

func amount(v, symbol string) overview.Amount {
	return overview.Amount{Value: decimal.RequireFromString(v), Symbol: symbol}
}

func generateTestOrders() []overview.ClosedOrder {
	now := time.Now()
	sol := tokens.Token{Address: "So11111111111111111111111111111111111111112", Symbol: "SOL", Decimals: 9}
	usdc := tokens.Token{Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Decimals: 6}
	bonk := tokens.Token{Address: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Symbol: "BONK", Decimals: 5}

	return []overview.ClosedOrder{
		{
			Address: "order1",
			Input:   usdc,
			Output:  sol,
			Fills: []overview.FillRow{
				{In: amount("10", "USDC"), Out: amount("0.05", "SOL"), Fee: amount("0.01", "USDC"), Rate: decimal.RequireFromString("0.005"), Signature: "sig2", ConfirmedAt: now.Add(-30 * time.Minute)},
				{In: amount("10", "USDC"), Out: amount("0.1", "SOL"), Fee: amount("0.01", "USDC"), Rate: decimal.RequireFromString("0.01"), Signature: "sig1", ConfirmedAt: now.Add(-2 * time.Hour)},
			},
		},
		{
			Address: "order2",
			Input:   usdc,
			Output:  bonk,
			Fills: []overview.FillRow{
				{In: amount("5", "USDC"), Out: amount("250000", "BONK"), Rate: decimal.NewFromInt(50000), Signature: "sig3", ConfirmedAt: now.Add(-10 * time.Minute)},
			},
		},
	}
}

func TestFillExportCSV(t *testing.T) {
	exporter := NewFillExporter(zap.NewNop())

	outputPath, err := exporter.ExportFills(generateTestOrders(), ExportOptions{
		Format:    FormatCSV,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, CSVHeaders(), rows[0])

	// sorted by confirmation time
	assert.Equal(t, "sig1", rows[1][10])
	assert.Equal(t, "sig2", rows[2][10])
	assert.Equal(t, "sig3", rows[3][10])
	assert.Equal(t, "0.010000", rows[1][7])
	assert.Equal(t, "SOL", rows[1][4])
}

func TestFillExportJSON(t *testing.T) {
	exporter := NewFillExporter(zap.NewNop())

	outputPath, err := exporter.ExportFills(generateTestOrders(), ExportOptions{
		Format:    FormatJSON,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var data struct {
		FillCount int           `json:"fill_count"`
		Summary   ExportSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(content, &data))
	assert.Equal(t, 3, data.FillCount)
	assert.Equal(t, 2, data.Summary.Orders)
	require.Len(t, data.Summary.Pairs, 2)
	assert.Equal(t, "USDC/SOL", data.Summary.Pairs[0].Pair)
	assert.Equal(t, "20", data.Summary.Pairs[0].InAmount.String())
	assert.Equal(t, "0.0075", data.Summary.Pairs[0].AvgRate.String())
}

func TestFillExportFilters(t *testing.T) {
	exporter := NewFillExporter(zap.NewNop())
	orders := generateTestOrders()

	records := exporter.filterRecords(Records(orders), ExportOptions{
		StartTime: time.Now().Add(-time.Hour),
	})
	assert.Len(t, records, 2)

	records = exporter.filterRecords(Records(orders), ExportOptions{
		MintFilter: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
	})
	require.Len(t, records, 1)
	assert.Equal(t, "order2", records[0].Order)

	_, err := exporter.ExportFills(orders, ExportOptions{
		Format:    FormatCSV,
		EndTime:   time.Now().Add(-24 * time.Hour),
		OutputDir: t.TempDir(),
	})
	assert.Error(t, err)
}

func TestFilenameGeneration(t *testing.T) {
	exporter := NewFillExporter(zap.NewNop())

	tests := []struct {
		options  ExportOptions
		expected string
	}{
		{ExportOptions{Format: FormatCSV}, "fills_all"},
		{ExportOptions{Format: FormatJSON, MintFilter: "So11111111111111111111111111111111111111112"}, "fills_So111111"},
	}

	for _, tt := range tests {
		filename := exporter.generateFilename(tt.options)
		assert.True(t, strings.HasPrefix(filename, tt.expected), filename)
		assert.True(t, strings.HasSuffix(filename, "."+string(tt.options.Format)), filename)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
