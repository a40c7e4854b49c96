package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/overview"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ParseFormat accepts "csv" or "json".
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatCSV, FormatJSON:
		return ExportFormat(s), nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format     ExportFormat
	StartTime  time.Time
	EndTime    time.Time
	MintFilter string // input or output mint
	OutputDir  string
}

// FillRecord is one exported fill, flattened with its order.
type FillRecord struct {
	Order       string          `json:"order"`
	InputMint   string          `json:"input_mint"`
	InputToken  string          `json:"input_token"`
	OutputMint  string          `json:"output_mint"`
	OutputToken string          `json:"output_token"`
	InAmount    decimal.Decimal `json:"in_amount"`
	OutAmount   decimal.Decimal `json:"out_amount"`
	Rate        decimal.Decimal `json:"rate"`
	Fee         decimal.Decimal `json:"fee"`
	FeeToken    string          `json:"fee_token"`
	Signature   string          `json:"signature"`
	ConfirmedAt time.Time       `json:"confirmed_at"`
}

// CSVHeaders returns the CSV column names in record order.
func CSVHeaders() []string {
	return []string{
		"order", "input_mint", "input_token", "output_mint", "output_token",
		"in_amount", "out_amount", "rate", "fee", "fee_token", "signature", "confirmed_at",
	}
}

// ToCSV renders the record as a CSV row.
func (r FillRecord) ToCSV() []string {
	return []string{
		r.Order,
		r.InputMint,
		r.InputToken,
		r.OutputMint,
		r.OutputToken,
		r.InAmount.String(),
		r.OutAmount.String(),
		r.Rate.StringFixed(6),
		r.Fee.String(),
		r.FeeToken,
		r.Signature,
		r.ConfirmedAt.UTC().Format(time.RFC3339),
	}
}

// Records flattens closed orders into fill records.
func Records(orders []overview.ClosedOrder) []FillRecord {
	var out []FillRecord
	for _, o := range orders {
		for _, f := range o.Fills {
			out = append(out, FillRecord{
				Order:       o.Address,
				InputMint:   o.Input.Address,
				InputToken:  o.Input.Label(),
				OutputMint:  o.Output.Address,
				OutputToken: o.Output.Label(),
				InAmount:    f.In.Value,
				OutAmount:   f.Out.Value,
				Rate:        f.Rate,
				Fee:         f.Fee.Value,
				FeeToken:    f.Fee.Symbol,
				Signature:   f.Signature,
				ConfirmedAt: f.ConfirmedAt,
			})
		}
	}
	return out
}

// FillExporter writes order fills to disk.
type FillExporter struct {
	logger *zap.Logger
}

// NewFillExporter creates a new fill exporter
func NewFillExporter(logger *zap.Logger) *FillExporter {
	return &FillExporter{
		logger: logger.Named("export"),
	}
}

// ExportFills exports the fills of the given orders and returns the file path.
func (fe *FillExporter) ExportFills(orders []overview.ClosedOrder, options ExportOptions) (string, error) {
	filtered := fe.filterRecords(Records(orders), options)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no fills match the export criteria")
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ConfirmedAt.Before(filtered[j].ConfirmedAt)
	})

	outputPath := filepath.Join(options.OutputDir, fe.generateFilename(options))
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = fe.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = fe.exportToJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	fe.logger.Info("Fills exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

func (fe *FillExporter) filterRecords(records []FillRecord, options ExportOptions) []FillRecord {
	var filtered []FillRecord
	for _, r := range records {
		if !options.StartTime.IsZero() && r.ConfirmedAt.Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && r.ConfirmedAt.After(options.EndTime) {
			continue
		}
		if options.MintFilter != "" && r.InputMint != options.MintFilter && r.OutputMint != options.MintFilter {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func (fe *FillExporter) generateFilename(options ExportOptions) string {
	timestamp := time.Now().Format("20060102_150405")

	prefix := "fills_all"
	if options.MintFilter != "" {
		mint := options.MintFilter
		if len(mint) > 8 {
			mint = mint[:8]
		}
		prefix = "fills_" + mint
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

func (fe *FillExporter) exportToCSV(records []FillRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(r.ToCSV()); err != nil {
			return fmt.Errorf("failed to write fill: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (fe *FillExporter) exportToJSON(records []FillRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time     `json:"export_time"`
		FillCount  int           `json:"fill_count"`
		Fills      []FillRecord  `json:"fills"`
		Summary    ExportSummary `json:"summary"`
	}{
		ExportTime: time.Now(),
		FillCount:  len(records),
		Fills:      records,
		Summary:    calculateSummary(records),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// PairSummary aggregates the fills of one input/output pair.
type PairSummary struct {
	Pair      string          `json:"pair"`
	Fills     int             `json:"fills"`
	InAmount  decimal.Decimal `json:"in_amount"`
	OutAmount decimal.Decimal `json:"out_amount"`
	AvgRate   decimal.Decimal `json:"avg_rate"` // total out / total in
}

// ExportSummary contains summary statistics for exported fills
type ExportSummary struct {
	TotalFills int           `json:"total_fills"`
	Orders     int           `json:"orders"`
	Pairs      []PairSummary `json:"pairs"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
}

// calculateSummary expects records sorted by confirmation time.
func calculateSummary(records []FillRecord) ExportSummary {
	summary := ExportSummary{TotalFills: len(records)}
	if len(records) == 0 {
		return summary
	}

	summary.StartDate = records[0].ConfirmedAt
	summary.EndDate = records[len(records)-1].ConfirmedAt

	orders := make(map[string]bool)
	pairs := make(map[string]*PairSummary)
	var order []string
	for _, r := range records {
		orders[r.Order] = true

		key := r.InputToken + "/" + r.OutputToken
		p, ok := pairs[key]
		if !ok {
			p = &PairSummary{Pair: key}
			pairs[key] = p
			order = append(order, key)
		}
		p.Fills++
		p.InAmount = p.InAmount.Add(r.InAmount)
		p.OutAmount = p.OutAmount.Add(r.OutAmount)
	}
	summary.Orders = len(orders)

	for _, key := range order {
		p := pairs[key]
		if !p.InAmount.IsZero() {
			p.AvgRate = p.OutAmount.Div(p.InAmount)
		}
		summary.Pairs = append(summary.Pairs, *p)
	}
	return summary
}
