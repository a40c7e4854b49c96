// =============================
// File: internal/units/units.go
// =============================
package units

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// DefaultReferenceDecimals is the precision of the reference stable currency (USDC).
const DefaultReferenceDecimals uint8 = 6

// Form field names reported in validation errors.
const (
	FieldInterval  = "interval"
	FieldDeposit   = "deposit"
	FieldIncrement = "increment"
)

var (
	intervalPattern = regexp.MustCompile(`^[1-9]\d*$|^$`)
	amountPattern   = regexp.MustCompile(`^\d*\.?\d+$`)

	maxUint64 = new(big.Int).SetUint64(^uint64(0))

	ErrMalformed = errors.New("malformed number")
	ErrOverflow  = errors.New("amount does not fit in 64 bits")
)

// Precision holds the decimal precision of the reference currency the
// value increment is expressed in.
type Precision struct {
	ReferenceDecimals uint8
}

// DefaultPrecision returns the USDC precision.
func DefaultPrecision() Precision {
	return Precision{ReferenceDecimals: DefaultReferenceDecimals}
}

// Converted is the output of ValidateAndConvert.
type Converted struct {
	IntervalUnits     uint64 // number of timeframe units between purchases
	DepositBase       uint64 // input token base units
	IncrementBase     uint64 // reference currency base units
	InputDecimals     uint8
	ReferenceDecimals uint8
}

// ValidateAndConvert parses the three raw form fields of an order. Every field
// is checked; the returned *ValidationError lists each one that failed.
func ValidateAndConvert(intervalText, depositText, incrementText string, inputDecimals uint8, p Precision) (Converted, error) {
	var verr ValidationError
	out := Converted{
		InputDecimals:     inputDecimals,
		ReferenceDecimals: p.ReferenceDecimals,
	}

	interval, err := ParseInterval(intervalText)
	if err != nil {
		verr.Add(FieldInterval, intervalText, err)
	}
	out.IntervalUnits = interval

	deposit, err := ToBaseUnits(depositText, inputDecimals)
	if err != nil {
		verr.Add(FieldDeposit, depositText, err)
	}
	out.DepositBase = deposit

	increment, err := ToBaseUnits(incrementText, p.ReferenceDecimals)
	if err != nil {
		verr.Add(FieldIncrement, incrementText, err)
	}
	out.IncrementBase = increment

	if verr.HasErrors() {
		return Converted{}, &verr
	}
	return out, nil
}

// ParseInterval accepts an empty string (meaning one whole timeframe unit)
// or a positive integer without sign or leading zero.
func ParseInterval(text string) (uint64, error) {
	if !intervalPattern.MatchString(text) {
		return 0, fmt.Errorf("%w: expected a positive whole number", ErrMalformed)
	}
	if text == "" {
		return 1, nil
	}
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, ErrOverflow
	}
	return v, nil
}

// ToBaseUnits converts a non-negative decimal string into integer base
// units of a token with the given precision. Digits past the precision are
// rounded half away from zero.
func ToBaseUnits(text string, decimals uint8) (uint64, error) {
	if !amountPattern.MatchString(text) {
		return 0, fmt.Errorf("%w: expected a non-negative decimal amount", ErrMalformed)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return DecimalToBaseUnits(d, decimals)
}

// DecimalToBaseUnits shifts d by decimals places and rounds to an integer.
func DecimalToBaseUnits(d decimal.Decimal, decimals uint8) (uint64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount", ErrMalformed)
	}
	n := d.Shift(int32(decimals)).Round(0).BigInt()
	if n.Cmp(maxUint64) > 0 {
		return 0, ErrOverflow
	}
	return n.Uint64(), nil
}

// FromBaseUnits returns the human amount of base units at the given precision.
func FromBaseUnits(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}

// FormatBaseUnits renders base units as a trimmed decimal string.
func FormatBaseUnits(amount uint64, decimals uint8) string {
	return FromBaseUnits(amount, decimals).String()
}
