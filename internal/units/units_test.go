package units

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndConvert(t *testing.T) {
	got, err := ValidateAndConvert("", "1.5", "0.01", 9, DefaultPrecision())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), got.IntervalUnits)
	assert.Equal(t, uint64(1_500_000_000), got.DepositBase)
	assert.Equal(t, uint64(10_000), got.IncrementBase)
	assert.Equal(t, uint8(9), got.InputDecimals)
	assert.Equal(t, uint8(6), got.ReferenceDecimals)
}

func TestValidateAndConvert_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		interval  string
		deposit   string
		increment string
		decimals  uint8
		want      []string
	}{
		{"negative interval", "-1", "1", "1", 9, []string{FieldInterval}},
		{"letters in deposit", "7", "abc", "1", 6, []string{FieldDeposit}},
		{"leading zero interval", "01", "1", "1", 6, []string{FieldInterval}},
		{"trailing dot", "1", "1.", "1", 6, []string{FieldDeposit}},
		{"empty increment", "1", "1", "", 6, []string{FieldIncrement}},
		{"all broken", "0", "-2", "x", 6, []string{FieldInterval, FieldDeposit, FieldIncrement}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAndConvert(tt.interval, tt.deposit, tt.increment, tt.decimals, DefaultPrecision())
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.FieldNames())
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestParseInterval(t *testing.T) {
	v, err := ParseInterval("")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	v, err = ParseInterval("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = ParseInterval("99999999999999999999999")
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = ParseInterval("1.5")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		text     string
		decimals uint8
		want     uint64
	}{
		{"0", 6, 0},
		{".5", 6, 500_000},
		{"0.1", 9, 100_000_000},
		{"123.456789", 6, 123_456_789},
		{"0.0000015", 6, 2}, // rounds half away from zero
		{"0.0000014", 6, 1},
		{"1.000000000000000000000001", 9, 1_000_000_000},
		{"18446744073709551615", 0, 18446744073709551615},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ToBaseUnits(tt.text, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToBaseUnits_Overflow(t *testing.T) {
	_, err := ToBaseUnits("18446744073709551616", 0)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = ToBaseUnits("20000000000", 9)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestDecimalToBaseUnits_Negative(t *testing.T) {
	_, err := DecimalToBaseUnits(decimal.NewFromInt(-1), 6)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFromBaseUnits(t *testing.T) {
	assert.Equal(t, "1.5", FormatBaseUnits(1_500_000_000, 9))
	assert.Equal(t, "0.01", FormatBaseUnits(10_000, 6))
	assert.Equal(t, "42", FormatBaseUnits(42, 0))
	assert.True(t, FromBaseUnits(0, 6).IsZero())
}

func TestTimeframe(t *testing.T) {
	tf, err := ParseTimeframe("Days")
	require.NoError(t, err)
	assert.Equal(t, Day, tf)

	secs, err := tf.Seconds(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(172_800), secs)

	secs, err = Month.Seconds(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_592_000), secs)

	_, err = ParseTimeframe("fortnight")
	assert.Error(t, err)

	_, err = Week.Seconds(^uint64(0))
	assert.ErrorIs(t, err, ErrIntervalTooLong)

	// умещается в uint64, но не в i64 аккаунта
	_, err = Minute.Seconds(300_000_000_000_000_000)
	assert.ErrorIs(t, err, ErrIntervalTooLong)

	secs, err = Minute.Seconds(math.MaxInt64 / 60)
	require.NoError(t, err)
	assert.LessOrEqual(t, secs, uint64(math.MaxInt64))
}
