package units

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// Timeframe is the unit the order interval field is entered in.
type Timeframe string

const (
	Minute Timeframe = "minute"
	Hour   Timeframe = "hour"
	Day    Timeframe = "day"
	Week   Timeframe = "week"
	Month  Timeframe = "month" // 30 days
)

// ErrIntervalTooLong is returned when the interval does not fit the signed
// 64-bit seconds field of the order account.
var ErrIntervalTooLong = errors.New("interval is too long")

var timeframeSeconds = map[Timeframe]uint64{
	Minute: 60,
	Hour:   60 * 60,
	Day:    24 * 60 * 60,
	Week:   7 * 24 * 60 * 60,
	Month:  30 * 24 * 60 * 60,
}

// Timeframes lists the supported units in ascending order.
func Timeframes() []Timeframe {
	return []Timeframe{Minute, Hour, Day, Week, Month}
}

// ParseTimeframe accepts singular or plural unit names, case-insensitive.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if _, ok := timeframeSeconds[tf]; !ok {
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
	return tf, nil
}

// Seconds returns n units of the timeframe in seconds, at most math.MaxInt64.
func (t Timeframe) Seconds(n uint64) (uint64, error) {
	unit, ok := timeframeSeconds[t]
	if !ok {
		return 0, fmt.Errorf("unknown timeframe %q", string(t))
	}
	hi, lo := bits.Mul64(unit, n)
	if hi != 0 || lo > math.MaxInt64 {
		return 0, ErrIntervalTooLong
	}
	return lo, nil
}
