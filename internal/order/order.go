// =============================
// File: internal/order/order.go
// =============================
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"

	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

// DefaultTimeframe is used when the form leaves the timeframe unset.
const DefaultTimeframe = units.Day

var (
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrTokenNotSelected   = errors.New("token not selected")
	ErrSameMint           = errors.New("input and output token must differ")
)

var validate = validator.New()

// Side names one leg of the order.
type Side string

const (
	SideInput  Side = "input"
	SideOutput Side = "output"
)

// TokenNotSelectedError reports which side of the form is empty.
type TokenNotSelectedError struct {
	Side Side
}

func (e *TokenNotSelectedError) Error() string {
	return fmt.Sprintf("%s %v", e.Side, ErrTokenNotSelected)
}

func (e *TokenNotSelectedError) Unwrap() error {
	return ErrTokenNotSelected
}

// Params is everything the form has collected.
type Params struct {
	User      solana.PublicKey // zero when no wallet is connected
	Input     *tokens.Token
	Output    *tokens.Token
	Values    units.Converted
	Timeframe units.Timeframe
	StartAt   *time.Time
}

// Request is a validated open order request.
type Request struct {
	User           solana.PublicKey
	InputMint      solana.PublicKey
	OutputMint     solana.PublicKey
	Interval       uint64 `validate:"gt=0,lte=9223372036854775807"` // seconds, stored on-chain as i64
	Deposit        uint64 // input base units
	IncrementValue uint64 `validate:"gt=0"` // reference currency base units
	StartAt        *int64 // unix seconds; nil starts immediately
}

// Key identifies identical requests.
func (r Request) Key() string {
	start := int64(0)
	if r.StartAt != nil {
		start = *r.StartAt
	}
	return fmt.Sprintf("%s:%s:%s:%d:%d:%d:%d",
		r.User, r.InputMint, r.OutputMint, r.Interval, r.Deposit, r.IncrementValue, start)
}

// Build turns form parameters into a Request. It never touches the network.
func Build(p Params) (Request, error) {
	if p.User.IsZero() {
		return Request{}, ErrWalletNotConnected
	}
	if p.Input == nil {
		return Request{}, &TokenNotSelectedError{Side: SideInput}
	}
	if p.Output == nil {
		return Request{}, &TokenNotSelectedError{Side: SideOutput}
	}

	inputMint, err := solana.PublicKeyFromBase58(p.Input.Address)
	if err != nil {
		return Request{}, fmt.Errorf("invalid input mint %q: %w", p.Input.Address, err)
	}
	outputMint, err := solana.PublicKeyFromBase58(p.Output.Address)
	if err != nil {
		return Request{}, fmt.Errorf("invalid output mint %q: %w", p.Output.Address, err)
	}
	if inputMint.Equals(outputMint) {
		return Request{}, ErrSameMint
	}

	tf := p.Timeframe
	if tf == "" {
		tf = DefaultTimeframe
	}

	var verr units.ValidationError
	interval, err := tf.Seconds(p.Values.IntervalUnits)
	if err != nil {
		verr.Add(units.FieldInterval, fmt.Sprint(p.Values.IntervalUnits), err)
	}

	req := Request{
		User:           p.User,
		InputMint:      inputMint,
		OutputMint:     outputMint,
		Interval:       interval,
		Deposit:        p.Values.DepositBase,
		IncrementValue: p.Values.IncrementBase,
	}
	if p.StartAt != nil {
		ts := p.StartAt.Unix()
		req.StartAt = &ts
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Request{}, fmt.Errorf("validate request: %w", err)
		}
		for _, fe := range fieldErrs {
			field := fieldName(fe.StructField())
			if field == units.FieldInterval && verr.Has(field) {
				continue
			}
			verr.Add(field, fmt.Sprint(fe.Value()), fmt.Errorf("must be %s %s", fe.Tag(), fe.Param()))
		}
	}
	if verr.HasErrors() {
		return Request{}, &verr
	}
	return req, nil
}

func fieldName(structField string) string {
	switch structField {
	case "Interval":
		return units.FieldInterval
	case "IncrementValue":
		return units.FieldIncrement
	case "Deposit":
		return units.FieldDeposit
	}
	return structField
}
