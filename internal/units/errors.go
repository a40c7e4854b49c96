package units

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected form field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

// Add records a failed field.
func (e *ValidationError) Add(field, value string, err error) {
	e.Fields = append(e.Fields, FieldError{Field: field, Value: value, Err: err})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Has reports whether the named field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// FieldNames returns the failed field names in check order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Unwrap exposes the per-field causes to errors.Is.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		errs = append(errs, f)
	}
	return errs
}
