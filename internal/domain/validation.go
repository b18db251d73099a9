package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Bounds shared by every 1-10 scale: RPE, block intensity and the four
// assessment scales.
const (
	ScaleMin = 1
	ScaleMax = 10
)

// ValidationError reports a single field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err (or anything it wraps) is a ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// ValidateScale rejects values outside [ScaleMin, ScaleMax]. Out of range
// values are never clamped.
func ValidateScale(field string, v int) error {
	if v < ScaleMin || v > ScaleMax {
		return invalid(field, "%d is outside [%d,%d]", v, ScaleMin, ScaleMax)
	}
	return nil
}

func validateNonNegative(field string, v float64) error {
	if v < 0 {
		return invalid(field, "must not be negative")
	}
	return nil
}

// intField pairs an optional patch value with the field name reported when
// it is rejected.
type intField struct {
	name string
	v    *int
}

// nonNegative reports the first negative value in fields order.
func nonNegative(fields []intField) error {
	for _, f := range fields {
		if f.v != nil && *f.v < 0 {
			return invalid(f.name, "must not be negative")
		}
	}
	return nil
}

// ValidateTempo accepts an empty tempo or four dash separated non-negative
// integers, e.g. "3-1-1-1".
func ValidateTempo(tempo string) error {
	if tempo == "" {
		return nil
	}
	parts := strings.Split(tempo, "-")
	if len(parts) != 4 {
		return invalid("tempo", "%q must have 4 phases", tempo)
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return invalid("tempo", "%q has a non-numeric phase", tempo)
		}
	}
	return nil
}
