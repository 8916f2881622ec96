/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All engine error types in one place. The inner calculation loops are total
  functions; validation happens in the exported façades before any arithmetic
  runs, and violations surface as these errors.

ERROR CATEGORIES:
  1. Parameter errors - Economically meaningless inputs, rejected up front
  2. Standard errors - Selector names neither ASC842 nor IFRS16

USAGE:
  Callers can branch with errors.Is():

    if errors.Is(err, engine.ErrInvalidLeaseParameters) {
        // 400, not 500
    }

SEE ALSO:
  - schedule.go: Raises parameter errors before generating
  - journal.go: Raises ErrUnsupportedStandard for unknown selectors
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidLeaseParameters is returned when lease economics fail
	// precondition checks (non-positive principal, zero term, negative rate).
	ErrInvalidLeaseParameters = errors.New("invalid lease parameters")

	// ErrUnsupportedStandard is returned when a standard selector is neither
	// ASC842 nor IFRS16.
	ErrUnsupportedStandard = errors.New("unsupported accounting standard")

	// ErrScheduleRequired is returned when per-period journal synthesis is
	// requested without a schedule to draw periods from.
	ErrScheduleRequired = errors.New("per-period journal synthesis requires a schedule")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidLeaseParametersError identifies which field failed validation.
type InvalidLeaseParametersError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidLeaseParametersError) Error() string {
	return fmt.Sprintf("invalid lease parameters: %s=%s (%s)", e.Field, e.Value, e.Reason)
}

func (e *InvalidLeaseParametersError) Unwrap() error {
	return ErrInvalidLeaseParameters
}

// UnsupportedStandardError reports the rejected selector.
type UnsupportedStandardError struct {
	Standard Standard
}

func (e *UnsupportedStandardError) Error() string {
	return fmt.Sprintf("unsupported accounting standard: %q", string(e.Standard))
}

func (e *UnsupportedStandardError) Unwrap() error {
	return ErrUnsupportedStandard
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidLeaseParameters) ||
		errors.Is(err, ErrUnsupportedStandard) ||
		errors.Is(err, ErrScheduleRequired)
}

// validate checks the preconditions shared by both schedule generators.
func (e LeaseEconomics) validate() error {
	if !e.Principal.IsPositive() {
		return &InvalidLeaseParametersError{Field: "principal", Value: e.Principal.String(), Reason: "must be positive"}
	}
	if e.TermPeriods < 1 {
		return &InvalidLeaseParametersError{Field: "term_periods", Value: fmt.Sprintf("%d", e.TermPeriods), Reason: "must be at least 1"}
	}
	if e.DiscountRate.IsNegative() {
		return &InvalidLeaseParametersError{Field: "discount_rate", Value: e.DiscountRate.String(), Reason: "must not be negative"}
	}
	if !e.PeriodicPayment.IsPositive() {
		return &InvalidLeaseParametersError{Field: "periodic_payment", Value: e.PeriodicPayment.String(), Reason: "must be positive"}
	}
	return nil
}
