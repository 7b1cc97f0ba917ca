/*
errors.go - Centralized error types for the fund engine

PURPOSE:
  All fatal error kinds in one place. There are deliberately few of them:
  malformed per-event dates are NOT errors - an undated event is silently
  excluded from the ledger, because partial planning data is expected
  during interactive editing. Only caller-side data-integrity bugs
  (negative fund parameters, non-positive recurrence intervals) fail.

PROPAGATION POLICY:
  Both fatal kinds are returned as typed errors at the point of detection
  and never converted into a zero/empty result internally. The caller
  decides whether to show a validation message or abort.

SEE ALSO:
  - ledger.go: Returns InvalidFundParametersError
  - maintenance package: Returns InvalidTemplateError from expansion
*/
package fund

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidFundParameters is returned when initial cash or the monthly
	// contribution is negative. Missing fields default to zero upstream, so
	// a negative value indicates a caller-side bug, not user input.
	ErrInvalidFundParameters = errors.New("invalid fund parameters")

	// ErrInvalidTemplate is returned when a recurrence template carries a
	// non-positive interval. Never silently coerced.
	ErrInvalidTemplate = errors.New("invalid recurrence template")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidFundParametersError reports which fund parameter was negative.
type InvalidFundParametersError struct {
	Field string // "initial_cash" or "monthly_contribution"
	Value Money
}

func (e *InvalidFundParametersError) Error() string {
	return fmt.Sprintf("invalid fund parameters: %s is negative (%s)", e.Field, e.Value)
}

func (e *InvalidFundParametersError) Unwrap() error {
	return ErrInvalidFundParameters
}

// InvalidTemplateError reports a recurrence template with a non-positive
// interval. Fatal to that single expansion call.
type InvalidTemplateError struct {
	Name          string
	IntervalYears int
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid recurrence template %q: interval must be positive, got %d",
		e.Name, e.IntervalYears)
}

func (e *InvalidTemplateError) Unwrap() error {
	return ErrInvalidTemplate
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidFundParameters) ||
		errors.Is(err, ErrInvalidTemplate)
}

// ValidateFundParameters rejects negative monetary parameters before any
// ledger computation occurs.
func ValidateFundParameters(initialCash, monthlyContribution Money) error {
	if initialCash.IsNegative() {
		return &InvalidFundParametersError{Field: "initial_cash", Value: initialCash}
	}
	if monthlyContribution.IsNegative() {
		return &InvalidFundParametersError{Field: "monthly_contribution", Value: monthlyContribution}
	}
	return nil
}
