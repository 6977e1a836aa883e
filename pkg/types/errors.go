package types

import (
	"errors"
	"fmt"
)

// Domain errors for record validation
var (
	// Address errors
	ErrEmptyStreet   = errors.New("street cannot be empty")
	ErrEmptyCity     = errors.New("city cannot be empty")
	ErrEmptyState    = errors.New("state cannot be empty")
	ErrEmptyZip      = errors.New("zip cannot be empty")
	ErrAddressNoRole = errors.New("address must be shipping, billing, or both")

	// Payment errors
	ErrEmptyNameOnCard = errors.New("name on card cannot be empty")
	ErrEmptyCardNum    = errors.New("card number cannot be empty")
	ErrEmptyExpiration = errors.New("expiration date cannot be empty")
	ErrBadExpiration   = errors.New("expiration date is not in MM/DD/YYYY form")
	ErrCardExpired     = errors.New("card is expired")

	// Product and cart errors
	ErrEmptyProductName    = errors.New("product name cannot be empty")
	ErrMissingCatalog      = errors.New("product must reference a catalog")
	ErrNegativeQuantity    = errors.New("quantity cannot be negative")
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	ErrNegativePrice       = errors.New("price cannot be negative")

	// Checkout errors
	ErrEmptyCart          = errors.New("cart has no items")
	ErrMissingShipAddress = errors.New("cart has no shipping address")
	ErrMissingBillAddress = errors.New("cart has no billing address")
	ErrMissingPayment     = errors.New("cart has no payment info")
)

// ErrNotAuthorized is returned when a non-admin session attempts a
// privileged operation such as catalog or product maintenance.
var ErrNotAuthorized = errors.New("not authorized")

// BackendError is the single business-level failure kind for data-access
// problems. The original driver error is preserved for diagnostics but never
// interpreted by callers.
type BackendError struct {
	Op  string // business operation that failed
	Err error  // underlying cause
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend failure: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// NewBackendError wraps a lower-layer failure for the given operation.
func NewBackendError(op string, err error) *BackendError {
	return &BackendError{Op: op, Err: err}
}

// RuleError reports a business-rule validation failure. These are expected,
// user-facing outcomes, distinct from backend failures.
type RuleError struct {
	Rule string // which rule set rejected the input
	Err  error  // the specific violation
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s rule violation: %v", e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// NewRuleError wraps a validation failure raised by the named rule set.
func NewRuleError(rule string, err error) *RuleError {
	return &RuleError{Rule: rule, Err: err}
}

// IsBackend reports whether err is (or wraps) a backend failure.
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// IsRuleViolation reports whether err is (or wraps) a rule failure.
func IsRuleViolation(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}
