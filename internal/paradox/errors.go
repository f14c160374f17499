package paradox

import (
	"errors"
	"fmt"
)

// ErrorCode classifies manager failures for programmatic handling.
type ErrorCode string

const (
	// CodeInvalidAmount rejects non-positive amounts on mutating calls.
	CodeInvalidAmount ErrorCode = "INVALID_AMOUNT"

	// CodeInsufficientParadox rejects a Consume larger than the scalar.
	CodeInsufficientParadox ErrorCode = "INSUFFICIENT_PARADOX"
)

// ManagerError is the structured error type for paradox operations.
type ManagerError struct {
	Code    ErrorCode
	Message string
	Amount  float64
}

func (e *ManagerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidAmountError reports a non-positive amount.
func NewInvalidAmountError(amount float64) *ManagerError {
	return &ManagerError{
		Code:    CodeInvalidAmount,
		Message: fmt.Sprintf("amount must be positive, got %g", amount),
		Amount:  amount,
	}
}

// NewInsufficientParadoxError reports a Consume exceeding the scalar.
func NewInsufficientParadoxError(requested, available float64) *ManagerError {
	return &ManagerError{
		Code:    CodeInsufficientParadox,
		Message: fmt.Sprintf("cannot consume %g, only %g accumulated", requested, available),
		Amount:  requested,
	}
}

func hasCode(err error, code ErrorCode) bool {
	var me *ManagerError
	return errors.As(err, &me) && me.Code == code
}

// IsInvalidAmount reports whether err is an INVALID_AMOUNT error.
func IsInvalidAmount(err error) bool { return hasCode(err, CodeInvalidAmount) }

// IsInsufficientParadox reports whether err is an INSUFFICIENT_PARADOX error.
func IsInsufficientParadox(err error) bool { return hasCode(err, CodeInsufficientParadox) }
