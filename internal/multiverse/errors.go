package multiverse

import (
	"errors"
	"fmt"

	"github.com/roach88/causality/internal/universe"
)

// ErrorCode classifies coordinator failures.
type ErrorCode string

const (
	// CodeSameUniverse rejects switching to the already-active universe.
	CodeSameUniverse ErrorCode = "SAME_UNIVERSE"

	// CodeOnCooldown rejects a switch before the cooldown has elapsed.
	CodeOnCooldown ErrorCode = "ON_COOLDOWN"

	// CodeUnknownUniverse rejects a universe kind outside the fixed three.
	CodeUnknownUniverse ErrorCode = "UNKNOWN_UNIVERSE"

	// CodeUnsupportedVersion rejects a snapshot from a different layout
	// version.
	CodeUnsupportedVersion ErrorCode = "UNSUPPORTED_VERSION"
)

// CoordinatorError is the structured error type for coordinator operations.
type CoordinatorError struct {
	Code      ErrorCode
	Message   string
	Universe  universe.Kind
	Remaining float64
}

func (e *CoordinatorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewSameUniverseError reports a switch onto the active universe.
func NewSameUniverseError(k universe.Kind) *CoordinatorError {
	return &CoordinatorError{
		Code:     CodeSameUniverse,
		Message:  fmt.Sprintf("already in %s", k),
		Universe: k,
	}
}

// NewOnCooldownError reports a switch attempted with remaining seconds of
// cooldown left.
func NewOnCooldownError(k universe.Kind, remaining float64) *CoordinatorError {
	return &CoordinatorError{
		Code:      CodeOnCooldown,
		Message:   fmt.Sprintf("switch to %s on cooldown for %.2fs", k, remaining),
		Universe:  k,
		Remaining: remaining,
	}
}

// NewUnknownUniverseError reports a kind outside the fixed three.
func NewUnknownUniverseError(k universe.Kind) *CoordinatorError {
	return &CoordinatorError{
		Code:     CodeUnknownUniverse,
		Message:  fmt.Sprintf("no universe %q", string(k)),
		Universe: k,
	}
}

// NewUnsupportedVersionError reports a snapshot version mismatch.
func NewUnsupportedVersionError(got int) *CoordinatorError {
	return &CoordinatorError{
		Code:    CodeUnsupportedVersion,
		Message: fmt.Sprintf("snapshot version %d, this build reads %d", got, SnapshotVersion),
	}
}

func hasCode(err error, code ErrorCode) bool {
	var ce *CoordinatorError
	return errors.As(err, &ce) && ce.Code == code
}

// IsSameUniverse reports whether err is a SAME_UNIVERSE error.
func IsSameUniverse(err error) bool { return hasCode(err, CodeSameUniverse) }

// IsOnCooldown reports whether err is an ON_COOLDOWN error.
func IsOnCooldown(err error) bool { return hasCode(err, CodeOnCooldown) }

// IsUnknownUniverse reports whether err is an UNKNOWN_UNIVERSE error.
func IsUnknownUniverse(err error) bool { return hasCode(err, CodeUnknownUniverse) }

// IsUnsupportedVersion reports whether err is an UNSUPPORTED_VERSION error.
func IsUnsupportedVersion(err error) bool { return hasCode(err, CodeUnsupportedVersion) }
