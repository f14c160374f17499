package testutil

import (
	"fmt"

	"github.com/google/uuid"
)

// FixedTokenSource returns an attempt-token generator that always yields
// the same UUID, so golden traces and event assertions are stable across
// runs.
//
// seq selects which fixed token; sources with different seq values yield
// distinct tokens.
func FixedTokenSource(seq int) func() (uuid.UUID, error) {
	token := uuid.MustParse(fmt.Sprintf("00000000-0000-7000-8000-%012x", seq))
	return func() (uuid.UUID, error) {
		return token, nil
	}
}

// SequentialTokenSource yields a distinct deterministic token per call.
// Used where a reset must visibly rotate the attempt token.
func SequentialTokenSource() func() (uuid.UUID, error) {
	var n int
	return func() (uuid.UUID, error) {
		n++
		return uuid.MustParse(fmt.Sprintf("00000000-0000-7000-8000-%012x", n)), nil
	}
}
