package causal

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes graph errors.
type ErrorCode string

const (
	// ErrCodeDuplicateNode indicates a node id was registered twice.
	ErrCodeDuplicateNode ErrorCode = "DUPLICATE_NODE"

	// ErrCodeUnknownNode indicates an edge or operation referenced an
	// unregistered node id.
	ErrCodeUnknownNode ErrorCode = "UNKNOWN_NODE"

	// ErrCodeSelfLoop indicates an edge with identical endpoints.
	// Multi-node cycles are legal; direct self-loops are not.
	ErrCodeSelfLoop ErrorCode = "SELF_LOOP"

	// ErrCodeExistencePrevented indicates a spawn attempt for a node that an
	// Exclusive edge currently prevents.
	ErrCodeExistencePrevented ErrorCode = "EXISTENCE_PREVENTED"

	// ErrCodeUnsupportedOperator indicates a snapshot carried an operator
	// unknown to the running build.
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"
)

// GraphError is a structured error for graph operations.
//
// The zero Detail map is left nil; callers that need extra context populate
// it at construction time.
type GraphError struct {
	Code    ErrorCode
	Message string
	NodeID  NodeID
	Detail  map[string]string
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.NodeID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDuplicateNodeError creates a GraphError for a duplicate registration.
func NewDuplicateNodeError(id NodeID) *GraphError {
	return &GraphError{
		Code:    ErrCodeDuplicateNode,
		Message: "node id already registered",
		NodeID:  id,
	}
}

// NewUnknownNodeError creates a GraphError for a missing endpoint.
func NewUnknownNodeError(id NodeID) *GraphError {
	return &GraphError{
		Code:    ErrCodeUnknownNode,
		Message: "node id not registered",
		NodeID:  id,
	}
}

// NewSelfLoopError creates a GraphError for a rejected self-loop.
func NewSelfLoopError(id NodeID) *GraphError {
	return &GraphError{
		Code:    ErrCodeSelfLoop,
		Message: "direct self-loop rejected",
		NodeID:  id,
	}
}

// NewExistencePreventedError creates a GraphError for a prevented spawn.
func NewExistencePreventedError(id NodeID, by NodeID) *GraphError {
	return &GraphError{
		Code:    ErrCodeExistencePrevented,
		Message: "existence prevented by exclusive link",
		NodeID:  id,
		Detail:  map[string]string{"prevented_by": string(by)},
	}
}

// NewUnsupportedOperatorError creates a GraphError for an unknown operator
// name encountered while decoding a snapshot.
func NewUnsupportedOperatorError(name string) *GraphError {
	return &GraphError{
		Code:    ErrCodeUnsupportedOperator,
		Message: fmt.Sprintf("operator %q unknown to this build", name),
	}
}

// IsDuplicateNode reports whether err is a duplicate-registration error.
// Uses errors.As to handle wrapped errors.
func IsDuplicateNode(err error) bool { return hasCode(err, ErrCodeDuplicateNode) }

// IsUnknownNode reports whether err is an unknown-endpoint error.
func IsUnknownNode(err error) bool { return hasCode(err, ErrCodeUnknownNode) }

// IsSelfLoop reports whether err is a rejected self-loop.
func IsSelfLoop(err error) bool { return hasCode(err, ErrCodeSelfLoop) }

// IsExistencePrevented reports whether err is a prevented-spawn error.
func IsExistencePrevented(err error) bool { return hasCode(err, ErrCodeExistencePrevented) }

// IsUnsupportedOperator reports whether err is an unknown-operator error.
func IsUnsupportedOperator(err error) bool { return hasCode(err, ErrCodeUnsupportedOperator) }

func hasCode(err error, code ErrorCode) bool {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}
