package universe

import (
	"errors"
	"fmt"
)

// ErrorCode classifies container failures.
type ErrorCode string

const (
	// CodeDuplicateEntity rejects spawning an entity id twice in one
	// universe.
	CodeDuplicateEntity ErrorCode = "DUPLICATE_ENTITY"

	// CodeUnknownEntity reports a lookup or removal of an absent entity.
	CodeUnknownEntity ErrorCode = "UNKNOWN_ENTITY"

	// CodeLevelDesign reports geometry that cannot host the player: the
	// relocation search exhausted its radius without an open cell. Fatal
	// at load-time validation, never tolerated at runtime.
	CodeLevelDesign ErrorCode = "LEVEL_DESIGN"

	// CodeOutOfBounds rejects a position outside the grid.
	CodeOutOfBounds ErrorCode = "OUT_OF_BOUNDS"
)

// ContainerError is the structured error type for universe operations.
type ContainerError struct {
	Code     ErrorCode
	Message  string
	Universe Kind
	EntityID string
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDuplicateEntityError reports a second spawn of id in universe k.
func NewDuplicateEntityError(k Kind, id string) *ContainerError {
	return &ContainerError{
		Code:     CodeDuplicateEntity,
		Message:  fmt.Sprintf("entity %q already present in %s", id, k),
		Universe: k,
		EntityID: id,
	}
}

// NewUnknownEntityError reports an absent entity id.
func NewUnknownEntityError(k Kind, id string) *ContainerError {
	return &ContainerError{
		Code:     CodeUnknownEntity,
		Message:  fmt.Sprintf("no entity %q in %s", id, k),
		Universe: k,
		EntityID: id,
	}
}

// NewLevelDesignError reports unhostable geometry around pos.
func NewLevelDesignError(k Kind, pos Pos) *ContainerError {
	return &ContainerError{
		Code:     CodeLevelDesign,
		Message:  fmt.Sprintf("no open cell within radius %d of %v in %s", MaxRelocationRadius, pos, k),
		Universe: k,
	}
}

// NewOutOfBoundsError reports a position outside the grid.
func NewOutOfBoundsError(k Kind, pos Pos) *ContainerError {
	return &ContainerError{
		Code:     CodeOutOfBounds,
		Message:  fmt.Sprintf("position %v outside %s geometry", pos, k),
		Universe: k,
	}
}

func hasCode(err error, code ErrorCode) bool {
	var ce *ContainerError
	return errors.As(err, &ce) && ce.Code == code
}

// IsDuplicateEntity reports whether err is a DUPLICATE_ENTITY error.
func IsDuplicateEntity(err error) bool { return hasCode(err, CodeDuplicateEntity) }

// IsUnknownEntity reports whether err is an UNKNOWN_ENTITY error.
func IsUnknownEntity(err error) bool { return hasCode(err, CodeUnknownEntity) }

// IsLevelDesign reports whether err is a LEVEL_DESIGN error.
func IsLevelDesign(err error) bool { return hasCode(err, CodeLevelDesign) }

// IsOutOfBounds reports whether err is an OUT_OF_BOUNDS error.
func IsOutOfBounds(err error) bool { return hasCode(err, CodeOutOfBounds) }
