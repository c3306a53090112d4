package runtime

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks against Error.Kind.
var (
	ErrOutOfBudget  = errors.New("runtime: out of budget")
	ErrInvalidState = errors.New("runtime: invalid state")
)

// ErrorKind identifies which §7 error category an Error belongs to.
type ErrorKind string

// Error kinds relevant to the runtime handle and allocator.
const (
	KindOutOfBudget  ErrorKind = "out_of_budget"
	KindInvalidState ErrorKind = "invalid_state"
)

// Error carries allocator/runtime failures, in the style of
// internal/graph.Error and the teacher's internal/serialization.ValidationError.
type Error struct {
	Kind    ErrorKind
	Details string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Details)
}

// Unwrap links Error back to its sentinel for errors.Is(err, ErrXxx) checks.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindOutOfBudget:
		return ErrOutOfBudget
	case KindInvalidState:
		return ErrInvalidState
	default:
		return nil
	}
}
