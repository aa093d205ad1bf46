package booking

import (
	"errors"
	"fmt"
)

// Code classifies a booking error for callers. Every error surfaced by
// the lifecycle service carries one of these codes.
type Code string

const (
	CodeValidation          Code = "validation"
	CodeInvalidTimeFormat   Code = "invalid_time_format"
	CodePastDateTime        Code = "past_datetime"
	CodeNotFound            Code = "not_found"
	CodeForbidden           Code = "forbidden"
	CodeSlotUnavailable     Code = "slot_unavailable"
	CodeInvalidTransition   Code = "invalid_transition"
	CodeMechanicUnavailable Code = "mechanic_unavailable"
	CodeDependency          Code = "dependency"
)

// Error is the structured error type of the booking engine.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a coded booking error.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the booking error code from err, or CodeDependency for
// anything that is not a coded booking error (persistence faults and the
// like surface as generic retryable failures).
func CodeOf(err error) Code {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeDependency
}
