package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a machine error for callers that map failures to a
// transport status.
type Kind int

const (
	// KindUnexpected covers anything the domain rules do not anticipate,
	// storage failures included.
	KindUnexpected Kind = iota
	// KindInvalidInput is a missing or non-positive amount or an unknown drink.
	KindInvalidInput
	// KindCapacityViolation is a fill that would overflow a container.
	KindCapacityViolation
	// KindInsufficientResource is an empty container or one below the
	// recipe requirement.
	KindInsufficientResource
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindCapacityViolation:
		return "capacity_violation"
	case KindInsufficientResource:
		return "insufficient_resource"
	default:
		return "unexpected"
	}
}

// Reasons behind a machine error. Match them with errors.Is.
var (
	ErrUnknownDrink       = errors.New("unknown drink")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrOverflow           = errors.New("container overflow")
	ErrEmptyContainer     = errors.New("empty container")
	ErrInsufficientWater  = errors.New("insufficient water")
	ErrInsufficientCoffee = errors.New("insufficient coffee")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrUnexpected         = errors.New("unexpected error")
)

// Error is a classified failure whose message is meant to be shown to the
// person operating the machine as is.
type Error struct {
	// Kind is the error class.
	Kind Kind

	// Reason is one of the Err* sentinels above.
	Reason error

	// Message is the human readable description.
	Message string

	// Err is the underlying cause, set only for unexpected errors.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes both the reason and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// StatusCode returns the HTTP-equivalent status for the error. Bad input is
// unprocessable; every other failure is a plain bad request.
func (e *Error) StatusCode() int {
	if e.Kind == KindInvalidInput {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func newError(kind Kind, reason error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// Unexpected wraps err into a KindUnexpected error naming the operation, e.g.
// "brewing" or "filling water". A machine *Error passes through untouched.
func Unexpected(operation string, err error) *Error {
	var merr *Error
	if errors.As(err, &merr) {
		return merr
	}
	return &Error{
		Kind:    KindUnexpected,
		Reason:  ErrUnexpected,
		Message: fmt.Sprintf("Unexpected error while %s: %v", operation, err),
		Err:     err,
	}
}

// KindOf reports the kind of err, or KindUnexpected when err is not a
// machine error.
func KindOf(err error) Kind {
	var merr *Error
	if errors.As(err, &merr) {
		return merr.Kind
	}
	return KindUnexpected
}
