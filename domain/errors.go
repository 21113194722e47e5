package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure so callers can decide how to recover.
type ErrorCode string

const (
	// CodeInput marks malformed user input (amount, percentage, plan
	// number). Recoverable; the turn re-prompts.
	CodeInput ErrorCode = "INPUT"

	// CodePrecondition marks a missing prerequisite (no product, income or
	// target yet). Recoverable; the turn re-prompts and flags the pending
	// action.
	CodePrecondition ErrorCode = "PRECONDITION"

	// CodeUpstream marks a catalog/rate/enhancer failure. Recovered locally
	// with fallback data, never surfaced to the end user.
	CodeUpstream ErrorCode = "UPSTREAM"

	// CodeNotFound marks an unknown plan id on modify/remove. Surfaced as a
	// user-visible message, not fatal.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInvariant marks a computed value that should be impossible with
	// validated inputs. Logged as an internal error, never coerced.
	CodeInvariant ErrorCode = "INVARIANT"
)

// Error is the structured error carried between the engine, the plan
// lifecycle manager and the stores.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a fresh classified error.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a classification to an underlying error.
func WrapError(cause error, code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf extracts the classification of err, or "" when err is not a
// classified error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsInput reports whether err is a malformed-input failure.
func IsInput(err error) bool { return CodeOf(err) == CodeInput }
