// Package apperror defines the error taxonomy shared by usecases and transports.
package apperror

import (
	"errors"
	"fmt"
)

// Code represents the category of a failed operation.
type Code int

const (
	CodeUnknown Code = iota
	CodeInvalidArgument
	CodeNotFound
	CodeInvariantViolation
	CodeUnavailable
	CodeConflict
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeNotFound:
		return "NOT_FOUND"
	case CodeInvariantViolation:
		return "INVARIANT_VIOLATION"
	case CodeUnavailable:
		return "UNAVAILABLE"
	case CodeConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// Error is returned when an operation is rejected or cannot complete.
// Message is safe to show to callers; the wrapped cause is for logs only.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on Code so errors.Is(err, apperror.ErrNotFound) works for any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidArgument    = &Error{Code: CodeInvalidArgument}
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrInvariantViolation = &Error{Code: CodeInvariantViolation}
	ErrUnavailable        = &Error{Code: CodeUnavailable}
	ErrConflict           = &Error{Code: CodeConflict}
)

func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

func InvalidArgumentf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvariantViolation(message string) *Error {
	return &Error{Code: CodeInvariantViolation, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a storage level failure behind a generic message.
func Unavailable(cause error) *Error {
	return &Error{Code: CodeUnavailable, Message: "storage unavailable", cause: cause}
}

// Wrap attaches a cause to a new Error with the given code and message.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf returns the Code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsUnexpected reports errors worth logging at error level: storage failures and
// anything outside the taxonomy. Rejections the caller caused are not.
func IsUnexpected(err error) bool {
	switch CodeOf(err) {
	case CodeUnavailable, CodeUnknown:
		return err != nil
	}
	return false
}
