package tubechat

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EPARSE        = "parse"
	EUNAUTHORIZED = "unauthorized"
	ERATELIMIT    = "rate_limit"
	EUNAVAILABLE  = "unavailable"
)

// Error represents an application-specific error. Errors carry a machine
// readable code and a human readable message. The underlying cause, when
// one exists, is reachable through errors.Unwrap.
type Error struct {
	Code    string
	Message string

	err error
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("tubechat error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the error wrapped with %w in Errorf, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message. A %w verb in format keeps the wrapped error reachable.
func Errorf(code string, format string, args ...any) *Error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{
		Code:    code,
		Message: wrapped.Error(),
		err:     errors.Unwrap(wrapped),
	}
}
