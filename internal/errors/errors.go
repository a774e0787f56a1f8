package errors

import (
	stderrors "errors"
	"fmt"
)

// Error represents a PostgreSQL-compatible error with SQLSTATE code
type Error struct {
	Code    string // SQLSTATE code
	Message string // Primary error message
	Detail  string // Optional detailed error message
	Hint    string // Optional hint message
	Where   string // Context where error occurred
	Routine string // Source code routine name
	cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Routine != "" {
		msg = e.Routine + ": " + msg
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s (SQLSTATE %s) DETAIL: %s", msg, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s (SQLSTATE %s)", msg, e.Code)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a new Error with the given code and message
func New(code string, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message
func Newf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error that records err as its cause.
func Wrap(err error, code string, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
		cause:   err,
	}
}

// WithDetail adds detail to the error
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithDetailf adds formatted detail to the error
func (e *Error) WithDetailf(format string, args ...interface{}) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHint adds a hint to the error
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithWhere sets the context where the error occurred
func (e *Error) WithWhere(where string) *Error {
	e.Where = where
	return e
}

// WithRoutine sets the routine that raised the error
func (e *Error) WithRoutine(routine string) *Error {
	e.Routine = routine
	return e
}

// InternalErrorf creates an internal error
func InternalErrorf(format string, args ...interface{}) *Error {
	return Newf(InternalError, format, args...)
}

// FeatureNotSupportedError creates a feature not supported error
func FeatureNotSupportedError(feature string) *Error {
	return Newf(FeatureNotSupported, "%s is not supported", feature)
}

// IsError checks if an error is a planner Error with a specific code
func IsError(err error, code string) bool {
	if err == nil {
		return false
	}
	var qErr *Error
	return stderrors.As(err, &qErr) && qErr.Code == code
}

// GetError attempts to extract a planner Error from any error
func GetError(err error) *Error {
	if err == nil {
		return nil
	}
	var qErr *Error
	if stderrors.As(err, &qErr) {
		return qErr
	}
	// Wrap generic errors as internal errors
	return Wrap(err, InternalError, "internal error")
}
