// Package apperr defines the application's error types and the
// invariant-violation panic used by the core optimisation packages.
package apperr

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown         = "UNKNOWN_ERROR"
	CodeInvalidInstance = "INVALID_INSTANCE"
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeParse           = "PARSE_ERROR"
	CodeIO              = "IO_ERROR"
	CodeNoSolution      = "NO_SOLUTION"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Common error instances, matched by code via errors.Is.
var (
	ErrInvalidInstance = New(CodeInvalidInstance, "invalid instance")
	ErrInvalidConfig   = New(CodeInvalidConfig, "invalid config")
	ErrParse           = New(CodeParse, "parse error")
	ErrIO              = New(CodeIO, "io error")
	ErrNoSolution      = New(CodeNoSolution, "no solution found")
)

// GetErrorCode extracts the error code from an error, or CodeUnknown.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// Invariant panics with a formatted message. It marks a programming-error
// precondition violation inside the guillotine tree / cache (spec §7):
// these are never recoverable at runtime and are not modelled as errors.
func Invariant(format string, args ...any) {
	panic(fmt.Sprintf("invariant violated: "+format, args...))
}
