// Package errors provides structured error types for floatpos.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: contract violations detected before any platform call
//   - PLATFORM_QUERY: a platform method failed while measuring
//   - MIDDLEWARE_FAILED: a middleware returned an error
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.InvalidPlacement("unknown placement %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidPlacement) {
//	    // Handle validation error
//	}
//
//	// Wrap platform failures
//	err := errors.PlatformQuery(origErr, "getElementRects")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Contract violations
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidPlacement  Code = "INVALID_PLACEMENT"
	ErrCodeInvalidMiddleware Code = "INVALID_MIDDLEWARE"
	ErrCodeInvalidPlatform   Code = "INVALID_PLATFORM"
	ErrCodeInvalidScene      Code = "INVALID_SCENE"

	// Runtime failures
	ErrCodePlatformQuery    Code = "PLATFORM_QUERY"
	ErrCodeMiddlewareFailed Code = "MIDDLEWARE_FAILED"
	ErrCodeNotFound         Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// InvalidPlacement reports a malformed or unknown placement.
func InvalidPlacement(format string, args ...any) *Error {
	return New(ErrCodeInvalidPlacement, format, args...)
}

// InvalidMiddleware reports a middleware list entry that is neither a valid
// middleware nor a nil placeholder.
func InvalidMiddleware(format string, args ...any) *Error {
	return New(ErrCodeInvalidMiddleware, format, args...)
}

// PlatformQuery wraps a failed platform method call.
// Errors that already carry the PLATFORM_QUERY code are returned unchanged.
func PlatformQuery(cause error, method string) error {
	if Is(cause, ErrCodePlatformQuery) {
		return cause
	}
	return Wrap(ErrCodePlatformQuery, cause, "platform %s failed", method)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
