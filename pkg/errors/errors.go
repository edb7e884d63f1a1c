// Package errors provides structured error types for extrasrequire.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the build pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (directive configuration, specifiers, options)
//   - *_NOT_FOUND: Missing metadata files or missing keys inside them
//   - INTERNAL_*: Unexpected internal errors
//
// Errors raised while running a directive are wrapped with [At] so that
// they carry the document and line they came from.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "Please specify a source for the extra requirements %s", extra)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidManifest, origErr, "cannot parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeInvalidRequirement Code = "INVALID_REQUIREMENT"
	ErrCodeInvalidOption      Code = "INVALID_OPTION"
	ErrCodeInvalidArgument    Code = "INVALID_ARGUMENT"
	ErrCodeInvalidManifest    Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath        Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeKeyNotFound  Code = "KEY_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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
		return e.Message
	}
	return err.Error()
}

// Describe returns the message shown to users: the document position if
// any, then the message and cause without the code prefix.
func Describe(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	var loc *Location
	if errors.As(err, &loc) {
		msg = fmt.Sprintf("%s:%d: %s", loc.DocName, loc.LineNo, msg)
	}
	return msg
}

// Location attaches a document position to an error raised by a directive.
type Location struct {
	DocName string // Document name without suffix
	LineNo  int    // Line of the directive marker
	Err     error
}

// At wraps err with the position of the directive that raised it.
// It returns nil if err is nil.
func At(docname string, lineNo int, err error) error {
	if err == nil {
		return nil
	}
	return &Location{DocName: docname, LineNo: lineNo, Err: err}
}

// Error implements the error interface.
func (l *Location) Error() string {
	return fmt.Sprintf("%s:%d: %v", l.DocName, l.LineNo, l.Err)
}

// Unwrap returns the wrapped error.
func (l *Location) Unwrap() error {
	return l.Err
}
