// Package errors provides structured error types for geograph.
//
// Errors carry a machine-readable [Code] so that callers (the topology
// builder's ingestion loop, the CLI, the HTTP server) can decide whether a
// failure is recoverable without matching on message text.
//
// # Error Codes
//
//   - INVALID_*: the caller handed over something malformed
//   - UNSUPPORTED_*: well-formed input the core does not handle; skippable
//   - INVARIANT_VIOLATION: internal state would be corrupted; never recover
//   - NOT_FOUND, INTERNAL_ERROR: the usual suspects
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGeometry, "line %s has %d coordinates", id, n)
//	if errors.Is(err, errors.ErrCodeUnsupportedGeometry) {
//	    // skip the feature
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidConfig, cause, "load %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Input the core recognizes but does not process
	ErrCodeUnsupportedGeometry Code = "UNSUPPORTED_GEOMETRY"

	// Broken internal invariants
	ErrCodeInvariant Code = "INVARIANT_VIOLATION"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsSkippable reports whether ingestion may continue past err.
// Only unsupported geometry qualifies; everything else aborts a run.
func IsSkippable(err error) bool {
	return Is(err, ErrCodeUnsupportedGeometry)
}
