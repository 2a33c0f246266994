/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

// Package errors defines the user-facing errors of spaenv commands and the
// process exit codes derived from them.
package errors

import (
	"errors"
	"fmt"
)

// ExitCode is the process exit code of a failed command.
type ExitCode int

const (
	ExitRuntime ExitCode = 1 // Runtime/execution errors
	ExitUsage   ExitCode = 2 // Usage/argument errors
)

// CLIError is a user-friendly error with optional suggestion and details.
// It wraps an underlying Go error while providing a clean message for users.
type CLIError struct {
	Message    string   // User-friendly message (shown prominently)
	Cause      error    // Underlying Go error (shown dimmed)
	Suggestion string   // "Hint: ..." actionable suggestion for fixing the error
	Details    []string // Extra bullet points with additional context
	Code       ExitCode // Exit code: ExitRuntime, ExitUsage, or ExitConfig
}

func newError(code ExitCode, cause error, message string) *CLIError {
	return &CLIError{Message: message, Cause: cause, Code: code}
}

// Error returns the user-facing message only; the cause is printed separately.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// IsUsageError returns true if this is a usage/argument error.
func (e *CLIError) IsUsageError() bool {
	return e.Code == ExitUsage
}

// WithSuggestion sets the hint shown below the error.
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// WithDetails appends detail lines, eg, one per invalid field.
func (e *CLIError) WithDetails(details ...string) *CLIError {
	e.Details = append(e.Details, details...)
	return e
}

// WithCause sets the underlying cause error.
func (e *CLIError) WithCause(cause error) *CLIError {
	e.Cause = cause
	return e
}

func New(message string) *CLIError {
	return newError(ExitRuntime, nil, message)
}

func Newf(format string, args ...any) *CLIError {
	return newError(ExitRuntime, nil, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a user-friendly message.
func Wrap(cause error, message string) *CLIError {
	return newError(ExitRuntime, cause, message)
}

func Wrapf(cause error, format string, args ...any) *CLIError {
	return newError(ExitRuntime, cause, fmt.Sprintf(format, args...))
}

// NewUsageError creates an error for invalid arguments or flags. The command
// runner follows it with a pointer to the command's help.
func NewUsageError(message string) *CLIError {
	return newError(ExitUsage, nil, message)
}

func NewUsageErrorf(format string, args ...any) *CLIError {
	return newError(ExitUsage, nil, fmt.Sprintf(format, args...))
}

// WrapUsageError wraps an existing error as a usage error.
func WrapUsageError(cause error, message string) *CLIError {
	return newError(ExitUsage, cause, message)
}

// IsUsageError checks if an error is a usage error (should show usage help).
func IsUsageError(err error) bool {
	cliErr, ok := AsCLIError(err)
	return ok && cliErr.IsUsageError()
}

// GetExitCode returns the exit code for err. Errors that are not CLIErrors
// are runtime errors.
func GetExitCode(err error) int {
	if cliErr, ok := AsCLIError(err); ok {
		return int(cliErr.Code)
	}
	return int(ExitRuntime)
}

// AsCLIError attempts to extract a CLIError from an error chain.
func AsCLIError(err error) (*CLIError, bool) {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr, true
	}
	return nil, false
}
