/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package errors

import (
	"errors"
)

// ExitConfig is the exit code for configuration errors detected at load time.
const ExitConfig ExitCode = 3

// NewConfigError wraps a configuration loading or validation error. If the
// cause joins several errors (eg, one per invalid field), each of them becomes
// a detail line.
func NewConfigError(cause error, message string) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Details: ErrorDetails(cause),
		Code:    ExitConfig,
	}
}

// ErrorDetails returns the messages of the errors joined in err, or nil if err
// does not join multiple errors.
func ErrorDetails(err error) []string {
	if err == nil {
		return nil
	}

	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return nil
	}

	details := []string{}
	for _, child := range joined.Unwrap() {
		details = append(details, child.Error())
	}
	return details
}

// IsConfigError returns true if err is a configuration error.
func IsConfigError(err error) bool {
	if cliErr, ok := AsCLIError(err); ok {
		return cliErr.Code == ExitConfig
	}
	return false
}
