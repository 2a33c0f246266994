/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("no such file")

	tests := []struct {
		name          string
		err           *CLIError
		expectedMsg   string
		expectedCode  ExitCode
		expectedCause error
	}{
		{"New", New("Project not found"), "Project not found", ExitRuntime, nil},
		{"Newf", Newf("Missing file '%s'", "spaenv.yaml"), "Missing file 'spaenv.yaml'", ExitRuntime, nil},
		{"Wrap", Wrap(cause, "Failed to read .env"), "Failed to read .env", ExitRuntime, cause},
		{"Wrapf", Wrapf(cause, "Failed to read %s", ".env.local"), "Failed to read .env.local", ExitRuntime, cause},
		{"NewUsageError", NewUsageError("Missing argument ENVIRONMENT"), "Missing argument ENVIRONMENT", ExitUsage, nil},
		{"NewUsageErrorf", NewUsageErrorf("Unknown key '%s'", "auth0.domain"), "Unknown key 'auth0.domain'", ExitUsage, nil},
		{"WrapUsageError", WrapUsageError(cause, "Invalid --format"), "Invalid --format", ExitUsage, cause},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.err.Error() != test.expectedMsg {
				t.Errorf("expected message %q, got %q", test.expectedMsg, test.err.Error())
			}
			if test.err.Code != test.expectedCode {
				t.Errorf("expected code %d, got %d", test.expectedCode, test.err.Code)
			}
			if test.err.Cause != test.expectedCause {
				t.Errorf("expected cause %v, got %v", test.expectedCause, test.err.Cause)
			}
			if test.err.IsUsageError() != (test.expectedCode == ExitUsage) {
				t.Errorf("IsUsageError() mismatch for code %d", test.err.Code)
			}
		})
	}
}

func TestBuilderMethods(t *testing.T) {
	err := New("Refusing to overwrite existing files").
		WithSuggestion("Use --yes").
		WithDetails("src/environments/environment.ts").
		WithDetails("src/assets/env.json").
		WithCause(os.ErrExist)

	if err.Suggestion != "Use --yes" {
		t.Errorf("unexpected suggestion %q", err.Suggestion)
	}
	if len(err.Details) != 2 || err.Details[1] != "src/assets/env.json" {
		t.Errorf("unexpected details %v", err.Details)
	}
	if !errors.Is(err, os.ErrExist) {
		t.Error("errors.Is should find the cause")
	}
}

func TestWrappedChain(t *testing.T) {
	cliErr := Wrap(os.ErrNotExist, "Failed to read spaenv.yaml").WithSuggestion("Run 'spaenv init'")
	wrapped := fmt.Errorf("loading project: %w", cliErr)

	found, ok := AsCLIError(wrapped)
	if !ok || found != cliErr {
		t.Fatal("AsCLIError should find the CLIError in the chain")
	}
	if !errors.Is(wrapped, os.ErrNotExist) {
		t.Error("errors.Is should reach the root cause through the chain")
	}

	if _, ok := AsCLIError(errors.New("plain")); ok {
		t.Error("plain errors are not CLIErrors")
	}
	if _, ok := AsCLIError(nil); ok {
		t.Error("nil is not a CLIError")
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		usage    bool
	}{
		{"plain error", errors.New("boom"), 1, false},
		{"runtime error", New("boom"), 1, false},
		{"usage error", NewUsageError("bad"), 2, true},
		{"wrapped usage error", fmt.Errorf("ctx: %w", NewUsageError("bad")), 2, true},
		{"config error", NewConfigError(errors.New("invalid"), "Invalid"), 3, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := GetExitCode(test.err); got != test.expected {
				t.Errorf("expected exit code %d, got %d", test.expected, got)
			}
			if got := IsUsageError(test.err); got != test.usage {
				t.Errorf("expected IsUsageError=%v, got %v", test.usage, got)
			}
		})
	}
}
