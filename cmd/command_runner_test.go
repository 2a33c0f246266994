/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"
	"strings"
	"testing"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/spf13/cobra"
)

type fakeOpts struct {
	UsePositionalArgs

	argName    string
	prepareErr error
	runErr     error
	ran        bool
}

func newFakeOpts() *fakeOpts {
	o := &fakeOpts{}
	o.Arguments().AddStringArgument(&o.argName, "NAME", "Name.")
	return o
}

func (o *fakeOpts) Prepare(cmd *cobra.Command, args []string) error {
	return o.prepareErr
}

func (o *fakeOpts) Run(cmd *cobra.Command) error {
	o.ran = true
	return o.runErr
}

func TestExecuteCommand(t *testing.T) {
	o := newFakeOpts()
	if err := executeCommand(o, &cobra.Command{}, []string{"coffee"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.ran || o.argName != "coffee" {
		t.Errorf("expected Run with argument, got ran=%v arg=%q", o.ran, o.argName)
	}
}

func TestExecuteCommandArgumentErrorSkipsRun(t *testing.T) {
	o := newFakeOpts()
	err := executeCommand(o, &cobra.Command{}, nil)
	if !clierrors.IsUsageError(err) {
		t.Errorf("expected usage error, got %v", err)
	}
	if o.ran {
		t.Error("Run should not be called when arguments are invalid")
	}
}

func TestExecuteCommandPrepareErrors(t *testing.T) {
	// Plain errors from Prepare become usage errors.
	o := newFakeOpts()
	o.prepareErr = errors.New("bad flag")
	err := executeCommand(o, &cobra.Command{}, []string{"x"})
	if clierrors.GetExitCode(err) != int(clierrors.ExitUsage) {
		t.Errorf("expected usage exit code, got %d", clierrors.GetExitCode(err))
	}

	// CLIErrors keep their exit code.
	o = newFakeOpts()
	o.prepareErr = clierrors.NewConfigError(errors.New("broken"), "Broken config")
	err = executeCommand(o, &cobra.Command{}, []string{"x"})
	if clierrors.GetExitCode(err) != int(clierrors.ExitConfig) {
		t.Errorf("expected config exit code, got %d", clierrors.GetExitCode(err))
	}
}

func TestFormatError(t *testing.T) {
	plain := formatError(errors.New("boom"))
	if len(plain) != 1 || !strings.Contains(plain[0], "Error: boom") {
		t.Errorf("unexpected lines for plain error: %q", plain)
	}

	cliErr := clierrors.Wrap(errors.New("permission denied"), "Failed to write file").
		WithSuggestion("Check permissions")
	lines := formatError(cliErr)
	joined := strings.Join(lines, "\n")
	for _, expected := range []string{"Error: Failed to write file", "permission denied", "Hint:", "Check permissions"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in output:\n%s", expected, joined)
		}
	}

	// Details replace the cause line.
	detailed := formatError(clierrors.Wrap(errors.New("hidden cause"), "Invalid").WithDetails("apiServerUrl: is required"))
	joined = strings.Join(detailed, "\n")
	if strings.Contains(joined, "hidden cause") || !strings.Contains(joined, "apiServerUrl: is required") {
		t.Errorf("unexpected output:\n%s", joined)
	}
}

func TestErrorSummary(t *testing.T) {
	err := clierrors.Wrap(errors.New("no such file"), "Failed to read .env")
	if got := errorSummary(err); got != "Failed to read .env: no such file" {
		t.Errorf("unexpected summary %q", got)
	}
	if got := errorSummary(errors.New("plain")); got != "plain" {
		t.Errorf("unexpected summary %q", got)
	}
}
