/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"os"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// CommandOptions is implemented by the options struct of every command.
// Prepare validates the flags and arguments; Run does the work.
type CommandOptions interface {
	Prepare(cmd *cobra.Command, args []string) error
	Run(cmd *cobra.Command) error
}

type positionalArgsProvider interface {
	Arguments() *PositionalArgs
}

// runCommand adapts a CommandOptions into a cobra Run function. Errors are
// printed and the process exits with the error's exit code.
func runCommand(opts CommandOptions) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := executeCommand(opts, cmd, args); err != nil {
			printError(err)
			if clierrors.IsUsageError(err) {
				log.Info().Msg("")
				log.Info().Msgf("Run '%s --help' for usage.", cmd.CommandPath())
			}
			os.Exit(clierrors.GetExitCode(err))
		}
	}
}

// executeCommand parses positional arguments, then calls Prepare and Run.
// Plain errors from Prepare are treated as usage errors.
func executeCommand(opts CommandOptions, cmd *cobra.Command, args []string) error {
	if withArgs, ok := opts.(positionalArgsProvider); ok {
		if err := withArgs.Arguments().ParseCommandLine(args); err != nil {
			return err
		}
	}

	if err := opts.Prepare(cmd, args); err != nil {
		if _, isCLIError := clierrors.AsCLIError(err); !isCLIError {
			return clierrors.WrapUsageError(err, "Invalid arguments")
		}
		return err
	}

	return opts.Run(cmd)
}

// formatError returns the lines printed for a failed command.
func formatError(err error) []string {
	cliErr, ok := clierrors.AsCLIError(err)
	if !ok {
		return []string{styles.RenderError(fmt.Sprintf("Error: %v", err))}
	}

	lines := []string{styles.RenderError("Error: " + cliErr.Message)}
	if cliErr.Cause != nil && len(cliErr.Details) == 0 {
		lines = append(lines, styles.RenderMuted(fmt.Sprintf("  %v", cliErr.Cause)))
	}
	for _, detail := range cliErr.Details {
		lines = append(lines, fmt.Sprintf("  %s %s", styles.RenderMuted("-"), detail))
	}
	if cliErr.Suggestion != "" {
		lines = append(lines, "", fmt.Sprintf("%s %s", styles.RenderPrompt("Hint:"), cliErr.Suggestion))
	}
	return lines
}

func printError(err error) {
	log.Info().Msg("")
	for _, line := range formatError(err) {
		log.Info().Msg(line)
	}
}

// errorSummary returns a one-line description of err including its cause.
func errorSummary(err error) string {
	if cliErr, ok := clierrors.AsCLIError(err); ok && cliErr.Cause != nil {
		return fmt.Sprintf("%s: %v", cliErr.Message, cliErr.Cause)
	}
	return err.Error()
}
