/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/coffeeshop/spaenv/internal/tui"
	"github.com/coffeeshop/spaenv/internal/version"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Value of the --project (or -p).
var flagProjectConfigPath string

// Value of --skip-version-check.
var flagSkipVersionCheck bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spaenv",
	Short: "spaenv: manage the environment configuration of the Coffee Shop SPA",
	Long: trimIndent(`
		Manage the environment configuration record of the Coffee Shop single-page
		application: the API server address and the Auth0 settings the front-end is
		built against.

		Environments are declared in 'spaenv.yaml'. Values can be overridden with
		'SPAENV_*' environment variables or '.env' files, and the Auth0 client ID can
		be kept in the OS keyring instead of the project file.
	`),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize zerolog
		isVerbose, _ := cmd.Flags().GetBool("verbose")
		initLogger(isVerbose)

		// Dialogs and spinners only when both ends are a terminal.
		tui.SetInteractiveMode(isTerminal(os.Stdin) && isTerminal(os.Stdout))

		if !flagSkipVersionCheck && tui.IsInteractiveMode() && cmd.Name() != "version" {
			stderrLogger := zerolog.New(os.Stderr)
			version.CheckVersion(cmd.Context(), &stderrLogger)
		}
	},
}

// Execute runs the root command with a background context.
func Execute() {
	ExecuteContext(context.Background())
}

// ExecuteContext adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Command failures exit the process from runCommand; errors returned here are
// from cobra itself, eg, unknown commands or flags.
func ExecuteContext(ctx context.Context) {
	initColoredHelpTemplates(rootCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Msgf("Error: %v", err)
		log.Info().Msgf("Run '%s --help' for usage.", rootCmd.Name())
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&flagProjectConfigPath, "project", "p", "", "Path to the project's spaenv.yaml (or its directory)")
	rootCmd.PersistentFlags().BoolVar(&flagSkipVersionCheck, "skip-version-check", false, "Don't check for a newer spaenv release")
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Customer version of zerolog's ConsoleWriter that writes out the full
// line with a color dependent on the log level. Intended for the default
// CLI non-decorated output mode.
type coloredLineConsoleWriter struct {
	Out       io.Writer
	UseColors bool
}

var levelColors = map[string]string{
	"trace": "\033[95m",   // Bright Magenta
	"debug": "\033[94m",   // Bright Blue
	"info":  "",           // Default color
	"warn":  "\033[93m",   // Bright Yellow
	"error": "\033[91m",   // Bright Red
	"fatal": "\033[35m",   // Magenta
	"panic": "\033[31;1m", // Bold Red
}

func (w *coloredLineConsoleWriter) Write(p []byte) (n int, err error) {
	var event map[string]any
	if err := json.Unmarshal(p, &event); err != nil {
		return 0, err
	}

	level, _ := event["level"].(string)
	message, _ := event["message"].(string)

	color, found := levelColors[level]
	if !found {
		color = "\033[37m"
	}

	var buf bytes.Buffer
	if w.UseColors && color != "" {
		buf.WriteString(color)
		buf.WriteString(message)
		buf.WriteString("\033[0m")
	} else {
		buf.WriteString(message)
	}
	buf.WriteString("\n")

	if _, err := w.Out.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Initialize zerolog:
// In verbose mode, the output includes timestamps and log levels. Colors are
// always enabled.
// In non-verbose mode, the output is plain-text only, so its compatible with
// piping to `jq` and other tools. Colors are auto-detected based on the TTY used.
func initLogger(isVerbose bool) {
	if isVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		zerolog.TimeFieldFormat = "2006-01-02 15:04:05.000"
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05.000",
		}).With().
			Timestamp().
			Logger()
	} else {
		writer := &coloredLineConsoleWriter{
			Out:       os.Stdout,
			UseColors: isTerminal(os.Stdout),
		}

		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(writer).With().Logger()
	}
}
