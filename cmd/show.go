/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"strconv"
	"strings"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type showOpts struct {
	UsePositionalArgs

	argEnvironment string
	flagFormat     string
	flagReveal     bool
}

func init() {
	o := showOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment, eg, 'development' or 'dev'.")

	cmd := &cobra.Command{
		Use:   "show [ENVIRONMENT] [flags]",
		Short: "Show the resolved configuration of an environment",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Resolve and show the configuration record of an environment: the values from
			spaenv.yaml with the .env files, SPAENV_* environment variables, and the keyring
			applied. The record is validated before it is shown.

			In text format the client ID is masked unless --reveal is given. The JSON
			format prints the full record in the shape the front-end consumes.

			{Arguments}
		`),
		Example: trimIndent(`
			# Show the development environment.
			spaenv show development

			# Print the record as JSON and extract the API server URL.
			spaenv show dev --format=json | jq -r .apiServerUrl
		`),
	}

	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	addTextOrJSONFormatFlag(flags, &o.flagFormat)
	flags.BoolVar(&o.flagReveal, "reveal", false, "Show the full client ID in text format")
}

func (o *showOpts) Prepare(cmd *cobra.Command, args []string) error {
	return validateTextOrJSON(o.flagFormat)
}

func (o *showOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	envConfig, cfg, err := project.activateEnvironment(o.argEnvironment)
	if err != nil {
		return err
	}

	if o.flagFormat == "json" {
		content, err := envconfig.Render(cfg, envconfig.FormatJSON)
		if err != nil {
			return clierrors.Wrap(err, "Failed to render the configuration as JSON")
		}
		log.Info().Msg(strings.TrimRight(string(content), "\n"))
		return nil
	}

	log.Info().Msg(styles.RenderBright("Environment " + envConfig.Name))
	for _, line := range describeRecord(cfg, o.flagReveal) {
		log.Info().Msg("  " + line)
	}
	logLintWarnings(cfg)
	return nil
}

// describeRecord returns the aligned key-value lines of a record, followed by
// the derived identity-provider addresses.
func describeRecord(cfg envconfig.EnvironmentConfig, reveal bool) []string {
	clientID := cfg.MaskedClientID()
	if reveal {
		clientID = cfg.Auth0.ClientID
	}

	entries := [][2]string{
		{"production", strconv.FormatBool(cfg.Production)},
		{"apiServerUrl", cfg.APIServerURL},
		{"auth0.url", cfg.Auth0.URL},
		{"auth0.audience", cfg.Auth0.Audience},
		{"auth0.clientId", clientID},
		{"auth0.callbackURL", cfg.Auth0.CallbackURL},
		{"issuer", cfg.IssuerURL()},
		{"jwks", cfg.JWKSURL()},
	}

	width := 0
	for _, entry := range entries {
		width = max(width, len(entry[0]))
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, styles.RenderKeyValue(entry[0], width, entry[1]))
	}
	return lines
}
