/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/coffeeshop/spaenv/pkg/tokeninfo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type tokenInspectOpts struct {
	UsePositionalArgs

	argEnvironment string
	argToken       string
	flagFormat     string
}

func init() {
	o := tokenInspectOpts{}

	args := o.Arguments()
	args.AddStringArgument(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment to compare against.")
	args.AddStringArgumentOpt(&o.argToken, "TOKEN", "Access token, optionally prefixed with 'Bearer '. Read from stdin if omitted or '-'.")

	cmd := &cobra.Command{
		Use:   "inspect ENVIRONMENT [TOKEN] [flags]",
		Short: "Check that an access token matches an environment's Auth0 settings",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Decode an access token issued to the SPA and compare its claims with the
			configuration of an environment:

			- 'aud' contains auth0.audience.
			- 'iss' is the tenant derived from auth0.url.
			- 'azp', when present, is auth0.clientId.
			- 'exp' has not passed.

			The signature is NOT verified: this is a diagnostic for mismatched settings,
			not an authorization check. The token is never sent anywhere.

			{Arguments}
		`),
		Example: trimIndent(`
			# Inspect a token copied from the browser's network tab.
			spaenv token inspect development eyJhbGciOi...

			# Read the token from the clipboard (macOS) and output JSON.
			pbpaste | spaenv token inspect dev --format=json
		`),
	}

	tokenCmd.AddCommand(cmd)

	flags := cmd.Flags()
	addTextOrJSONFormatFlag(flags, &o.flagFormat)
}

func (o *tokenInspectOpts) Prepare(cmd *cobra.Command, args []string) error {
	return validateTextOrJSON(o.flagFormat)
}

func (o *tokenInspectOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	_, cfg, err := project.activateEnvironment(o.argEnvironment)
	if err != nil {
		return err
	}

	token := o.argToken
	if token == "" || token == "-" {
		content, err := readFirstLine(os.Stdin)
		if err != nil {
			return clierrors.Wrap(err, "Failed to read the token from stdin")
		}
		token = content
	}

	report, err := tokeninfo.Inspect(token, cfg, time.Now())
	if err != nil {
		return clierrors.WrapUsageError(err, "Unable to decode the token").
			WithSuggestion("Pass the access token (a JWT), not the ID token or an opaque token")
	}

	if o.flagFormat == "json" {
		reportJSON, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return clierrors.Wrap(err, "Failed to marshal the report to JSON")
		}
		log.Info().Msg(string(reportJSON))
	} else {
		logTokenReport(report)
	}

	if !report.OK() {
		return clierrors.New("The token does not match the environment's configuration")
	}
	return nil
}

func logTokenReport(report *tokeninfo.Report) {
	header := [][2]string{
		{"alg", report.Algorithm},
		{"kid", report.KeyID},
		{"sub", report.Subject},
		{"iss", report.Issuer},
		{"aud", strings.Join(report.Audience, ", ")},
		{"azp", report.AuthorizedParty},
	}
	for _, entry := range header {
		if entry[1] != "" {
			log.Info().Msg("  " + styles.RenderKeyValue(entry[0], 3, entry[1]))
		}
	}
	log.Info().Msg("")

	for _, finding := range report.Findings {
		symbol := styles.RenderSuccess("✓")
		if !finding.OK {
			symbol = styles.RenderError("✗")
		}
		log.Info().Msgf(" %s %s %s", symbol, styles.RenderTechnical(finding.Claim), finding.Message)
	}
}
