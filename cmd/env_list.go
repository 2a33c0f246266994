/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"encoding/json"
	"strings"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/envproj"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type listEnvironmentsOpts struct {
	flagFormat string
}

// Entry of 'env list --format=json'.
type environmentListEntry struct {
	Name         string   `json:"name"`
	Aliases      []string `json:"aliases"`
	Production   bool     `json:"production"`
	APIServerURL string   `json:"apiServerUrl"`
}

func init() {
	o := listEnvironmentsOpts{}

	cmd := &cobra.Command{
		Use:   "list [flags]",
		Short: "List the environments and their aliases",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			List the environments declared in spaenv.yaml, with their aliases. Either the
			name or any alias can be used as the ENVIRONMENT argument of other commands.

			The values are shown as written in spaenv.yaml, without overrides from the
			environment or the keyring. Use 'spaenv show ENVIRONMENT' for the resolved record.
		`),
		Example: trimIndent(`
			# List environments in human-readable format.
			spaenv env list

			# List environment names as JSON.
			spaenv env list --format=json | jq -r '.[].name'
		`),
	}

	environmentCmd.AddCommand(cmd)

	flags := cmd.Flags()
	addTextOrJSONFormatFlag(flags, &o.flagFormat)
}

func (o *listEnvironmentsOpts) Prepare(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return clierrors.NewUsageErrorf("Unexpected arguments: %s", strings.Join(args, " "))
	}
	return validateTextOrJSON(o.flagFormat)
}

func (o *listEnvironmentsOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	if o.flagFormat == "json" {
		entriesJSON, err := json.MarshalIndent(environmentListEntries(project.Config.Environments), "", "  ")
		if err != nil {
			return clierrors.Wrap(err, "Failed to marshal environments to JSON")
		}
		log.Info().Msg(string(entriesJSON))
		return nil
	}

	log.Info().Msg(styles.RenderBright("Environments of " + project.Config.Project))
	for _, env := range project.Config.Environments {
		line := "  " + styles.RenderTechnical(env.Name)
		if len(env.Aliases) > 0 {
			line += styles.RenderMuted(" (" + strings.Join(env.Aliases, ", ") + ")")
		}
		if env.Production {
			line += " " + styles.RenderWarning("[production]")
		}
		log.Info().Msg(line)
	}
	return nil
}

func environmentListEntries(environments []envproj.ProjectEnvironmentConfig) []environmentListEntry {
	entries := make([]environmentListEntry, 0, len(environments))
	for _, env := range environments {
		aliases := env.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		entries = append(entries, environmentListEntry{
			Name:         env.Name,
			Aliases:      aliases,
			Production:   env.Production,
			APIServerURL: env.APIServerURL,
		})
	}
	return entries
}

// addTextOrJSONFormatFlag declares the '--format' flag of commands that print
// either human-readable text or JSON for scripts.
func addTextOrJSONFormatFlag(flags *pflag.FlagSet, target *string) {
	flags.StringVar(target, "format", "text", "Output format. Valid values are 'text' or 'json'")
}

// validateTextOrJSON checks the value of a '--format' flag that accepts 'text' or 'json'.
func validateTextOrJSON(format string) error {
	if format != "text" && format != "json" {
		return clierrors.NewUsageErrorf("Invalid format '%s', must be either 'text' or 'json'", format)
	}
	return nil
}
