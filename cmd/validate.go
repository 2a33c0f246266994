/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"
	"fmt"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/envproj"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type validateOpts struct {
	UsePositionalArgs

	argEnvironment string
	flagStrict     bool
}

func init() {
	o := validateOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment. Defaults to all environments.")

	cmd := &cobra.Command{
		Use:   "validate [ENVIRONMENT] [flags]",
		Short: "Validate the configuration of one or all environments",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Resolve and validate the configuration of an environment, or of every
			environment when ENVIRONMENT is omitted.

			A record is valid when apiServerUrl and auth0.callbackURL are absolute http(s)
			URLs and no field is empty. All problems of a record are reported together.
			Non-fatal findings, such as a production record pointing at localhost, are
			shown as warnings and fail the command only with --strict.

			The command exits with code 3 when any environment is invalid.

			{Arguments}
		`),
		Example: trimIndent(`
			# Validate all environments, eg, in CI.
			spaenv validate

			# Validate the production environment and treat warnings as errors.
			spaenv validate prod --strict
		`),
	}

	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.BoolVar(&o.flagStrict, "strict", false, "Treat warnings as errors")
}

func (o *validateOpts) Prepare(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *validateOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	environments := project.Config.Environments
	if o.argEnvironment != "" {
		envConfig, err := project.chooseEnvironment(o.argEnvironment)
		if err != nil {
			return err
		}
		environments = []envproj.ProjectEnvironmentConfig{*envConfig}
	}

	var failures []error
	for ndx := range environments {
		envConfig := &environments[ndx]
		cfg, err := project.resolveEnvironment(envConfig)
		if err != nil {
			log.Info().Msgf("%s %s", styles.RenderError("✗"), envConfig.Name)
			details := clierrors.ErrorDetails(err)
			if len(details) == 0 {
				details = []string{errorSummary(err)}
			}
			for _, detail := range details {
				log.Info().Msgf("    %s", detail)
			}
			failures = append(failures, fmt.Errorf("%s: %w", envConfig.Name, err))
			continue
		}

		warnings := cfg.Lint()
		if len(warnings) > 0 && o.flagStrict {
			log.Info().Msgf("%s %s", styles.RenderError("✗"), envConfig.Name)
			failures = append(failures, fmt.Errorf("%s: %d warning(s)", envConfig.Name, len(warnings)))
		} else {
			log.Info().Msgf("%s %s", styles.RenderSuccess("✓"), envConfig.Name)
		}
		for _, warning := range warnings {
			log.Info().Msgf("    %s", styles.RenderWarning("warning: "+warning))
		}
	}

	if len(failures) > 0 {
		return clierrors.NewConfigError(errors.Join(failures...), fmt.Sprintf("%d of %d environment(s) failed validation", len(failures), len(environments)))
	}
	return nil
}
