/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"context"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/internal/tui"
	"github.com/coffeeshop/spaenv/pkg/probe"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type doctorOpts struct {
	UsePositionalArgs

	argEnvironment string
}

func init() {
	o := doctorOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment to check.")

	cmd := &cobra.Command{
		Use:   "doctor [ENVIRONMENT]",
		Short: "Check that the services an environment points to are reachable",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Resolve the configuration of an environment and check the services it points to:

			1. The API server at apiServerUrl answers HTTP requests (any status below 500).
			2. The Auth0 tenant serves its OpenID discovery document, and the issuer in it
			   matches the configured tenant.
			3. The signing key set referenced by the discovery document has at least one key.

			All checks are run even if an earlier one fails. Nothing is sent to the
			services besides plain GET requests.

			{Arguments}
		`),
		Example: trimIndent(`
			# Check the local development setup.
			spaenv doctor development
		`),
	}

	rootCmd.AddCommand(cmd)
}

func (o *doctorOpts) Prepare(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *doctorOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	envConfig, cfg, err := project.activateEnvironment(o.argEnvironment)
	if err != nil {
		return err
	}
	logLintWarnings(cfg)

	log.Info().Msg(styles.RenderBright("Checking environment " + envConfig.Name))
	log.Info().Msg("")

	runner := newCheckRunner(probe.NewClient().EnvironmentChecks(cfg))
	if err := runner.Run(cmd.Context()); err != nil {
		return clierrors.Wrap(err, "Environment '"+envConfig.Name+"' failed some checks").
			WithDetails(clierrors.ErrorDetails(err)...).
			WithSuggestion("Check that the services are running and that the Auth0 settings match the tenant")
	}

	log.Info().Msg("")
	log.Info().Msg(styles.RenderSuccess("✓ All checks passed"))
	return nil
}

// newCheckRunner wraps the checks into tasks that all run even if some fail.
func newCheckRunner(checks []probe.Check) *tui.TaskRunner {
	runner := tui.NewTaskRunner().ContinueOnError()
	for _, check := range checks {
		runner.AddTask(check.Title, func(ctx context.Context, output *tui.TaskOutput) error {
			lines, err := check.Run(ctx)
			for _, line := range lines {
				output.AppendLinef("%s", line)
			}
			return err
		})
	}
	return runner
}
