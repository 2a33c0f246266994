/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/coffeeshop/spaenv/pkg/envproj"
	"github.com/coffeeshop/spaenv/pkg/secrets"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type secretsStatusOpts struct {
	UsePositionalArgs

	argEnvironment string
}

func init() {
	o := secretsStatusOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment. Defaults to all environments.")

	cmd := &cobra.Command{
		Use:   "status [ENVIRONMENT]",
		Short: "Show where the client ID of each environment comes from",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Show where the Auth0 client ID of each environment comes from: a literal in
			spaenv.yaml, or the keyring. For keyring environments, show whether a value is
			stored. Stored values are masked.

			{Arguments}
		`),
	}

	secretsCmd.AddCommand(cmd)
}

func (o *secretsStatusOpts) Prepare(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *secretsStatusOpts) Run(cmd *cobra.Command) error {
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

	for _, env := range environments {
		status, err := clientIDStatus(project.Config.Project, &env)
		if err != nil {
			return clierrors.Wrapf(err, "Failed to read the client ID of '%s'", env.Name)
		}
		log.Info().Msgf("  %s %s", styles.RenderTechnical(env.Name), status)
	}
	return nil
}

// clientIDStatus describes the source of an environment's client ID.
func clientIDStatus(project string, env *envproj.ProjectEnvironmentConfig) (string, error) {
	if env.Auth0.ClientID != envconfig.ClientIDKeyringPlaceholder {
		return styles.RenderMuted("literal in spaenv.yaml"), nil
	}

	clientID, err := secrets.GetClientID(project, env.Name)
	if errors.Is(err, secrets.ErrNotFound) {
		return styles.RenderWarning("keyring, not stored"), nil
	} else if err != nil {
		return "", err
	}
	return styles.RenderSuccess("keyring, stored ") + styles.RenderMuted(envconfig.MaskClientID(clientID)), nil
}
