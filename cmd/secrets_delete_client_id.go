/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/secrets"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type deleteClientIDOpts struct {
	UsePositionalArgs

	argEnvironment string
}

func init() {
	o := deleteClientIDOpts{}

	args := o.Arguments()
	args.AddStringArgument(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment.")

	cmd := &cobra.Command{
		Use:   "delete-client-id ENVIRONMENT",
		Short: "Remove the stored Auth0 client ID of an environment",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Remove the Auth0 client ID of an environment from the OS keyring. Deleting a
			client ID that isn't stored is not an error.

			{Arguments}
		`),
	}

	secretsCmd.AddCommand(cmd)
}

func (o *deleteClientIDOpts) Prepare(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *deleteClientIDOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	envConfig, err := project.chooseEnvironment(o.argEnvironment)
	if err != nil {
		return err
	}

	err = secrets.DeleteClientID(project.Config.Project, envConfig.Name)
	if errors.Is(err, secrets.ErrNotFound) {
		log.Info().Msgf("No client ID stored for %s", styles.RenderTechnical(envConfig.Name))
		return nil
	} else if err != nil {
		return clierrors.Wrap(err, "Failed to delete the client ID")
	}

	log.Info().Msgf("%s Deleted client ID of %s", styles.RenderSuccess("✓"), styles.RenderTechnical(envConfig.Name))
	return nil
}
