/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"slices"
	"strings"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/envproj"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type setOpts struct {
	UsePositionalArgs

	argEnvironment string
	argKey         string
	argValue       string
}

func init() {
	o := setOpts{}

	args := o.Arguments()
	args.AddStringArgument(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment to edit.")
	args.AddStringArgument(&o.argKey, "KEY", "Key to set: "+strings.Join(envproj.EditableKeys, ", ")+".")
	args.AddStringArgument(&o.argValue, "VALUE", "New value of the key.")

	cmd := &cobra.Command{
		Use:   "set ENVIRONMENT KEY VALUE",
		Short: "Set one value of an environment in spaenv.yaml",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Set one key of an environment in spaenv.yaml. The file is edited in place:
			comments, ordering, and the other values are kept as they are.

			After the edit, the environment is resolved and validated again. An invalid
			result is reported, but the edit is kept so that it can be fixed with a
			follow-up 'spaenv set'.

			To keep the client ID out of the file, set 'auth0.clientId' to '@keyring' and
			store the value with 'spaenv secrets set-client-id'.

			{Arguments}
		`),
		Example: trimIndent(`
			# Point the development environment to another API server.
			spaenv set development apiServerUrl http://127.0.0.1:5001

			# Move the production client ID into the keyring.
			spaenv set prod auth0.clientId @keyring
		`),
	}

	rootCmd.AddCommand(cmd)
}

func (o *setOpts) Prepare(cmd *cobra.Command, args []string) error {
	if !slices.Contains(envproj.EditableKeys, o.argKey) {
		return clierrors.NewUsageErrorf("Unknown key '%s'", o.argKey).
			WithSuggestion("Valid keys are: " + strings.Join(envproj.EditableKeys, ", "))
	}
	return nil
}

func (o *setOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	envConfig, err := project.chooseEnvironment(o.argEnvironment)
	if err != nil {
		return err
	}

	updatedConfig, err := envproj.UpdateEnvironmentField(project.Dir, envConfig.Name, o.argKey, o.argValue)
	if err != nil {
		return clierrors.Wrapf(err, "Failed to set '%s' of environment '%s'", o.argKey, envConfig.Name)
	}
	log.Info().Msgf("%s Set %s of %s", styles.RenderSuccess("✓"), styles.RenderTechnical(o.argKey), styles.RenderTechnical(envConfig.Name))

	updated := &projectContext{Dir: project.Dir, Config: updatedConfig}
	updatedEnv, err := updated.Config.FindEnvironmentConfig(envConfig.Name)
	if err != nil {
		return err
	}
	cfg, err := updated.resolveEnvironment(updatedEnv)
	if err != nil {
		return err
	}
	logLintWarnings(cfg)
	return nil
}
