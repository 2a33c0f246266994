/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Function used to open URLs, replaced in tests.
var openURL = browser.OpenURL

type openOpts struct {
	UsePositionalArgs

	argEnvironment string
	flagAPI        bool
}

func init() {
	o := openOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment.")

	cmd := &cobra.Command{
		Use:   "open [ENVIRONMENT] [flags]",
		Short: "Open the SPA of an environment in the browser",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Open the URL the SPA of an environment is served from (auth0.callbackURL) in
			the default browser. With --api, open the API server URL instead.

			{Arguments}
		`),
	}

	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.BoolVar(&o.flagAPI, "api", false, "Open the API server URL instead")
}

func (o *openOpts) Prepare(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *openOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	_, cfg, err := project.activateEnvironment(o.argEnvironment)
	if err != nil {
		return err
	}

	url := cfg.Auth0.CallbackURL
	if o.flagAPI {
		url = cfg.APIServerURL
	}

	log.Info().Msgf("Opening %s", styles.RenderTechnical(url))
	if err := openURL(url); err != nil {
		return clierrors.Wrap(err, "Failed to open the browser").
			WithSuggestion("Open " + url + " manually")
	}
	return nil
}
