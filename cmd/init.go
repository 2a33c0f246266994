/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/coffeeshop/spaenv/pkg/envproj"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type initOpts struct {
	flagProjectName  string
	flagOutputPath   string
	flagAPIServerURL string
	flagAuth0URL     string
	flagAudience     string
	flagCallbackURL  string

	projectDir string
}

func init() {
	o := initOpts{}

	cmd := &cobra.Command{
		Use:   "init [flags]",
		Short: "Create a starter spaenv.yaml in the current directory",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Create a starter spaenv.yaml with a 'development' environment. An existing
			spaenv.yaml is never overwritten.

			The generated file keeps the Auth0 client ID in the OS keyring ('@keyring'),
			so nothing secret-looking needs to be committed. Store it with
			'spaenv secrets set-client-id development CLIENT_ID'.

			Use --project to create the file in another directory.
		`),
		Example: trimIndent(`
			# Create spaenv.yaml with defaults, naming the project after the directory.
			spaenv init

			# Create spaenv.yaml for the coffee-shop project against a specific tenant.
			spaenv init --project-name=coffee-shop --auth0-url=dev-juanchete.eu --audience=coffeeshop
		`),
	}

	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.StringVar(&o.flagProjectName, "project-name", "", "Name of the project (defaults to the directory name)")
	flags.StringVar(&o.flagOutputPath, "output", "", "Path of the generated environment.ts, relative to spaenv.yaml")
	flags.StringVar(&o.flagAPIServerURL, "api-server-url", "", "Base URL of the backend API server")
	flags.StringVar(&o.flagAuth0URL, "auth0-url", "", "Auth0 tenant domain, eg, 'dev-example.eu'")
	flags.StringVar(&o.flagAudience, "audience", "", "Auth0 API audience (defaults to the project name)")
	flags.StringVar(&o.flagCallbackURL, "callback-url", "", "URL the SPA is served from")
}

var nonProjectNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// projectNameFromDir derives a valid project name from a directory name, eg,
// 'Coffee Shop' becomes 'coffee-shop'.
func projectNameFromDir(dir string) string {
	name := nonProjectNameChars.ReplaceAllString(strings.ToLower(filepath.Base(dir)), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "spa"
	}
	return name
}

func (o *initOpts) Prepare(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return clierrors.NewUsageErrorf("Unexpected arguments: %s", strings.Join(args, " "))
	}

	o.projectDir = flagProjectConfigPath
	if o.projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return clierrors.Wrap(err, "Failed to get the current directory")
		}
		o.projectDir = wd
	} else if filepath.Base(o.projectDir) == envproj.ConfigFileName {
		o.projectDir = filepath.Dir(o.projectDir)
	}

	if o.flagProjectName == "" {
		absDir, err := filepath.Abs(o.projectDir)
		if err != nil {
			return clierrors.Wrap(err, "Failed to resolve the project directory")
		}
		o.flagProjectName = projectNameFromDir(absDir)
	}
	return nil
}

func (o *initOpts) templateData() envproj.ProjectTemplateData {
	data := envproj.DefaultProjectTemplateData(o.flagProjectName)
	overrides := []struct {
		flag   string
		target *string
	}{
		{o.flagOutputPath, &data.OutputPath},
		{o.flagAPIServerURL, &data.APIServerURL},
		{o.flagAuth0URL, &data.Auth0URL},
		{o.flagAudience, &data.Audience},
		{o.flagCallbackURL, &data.CallbackURL},
	}
	for _, override := range overrides {
		if override.flag != "" {
			*override.target = override.flag
		}
	}
	return data
}

func (o *initOpts) Run(cmd *cobra.Command) error {
	if _, err := os.Stat(filepath.Join(o.projectDir, envproj.ConfigFileName)); err == nil {
		return clierrors.Newf("%s already exists in '%s'", envproj.ConfigFileName, o.projectDir).
			WithSuggestion("Edit the existing file, or use 'spaenv set' to change a value")
	}

	configPath, projectConfig, err := envproj.GenerateProjectConfigFile(o.projectDir, o.templateData())
	if err != nil {
		return clierrors.Wrap(err, "Failed to create the project file")
	}

	log.Info().Msg(styles.RenderSuccess(fmt.Sprintf("✓ Project '%s' initialized in %s", projectConfig.Project, filepath.Dir(configPath))))
	log.Info().Msg("")
	log.Info().Msg(styles.RenderBright("Next steps:"))

	for _, env := range projectConfig.Environments {
		if env.Auth0.ClientID == envconfig.ClientIDKeyringPlaceholder {
			log.Info().Msgf("  - Store the Auth0 client ID: %s", styles.RenderTechnical("spaenv secrets set-client-id "+env.Name+" CLIENT_ID"))
		}
	}
	log.Info().Msgf("  - Check the configuration: %s", styles.RenderTechnical("spaenv validate"))
	log.Info().Msgf("  - Generate the front-end file: %s", styles.RenderTechnical("spaenv render "+projectConfig.Environments[0].Name+" --write"))
	return nil
}
