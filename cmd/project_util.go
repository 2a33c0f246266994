/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"
	"os"
	"path/filepath"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/internal/tui"
	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/coffeeshop/spaenv/pkg/envproj"
	"github.com/rs/zerolog/log"
)

// Loaded spaenv.yaml and the directory it lives in.
type projectContext struct {
	Dir    string
	Config *envproj.ProjectConfig
}

// Locate the project directory, i.e., where spaenv.yaml is located.
// If flagProjectConfigPath is given, use it as the directory or project file path.
// Otherwise, walk up from the current directory.
func findProjectDirectory() (string, error) {
	if flagProjectConfigPath == "" {
		dir, err := envproj.FindProjectDirectory(".")
		if err != nil {
			return "", clierrors.Wrap(err, "Unable to find the project").
				WithSuggestion("Run 'spaenv init' to create spaenv.yaml, or point to it with --project")
		}
		return dir, nil
	}

	log.Debug().Msgf("Try to locate project in path '%s'", flagProjectConfigPath)
	info, err := os.Stat(flagProjectConfigPath)
	if err != nil {
		return "", clierrors.NewUsageErrorf("Provided path '%s' is not a file or directory", flagProjectConfigPath)
	}

	if info.IsDir() {
		if _, err := os.Stat(filepath.Join(flagProjectConfigPath, envproj.ConfigFileName)); err != nil {
			return "", clierrors.NewUsageErrorf("Unable to find %s in directory '%s'", envproj.ConfigFileName, flagProjectConfigPath)
		}
		return flagProjectConfigPath, nil
	}

	if filepath.Base(flagProjectConfigPath) != envproj.ConfigFileName {
		return "", clierrors.NewUsageErrorf("Specified file is not %s", envproj.ConfigFileName)
	}
	return filepath.Dir(flagProjectConfigPath), nil
}

// Find and load the project config file.
func resolveProject() (*projectContext, error) {
	projectDir, err := findProjectDirectory()
	if err != nil {
		return nil, err
	}

	projectConfig, err := envproj.LoadProjectConfigFile(projectDir)
	if err != nil {
		return nil, clierrors.NewConfigError(err, "Failed to load "+envproj.ConfigFileName).
			WithSuggestion("Fix the project file and try again")
	}

	return &projectContext{Dir: projectDir, Config: projectConfig}, nil
}

// chooseEnvironment returns the environment named by nameOrAlias. If it is
// empty, the user is asked to pick one in interactive mode.
func (p *projectContext) chooseEnvironment(nameOrAlias string) (*envproj.ProjectEnvironmentConfig, error) {
	if nameOrAlias == "" {
		if !tui.IsInteractiveMode() {
			return nil, clierrors.NewUsageError("Missing argument ENVIRONMENT").
				WithSuggestion("Specify the environment when running in a non-interactive shell")
		}
		return tui.ChooseEnvironmentDialog(p.Config.Environments)
	}

	envConfig, err := p.Config.FindEnvironmentConfig(nameOrAlias)
	if err != nil {
		return nil, clierrors.WrapUsageError(err, "Unknown environment '"+nameOrAlias+"'").
			WithSuggestion("Run 'spaenv env list' to see the environments")
	}
	return envConfig, nil
}

// resolveEnvironment resolves the final record of an environment from the
// project file, .env files, the process environment, and the keyring.
func (p *projectContext) resolveEnvironment(envConfig *envproj.ProjectEnvironmentConfig) (envconfig.EnvironmentConfig, error) {
	cfg, err := envproj.ResolveEnvironment(p.Config, envConfig.Name, envproj.ResolveOptions{ProjectDir: p.Dir})
	if err == nil {
		return cfg, nil
	}

	var verr *envconfig.ValidationError
	if errors.As(err, &verr) {
		return cfg, clierrors.NewConfigError(err, "Environment '"+envConfig.Name+"' has an invalid configuration").
			WithSuggestion(configErrorSuggestion(verr))
	}
	return cfg, clierrors.NewConfigError(err, "Failed to resolve environment '"+envConfig.Name+"'")
}

// configErrorSuggestion points at the right place to fix a validation error.
func configErrorSuggestion(verr *envconfig.ValidationError) string {
	if verr.HasField("auth0.clientId") {
		return "Store the client ID with 'spaenv secrets set-client-id', or set it in spaenv.yaml or SPAENV_AUTH0_CLIENT_ID"
	}
	return "Fix the values in " + envproj.ConfigFileName + " or the SPAENV_* environment variables"
}

// activateEnvironment chooses and resolves an environment, then makes it the
// active record of this process.
func (p *projectContext) activateEnvironment(nameOrAlias string) (*envproj.ProjectEnvironmentConfig, envconfig.EnvironmentConfig, error) {
	envConfig, err := p.chooseEnvironment(nameOrAlias)
	if err != nil {
		return nil, envconfig.EnvironmentConfig{}, err
	}

	cfg, err := p.resolveEnvironment(envConfig)
	if err != nil {
		return nil, envconfig.EnvironmentConfig{}, err
	}

	if err := envconfig.Activate(cfg); err != nil {
		return nil, envconfig.EnvironmentConfig{}, clierrors.Wrap(err, "Failed to activate environment '"+envConfig.Name+"'")
	}
	return envConfig, envconfig.MustCurrent(), nil
}

// logLintWarnings prints the non-fatal findings of a record.
func logLintWarnings(cfg envconfig.EnvironmentConfig) {
	for _, warning := range cfg.Lint() {
		log.Warn().Msgf("Warning: %s", warning)
	}
}
