/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envproj

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/coffeeshop/spaenv/pkg/secrets"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Variable that points to an explicit .env file, replacing the default lookup.
const EnvFileVariable = "ENV_FILE"

// Default .env files, in increasing order of precedence.
var defaultEnvFiles = []string{".env", ".env.local"}

// SecretResolver resolves the client ID placeholder of a record.
type SecretResolver func(project, environment string, cfg *envconfig.EnvironmentConfig) error

// ResolveOptions controls how ResolveEnvironment layers its sources.
type ResolveOptions struct {
	ProjectDir     string               // Directory of spaenv.yaml, used to locate .env files.
	Lookup         envconfig.LookupFunc // Process environment lookup (defaults to os.LookupEnv).
	SkipEnvFiles   bool                 // Don't read any .env files.
	ResolveSecrets SecretResolver       // Keyring resolver (defaults to secrets.ResolvePlaceholder).
}

// ResolveEnvironment builds the final record of an environment: the values from
// spaenv.yaml, overlaid with .env files, then the process environment, then the
// keyring for a '@keyring' client ID. The result is validated and returned by
// value. Resolving the same inputs twice yields identical records.
func ResolveEnvironment(project *ProjectConfig, environment string, opts ResolveOptions) (envconfig.EnvironmentConfig, error) {
	envConfig, err := project.FindEnvironmentConfig(environment)
	if err != nil {
		return envconfig.EnvironmentConfig{}, err
	}

	// Copy the record so that the project config is never modified.
	cfg := envConfig.EnvironmentConfig

	lookup := opts.Lookup
	if lookup == nil {
		lookup = envconfig.OSLookup
	}

	// Layer .env files under the process environment.
	if !opts.SkipEnvFiles {
		dotenvVars, err := readEnvFiles(opts.ProjectDir, lookup)
		if err != nil {
			return envconfig.EnvironmentConfig{}, err
		}
		lookup = layeredLookup(lookup, dotenvVars)
	}

	if err := envconfig.ApplyEnvOverrides(&cfg, lookup); err != nil {
		return envconfig.EnvironmentConfig{}, fmt.Errorf("failed to apply environment overrides to '%s': %w", envConfig.Name, err)
	}

	resolveSecrets := opts.ResolveSecrets
	if resolveSecrets == nil {
		resolveSecrets = secrets.ResolvePlaceholder
	}
	if err := resolveSecrets(project.Project, envConfig.Name, &cfg); err != nil {
		return envconfig.EnvironmentConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return envconfig.EnvironmentConfig{}, err
	}

	log.Debug().Msgf("Resolved environment '%s': production=%v, apiServerUrl=%s", envConfig.Name, cfg.Production, cfg.APIServerURL)
	return cfg, nil
}

// readEnvFiles reads the .env files of the project without modifying the
// process environment. If ENV_FILE is set, only that file is read and it must
// exist. Otherwise the default files are read when present.
func readEnvFiles(projectDir string, lookup envconfig.LookupFunc) (map[string]string, error) {
	if explicit, found := lookup(EnvFileVariable); found && explicit != "" {
		path := explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectDir, path)
		}
		log.Debug().Msgf("Read env file from %s: %s", EnvFileVariable, path)
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file '%s' (from %s): %w", path, EnvFileVariable, err)
		}
		return vars, nil
	}

	files := []string{}
	for _, name := range defaultEnvFiles {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return map[string]string{}, nil
	}

	// Later files override earlier ones.
	log.Debug().Msgf("Read env files: %v", files)
	vars, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to read env files: %w", err)
	}
	return vars, nil
}

// layeredLookup returns a lookup where the primary source wins over fallback.
func layeredLookup(primary envconfig.LookupFunc, fallback map[string]string) envconfig.LookupFunc {
	return func(key string) (string, bool) {
		if value, found := primary(key); found && value != "" {
			return value, true
		}
		value, found := fallback[key]
		return value, found
	}
}
