/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envproj

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// Name of the project config file.
const ConfigFileName = "spaenv.yaml"

// Schema version written by 'spaenv init' and assumed when the field is missing.
const DefaultSchemaVersion = "1.0"

// Range of project file schema versions this build understands.
var supportedSchemaVersions = version.MustConstraints(version.NewConstraint(">= 1.0, < 2.0"))

// Reserved names that cannot be used as environment aliases.
var reservedAliases = []string{
	"all",
	"default",
	"none",
	"self",
	"current",
}

var (
	projectNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	// Only lowercase alphanumeric and dashes allowed, cannot start/end with dash.
	aliasPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Output artifact written by 'spaenv render --write' ($.outputs[] in spaenv.yaml).
type OutputConfig struct {
	Format envconfig.Format `yaml:"format"` // Output format, eg, 'ts' or 'json'.
	Path   string           `yaml:"path"`   // Path relative to spaenv.yaml. May contain '{environment}'.
}

// ResolvePath returns the output path for an environment, relative to the project directory.
func (output *OutputConfig) ResolvePath(environment string) string {
	return filepath.FromSlash(strings.ReplaceAll(output.Path, "{environment}", environment))
}

// Per-environment configuration from 'spaenv.yaml'. The record fields are
// inlined so that the file mirrors the rendered environment object.
type ProjectEnvironmentConfig struct {
	Name                        string   `yaml:"name"`              // Name of the environment, eg, 'development'.
	Aliases                     []string `yaml:"aliases,omitempty"` // Alternative names accepted on the command line.
	envconfig.EnvironmentConfig `yaml:",inline"`
}

// Project config file, named `spaenv.yaml`.
// Note: When adding new fields, remember to update ValidateProjectConfig().
type ProjectConfig struct {
	SchemaVersion string                     `yaml:"schemaVersion"` // Version of the file format, eg, '1.0'.
	Project       string                     `yaml:"project"`       // Project name, used as the keyring namespace.
	Outputs       []OutputConfig             `yaml:"outputs,omitempty"`
	Environments  []ProjectEnvironmentConfig `yaml:"environments"`
}

// Load the project config file (spaenv.yaml) from the project directory.
func LoadProjectConfigFile(projectDir string) (*ProjectConfig, error) {
	// Check that the provided path points to a directory.
	info, err := os.Stat(projectDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("the provided project path '%s' is not a directory", projectDir)
	}

	content, err := os.ReadFile(filepath.Join(projectDir, ConfigFileName))
	if err != nil {
		return nil, err
	}

	return ParseProjectConfig(content)
}

// ParseProjectConfig parses, applies defaults to, and validates the content of a
// project config file.
func ParseProjectConfig(content []byte) (*ProjectConfig, error) {
	var projectConfig ProjectConfig
	if err := yaml.Unmarshal(content, &projectConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	ApplyProjectConfigDefaults(&projectConfig)

	if err := ValidateProjectConfig(&projectConfig); err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", ConfigFileName, err)
	}

	return &projectConfig, nil
}

// Apply any defaults to the project config which are not required to be specified.
func ApplyProjectConfigDefaults(config *ProjectConfig) {
	if config.SchemaVersion == "" {
		config.SchemaVersion = DefaultSchemaVersion
	}
}

// Check that the provided project config is structurally valid. The records of
// the environments are validated only when an environment is resolved, as they
// may depend on environment variables and the keyring.
func ValidateProjectConfig(config *ProjectConfig) error {
	// Schema version.
	schemaVersion, err := version.NewVersion(config.SchemaVersion)
	if err != nil {
		return fmt.Errorf("invalid schemaVersion '%s': %w", config.SchemaVersion, err)
	}
	if !supportedSchemaVersions.Check(schemaVersion) {
		return fmt.Errorf("unsupported schemaVersion '%s': this version of spaenv supports %s", config.SchemaVersion, supportedSchemaVersions)
	}

	// Project identity.
	if config.Project == "" {
		return fmt.Errorf("missing required field 'project'")
	}
	if !projectNamePattern.MatchString(config.Project) {
		return fmt.Errorf("invalid project '%s': must contain only lowercase alphanumeric characters and dashes, and cannot start or end with a dash", config.Project)
	}

	// Outputs.
	for ndx, output := range config.Outputs {
		if _, err := envconfig.ParseFormat(string(output.Format)); err != nil {
			return fmt.Errorf("outputs[%d]: %w", ndx, err)
		}
		if output.Path == "" {
			return fmt.Errorf("outputs[%d] did not specify required field 'path'", ndx)
		}
		if filepath.IsAbs(output.Path) {
			return fmt.Errorf("outputs[%d].path ('%s') is an absolute path: all paths must be relative", ndx, output.Path)
		}
	}

	// Environments.
	names := make(map[string]bool)
	for envNdx, envConfig := range config.Environments {
		if envConfig.Name == "" {
			return fmt.Errorf("environment at index %d did not specify required field 'name'", envNdx)
		}
		if !aliasPattern.MatchString(envConfig.Name) {
			return fmt.Errorf("environment '%s' has invalid name: must contain only lowercase alphanumeric characters and dashes", envConfig.Name)
		}
		if names[envConfig.Name] {
			return fmt.Errorf("environment name '%s' is used more than once", envConfig.Name)
		}
		names[envConfig.Name] = true
	}

	// Environment aliases.
	aliasToEnvName := make(map[string]string)
	for _, envConfig := range config.Environments {
		for _, alias := range envConfig.Aliases {
			if err := validateAlias(alias); err != nil {
				return fmt.Errorf("environment '%s' has invalid alias: %w", envConfig.Name, err)
			}

			// Check for duplicate aliases across environments.
			if existingEnv, exists := aliasToEnvName[alias]; exists {
				return fmt.Errorf("alias '%s' is used by both environments '%s' and '%s'", alias, existingEnv, envConfig.Name)
			}
			aliasToEnvName[alias] = envConfig.Name

			// Check that alias doesn't conflict with any environment name.
			if names[alias] {
				return fmt.Errorf("alias '%s' in environment '%s' conflicts with the name of another environment", alias, envConfig.Name)
			}
		}
	}

	return nil
}

// validateAlias checks if an environment alias is valid.
func validateAlias(alias string) error {
	if alias == "" {
		return fmt.Errorf("alias cannot be empty")
	}
	if len(alias) > 30 {
		return fmt.Errorf("alias must be at most 30 characters")
	}
	if !aliasPattern.MatchString(alias) {
		return fmt.Errorf("alias must contain only lowercase alphanumeric characters and dashes, and cannot start or end with a dash")
	}
	if slices.Contains(reservedAliases, alias) {
		return fmt.Errorf("alias '%s' is reserved and cannot be used", alias)
	}
	return nil
}

// Find a matching environment from the project config.
// The 'environment' argument can match the name or an alias of the environment.
func (projectConfig *ProjectConfig) FindEnvironmentConfig(environment string) (*ProjectEnvironmentConfig, error) {
	for ndx := range projectConfig.Environments {
		envConfig := &projectConfig.Environments[ndx]
		if envConfig.Name == environment || slices.Contains(envConfig.Aliases, environment) {
			return envConfig, nil
		}
	}

	if len(projectConfig.Environments) == 0 {
		return nil, fmt.Errorf("no environment matching '%s' found: %s does not define any environments", environment, ConfigFileName)
	}
	return nil, fmt.Errorf("no environment matching '%s' found in project config. The valid environments are: %s", environment, strings.Join(projectConfig.environmentIdentifiers(), ", "))
}

// indexOfEnvironment returns the position of the environment in $.environments, or -1.
func (projectConfig *ProjectConfig) indexOfEnvironment(name string) int {
	for ndx, envConfig := range projectConfig.Environments {
		if envConfig.Name == name {
			return ndx
		}
	}
	return -1
}

// environmentIdentifiers returns all valid identifiers for environments in the
// project, including names and aliases.
func (projectConfig *ProjectConfig) environmentIdentifiers() []string {
	identifiers := make([]string, 0)
	for _, env := range projectConfig.Environments {
		identifiers = append(identifiers, env.Name)
		identifiers = append(identifiers, env.Aliases...)
	}
	return identifiers
}
