/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envproj

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/coffeeshop/spaenv/pkg/filesetwriter"
	"github.com/rs/zerolog/log"
)

var projectFileTemplate = template.Must(template.New("spaenv project config").Parse(
	`# Version of the spaenv.yaml file format.
schemaVersion: "{{.SchemaVersion}}"

# Project name, also used as the keyring namespace for client IDs.
project: {{.Project}}

# Files written by 'spaenv render --write'. Paths are relative to this file.
outputs:
  - format: ts
    path: {{.OutputPath}}

# Front-end environments. Any value can be overridden with SPAENV_* variables,
# either in the process environment or in a .env file next to this file.
# Use 'clientId: "@keyring"' to read the client ID from the OS keyring, see
# 'spaenv secrets set-client-id'.
environments:
  - name: development
    aliases: [dev, local]
    production: false
    apiServerUrl: {{.APIServerURL}}
    auth0:
      url: {{.Auth0URL}}
      audience: {{.Audience}}
      clientId: "{{.ClientID}}"
      callbackURL: {{.CallbackURL}}
`))

// Values of the starter project file written by 'spaenv init'.
type ProjectTemplateData struct {
	SchemaVersion string
	Project       string
	OutputPath    string
	APIServerURL  string
	Auth0URL      string
	Audience      string
	ClientID      string
	CallbackURL   string
}

// DefaultProjectTemplateData returns the starter values for a project: a local
// API server and Angular dev server with the client ID kept in the keyring.
func DefaultProjectTemplateData(projectName string) ProjectTemplateData {
	return ProjectTemplateData{
		SchemaVersion: DefaultSchemaVersion,
		Project:       projectName,
		OutputPath:    "src/environments/environment.ts",
		APIServerURL:  "http://127.0.0.1:5000",
		Auth0URL:      "dev-example.eu",
		Audience:      projectName,
		ClientID:      "@keyring",
		CallbackURL:   "http://localhost:4200",
	}
}

// RenderProjectConfigYAML generates the YAML content for a project config file.
// Returns the YAML string and the parsed ProjectConfig.
func RenderProjectConfigYAML(data ProjectTemplateData) (string, *ProjectConfig, error) {
	var result strings.Builder
	if err := projectFileTemplate.Execute(&result, data); err != nil {
		return "", nil, fmt.Errorf("failed to render project config file template: %w", err)
	}

	projectConfig, err := ParseProjectConfig([]byte(result.String()))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse generated project file: %w\nFull YAML:\n%s", err, result.String())
	}

	return result.String(), projectConfig, nil
}

// GenerateProjectConfigFile writes a starter spaenv.yaml into projectDir. An
// existing file is never overwritten.
func GenerateProjectConfigFile(projectDir string, data ProjectTemplateData) (string, *ProjectConfig, error) {
	configFilePath := filepath.Join(projectDir, ConfigFileName)
	yamlContent, projectConfig, err := RenderProjectConfigYAML(data)
	if err != nil {
		return configFilePath, nil, err
	}

	plan := filesetwriter.NewPlan().AddSkipExisting(configFilePath, []byte(yamlContent), 0644)
	if err := plan.Scan(); err != nil {
		return configFilePath, nil, err
	}
	if plan.FilesToWrite() == 0 {
		return configFilePath, nil, fmt.Errorf("%s already exists", configFilePath)
	}

	log.Debug().Msgf("Write project configuration to: %s", configFilePath)
	if err := plan.Execute(); err != nil {
		return configFilePath, nil, err
	}

	return configFilePath, projectConfig, nil
}

// FindProjectDirectory walks up from startDir until it finds a directory with a
// spaenv.yaml in it.
func FindProjectDirectory(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("unable to find %s in '%s' or any of its parent directories", ConfigFileName, startDir)
		}
		dir = parent
	}
}
