/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envproj

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/rs/zerolog/log"
)

// Keys of an environment that can be edited with SetEnvironmentField.
var EditableKeys = []string{
	"production",
	"apiServerUrl",
	"auth0.url",
	"auth0.audience",
	"auth0.clientId",
	"auth0.callbackURL",
}

// SetEnvironmentField sets one key of the environment at envIndex in the
// content of a spaenv.yaml file and returns the updated content. The edit is
// done on the YAML AST so that ordering, comments, and whitespace in the rest of
// the file are retained. Missing keys are added to the closest existing parent.
func SetEnvironmentField(content []byte, envIndex int, key string, value string) ([]byte, error) {
	if !slices.Contains(EditableKeys, key) {
		return nil, fmt.Errorf("unknown key '%s': must be one of %s", key, strings.Join(EditableKeys, ", "))
	}

	scalar, err := encodeScalar(key, value)
	if err != nil {
		return nil, err
	}

	root, err := parser.ParseBytes(content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	envPath := fmt.Sprintf("$.environments[%d]", envIndex)
	if node, err := filterNode(root, envPath); err != nil || node == nil {
		return nil, fmt.Errorf("environment at index %d not found in %s", envIndex, ConfigFileName)
	}

	// Walk from the full key towards the environment root, and edit at the
	// deepest node that exists.
	segments := strings.Split(key, ".")
	for depth := len(segments); depth >= 0; depth-- {
		nodePath := envPath
		if depth > 0 {
			nodePath += "." + strings.Join(segments[:depth], ".")
		}
		node, err := filterNode(root, nodePath)
		if err != nil || node == nil {
			continue
		}

		path, err := yaml.PathString(nodePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create path '%s': %w", nodePath, err)
		}

		_, isNull := node.(*ast.NullNode)
		switch {
		case depth == len(segments):
			log.Debug().Msgf("Replace %s with %s", nodePath, scalar)
			err = replaceKeepingComment(root, path, node, scalar)
		case isNull:
			log.Debug().Msgf("Replace empty %s with %s", nodePath, strings.Join(segments[depth:], "."))
			err = path.ReplaceWithReader(root, strings.NewReader(nestedMapping(segments[depth:], scalar)))
		default:
			log.Debug().Msgf("Add %s under %s", strings.Join(segments[depth:], "."), nodePath)
			err = path.MergeFromReader(root, strings.NewReader(nestedMapping(segments[depth:], scalar)))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to set '%s': %w", key, err)
		}

		out := root.String()
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		return []byte(out), nil
	}

	return nil, fmt.Errorf("failed to locate '%s' in environment at index %d", key, envIndex)
}

// UpdateEnvironmentField edits one key of an environment in the spaenv.yaml of
// projectDir and writes the file back. The edited file must still load.
func UpdateEnvironmentField(projectDir string, environment string, key string, value string) (*ProjectConfig, error) {
	configFilePath := filepath.Join(projectDir, ConfigFileName)
	content, err := os.ReadFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config file: %w", err)
	}

	project, err := ParseProjectConfig(content)
	if err != nil {
		return nil, err
	}
	envConfig, err := project.FindEnvironmentConfig(environment)
	if err != nil {
		return nil, err
	}

	updated, err := SetEnvironmentField(content, project.indexOfEnvironment(envConfig.Name), key, value)
	if err != nil {
		return nil, err
	}

	updatedProject, err := ParseProjectConfig(updated)
	if err != nil {
		return nil, fmt.Errorf("edited project config is not valid: %w", err)
	}

	log.Debug().Msgf("Write updated project configuration to: %s", configFilePath)
	if err := os.WriteFile(configFilePath, updated, 0644); err != nil {
		return nil, fmt.Errorf("failed to write project config file: %w", err)
	}
	return updatedProject, nil
}

// Replace the value at path with scalar. The line comment of the old value
// (eg, 'url: x # the tenant') moves over to the new value.
func replaceKeepingComment(root *ast.File, path *yaml.Path, old ast.Node, scalar string) error {
	file, err := parser.ParseBytes([]byte(scalar), 0)
	if err != nil {
		return err
	}
	if len(file.Docs) != 1 || file.Docs[0].Body == nil {
		return fmt.Errorf("value '%s' is not a single YAML scalar", scalar)
	}

	value := file.Docs[0].Body
	if comment := old.GetComment(); comment != nil {
		if err := value.SetComment(comment); err != nil {
			return err
		}
	}
	return path.ReplaceWithNode(root, value)
}

func filterNode(root *ast.File, pathString string) (ast.Node, error) {
	path, err := yaml.PathString(pathString)
	if err != nil {
		return nil, err
	}
	return path.FilterFile(root)
}

// encodeScalar converts the value of a key into a YAML scalar.
func encodeScalar(key, value string) (string, error) {
	if key == "production" {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("invalid value '%s' for 'production': must be true or false", value)
		}
		return strconv.FormatBool(b), nil
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode value for '%s': %w", key, err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// nestedMapping renders 'a.b: value' as a block mapping with two-space indentation.
func nestedMapping(segments []string, scalar string) string {
	var b strings.Builder
	for ndx, segment := range segments {
		b.WriteString(strings.Repeat("  ", ndx))
		b.WriteString(segment)
		b.WriteString(":")
		if ndx == len(segments)-1 {
			b.WriteString(" ")
			b.WriteString(scalar)
		}
		b.WriteString("\n")
	}
	return b.String()
}
