/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Output format of a rendered record.
type Format string

const (
	FormatTypeScript Format = "ts"     // Angular/Ionic 'environment.ts' module.
	FormatJSON       Format = "json"   // Runtime config JSON, eg, 'assets/env.json'.
	FormatYAML       Format = "yaml"   // Same shape as JSON, in YAML.
	FormatDotenv     Format = "dotenv" // SPAENV_* variables, loadable back through ApplyEnvOverrides.
)

// All supported formats, in the order shown in help texts.
var Formats = []Format{FormatTypeScript, FormatJSON, FormatYAML, FormatDotenv}

// ParseFormat converts a user-provided format name into a Format. Accepts a few
// common aliases (eg, 'typescript', 'yml', 'env').
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ts", "typescript":
		return FormatTypeScript, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "dotenv", "env", ".env":
		return FormatDotenv, nil
	}
	return "", fmt.Errorf("unknown format '%s': must be one of %s", name, joinFormats())
}

func joinFormats() string {
	names := make([]string, 0, len(Formats))
	for _, f := range Formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

var typeScriptTemplate = template.Must(template.New("environment.ts").Funcs(template.FuncMap{
	"ts": tsString,
}).Parse(`// Code generated by spaenv. DO NOT EDIT.

export const environment = {
  production: {{.Production}},
  apiServerUrl: {{ts .APIServerURL}}, // the running API server url
  auth0: {
    url: {{ts .Auth0.URL}}, // the auth0 domain prefix
    audience: {{ts .Auth0.Audience}}, // the audience set for the auth0 app
    clientId: {{ts .Auth0.ClientID}}, // the client id generated for the auth0 app
    callbackURL: {{ts .Auth0.CallbackURL}}, // the base url of the running application
  }
};
`))

// tsString quotes a value as a single-quoted TypeScript string literal.
func tsString(value string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Render serializes the record into the given format. The output is
// deterministic: rendering the same record twice yields identical bytes.
func Render(cfg EnvironmentConfig, format Format) ([]byte, error) {
	switch format {
	case FormatTypeScript:
		var buf bytes.Buffer
		if err := typeScriptTemplate.Execute(&buf, cfg); err != nil {
			return nil, fmt.Errorf("failed to render environment.ts template: %w", err)
		}
		return buf.Bytes(), nil

	case FormatJSON:
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal environment config to JSON: %w", err)
		}
		return append(out, '\n'), nil

	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to marshal environment config to YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal environment config to YAML: %w", err)
		}
		return buf.Bytes(), nil

	case FormatDotenv:
		out, err := marshalDotenv(EnvVars(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal environment config to dotenv: %w", err)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown format '%s': must be one of %s", format, joinFormats())
}

// Write the variables in field order. Values are single-quoted, which dotenv
// parsers read literally. Values that cannot be single-quoted fall back to
// godotenv's double-quoted escaping, and the line is read back to make sure it
// loads as the same value.
func marshalDotenv(vars map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	for _, name := range EnvVarNames() {
		value := vars[name]
		line := fmt.Sprintf("%s='%s'", name, value)
		if strings.Contains(value, "'") {
			quoted, err := godotenv.Marshal(map[string]string{name: value})
			if err != nil {
				return nil, err
			}
			line = quoted
		}

		parsed, err := godotenv.Unmarshal(line)
		if err != nil || parsed[name] != value {
			return nil, fmt.Errorf("value of %s cannot be represented in a .env file: %q", name, value)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// PatchJSON sets the record's keys inside an existing JSON document, leaving
// every other key and the document's formatting untouched. The prefix is a
// dot-separated path to the object that holds the record ("" for the root).
func PatchJSON(doc []byte, prefix string, cfg EnvironmentConfig) ([]byte, error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		doc = []byte("{}")
	}
	if !json.Valid(doc) {
		return nil, fmt.Errorf("input is not a valid JSON document")
	}

	keyPath := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	values := []struct {
		path  string
		value any
	}{
		{keyPath("production"), cfg.Production},
		{keyPath("apiServerUrl"), cfg.APIServerURL},
		{keyPath("auth0.url"), cfg.Auth0.URL},
		{keyPath("auth0.audience"), cfg.Auth0.Audience},
		{keyPath("auth0.clientId"), cfg.Auth0.ClientID},
		{keyPath("auth0.callbackURL"), cfg.Auth0.CallbackURL},
	}

	out := doc
	for _, v := range values {
		var err error
		out, err = sjson.SetBytes(out, v.path, v.value)
		if err != nil {
			return nil, fmt.Errorf("failed to set '%s': %w", v.path, err)
		}
	}
	return out, nil
}
