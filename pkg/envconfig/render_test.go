/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func TestRenderTypeScript(t *testing.T) {
	out, err := Render(sampleConfig(), FormatTypeScript)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expectedLines := []string{
		"export const environment = {",
		"  production: false,",
		"  apiServerUrl: 'http://127.0.0.1:5000',",
		"    url: 'dev-juanchete.eu',",
		"    audience: 'coffeeshop',",
		"    clientId: 'UPG7VM9OB5bTxDZ9i1Y0CD1n2huE7JoD',",
		"    callbackURL: 'http://localhost:4200',",
		"};",
	}
	content := string(out)
	for _, line := range expectedLines {
		if !strings.Contains(content, line) {
			t.Errorf("expected output to contain %q, got:\n%s", line, content)
		}
	}
}

func TestTSStringEscaping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", `'plain'`},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{"two\nlines", `'two\nlines'`},
		{"sep arator", `'sep arator'`},
	}
	for _, test := range tests {
		if got := tsString(test.input); got != test.expected {
			t.Errorf("For input %q, expected %s but got %s", test.input, test.expected, got)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	out, err := Render(sampleConfig(), FormatJSON)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("rendered JSON is invalid: %v\n%s", err, out)
	}
	if parsed["production"] != false {
		t.Errorf("unexpected production %v", parsed["production"])
	}
	if parsed["apiServerUrl"] != "http://127.0.0.1:5000" {
		t.Errorf("unexpected apiServerUrl %v", parsed["apiServerUrl"])
	}
	auth0, ok := parsed["auth0"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested auth0 object, got %T", parsed["auth0"])
	}
	for _, key := range []string{"url", "audience", "clientId", "callbackURL"} {
		if _, found := auth0[key]; !found {
			t.Errorf("missing auth0.%s", key)
		}
	}
	if len(auth0) != 4 || len(parsed) != 3 {
		t.Errorf("unexpected extra keys in %s", out)
	}

	// Key order follows the record layout.
	content := string(out)
	if strings.Index(content, "production") > strings.Index(content, "apiServerUrl") ||
		strings.Index(content, "apiServerUrl") > strings.Index(content, "auth0") {
		t.Errorf("unexpected key order:\n%s", content)
	}
}

func TestRenderYAML(t *testing.T) {
	out, err := Render(sampleConfig(), FormatYAML)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var parsed EnvironmentConfig
	if err := yaml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("rendered YAML is invalid: %v\n%s", err, out)
	}
	if parsed != sampleConfig() {
		t.Errorf("YAML round trip mismatch: %+v", parsed)
	}
	if !strings.Contains(string(out), "\n  clientId: UPG7VM9OB5bTxDZ9i1Y0CD1n2huE7JoD\n") {
		t.Errorf("expected two-space indentation, got:\n%s", out)
	}
}

func TestRenderDotenvIsLoadable(t *testing.T) {
	quoted := sampleConfig()
	quoted.Auth0.CallbackURL = `http://localhost:4200/#x="1"`

	dollar := sampleConfig()
	dollar.APIServerURL = "http://127.0.0.1:5000/?home=$HOME&user=${USER}"

	hash := sampleConfig()
	hash.APIServerURL = "http://127.0.0.1:5000/ #not-a-comment"

	apostrophe := sampleConfig()
	apostrophe.Auth0.CallbackURL = "http://localhost:4200/?name=o'brien"

	backslash := sampleConfig()
	backslash.Auth0.Audience = `coffee\shop`

	tests := []struct {
		name string
		cfg  EnvironmentConfig
	}{
		{"sample", sampleConfig()},
		{"double quotes", quoted},
		{"dollar", dollar},
		{"hash", hash},
		{"apostrophe", apostrophe},
		{"backslash", backslash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(tt.cfg, FormatDotenv)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			vars, err := godotenv.Unmarshal(string(out))
			if err != nil {
				t.Fatalf("rendered dotenv is invalid: %v\n%s", err, out)
			}

			var restored EnvironmentConfig
			if err := ApplyEnvOverrides(&restored, mapLookup(vars)); err != nil {
				t.Fatalf("ApplyEnvOverrides failed: %v", err)
			}
			if restored != tt.cfg {
				t.Errorf("dotenv round trip mismatch:\n got %+v\nwant %+v\n%s", restored, tt.cfg, out)
			}
		})
	}
}

func TestRenderDotenvFieldOrder(t *testing.T) {
	out, err := Render(sampleConfig(), FormatDotenv)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	names := EnvVarNames()
	if len(lines) != len(names) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(names), len(lines), out)
	}
	for i, name := range names {
		if !strings.HasPrefix(lines[i], name+"=") {
			t.Errorf("line %d: expected %s, got %q", i, name, lines[i])
		}
	}
	if lines[1] != "SPAENV_API_SERVER_URL='http://127.0.0.1:5000'" {
		t.Errorf("unexpected line: %q", lines[1])
	}
}

func TestRenderDotenvRejectsUnrepresentableValue(t *testing.T) {
	values := []string{
		`http://localhost:4200/?q='a'#"b"`,
		`http://localhost:4200/\`,
	}
	for _, value := range values {
		cfg := sampleConfig()
		cfg.Auth0.CallbackURL = value
		if _, err := Render(cfg, FormatDotenv); err == nil {
			t.Errorf("expected error for %q", value)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	for _, format := range Formats {
		first, err := Render(sampleConfig(), format)
		if err != nil {
			t.Fatalf("Render(%s) failed: %v", format, err)
		}
		second, err := Render(sampleConfig(), format)
		if err != nil {
			t.Fatalf("Render(%s) failed: %v", format, err)
		}
		if !bytes.Equal(first, second) {
			t.Errorf("Render(%s) is not deterministic", format)
		}
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(sampleConfig(), Format("xml")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		isValid  bool
	}{
		{"ts", FormatTypeScript, true},
		{"TypeScript", FormatTypeScript, true},
		{"json", FormatJSON, true},
		{"yml", FormatYAML, true},
		{" yaml ", FormatYAML, true},
		{"env", FormatDotenv, true},
		{".env", FormatDotenv, true},
		{"xml", "", false},
		{"", "", false},
	}
	for _, test := range tests {
		got, err := ParseFormat(test.input)
		if (err == nil) != test.isValid {
			t.Errorf("For input '%s', expected valid=%v, got err=%v", test.input, test.isValid, err)
		}
		if got != test.expected {
			t.Errorf("For input '%s', expected %q but got %q", test.input, test.expected, got)
		}
	}
}

func TestPatchJSONPreservesOtherKeys(t *testing.T) {
	doc := []byte(`{"appName": "Coffee Shop", "features": {"menu": true}}`)

	out, err := PatchJSON(doc, "", sampleConfig())
	if err != nil {
		t.Fatalf("PatchJSON failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("patched JSON is invalid: %v\n%s", err, out)
	}
	if parsed["appName"] != "Coffee Shop" {
		t.Errorf("appName was lost: %s", out)
	}
	if features, ok := parsed["features"].(map[string]any); !ok || features["menu"] != true {
		t.Errorf("features were lost: %s", out)
	}
	if parsed["apiServerUrl"] != "http://127.0.0.1:5000" {
		t.Errorf("apiServerUrl not set: %s", out)
	}
	auth0 := parsed["auth0"].(map[string]any)
	if auth0["clientId"] != "UPG7VM9OB5bTxDZ9i1Y0CD1n2huE7JoD" {
		t.Errorf("auth0.clientId not set: %s", out)
	}
}

func TestPatchJSONWithPrefix(t *testing.T) {
	out, err := PatchJSON(nil, "environment", sampleConfig())
	if err != nil {
		t.Fatalf("PatchJSON failed: %v", err)
	}

	var parsed struct {
		Environment EnvironmentConfig `json:"environment"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("patched JSON is invalid: %v\n%s", err, out)
	}
	if parsed.Environment != sampleConfig() {
		t.Errorf("unexpected patched record: %+v", parsed.Environment)
	}
}

func TestPatchJSONIsIdempotent(t *testing.T) {
	doc := []byte(`{"apiServerUrl": "http://old:5000", "other": 1}`)
	first, err := PatchJSON(doc, "", sampleConfig())
	if err != nil {
		t.Fatalf("PatchJSON failed: %v", err)
	}
	second, err := PatchJSON(first, "", sampleConfig())
	if err != nil {
		t.Fatalf("PatchJSON failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("patching twice changed the document:\n%s\n%s", first, second)
	}
}

func TestPatchJSONRejectsInvalidInput(t *testing.T) {
	if _, err := PatchJSON([]byte(`{"broken":`), "", sampleConfig()); err == nil {
		t.Error("expected error for invalid JSON input")
	}
}
