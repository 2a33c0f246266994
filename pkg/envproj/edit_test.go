/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envproj

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readTestProjectFile(t *testing.T) []byte {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	return content
}

func TestSetEnvironmentFieldReplacesValue(t *testing.T) {
	updated, err := SetEnvironmentField(readTestProjectFile(t), 0, "apiServerUrl", "https://api.coffeeshop.example:8443")
	if err != nil {
		t.Fatalf("SetEnvironmentField failed: %v", err)
	}

	project, err := ParseProjectConfig(updated)
	if err != nil {
		t.Fatalf("updated file does not parse: %v\n%s", err, updated)
	}
	if got := project.Environments[0].APIServerURL; got != "https://api.coffeeshop.example:8443" {
		t.Errorf("unexpected apiServerUrl %q", got)
	}
	// Other environments are untouched.
	if got := project.Environments[1].APIServerURL; got != "https://api.coffeeshop.example" {
		t.Errorf("production apiServerUrl changed to %q", got)
	}
	// Comments elsewhere in the file are kept.
	if !strings.Contains(string(updated), "# Coffee Shop front-end environments.") {
		t.Errorf("header comment was lost:\n%s", updated)
	}
	// So is the comment on the edited line.
	if !strings.Contains(string(updated), "apiServerUrl: https://api.coffeeshop.example:8443 # the running API server url") {
		t.Errorf("line comment of the edited key was lost:\n%s", updated)
	}
}

func TestSetEnvironmentFieldKeepsNestedLineComment(t *testing.T) {
	updated, err := SetEnvironmentField(readTestProjectFile(t), 0, "auth0.audience", "coffeeshop-api")
	if err != nil {
		t.Fatalf("SetEnvironmentField failed: %v", err)
	}

	if !strings.Contains(string(updated), "audience: coffeeshop-api # the audience set for the auth0 app") {
		t.Errorf("line comment of the edited key was lost:\n%s", updated)
	}
	if !strings.Contains(string(updated), "url: dev-juanchete.eu # the auth0 domain prefix") {
		t.Errorf("neighbouring line changed:\n%s", updated)
	}
}

func TestSetEnvironmentFieldNestedAndBool(t *testing.T) {
	content := readTestProjectFile(t)

	content, err := SetEnvironmentField(content, 1, "auth0.clientId", "ProdClientId123")
	if err != nil {
		t.Fatalf("SetEnvironmentField failed: %v", err)
	}
	content, err = SetEnvironmentField(content, 0, "production", "true")
	if err != nil {
		t.Fatalf("SetEnvironmentField failed: %v", err)
	}

	project, err := ParseProjectConfig(content)
	if err != nil {
		t.Fatalf("updated file does not parse: %v\n%s", err, content)
	}
	if got := project.Environments[1].Auth0.ClientID; got != "ProdClientId123" {
		t.Errorf("unexpected clientId %q", got)
	}
	if !project.Environments[0].Production {
		t.Error("expected production to be true")
	}
}

func TestSetEnvironmentFieldAddsMissingKeys(t *testing.T) {
	content := []byte("project: coffee-shop\nenvironments:\n  - name: development\n    production: false\n")

	content, err := SetEnvironmentField(content, 0, "apiServerUrl", "http://127.0.0.1:5000")
	if err != nil {
		t.Fatalf("SetEnvironmentField failed: %v", err)
	}
	content, err = SetEnvironmentField(content, 0, "auth0.url", "dev-juanchete.eu")
	if err != nil {
		t.Fatalf("SetEnvironmentField failed: %v", err)
	}
	content, err = SetEnvironmentField(content, 0, "auth0.audience", "coffeeshop")
	if err != nil {
		t.Fatalf("SetEnvironmentField failed: %v", err)
	}

	project, err := ParseProjectConfig(content)
	if err != nil {
		t.Fatalf("updated file does not parse: %v\n%s", err, content)
	}
	env := project.Environments[0]
	if env.APIServerURL != "http://127.0.0.1:5000" || env.Auth0.URL != "dev-juanchete.eu" || env.Auth0.Audience != "coffeeshop" {
		t.Errorf("unexpected environment after edits: %+v\n%s", env, content)
	}
}

func TestSetEnvironmentFieldErrors(t *testing.T) {
	content := readTestProjectFile(t)

	if _, err := SetEnvironmentField(content, 0, "auth0.secret", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := SetEnvironmentField(content, 0, "production", "maybe"); err == nil {
		t.Error("expected error for invalid bool")
	}
	if _, err := SetEnvironmentField(content, 5, "apiServerUrl", "http://x"); err == nil {
		t.Error("expected error for missing environment index")
	}
}

func TestUpdateEnvironmentField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), string(readTestProjectFile(t)))

	project, err := UpdateEnvironmentField(dir, "dev", "auth0.callbackURL", "http://localhost:8100")
	if err != nil {
		t.Fatalf("UpdateEnvironmentField failed: %v", err)
	}
	if got := project.Environments[0].Auth0.CallbackURL; got != "http://localhost:8100" {
		t.Errorf("unexpected callbackURL %q", got)
	}

	reloaded, err := LoadProjectConfigFile(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfigFile failed: %v", err)
	}
	if got := reloaded.Environments[0].Auth0.CallbackURL; got != "http://localhost:8100" {
		t.Errorf("change was not written, got %q", got)
	}

	if _, err := UpdateEnvironmentField(dir, "staging", "apiServerUrl", "http://x"); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestNestedMapping(t *testing.T) {
	got := nestedMapping([]string{"auth0", "clientId"}, "abc")
	expected := "auth0:\n  clientId: abc\n"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
