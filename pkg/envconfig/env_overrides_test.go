/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"testing"
)

func mapLookup(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, found := vars[key]
		return value, found
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := sampleConfig()
	err := ApplyEnvOverrides(&cfg, mapLookup(map[string]string{
		"SPAENV_PRODUCTION":         "yes",
		"SPAENV_API_SERVER_URL":     " https://api.coffee.example.com ",
		"SPAENV_AUTH0_CLIENT_ID":    "ProdClientID123",
		"SPAENV_AUTH0_CALLBACK_URL": "", // empty values are ignored
	}))
	if err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}

	if !cfg.Production {
		t.Error("expected production to be overridden to true")
	}
	if cfg.APIServerURL != "https://api.coffee.example.com" {
		t.Errorf("unexpected apiServerUrl %q", cfg.APIServerURL)
	}
	if cfg.Auth0.ClientID != "ProdClientID123" {
		t.Errorf("unexpected clientId %q", cfg.Auth0.ClientID)
	}
	if cfg.Auth0.CallbackURL != "http://localhost:4200" {
		t.Errorf("expected callbackURL to be untouched, got %q", cfg.Auth0.CallbackURL)
	}
	if cfg.Auth0.URL != "dev-juanchete.eu" || cfg.Auth0.Audience != "coffeeshop" {
		t.Errorf("expected other auth0 fields to be untouched, got %+v", cfg.Auth0)
	}
}

func TestApplyEnvOverridesInvalidBool(t *testing.T) {
	cfg := sampleConfig()
	err := ApplyEnvOverrides(&cfg, mapLookup(map[string]string{"SPAENV_PRODUCTION": "maybe"}))
	if err == nil {
		t.Fatal("expected error for invalid boolean")
	}
	if cfg.Production {
		t.Error("expected production to remain false")
	}
}

func TestApplyEnvOverridesFromProcessEnvironment(t *testing.T) {
	t.Setenv("SPAENV_AUTH0_AUDIENCE", "coffeeshop-staging")

	cfg := sampleConfig()
	if err := ApplyEnvOverrides(&cfg, nil); err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}
	if cfg.Auth0.Audience != "coffeeshop-staging" {
		t.Errorf("unexpected audience %q", cfg.Auth0.Audience)
	}
}

func TestEnvVarsRoundTrip(t *testing.T) {
	original := sampleConfig()
	vars := EnvVars(original)

	if len(vars) != 6 {
		t.Fatalf("expected 6 variables, got %d: %v", len(vars), vars)
	}
	if vars["SPAENV_PRODUCTION"] != "false" {
		t.Errorf("unexpected SPAENV_PRODUCTION %q", vars["SPAENV_PRODUCTION"])
	}

	var restored EnvironmentConfig
	if err := ApplyEnvOverrides(&restored, mapLookup(vars)); err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}
	if restored != original {
		t.Errorf("round trip mismatch:\n got: %+v\nwant: %+v", restored, original)
	}
}

func TestEnvVarNames(t *testing.T) {
	expected := []string{
		"SPAENV_PRODUCTION",
		"SPAENV_API_SERVER_URL",
		"SPAENV_AUTH0_URL",
		"SPAENV_AUTH0_AUDIENCE",
		"SPAENV_AUTH0_CLIENT_ID",
		"SPAENV_AUTH0_CALLBACK_URL",
	}
	names := EnvVarNames()
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %v", len(expected), names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("name %d: expected %s, got %s", i, expected[i], names[i])
		}
	}
}
