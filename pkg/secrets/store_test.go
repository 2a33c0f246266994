/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package secrets

import (
	"errors"
	"testing"

	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/zalando/go-keyring"
)

const testClientID = "UPG7VM9OB5bTxDZ9i1Y0CD1n2huE7JoD"

func TestClientIDKey(t *testing.T) {
	if got := clientIDKey("coffee-shop", "development"); got != "coffee-shop/development/clientId" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestSetGetDeleteClientID(t *testing.T) {
	keyring.MockInit()

	if _, err := GetClientID("coffee-shop", "development"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before storing, got %v", err)
	}

	if err := SetClientID("coffee-shop", "development", "  "+testClientID+"\n"); err != nil {
		t.Fatalf("SetClientID failed: %v", err)
	}

	got, err := GetClientID("coffee-shop", "development")
	if err != nil {
		t.Fatalf("GetClientID failed: %v", err)
	}
	if got != testClientID {
		t.Errorf("expected %q, got %q", testClientID, got)
	}

	// Environments are stored separately.
	if _, err := GetClientID("coffee-shop", "production"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other environment, got %v", err)
	}

	if err := DeleteClientID("coffee-shop", "development"); err != nil {
		t.Fatalf("DeleteClientID failed: %v", err)
	}
	if err := DeleteClientID("coffee-shop", "development"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSetClientIDRejectsInvalidValues(t *testing.T) {
	keyring.MockInit()

	for _, value := range []string{"", "   ", envconfig.ClientIDKeyringPlaceholder} {
		if err := SetClientID("coffee-shop", "development", value); err == nil {
			t.Errorf("expected error for value %q", value)
		}
	}
}

func TestResolvePlaceholder(t *testing.T) {
	keyring.MockInit()

	cfg := envconfig.EnvironmentConfig{}
	cfg.Auth0.ClientID = envconfig.ClientIDKeyringPlaceholder

	// Missing entry leaves the placeholder for validation to report.
	if err := ResolvePlaceholder("coffee-shop", "development", &cfg); err != nil {
		t.Fatalf("ResolvePlaceholder failed: %v", err)
	}
	if cfg.Auth0.ClientID != envconfig.ClientIDKeyringPlaceholder {
		t.Errorf("expected placeholder to stay, got %q", cfg.Auth0.ClientID)
	}

	if err := SetClientID("coffee-shop", "development", testClientID); err != nil {
		t.Fatalf("SetClientID failed: %v", err)
	}
	if err := ResolvePlaceholder("coffee-shop", "development", &cfg); err != nil {
		t.Fatalf("ResolvePlaceholder failed: %v", err)
	}
	if cfg.Auth0.ClientID != testClientID {
		t.Errorf("expected resolved client ID, got %q", cfg.Auth0.ClientID)
	}
}

func TestResolvePlaceholderKeepsLiteralClientID(t *testing.T) {
	keyring.MockInit()
	if err := SetClientID("coffee-shop", "development", "from-keyring"); err != nil {
		t.Fatalf("SetClientID failed: %v", err)
	}

	cfg := envconfig.EnvironmentConfig{}
	cfg.Auth0.ClientID = testClientID
	if err := ResolvePlaceholder("coffee-shop", "development", &cfg); err != nil {
		t.Fatalf("ResolvePlaceholder failed: %v", err)
	}
	if cfg.Auth0.ClientID != testClientID {
		t.Errorf("literal client ID was replaced with %q", cfg.Auth0.ClientID)
	}
}

func TestResolvePlaceholderPropagatesKeyringErrors(t *testing.T) {
	keyring.MockInitWithError(errors.New("keyring locked"))

	cfg := envconfig.EnvironmentConfig{}
	cfg.Auth0.ClientID = envconfig.ClientIDKeyringPlaceholder
	if err := ResolvePlaceholder("coffee-shop", "development", &cfg); err == nil {
		t.Error("expected keyring error to be returned")
	}
}
