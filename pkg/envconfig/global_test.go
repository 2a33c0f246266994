/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"errors"
	"testing"
)

// resetActive clears the process-wide record between tests.
func resetActive() {
	activeMu.Lock()
	activeConfig = nil
	activeMu.Unlock()
}

func TestActivate(t *testing.T) {
	resetActive()
	t.Cleanup(resetActive)

	if _, ok := Current(); ok {
		t.Fatal("expected no active config before Activate")
	}

	cfg := sampleConfig()
	if err := Activate(cfg); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	active, ok := Current()
	if !ok {
		t.Fatal("expected an active config")
	}
	if active != cfg {
		t.Errorf("active config mismatch: %+v", active)
	}

	// Mutating the returned copy does not affect the active record.
	active.APIServerURL = "http://evil.example.com"
	if MustCurrent().APIServerURL != "http://127.0.0.1:5000" {
		t.Error("active record was mutated through a returned copy")
	}

	// Same record again is a no-op.
	if err := Activate(sampleConfig()); err != nil {
		t.Errorf("re-activating identical config failed: %v", err)
	}

	// A different record is rejected.
	other := sampleConfig()
	other.Production = true
	if err := Activate(other); !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("expected ErrAlreadyActive, got %v", err)
	}
}

func TestActivateRejectsInvalidConfig(t *testing.T) {
	resetActive()
	t.Cleanup(resetActive)

	cfg := sampleConfig()
	cfg.Auth0.CallbackURL = "not a url"

	err := Activate(cfg)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, ok := Current(); ok {
		t.Error("invalid config must not become active")
	}
}

func TestMustCurrentPanicsWhenInactive(t *testing.T) {
	resetActive()

	defer func() {
		if recover() == nil {
			t.Error("expected MustCurrent to panic")
		}
	}()
	MustCurrent()
}
