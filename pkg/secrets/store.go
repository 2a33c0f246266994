/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

// Package secrets keeps per-environment client IDs in the OS keyring so that
// they do not need to be committed into spaenv.yaml.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
)

// Keyring service under which all values are stored.
const ServiceName = "spaenv"

// ErrNotFound is returned when no client ID is stored for an environment.
var ErrNotFound = errors.New("client ID not found in keyring")

// Keyring user key for an environment's client ID, eg, 'coffee-shop/development/clientId'.
func clientIDKey(project, environment string) string {
	return fmt.Sprintf("%s/%s/clientId", project, environment)
}

// SetClientID stores the client ID of an environment, replacing any earlier value.
func SetClientID(project, environment, clientID string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("client ID must not be empty")
	}
	if clientID == envconfig.ClientIDKeyringPlaceholder {
		return fmt.Errorf("client ID must not be the '%s' placeholder itself", envconfig.ClientIDKeyringPlaceholder)
	}

	key := clientIDKey(project, environment)
	log.Debug().Msgf("Store client ID in keyring: service=%s, key=%s", ServiceName, key)
	if err := keyring.Set(ServiceName, key, clientID); err != nil {
		return fmt.Errorf("failed to store client ID in keyring: %w", err)
	}
	return nil
}

// GetClientID returns the stored client ID of an environment, or ErrNotFound.
func GetClientID(project, environment string) (string, error) {
	key := clientIDKey(project, environment)
	value, err := keyring.Get(ServiceName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read client ID from keyring: %w", err)
	}
	return value, nil
}

// DeleteClientID removes the stored client ID of an environment. Deleting a
// value that does not exist returns ErrNotFound.
func DeleteClientID(project, environment string) error {
	key := clientIDKey(project, environment)
	log.Debug().Msgf("Delete client ID from keyring: service=%s, key=%s", ServiceName, key)
	if err := keyring.Delete(ServiceName, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete client ID from keyring: %w", err)
	}
	return nil
}

// ResolvePlaceholder replaces a '@keyring' client ID with the value stored for
// the environment. Records with a literal client ID are left untouched. A
// missing keyring entry is not an error here: the placeholder stays in place
// and validation reports it with instructions.
func ResolvePlaceholder(project, environment string, cfg *envconfig.EnvironmentConfig) error {
	if cfg.Auth0.ClientID != envconfig.ClientIDKeyringPlaceholder {
		return nil
	}

	clientID, err := GetClientID(project, environment)
	if errors.Is(err, ErrNotFound) {
		log.Debug().Msgf("No client ID in keyring for %s/%s", project, environment)
		return nil
	} else if err != nil {
		return err
	}

	cfg.Auth0.ClientID = clientID
	return nil
}
