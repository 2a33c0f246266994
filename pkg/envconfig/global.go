/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrAlreadyActive is returned when activating a record while a different one
// is already active in this process.
var ErrAlreadyActive = errors.New("a different environment config is already active")

var (
	activeMu     sync.RWMutex
	activeConfig *EnvironmentConfig
)

// Activate validates cfg and makes it the process-wide active record. Only one
// record can be active for the lifetime of the process: activating the same
// record again is a no-op, activating a different one fails with ErrAlreadyActive.
func Activate(cfg EnvironmentConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	activeMu.Lock()
	defer activeMu.Unlock()

	if activeConfig != nil {
		if *activeConfig == cfg {
			return nil
		}
		return ErrAlreadyActive
	}

	log.Debug().Msgf("Activate environment config (production=%v, apiServerUrl=%s)", cfg.Production, cfg.APIServerURL)
	activeConfig = &cfg
	return nil
}

// Current returns a copy of the active record, or false if none was activated.
func Current() (EnvironmentConfig, bool) {
	activeMu.RLock()
	defer activeMu.RUnlock()

	if activeConfig == nil {
		return EnvironmentConfig{}, false
	}
	return *activeConfig, true
}

// MustCurrent is like Current but panics if no record is active. Use it in code
// that only runs after startup has activated the configuration.
func MustCurrent() EnvironmentConfig {
	cfg, ok := Current()
	if !ok {
		log.Panic().Msg("Environment config accessed before it was activated")
	}
	return cfg
}

