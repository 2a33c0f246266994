/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"fmt"
	"strings"

	"github.com/coffeeshop/spaenv/pkg/envproj"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
)

// ChooseEnvironmentDialog asks the user to pick one of the project's environments.
func ChooseEnvironmentDialog(environments []envproj.ProjectEnvironmentConfig) (*envproj.ProjectEnvironmentConfig, error) {
	selected, err := ChooseFromListDialog(
		"Select Environment",
		environments,
		func(env *envproj.ProjectEnvironmentConfig) (string, string) {
			return env.Name, describeEnvironment(env)
		},
	)
	if err != nil {
		return nil, err
	}

	log.Info().Msgf(" %s %s", styles.RenderSuccess("✓"), selected.Name)
	return selected, nil
}

func describeEnvironment(env *envproj.ProjectEnvironmentConfig) string {
	parts := []string{}
	if len(env.Aliases) > 0 {
		parts = append(parts, strings.Join(env.Aliases, ", "))
	}
	if env.Production {
		parts = append(parts, "production")
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, "; "))
}
