/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package version

import (
	"context"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const devBuild = "dev"

// GitHub repository that publishes the release binaries.
const ReleaseRepository = "coffeeshop/spaenv"

var (
	AppVersion = devBuild         // In release builds this will be overwritten via ldflags
	GitCommit  = "unknown-commit" // -"-
)

func IsDevBuild() bool {
	return AppVersion == devBuild
}

// CheckVersion prints a notice to stderrLogger if a newer release exists.
// Failures are only logged as debug: the version check never blocks a command.
func CheckVersion(ctx context.Context, stderrLogger *zerolog.Logger) {
	if IsDevBuild() {
		log.Debug().Msgf("Bypassing version checks for development builds (version is '%s')", AppVersion)
		return
	}

	log.Debug().Msgf("Checking for new spaenv version (current: v%s)", AppVersion)

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{
		APIToken: "", // Public repo doesn't need auth
	})
	if err != nil {
		log.Debug().Msgf("Failed to initialize the release source: %v", err)
		return
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source: source,
	})
	if err != nil {
		log.Debug().Msgf("Failed to initialize the updater: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(ReleaseRepository))
	if err != nil {
		log.Debug().Msgf("Failed to detect the latest spaenv version: %v", err)
		return
	}

	if found && latest.GreaterThan(AppVersion) {
		stderrLogger.Info().Msgf("spaenv v%s is available! Your currently installed version is v%s.", latest.Version(), AppVersion)
		stderrLogger.Info().Msgf("Download it from https://github.com/%s/releases/latest", ReleaseRepository)
	}
}
