/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"github.com/coffeeshop/spaenv/internal/pathutil"
	"github.com/coffeeshop/spaenv/internal/version"
	"github.com/coffeeshop/spaenv/pkg/styles"
	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type updateCliOpts struct{}

func init() {
	o := updateCliOpts{}

	var cmd = &cobra.Command{
		Use:   "cli",
		Short: "Update spaenv to the latest release",
		Run:   runCommand(&o),
	}

	updateCmd.AddCommand(cmd)
}

func (o *updateCliOpts) Prepare(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *updateCliOpts) Run(cmd *cobra.Command) error {
	if version.IsDevBuild() {
		return clierrors.New("The update command is disabled on development builds")
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return clierrors.Wrap(err, "Failed to initialize the updater")
	}

	latest, found, err := updater.DetectLatest(cmd.Context(), selfupdate.ParseSlug(version.ReleaseRepository))
	if err != nil {
		return clierrors.Wrap(err, "Failed to detect the latest spaenv version")
	}
	if !found || !latest.GreaterThan(version.AppVersion) {
		log.Info().Msgf("spaenv v%s is the latest version", version.AppVersion)
		return nil
	}

	exe, err := pathutil.GetExecutablePath()
	if err != nil {
		return clierrors.Wrap(err, "Could not determine the spaenv executable path")
	}

	log.Info().Msgf("Updating from v%s to v%s...", version.AppVersion, latest.Version())
	if err := updater.UpdateTo(cmd.Context(), latest, exe); err != nil {
		return clierrors.Wrap(err, "Failed to update the spaenv binary").
			WithSuggestion("Download the release manually from https://github.com/" + version.ReleaseRepository + "/releases/latest")
	}

	log.Info().Msg(styles.RenderSuccess("✓ Updated to v" + latest.Version()))
	return nil
}
