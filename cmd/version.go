/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"encoding/json"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/internal/version"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Show the version info of the application.
type VersionOpts struct {
	flagFormat string
}

// Output of 'spaenv version --format=json'.
type versionInfo struct {
	AppVersion string `json:"appVersion"`
	GitCommit  string `json:"gitCommit"`
	Prerelease bool   `json:"prerelease"`
}

var versionOpts = VersionOpts{}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information of spaenv",
	Run:   runCommand(&versionOpts),
}

func init() {
	rootCmd.AddCommand(versionCmd)

	flags := versionCmd.Flags()
	addTextOrJSONFormatFlag(flags, &versionOpts.flagFormat)
}

func (o *VersionOpts) Prepare(cmd *cobra.Command, args []string) error {
	return validateTextOrJSON(o.flagFormat)
}

func (o *VersionOpts) Run(cmd *cobra.Command) error {
	if o.flagFormat == "text" {
		log.Info().Msgf("%s", version.AppVersion)
		return nil
	}

	infoJSON, err := json.MarshalIndent(versionInfo{
		AppVersion: version.AppVersion,
		GitCommit:  version.GitCommit,
		Prerelease: version.IsDevBuild(),
	}, "", "  ")
	if err != nil {
		return clierrors.Wrap(err, "Failed to marshal version info to JSON")
	}
	log.Info().Msg(string(infoJSON))
	return nil
}
