/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"github.com/spf13/cobra"
)

// secretsCmd groups the commands that manage client IDs in the OS keyring.
var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage Auth0 client IDs stored in the OS keyring",
	Long: trimIndent(`
		Manage the Auth0 client IDs stored in the OS keyring. An environment whose
		'auth0.clientId' is '@keyring' in spaenv.yaml reads its client ID from the
		keyring when resolved. The SPAENV_AUTH0_CLIENT_ID variable takes precedence,
		eg, in CI where no keyring is available.
	`),
}

func init() {
	rootCmd.AddCommand(secretsCmd)
}
