/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"github.com/spf13/cobra"
)

// tokenCmd groups the access token diagnostics.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Diagnose access tokens against an environment's configuration",
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
