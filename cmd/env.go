/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"github.com/spf13/cobra"
)

// environmentCmd groups commands that inspect the environments of spaenv.yaml.
var environmentCmd = &cobra.Command{
	Use:     "environment",
	Aliases: []string{"env"},
	Short:   "Inspect the environments declared in spaenv.yaml",
}

func init() {
	rootCmd.AddCommand(environmentCmd)
}
