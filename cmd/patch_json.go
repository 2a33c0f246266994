/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"
	"os"
	"strings"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/coffeeshop/spaenv/pkg/filesetwriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type patchJSONOpts struct {
	UsePositionalArgs

	argEnvironment string
	argFile        string
	flagPrefix     string
	flagDryRun     bool
}

func init() {
	o := patchJSONOpts{}

	args := o.Arguments()
	args.AddStringArgument(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment, eg, 'prod'.")
	args.AddStringArgument(&o.argFile, "FILE", "Path to the JSON file to patch. Created if it doesn't exist.")

	cmd := &cobra.Command{
		Use:   "patch-json ENVIRONMENT FILE [flags]",
		Short: "Set the configuration keys in an existing JSON file",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Set the configuration keys of an environment inside an existing JSON document,
			such as a runtime config file served next to the SPA bundle. Other keys and
			the formatting of the document are preserved.

			Use --prefix to place the keys under a nested object, eg, '--prefix=env' sets
			'env.apiServerUrl'. Patching is idempotent: running the command twice leaves
			the file unchanged.

			{Arguments}
		`),
		Example: trimIndent(`
			# Patch the runtime config of a built bundle.
			spaenv patch-json prod dist/coffee-shop/assets/config.json

			# Patch keys under 'environment' and print the result instead of writing it.
			spaenv patch-json dev config.json --prefix=environment --dry-run
		`),
	}

	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.StringVar(&o.flagPrefix, "prefix", "", "Dot-separated path of the object holding the keys")
	flags.BoolVar(&o.flagDryRun, "dry-run", false, "Print the patched document instead of writing it")
}

func (o *patchJSONOpts) Prepare(cmd *cobra.Command, args []string) error {
	if strings.HasPrefix(o.flagPrefix, ".") || strings.HasSuffix(o.flagPrefix, ".") {
		return clierrors.NewUsageErrorf("Invalid --prefix '%s': must not start or end with a dot", o.flagPrefix)
	}
	return nil
}

func (o *patchJSONOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	_, cfg, err := project.activateEnvironment(o.argEnvironment)
	if err != nil {
		return err
	}

	doc, err := os.ReadFile(o.argFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return clierrors.Wrapf(err, "Failed to read %s", o.argFile)
	}

	patched, err := envconfig.PatchJSON(doc, o.flagPrefix, cfg)
	if err != nil {
		return clierrors.Wrapf(err, "Failed to patch %s", o.argFile)
	}

	if o.flagDryRun {
		log.Info().Msg(strings.TrimRight(string(patched), "\n"))
		return nil
	}

	plan := filesetwriter.NewPlan().AddUpdate(o.argFile, patched, 0644, "patched")
	return executePlan(cmd, plan, true)
}
