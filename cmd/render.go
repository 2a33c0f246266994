/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/internal/tui"
	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/coffeeshop/spaenv/pkg/envproj"
	"github.com/coffeeshop/spaenv/pkg/filesetwriter"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type renderOpts struct {
	UsePositionalArgs

	argEnvironment string
	flagFormat     string
	flagOutput     string
	flagWrite      bool
	flagAll        bool
	flagYes        bool

	format envconfig.Format
}

func init() {
	o := renderOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argEnvironment, "ENVIRONMENT", "Name or alias of the environment, eg, 'development' or 'prod'.")

	cmd := &cobra.Command{
		Use:   "render [ENVIRONMENT] [flags]",
		Short: "Render the configuration of an environment for the front-end build",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Render the resolved configuration of an environment into the artifacts the
			front-end build consumes.

			Supported formats:
			- ts: Angular 'environment.ts' module exporting 'environment' (default).
			- json: JSON document with the same shape, eg, for runtime config loading.
			- yaml: YAML document with the same shape.
			- dotenv: SPAENV_* variables, loadable with '--project' elsewhere or in CI.

			By default, the rendered content is printed. With --output, it is written to
			the given file. With --write, every entry of 'outputs' in spaenv.yaml is
			written; paths may contain '{environment}' to generate one file per
			environment, and --all renders every environment at once.

			Overwriting an existing file with --output asks for confirmation unless --yes
			is given. Output files declared in spaenv.yaml are generated files and are
			updated without asking. Rendering is deterministic: unchanged files are not
			rewritten.

			{Arguments}
		`),
		Example: trimIndent(`
			# Print the environment.ts of the development environment.
			spaenv render development

			# Write a JSON runtime config file.
			spaenv render prod --format=json --output=dist/assets/env.json --yes

			# Write all outputs declared in spaenv.yaml for every environment.
			spaenv render --write --all
		`),
	}

	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.StringVar(&o.flagFormat, "format", string(envconfig.FormatTypeScript), "Output format: ts, json, yaml, or dotenv")
	flags.StringVarP(&o.flagOutput, "output", "o", "", "Write the rendered content to this file")
	flags.BoolVar(&o.flagWrite, "write", false, "Write the outputs declared in spaenv.yaml")
	flags.BoolVar(&o.flagAll, "all", false, "With --write, render every environment")
	flags.BoolVarP(&o.flagYes, "yes", "y", false, "Overwrite existing files without asking")
}

func (o *renderOpts) Prepare(cmd *cobra.Command, args []string) error {
	format, err := envconfig.ParseFormat(o.flagFormat)
	if err != nil {
		return clierrors.WrapUsageError(err, "Invalid --format")
	}
	o.format = format

	if o.flagWrite && o.flagOutput != "" {
		return clierrors.NewUsageError("Flags --write and --output cannot be used together")
	}
	if o.flagAll && !o.flagWrite {
		return clierrors.NewUsageError("Flag --all requires --write")
	}
	if o.flagAll && o.argEnvironment != "" {
		return clierrors.NewUsageError("Specify either ENVIRONMENT or --all, not both")
	}
	if o.flagWrite && cmd.Flags().Changed("format") {
		return clierrors.NewUsageError("Flag --format cannot be used with --write; formats come from 'outputs' in spaenv.yaml")
	}
	return nil
}

func (o *renderOpts) Run(cmd *cobra.Command) error {
	project, err := resolveProject()
	if err != nil {
		return err
	}

	if o.flagWrite {
		plan, err := o.planProjectOutputs(project)
		if err != nil {
			return err
		}
		return executePlan(cmd, plan, o.flagYes)
	}

	_, cfg, err := project.activateEnvironment(o.argEnvironment)
	if err != nil {
		return err
	}
	content, err := envconfig.Render(cfg, o.format)
	if err != nil {
		return clierrors.Wrapf(err, "Failed to render in format '%s'", o.format)
	}

	if o.flagOutput == "" {
		log.Info().Msg(strings.TrimRight(string(content), "\n"))
		return nil
	}

	plan := filesetwriter.NewPlan().Add(o.flagOutput, content, 0644)
	return executePlan(cmd, plan, o.flagYes)
}

// planProjectOutputs renders each declared output for the selected environments.
func (o *renderOpts) planProjectOutputs(project *projectContext) (*filesetwriter.Plan, error) {
	if len(project.Config.Outputs) == 0 {
		return nil, clierrors.New("No outputs declared in " + envproj.ConfigFileName).
			WithSuggestion("Add an 'outputs' entry, or use --output to write a single file")
	}

	var environments []*envproj.ProjectEnvironmentConfig
	if o.flagAll {
		for ndx := range project.Config.Environments {
			environments = append(environments, &project.Config.Environments[ndx])
		}
	} else {
		envConfig, err := project.chooseEnvironment(o.argEnvironment)
		if err != nil {
			return nil, err
		}
		environments = append(environments, envConfig)
	}

	plan := filesetwriter.NewPlan()
	plannedBy := map[string]string{}
	for _, envConfig := range environments {
		cfg, err := project.resolveEnvironment(envConfig)
		if err != nil {
			return nil, err
		}
		logLintWarnings(cfg)

		for _, output := range project.Config.Outputs {
			path := filepath.Join(project.Dir, output.ResolvePath(envConfig.Name))
			if previous, found := plannedBy[path]; found && previous == envConfig.Name {
				return nil, clierrors.Newf("Environment '%s' renders more than one output to %s", envConfig.Name, path).
					WithSuggestion("Give each entry under 'outputs' in spaenv.yaml its own path")
			} else if found {
				return nil, clierrors.Newf("Environments '%s' and '%s' both render to %s", previous, envConfig.Name, path).
					WithSuggestion("Use '{environment}' in the output path to write one file per environment")
			}
			plannedBy[path] = envConfig.Name

			content, err := envconfig.Render(cfg, output.Format)
			if err != nil {
				return nil, clierrors.Wrapf(err, "Failed to render %s", path)
			}
			plan.AddUpdate(path, content, 0644, fmt.Sprintf("environment '%s'", envConfig.Name))
		}
	}
	return plan, nil
}

// executePlan previews the plan, asks for confirmation when existing files
// would be overwritten, and writes the files.
func executePlan(cmd *cobra.Command, plan *filesetwriter.Plan, autoConfirm bool) error {
	if err := plan.Scan(); err != nil {
		return err
	}

	log.Info().Msg(styles.RenderBright("Files:"))
	plan.Preview()

	if plan.FilesToWrite() == 0 {
		log.Info().Msg("")
		log.Info().Msg(styles.RenderSuccess("✓ All files are up to date"))
		return nil
	}

	if plan.HasReadOnlyFiles() {
		log.Warn().Msg("Some of the files are read-only; writing them is likely to fail")
	}

	if plan.HasConflicts() && !autoConfirm {
		if !tui.IsInteractiveMode() {
			return clierrors.New("Refusing to overwrite existing files").
				WithSuggestion("Use --yes to overwrite them in a non-interactive shell")
		}
		confirmed, err := tui.DoConfirmDialog(cmd.Context(), "Overwrite files", "Existing files will be replaced with the rendered configuration.", "Continue?")
		if err != nil {
			return err
		}
		if !confirmed {
			log.Info().Msg("Cancelled, no files were written.")
			return nil
		}
	}

	log.Info().Msg("")
	if err := plan.Execute(); err != nil {
		return err
	}
	log.Info().Msg(styles.RenderSuccess(fmt.Sprintf("✓ Wrote %d file(s)", len(plan.Written()))))
	return nil
}
