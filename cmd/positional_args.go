/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"strings"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
)

type PositionalArgSpec struct {
	Name        string  // Name of the argument (eg, ENVIRONMENT)
	Description string  // Description of the argument
	IsRequired  bool    // Is the argument required (or optional)?
	ValuePtr    *string // Pointer to the parsed value.
}

type PositionalArgs struct {
	Specs []PositionalArgSpec // Array of arguments for the command
}

// AddStringArgument declares a required argument. Required arguments must come
// before optional ones.
func (args *PositionalArgs) AddStringArgument(valuePtr *string, name string, description string) {
	for _, spec := range args.Specs {
		if !spec.IsRequired {
			panic(fmt.Sprintf("required argument %s declared after optional argument %s", name, spec.Name))
		}
	}
	args.Specs = append(args.Specs, PositionalArgSpec{Name: name, Description: description, IsRequired: true, ValuePtr: valuePtr})
}

// AddStringArgumentOpt declares an optional argument.
func (args *PositionalArgs) AddStringArgumentOpt(valuePtr *string, name string, description string) {
	args.Specs = append(args.Specs, PositionalArgSpec{Name: name, Description: description, IsRequired: false, ValuePtr: valuePtr})
}

func (args *PositionalArgs) GetHelpText() string {
	if len(args.Specs) == 0 {
		return "No positional arguments are accepted by this command."
	}

	lines := []string{"Arguments:"}
	for _, line := range args.argumentLines() {
		lines = append(lines, "  "+line)
	}
	return strings.Join(lines, "\n")
}

func (args *PositionalArgs) argumentLines() []string {
	lines := make([]string, 0, len(args.Specs))
	for _, spec := range args.Specs {
		optionalText := ""
		if !spec.IsRequired {
			optionalText = " (optional)"
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s", spec.Name, optionalText, spec.Description))
	}
	return lines
}

// ParseCommandLine stores argv into the declared arguments. Missing required
// arguments and extra arguments are usage errors.
func (args *PositionalArgs) ParseCommandLine(argv []string) error {
	for ndx, spec := range args.Specs {
		if ndx < len(argv) {
			*spec.ValuePtr = argv[ndx]
		} else if spec.IsRequired {
			return clierrors.NewUsageErrorf("Missing argument %s", spec.Name).
				WithDetails(args.argumentLines()...)
		}
	}

	if len(argv) > len(args.Specs) {
		return clierrors.NewUsageErrorf("Unexpected extra arguments: %s", strings.Join(argv[len(args.Specs):], " ")).
			WithDetails(args.argumentLines()...)
	}
	return nil
}

// UsePositionalArgs is embedded in command options that declare their
// positional arguments; runCommand parses them before Prepare.
type UsePositionalArgs struct {
	args PositionalArgs
}

func (o *UsePositionalArgs) Arguments() *PositionalArgs {
	return &o.args
}
