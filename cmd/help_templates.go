/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/spf13/cobra"
)

var customUsageTemplate = `{{StyleHeading "Usage:"}}{{if .Runnable}}
  {{StyleCommand .UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{StyleCommand .CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{StyleHeading "Aliases:"}}
  {{StyleAliases .NameAndAliases}}{{end}}{{if .HasExample}}

{{StyleHeading "Examples:"}}
{{StyleExample .Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{StyleHeading "Available Commands:"}}{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{StyleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{StyleHeading .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{StyleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{StyleHeading "Additional Commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{StyleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{StyleHeading "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces | StyleFlags}}{{end}}{{if .HasAvailableInheritedFlags}}

{{StyleHeading "Global Flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces | StyleFlags}}{{end}}{{if .HasHelpSubCommands}}

{{StyleHeading "Additional help topics:"}}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

var customHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces | styleInlineCode}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}`

// initColoredHelpTemplates installs the lipgloss-styled usage and help templates.
func initColoredHelpTemplates(rootCmd *cobra.Command) {
	// Add template functions for styling
	cobra.AddTemplateFunc("StyleHeading", styles.RenderBright)
	cobra.AddTemplateFunc("StyleCommand", styles.RenderTechnical)
	cobra.AddTemplateFunc("StyleExample", styleExample)
	cobra.AddTemplateFunc("StyleFlags", styleFlags)
	cobra.AddTemplateFunc("StyleAliases", styleAliases)
	cobra.AddTemplateFunc("styleInlineCode", styleInlineCode)

	// Set the custom templates
	rootCmd.SetUsageTemplate(customUsageTemplate)
	rootCmd.SetHelpTemplate(customHelpTemplate)
}

var (
	flagLineIndentPattern = regexp.MustCompile(`^(\s*)(.*?)$`)
	flagColumnsPattern    = regexp.MustCompile(`^(.+?)(\s{2,})(.*)$`)
	flagNameTypePattern   = regexp.MustCompile(`^((?:-[^,\s]+)(?:, (?:--[^\s]+))?)(?:\s+(\S+))?$`)
)

// styleFlags colors the flag names and value types of cobra's flag usage block,
// leaving the descriptions untouched.
func styleFlags(text string) string {
	lines := strings.Split(text, "\n")
	for ndx, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indentMatch := flagLineIndentPattern.FindStringSubmatch(line)
		if len(indentMatch) < 3 {
			continue
		}
		indent, rest := indentMatch[1], indentMatch[2]

		// Flags and type on the left, description after at least two spaces.
		columns := flagColumnsPattern.FindStringSubmatch(rest)
		if len(columns) < 4 {
			continue
		}
		nameMatch := flagNameTypePattern.FindStringSubmatch(columns[1])
		if len(nameMatch) < 2 {
			continue
		}

		flagNames := strings.Split(nameMatch[1], ", ")
		for j, flag := range flagNames {
			flagNames[j] = styles.RenderTechnical(flag)
		}
		styled := strings.Join(flagNames, ", ")
		if len(nameMatch) > 2 && nameMatch[2] != "" {
			styled += " " + styles.RenderMuted(nameMatch[2])
		}

		lines[ndx] = fmt.Sprintf("%s%s%s%s", indent, styled, columns[2], columns[3])
	}

	return strings.Join(lines, "\n")
}

// styleInlineCode colors text between backticks, keeping the backticks.
func styleInlineCode(text string) string {
	parts := strings.Split(text, "`")
	for i := 1; i < len(parts); i += 2 {
		parts[i] = styles.RenderTechnical(parts[i])
	}
	return strings.Join(parts, "`")
}

// styleExample renders comment lines of an example block as comments and the
// command lines as technical text.
func styleExample(text string) string {
	lines := strings.Split(text, "\n")
	for ndx, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "#"):
			lines[ndx] = styles.RenderComment(line)
		default:
			lines[ndx] = styles.RenderTechnical(line)
		}
	}
	return strings.Join(lines, "\n")
}

func styleAliases(text string) string {
	return styles.RenderListTechnical(strings.Split(text, ", "))
}

// trimIndent removes the common leading indentation of a raw string literal,
// along with its leading and trailing blank lines. Used for the Long and
// Example texts of commands.
func trimIndent(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\t", "    "), "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}

	for ndx, line := range lines {
		if len(line) >= minIndent && minIndent > 0 {
			lines[ndx] = line[minIndent:]
		} else {
			lines[ndx] = strings.TrimLeft(line, " ")
		}
		lines[ndx] = strings.TrimRight(lines[ndx], " ")
	}

	return strings.Join(lines, "\n")
}

// renderLong trims the indentation of a command's long description and
// replaces the '{Arguments}' placeholder with the help text of the command's
// positional arguments.
func renderLong(opts CommandOptions, text string) string {
	argsHelp := ""
	if withArgs, ok := opts.(positionalArgsProvider); ok {
		argsHelp = withArgs.Arguments().GetHelpText()
	}
	return strings.ReplaceAll(trimIndent(text), "{Arguments}", argsHelp)
}
