/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package styles

import "github.com/charmbracelet/lipgloss"

var (
	ColorNeutral = lipgloss.Color("#737373")
	ColorBright  = lipgloss.Color("#f5f5f5")
	ColorOrange  = lipgloss.Color("#ff7a00")
	ColorGreen   = lipgloss.Color("#28a745")
	ColorDim     = lipgloss.Color("#5f8f4e")
	ColorBlue    = lipgloss.Color("#2d90dc")
	ColorRed     = lipgloss.Color("#ef4444")
	ColorYellow  = lipgloss.Color("#ffff55")

	StyleTitle     = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	StyleBright    = lipgloss.NewStyle().Foreground(ColorBright).Bold(true)
	StyleSuccess   = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleError     = lipgloss.NewStyle().Foreground(ColorRed)
	StyleWarning   = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleTechnical = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleMuted     = lipgloss.NewStyle().Foreground(ColorNeutral)
	StyleComment   = lipgloss.NewStyle().Foreground(ColorDim)
	StylePrompt    = lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)
)
