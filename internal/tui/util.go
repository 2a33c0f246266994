/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

// Package tui holds the terminal dialogs and progress views. Every entry point
// has a plain log-line fallback for non-interactive shells such as CI.
package tui

// Is the UI library in interactive mode?
var isInteractiveMode = true

func IsInteractiveMode() bool {
	return isInteractiveMode
}

// Set the interactive mode of the UI library.
func SetInteractiveMode(isInteractive bool) {
	isInteractiveMode = isInteractive
}
