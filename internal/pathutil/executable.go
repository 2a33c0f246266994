//go:build !windows

/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

// Package pathutil locates the running executable for self-updates.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetExecutablePath returns the path of the executable with all symlinks
// resolved, eg, a Homebrew-style link points to the real binary.
func GetExecutablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve the executable path: %w", err)
	}
	return resolved, nil
}
