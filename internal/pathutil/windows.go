//go:build windows

/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

// Package pathutil locates the running executable for self-updates.
package pathutil

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// GetExecutablePath returns the path of the executable with all symlinks and
// junctions resolved, using the final path of the open file handle.
// filepath.EvalSymlinks is unreliable for this on Windows.
func GetExecutablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}

	file, err := os.Open(exe)
	if err != nil {
		return "", fmt.Errorf("failed to open the executable: %w", err)
	}
	defer file.Close()

	handle := windows.Handle(file.Fd())

	// First call returns the required buffer size.
	bufSize, err := windows.GetFinalPathNameByHandle(handle, nil, 0, 0)
	if err != nil {
		return "", fmt.Errorf("failed to query the executable path length: %w", err)
	}

	buf := make([]uint16, bufSize)
	n, err := windows.GetFinalPathNameByHandle(handle, &buf[0], uint32(len(buf)), 0)
	if err != nil {
		return "", fmt.Errorf("failed to resolve the executable path: %w", err)
	}

	return syscall.UTF16ToString(buf[:n]), nil
}
