/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"bytes"
	"testing"
)

func TestColoredLineConsoleWriter(t *testing.T) {
	tests := []struct {
		name      string
		event     string
		useColors bool
		expected  string
	}{
		{"plain info", `{"level":"info","message":"hello"}`, false, "hello\n"},
		{"colored info", `{"level":"info","message":"hello"}`, true, "hello\n"},
		{"plain warning", `{"level":"warn","message":"careful"}`, false, "careful\n"},
		{"colored warning", `{"level":"warn","message":"careful"}`, true, "\033[93mcareful\033[0m\n"},
		{"unknown level", `{"level":"custom","message":"x"}`, true, "\033[37mx\033[0m\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := &coloredLineConsoleWriter{Out: &buf, UseColors: test.useColors}
			n, err := w.Write([]byte(test.event))
			if err != nil {
				t.Fatal(err)
			}
			if n != len(test.event) {
				t.Errorf("expected to report %d bytes written, got %d", len(test.event), n)
			}
			if buf.String() != test.expected {
				t.Errorf("expected %q, got %q", test.expected, buf.String())
			}
		})
	}
}

func TestColoredLineConsoleWriterRejectsInvalidJSON(t *testing.T) {
	w := &coloredLineConsoleWriter{Out: &bytes.Buffer{}}
	if _, err := w.Write([]byte("not json")); err == nil {
		t.Error("expected error for invalid event")
	}
}

func TestCommandTree(t *testing.T) {
	expected := [][]string{
		{"init"},
		{"env", "list"},
		{"show"},
		{"validate"},
		{"render"},
		{"patch-json"},
		{"set"},
		{"secrets", "set-client-id"},
		{"secrets", "delete-client-id"},
		{"secrets", "status"},
		{"doctor"},
		{"token", "inspect"},
		{"open"},
		{"version"},
		{"update", "cli"},
	}

	for _, path := range expected {
		found, _, err := rootCmd.Find(path)
		if err != nil || found == rootCmd {
			t.Errorf("command %v not registered (err=%v)", path, err)
		}
	}
}
