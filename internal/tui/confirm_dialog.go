/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coffeeshop/spaenv/pkg/styles"
)

var (
	acceptKeys = map[string]bool{"y": true, "Y": true, "enter": true}
	rejectKeys = map[string]bool{"n": true, "N": true, "q": true, "esc": true, "ctrl+c": true}
)

// Yes/no prompt shown before overwriting files the user did not ask to regenerate.
type confirmDialog struct {
	title    string
	body     string
	question string
	choice   bool
	quitting bool
}

func newConfirmDialog(title, body, question string) confirmDialog {
	return confirmDialog{title: title, body: body, question: question}
}

func (m confirmDialog) Init() tea.Cmd { return nil }

func (m confirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := keyMsg.String()
	if !acceptKeys[key] && !rejectKeys[key] {
		return m, nil
	}
	m.choice = acceptKeys[key]
	m.quitting = true
	return m, tea.Quit
}

func (m confirmDialog) View() string {
	var sb strings.Builder
	if m.title != "" {
		fmt.Fprintf(&sb, "\n%s\n", styles.RenderTitle(m.title))
	}
	if m.body != "" {
		fmt.Fprintf(&sb, "\n%s\n\n", m.body)
	}

	// Once answered, echo the decision in place of the prompt.
	switch {
	case !m.quitting:
		fmt.Fprintf(&sb, "%s%s\n", m.question, styles.RenderPrompt(" [Y/n]"))
	case m.choice:
		fmt.Fprintf(&sb, "%s %s\n", m.question, styles.RenderSuccess("yes"))
	default:
		fmt.Fprintf(&sb, "%s %s\n", m.question, styles.RenderWarning("no"))
	}
	return sb.String()
}

// Show the user a confirm dialog and wait for a yes/no answer. Requires
// interactive mode: callers must offer a flag (eg, '--yes') for scripts.
func DoConfirmDialog(ctx context.Context, title string, body string, question string) (bool, error) {
	if !isInteractiveMode {
		return false, fmt.Errorf("interactive mode required for confirmation")
	}

	p := tea.NewProgram(newConfirmDialog(title, body, question), tea.WithContext(ctx))
	m, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run confirmation dialog: %w", err)
	}

	return m.(confirmDialog).choice, nil
}
