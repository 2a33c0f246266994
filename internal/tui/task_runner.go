/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
)

// TaskStatus represents the current state of a task
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusSkipped
)

// Spinner frames for the running state
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Maximum number of output lines shown per task in interactive mode.
const numLinesToShow = 6

// TaskOutput collects the output lines of a task, shown below the task's status.
type TaskOutput struct {
	lines []string
	mu    sync.Mutex
}

// TaskRunFunc is the function signature for task execution functions
type TaskRunFunc func(ctx context.Context, output *TaskOutput) error

// AppendLinef appends a new formatted line at the end of the output.
func (to *TaskOutput) AppendLinef(format string, a ...any) {
	line := fmt.Sprintf(format, a...)
	to.mu.Lock()
	to.lines = append(to.lines, line)
	to.mu.Unlock()

	// If not in interactive mode, log line.
	if !isInteractiveMode {
		log.Info().Msgf("  %s", line)
	}
}

// Lines returns a copy of all output lines.
func (to *TaskOutput) Lines() []string {
	to.mu.Lock()
	defer to.mu.Unlock()
	return append([]string{}, to.lines...)
}

// shownLines returns the most recent lines to show in the interactive view.
func (to *TaskOutput) shownLines() []string {
	lines := to.Lines()
	if len(lines) > numLinesToShow {
		lines = lines[len(lines)-numLinesToShow:]
	}
	return lines
}

// Task represents a single task with its title, function, and status
type Task struct {
	title     string
	runFunc   TaskRunFunc
	status    TaskStatus
	err       error
	startTime time.Time
	elapsed   time.Duration
	mu        sync.Mutex // Protects status, err, startTime, and elapsed
	output    TaskOutput
}

func (task *Task) setRunning() {
	task.mu.Lock()
	task.status = StatusRunning
	task.startTime = time.Now()
	task.mu.Unlock()
}

func (task *Task) setFinished(err error) time.Duration {
	task.mu.Lock()
	defer task.mu.Unlock()
	task.elapsed = time.Since(task.startTime)
	task.err = err
	if err != nil {
		task.status = StatusFailed
	} else {
		task.status = StatusCompleted
	}
	return task.elapsed
}

// TaskRunner executes a sequence of tasks with visual progress. By default the
// first failing task stops the sequence and the remaining ones are skipped.
type TaskRunner struct {
	tasks           []*Task
	continueOnError bool
	frameIndex      int
	program         *tea.Program
}

// tickMsg is sent when the spinner should advance one frame
type tickMsg struct{}

// doneMsg is sent when all tasks have completed or failed
type doneMsg struct{}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner() *TaskRunner {
	return &TaskRunner{}
}

// ContinueOnError makes the runner execute all tasks even if some fail. Run
// then returns all errors joined together.
func (m *TaskRunner) ContinueOnError() *TaskRunner {
	m.continueOnError = true
	return m
}

// AddTask adds a new task to the runner
func (m *TaskRunner) AddTask(title string, runFunc TaskRunFunc) {
	m.tasks = append(m.tasks, &Task{title: title, runFunc: runFunc, status: StatusPending})
}

// Statuses returns the status of each task, in order.
func (m *TaskRunner) Statuses() []TaskStatus {
	statuses := make([]TaskStatus, 0, len(m.tasks))
	for _, task := range m.tasks {
		task.mu.Lock()
		statuses = append(statuses, task.status)
		task.mu.Unlock()
	}
	return statuses
}

// Run executes the tasks and displays the progress
func (m *TaskRunner) Run(ctx context.Context) error {
	if !isInteractiveMode {
		return m.executeTasks(ctx)
	}

	m.program = tea.NewProgram(m, tea.WithContext(ctx))

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.executeTasks(ctx)
		m.program.Send(doneMsg{})
	}()

	if _, err := m.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running tasks: %w", err)
	}
	return <-errCh
}

// executeTasks runs all tasks sequentially, logging progress in non-interactive mode.
func (m *TaskRunner) executeTasks(ctx context.Context) error {
	var errs []error
	for _, task := range m.tasks {
		if len(errs) > 0 && !m.continueOnError {
			task.mu.Lock()
			task.status = StatusSkipped
			task.mu.Unlock()
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if !isInteractiveMode {
			log.Info().Msgf("%s...", task.title)
		}
		log.Debug().Msgf("Task start: %s", task.title)

		task.setRunning()
		err := task.runFunc(ctx, &task.output)
		elapsed := task.setFinished(err)

		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", task.title, err))
			if !isInteractiveMode {
				log.Info().Msgf(" %s %s %s", styles.RenderError("✗"), err, humanizeElapsed(elapsed))
			}
		} else if !isInteractiveMode {
			log.Info().Msgf(" %s %s %s", styles.RenderSuccess("✓"), "Done", humanizeElapsed(elapsed))
		}
	}

	return errors.Join(errs...)
}

// taskStatusStyle returns the appropriate style for a task based on its status
func taskStatusStyle(status TaskStatus) lipgloss.Style {
	switch status {
	case StatusRunning:
		return lipgloss.NewStyle().Foreground(styles.ColorBlue)
	case StatusCompleted:
		return lipgloss.NewStyle().Foreground(styles.ColorGreen)
	case StatusFailed:
		return lipgloss.NewStyle().Foreground(styles.ColorRed)
	default:
		return lipgloss.NewStyle().Foreground(styles.ColorNeutral)
	}
}

// getStatusSymbol returns the appropriate symbol for a task status
func (m *TaskRunner) getStatusSymbol(status TaskStatus) string {
	switch status {
	case StatusPending:
		return "○"
	case StatusRunning:
		return spinnerFrames[m.frameIndex]
	case StatusCompleted:
		return "✓"
	case StatusFailed:
		return "✗"
	case StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

// humanizeElapsed formats a duration as seconds with one decimal place
func humanizeElapsed(d time.Duration) string {
	return styles.RenderMuted(fmt.Sprintf("[%.1fs]", d.Seconds()))
}

// Init implements tea.Model
func (m *TaskRunner) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update implements tea.Model
func (m *TaskRunner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tickMsg:
		for _, task := range m.tasks {
			task.mu.Lock()
			if task.status == StatusRunning {
				task.elapsed = time.Since(task.startTime)
			}
			task.mu.Unlock()
		}
		m.frameIndex = (m.frameIndex + 1) % len(spinnerFrames)
		return m, tick()
	case doneMsg:
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model
func (m *TaskRunner) View() string {
	var sb strings.Builder
	for _, task := range m.tasks {
		task.mu.Lock()
		status := task.status
		err := task.err
		elapsed := task.elapsed
		task.mu.Unlock()

		symbol := taskStatusStyle(status).Render(m.getStatusSymbol(status))
		switch {
		case err != nil:
			fmt.Fprintf(&sb, " %s %s %s\n", symbol, task.title, styles.RenderError("[failed]"))
			fmt.Fprintf(&sb, "    %s\n", styles.RenderError(err.Error()))
		case status == StatusCompleted || status == StatusRunning:
			fmt.Fprintf(&sb, " %s %s %s\n", symbol, task.title, humanizeElapsed(elapsed))
		case status == StatusSkipped:
			fmt.Fprintf(&sb, " %s %s %s\n", symbol, task.title, styles.RenderMuted("[skipped]"))
		default:
			fmt.Fprintf(&sb, " %s %s\n", symbol, task.title)
		}

		for _, line := range task.output.shownLines() {
			fmt.Fprintf(&sb, "    %s\n", styles.RenderMuted(line))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
