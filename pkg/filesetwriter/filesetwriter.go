/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

// Package filesetwriter plans, previews, and writes a set of generated files.
package filesetwriter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	clierrors "github.com/coffeeshop/spaenv/internal/errors"
	"github.com/coffeeshop/spaenv/pkg/styles"
	"github.com/rs/zerolog/log"
)

// ConflictPolicy determines what happens when a target file already exists.
type ConflictPolicy int

const (
	Overwrite ConflictPolicy = iota // Replace the existing file (default).
	Skip                            // Don't write; keep the original.
	Update                          // Like Overwrite, but shown as less scary in preview.
)

// PlannedFile represents a single file to be written.
type PlannedFile struct {
	Path       string         // Target path to write to.
	Content    []byte         // File content.
	Perm       os.FileMode    // Permission bits (0644, 0755, etc).
	OnConflict ConflictPolicy // What to do if Path already exists.
	Message    string         // Optional message shown in preview (used by Update).
}

// FileAction describes the resolved action for a file after scanning.
type FileAction int

const (
	ActionCreate    FileAction = iota // File is new, will be created.
	ActionOverwrite                   // File exists, will be overwritten.
	ActionSkip                        // File exists, will be skipped.
	ActionUpdate                      // File exists, will be updated with explanation.
	ActionUnchanged                   // File exists with identical content, nothing to write.
)

// FileResult is the scan result for a single planned file.
type FileResult struct {
	File     PlannedFile // The original planned file.
	Action   FileAction  // Resolved action after scan.
	Exists   bool        // Target path already exists on disk.
	ReadOnly bool        // Existing file is read-only.
}

// willWrite returns true if Execute writes the file.
func (r *FileResult) willWrite() bool {
	return r.Action != ActionSkip && r.Action != ActionUnchanged
}

// Plan holds planned file operations and their resolved outcomes.
type Plan struct {
	files   []PlannedFile
	results []FileResult
	scanned bool
	written []string // Paths successfully written during Execute.
}

// NewPlan creates a new empty file plan.
func NewPlan() *Plan {
	return &Plan{}
}

// Add appends a file that will overwrite any existing file at the path.
func (p *Plan) Add(path string, content []byte, perm os.FileMode) *Plan {
	p.files = append(p.files, PlannedFile{Path: path, Content: content, Perm: perm, OnConflict: Overwrite})
	return p
}

// AddSkipExisting appends a file that will be skipped if it already exists.
func (p *Plan) AddSkipExisting(path string, content []byte, perm os.FileMode) *Plan {
	p.files = append(p.files, PlannedFile{Path: path, Content: content, Perm: perm, OnConflict: Skip})
	return p
}

// AddUpdate appends a file that will be updated if it exists, or created if absent.
// The message is shown in preview to explain the update (eg, "environment 'development'").
func (p *Plan) AddUpdate(path string, content []byte, perm os.FileMode, message string) *Plan {
	p.files = append(p.files, PlannedFile{Path: path, Content: content, Perm: perm, OnConflict: Update, Message: message})
	return p
}

// Scan inspects the filesystem and resolves the action for each planned file.
// Existing files whose content already matches are resolved as unchanged.
func (p *Plan) Scan() error {
	p.results = make([]FileResult, 0, len(p.files))

	for _, f := range p.files {
		r := FileResult{File: f}

		info, err := os.Stat(f.Path)
		if err != nil && !os.IsNotExist(err) {
			return clierrors.Wrapf(err, "Failed to stat %s", f.Path)
		}
		r.Exists = err == nil

		switch {
		case !r.Exists:
			r.Action = ActionCreate
		case info.IsDir():
			return clierrors.Newf("Cannot write %s: a directory with the same name exists", f.Path)
		case f.OnConflict == Skip:
			r.Action = ActionSkip
		default:
			existing, err := os.ReadFile(f.Path)
			if err != nil {
				return clierrors.Wrapf(err, "Failed to read %s", f.Path)
			}
			r.ReadOnly = isReadOnly(info)
			if bytes.Equal(existing, f.Content) {
				r.Action = ActionUnchanged
			} else if f.OnConflict == Update {
				r.Action = ActionUpdate
			} else {
				r.Action = ActionOverwrite
			}
		}

		p.results = append(p.results, r)
	}

	p.scanned = true
	return nil
}

// Results returns the scan results. Panics if Scan has not been called.
func (p *Plan) Results() []FileResult {
	if !p.scanned {
		panic("filesetwriter: Results() called before Scan()")
	}
	return p.results
}

// FilesToWrite returns the number of files that will actually be written.
func (p *Plan) FilesToWrite() int {
	if !p.scanned {
		panic("filesetwriter: FilesToWrite() called before Scan()")
	}
	count := 0
	for _, r := range p.results {
		if r.willWrite() {
			count++
		}
	}
	return count
}

// HasReadOnlyFiles returns true if any file to be written is read-only.
func (p *Plan) HasReadOnlyFiles() bool {
	if !p.scanned {
		panic("filesetwriter: HasReadOnlyFiles() called before Scan()")
	}
	for _, r := range p.results {
		if r.ReadOnly && r.willWrite() {
			return true
		}
	}
	return false
}

// HasConflicts returns true if any existing file would be overwritten.
// Routine actions (create, skip, update, unchanged) are not conflicts.
func (p *Plan) HasConflicts() bool {
	if !p.scanned {
		panic("filesetwriter: HasConflicts() called before Scan()")
	}
	for _, r := range p.results {
		if r.Action == ActionOverwrite {
			return true
		}
	}
	return false
}

// Preview logs one line per planned file with its resolved action.
func (p *Plan) Preview() {
	if !p.scanned {
		panic("filesetwriter: Preview() called before Scan()")
	}

	for _, r := range p.results {
		var badge string
		switch r.Action {
		case ActionCreate:
			badge = styles.RenderSuccess(" (new)")
		case ActionOverwrite:
			badge = styles.RenderWarning(" (overwrite)")
		case ActionSkip:
			badge = styles.RenderMuted(" (skip, exists)")
		case ActionUnchanged:
			badge = styles.RenderMuted(" (unchanged)")
		case ActionUpdate:
			if r.File.Message != "" {
				badge = styles.RenderSuccess(fmt.Sprintf(" (%s)", r.File.Message))
			} else {
				badge = styles.RenderSuccess(" (update)")
			}
		}

		readOnlyBadge := ""
		if r.ReadOnly && r.willWrite() {
			readOnlyBadge = styles.RenderWarning(" [read-only]")
		}

		log.Info().Msgf("  %s%s%s", styles.RenderTechnical(filepath.ToSlash(r.File.Path)), badge, readOnlyBadge)
	}
}

// Execute writes all planned files to disk. On failure, the error includes
// details about which files were already written. Use Written() to retrieve the
// list of successfully written paths.
func (p *Plan) Execute() error {
	if !p.scanned {
		panic("filesetwriter: Execute() called before Scan()")
	}

	p.written = nil

	for _, r := range p.results {
		if !r.willWrite() {
			log.Debug().Msgf("Not writing %s (action %d)", r.File.Path, r.Action)
			continue
		}

		dir := filepath.Dir(r.File.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return p.wrapWriteError(err, fmt.Sprintf("Failed to create directory %s", dir))
		}

		if err := os.WriteFile(r.File.Path, r.File.Content, r.File.Perm); err != nil {
			return p.wrapWriteError(err, fmt.Sprintf("Failed to write file %s", r.File.Path))
		}

		p.written = append(p.written, r.File.Path)

		if r.Action == ActionCreate {
			log.Info().Msgf("  %s", styles.RenderMuted("Created "+r.File.Path))
		} else {
			log.Info().Msgf("  %s", styles.RenderMuted("Updated "+r.File.Path))
		}
	}

	return nil
}

// Written returns the paths that were successfully written during Execute.
// Before a failure this is the partial list; on success it is all written paths.
func (p *Plan) Written() []string {
	return p.written
}

// wrapWriteError wraps a write error with details about previously written files.
func (p *Plan) wrapWriteError(err error, message string) error {
	cliErr := clierrors.Wrap(err, message).
		WithSuggestion("Check that you have write permissions to the output directory")
	if len(p.written) > 0 {
		details := make([]string, 0, len(p.written)+1)
		details = append(details, fmt.Sprintf("Successfully wrote %d file(s) before failure:", len(p.written)))
		for _, w := range p.written {
			details = append(details, fmt.Sprintf("  %s", w))
		}
		cliErr = cliErr.WithDetails(details...)
	}
	return cliErr
}

// isReadOnly returns true if the file's permission bits indicate it is read-only
// (owner write bit not set). On Windows, Go maps the read-only attribute to
// permission bits.
func isReadOnly(info os.FileInfo) bool {
	return info.Mode().Perm()&0200 == 0
}
