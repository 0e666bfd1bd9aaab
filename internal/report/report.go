// Package report aggregates per-file masking outcomes into a run report
// and renders it as JSON, YAML, or plain text.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/confmask/confmask/internal/masking"
)

// FileReport is the outcome of masking one file.
type FileReport struct {
	Path        string         `json:"file_path" yaml:"file_path"`
	RelPath     string         `json:"relative_path" yaml:"relative_path"`
	MaskedCount int            `json:"masked_count" yaml:"masked_count"`
	Items       []masking.Item `json:"masked_items,omitempty" yaml:"masked_items,omitempty"`
	BackupPath  string         `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Success reports whether the file was processed without error.
func (f *FileReport) Success() bool {
	return f.Error == ""
}

// Summary holds the run totals.
type Summary struct {
	TotalFilesScanned int  `json:"total_files_scanned" yaml:"total_files_scanned"`
	TotalFilesMasked  int  `json:"total_files_masked" yaml:"total_files_masked"`
	TotalItemsMasked  int  `json:"total_items_masked" yaml:"total_items_masked"`
	HasErrors         bool `json:"has_errors" yaml:"has_errors"`
}

// Settings records how the run was invoked.
type Settings struct {
	LLMUsed bool `json:"llm_used" yaml:"llm_used"`
	DryRun  bool `json:"dry_run" yaml:"dry_run"`
}

// Report is the full record of one masking run over a project.
type Report struct {
	RunID       string       `json:"run_id" yaml:"run_id"`
	ProjectPath string       `json:"project_path" yaml:"project_path"`
	Timestamp   string       `json:"timestamp" yaml:"timestamp"`
	Summary     Summary      `json:"summary" yaml:"summary"`
	Files       []FileReport `json:"files" yaml:"files"`
	Errors      []string     `json:"errors,omitempty" yaml:"errors,omitempty"`
	Settings    Settings     `json:"settings" yaml:"settings"`
}

// New creates an empty report for one project run.
func New(projectPath string, llmUsed, dryRun bool) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		ProjectPath: projectPath,
		Timestamp:   time.Now().Format(time.RFC3339),
		Settings: Settings{
			LLMUsed: llmUsed,
			DryRun:  dryRun,
		},
	}
}

// AddFile records one file outcome and updates the run totals.
func (r *Report) AddFile(file FileReport) {
	r.Files = append(r.Files, file)
	r.Summary.TotalFilesScanned++

	if file.Success() && file.MaskedCount > 0 {
		r.Summary.TotalFilesMasked++
		r.Summary.TotalItemsMasked += file.MaskedCount
	}

	if file.Error != "" {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", file.Path, file.Error))
		r.Summary.HasErrors = true
	}
}
