// Package runner drives a masking run: discover files, optionally widen
// the classifier via the LLM detector, mask, back up, write, and report.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/confmask/confmask/internal/backup"
	"github.com/confmask/confmask/internal/detector"
	"github.com/confmask/confmask/internal/logger"
	"github.com/confmask/confmask/internal/masking"
	"github.com/confmask/confmask/internal/report"
	"github.com/confmask/confmask/internal/scanner"
)

// Runner processes one or more project trees. A nil backup manager
// disables backups, a nil detector disables LLM-based widening.
type Runner struct {
	scanner  *scanner.FileScanner
	engine   *masking.Engine
	backups  *backup.Manager
	detector detector.Client
	console  *report.Console
	logger   *logger.Logger
	dryRun   bool
	verbose  bool
}

// Options configures a Runner.
type Options struct {
	Scanner  *scanner.FileScanner
	Engine   *masking.Engine
	Backups  *backup.Manager
	Detector detector.Client
	Console  *report.Console
	Logger   *logger.Logger
	DryRun   bool
	Verbose  bool
}

// New creates a Runner.
func New(opts Options) *Runner {
	console := opts.Console
	if console == nil {
		console = report.NewConsole()
	}
	return &Runner{
		scanner:  opts.Scanner,
		engine:   opts.Engine,
		backups:  opts.Backups,
		detector: opts.Detector,
		console:  console,
		logger:   opts.Logger,
		dryRun:   opts.DryRun,
		verbose:  opts.Verbose,
	}
}

// Run masks every candidate file under projectPath and returns the run
// report. Per-file failures are recorded in the report; only discovery
// failures abort the run.
func (r *Runner) Run(ctx context.Context, projectPath string) (*report.Report, error) {
	projectPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", projectPath, err)
	}

	rep := report.New(projectPath, r.detector != nil, r.dryRun)

	files, err := r.scanner.Scan(projectPath)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			return rep, ctx.Err()
		default:
		}
		rep.AddFile(r.ProcessFile(ctx, file, projectPath))
	}

	r.console.Summary(rep)
	return rep, nil
}

// ProcessFile masks a single file and returns its report entry. The file
// is only rewritten when masking succeeded, found something, and dry-run
// is off; a backup is taken right before the rewrite.
func (r *Runner) ProcessFile(ctx context.Context, file, projectPath string) report.FileReport {
	relPath, err := filepath.Rel(projectPath, file)
	if err != nil {
		relPath = file
	}

	fileReport := report.FileReport{Path: file, RelPath: relPath}

	content, err := os.ReadFile(file)
	if err != nil {
		fileReport.Error = err.Error()
		r.console.Error("%s: %v", relPath, err)
		return fileReport
	}

	// Detector suggestions widen the classifier for this file and every
	// file after it; detector failures fall back to pattern-only masking.
	if r.detector != nil {
		keys, err := r.detector.DetectSensitiveKeys(ctx, string(content))
		if err != nil {
			r.console.Warn("LLM detection failed for %s: %v", relPath, err)
			r.logger.Warn("Detector failure", zap.String("file", file), zap.Error(err))
		} else if len(keys) > 0 {
			r.engine.AddSensitivePatterns(keys)
			if r.verbose {
				r.console.Info("LLM suggested keys: %v", keys)
			}
		}
	}

	result := r.engine.MaskFile(file, string(content))
	if result.Err != nil {
		fileReport.Error = result.Err.Error()
		r.console.Error("%s: %v", relPath, result.Err)
		return fileReport
	}

	fileReport.MaskedCount = result.MaskedCount()
	fileReport.Items = result.Items

	if !r.dryRun && result.MaskedCount() > 0 {
		if r.backups != nil {
			backupPath, err := r.backups.Create(file, projectPath)
			if err != nil {
				fileReport.Error = err.Error()
				r.console.Error("%s: backup failed: %v", relPath, err)
				return fileReport
			}
			fileReport.BackupPath = backupPath
		}

		if err := r.writeFile(file, result.MaskedContent); err != nil {
			fileReport.Error = err.Error()
			r.console.Error("%s: %v", relPath, err)
			return fileReport
		}
	}

	r.console.FileProcessed(relPath, result.MaskedCount(), r.dryRun)
	if r.verbose {
		for _, item := range result.Items {
			r.console.Info("line %d: %s", item.Line, item.Key)
		}
	}
	return fileReport
}

func (r *Runner) writeFile(file, content string) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(file); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(file, []byte(content), perm); err != nil {
		return fmt.Errorf("writing masked file: %w", err)
	}
	return nil
}
