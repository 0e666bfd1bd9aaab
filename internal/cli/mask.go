package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/confmask/confmask/internal/backup"
	"github.com/confmask/confmask/internal/detector"
	"github.com/confmask/confmask/internal/masking"
	"github.com/confmask/confmask/internal/report"
	"github.com/confmask/confmask/internal/runner"
	"github.com/confmask/confmask/internal/scanner"
)

var maskFlags struct {
	dryRun   bool
	noBackup bool
	useLLM   bool
	includes []string
	excludes []string
	output   string
	format   string
	verbose  bool
}

var maskCmd = &cobra.Command{
	Use:   "mask [paths...]",
	Short: "Mask sensitive values in a project's configuration files",
	Long: `Scans each project tree for configuration files and masks passwords,
tokens, keys, and other credentials in place. A backup of every modified
file is kept so the run can be undone with "confmask restore".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = []string{"."}
		}

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		console := report.NewConsole()
		title := "confmask — sensitive value masking"
		if maskFlags.dryRun {
			title = "[DRY RUN] " + title
		}
		console.Header(title)
		if maskFlags.dryRun {
			console.Warn("Dry run: no files will be modified.")
		}

		scan := scanner.New(cfg.Scanner, log.WithComponent("scanner"),
			scanner.WithIncludePatterns(maskFlags.includes),
			scanner.WithExcludePatterns(maskFlags.excludes),
		)
		engine := masking.NewEngine(cfg.Masking, log.WithComponent("masking"))

		var backups *backup.Manager
		if cfg.Backup.Enabled && !maskFlags.noBackup {
			backups = backup.New(cfg.Backup, log.WithComponent("backup"))
		}

		var det detector.Client
		if maskFlags.useLLM {
			det = detector.New(cfg.Detector, log.WithComponent("detector"))
			if det.Available(cmd.Context()) {
				console.Info("LLM detector connected: %s (model: %s)", cfg.Detector.Endpoint, cfg.Detector.Model)
			} else {
				console.Warn("LLM at %s unavailable or model %q missing; using pattern detection only.",
					cfg.Detector.Endpoint, cfg.Detector.Model)
				det = nil
			}
		}

		run := runner.New(runner.Options{
			Scanner:  scan,
			Engine:   engine,
			Backups:  backups,
			Detector: det,
			Console:  console,
			Logger:   log.WithComponent("runner"),
			DryRun:   maskFlags.dryRun,
			Verbose:  maskFlags.verbose,
		})

		format := maskFlags.format
		if format == "" {
			format = cfg.Report.Format
		}
		generator := report.NewGenerator(format)

		for _, path := range paths {
			console.Info("Scanning project: %s", path)

			rep, err := run.Run(cmd.Context(), path)
			if err != nil {
				return err
			}

			outPath := maskFlags.output
			if outPath == "" {
				outPath = cfg.Report.Output
			}
			if outPath == "" {
				outPath = filepath.Join(rep.ProjectPath, "masking_report."+generator.Extension())
			}
			if err := generator.Save(rep, outPath); err != nil {
				return fmt.Errorf("saving report: %w", err)
			}
			console.Info("Report saved: %s", outPath)
		}
		return nil
	},
}

func init() {
	maskCmd.Flags().BoolVarP(&maskFlags.dryRun, "dry-run", "n", false, "Preview without modifying files")
	maskCmd.Flags().BoolVar(&maskFlags.noBackup, "no-backup", false, "Modify files without creating backups")
	maskCmd.Flags().BoolVar(&maskFlags.useLLM, "use-llm", false, "Enable LLM-based key detection")
	maskCmd.Flags().StringArrayVarP(&maskFlags.includes, "include", "i", nil, "File pattern to include (replaces defaults, repeatable)")
	maskCmd.Flags().StringArrayVarP(&maskFlags.excludes, "exclude", "e", nil, "File or path pattern to exclude (repeatable)")
	maskCmd.Flags().StringVarP(&maskFlags.output, "output", "o", "", "Report output file")
	maskCmd.Flags().StringVar(&maskFlags.format, "format", "", "Report format: json, yaml, or text")
	maskCmd.Flags().BoolVarP(&maskFlags.verbose, "verbose", "v", false, "Verbose output")
}
