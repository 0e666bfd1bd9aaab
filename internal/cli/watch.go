package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/confmask/confmask/internal/backup"
	"github.com/confmask/confmask/internal/masking"
	"github.com/confmask/confmask/internal/report"
	"github.com/confmask/confmask/internal/runner"
	"github.com/confmask/confmask/internal/scanner"
	"github.com/confmask/confmask/internal/watch"
)

var watchNoBackup bool

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a project and re-mask configuration files as they change",
	Long: `Runs until interrupted, observing the project tree for new or modified
configuration files and masking sensitive values as they appear.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		console := report.NewConsole()
		console.Header("confmask — watch mode")
		console.Info("Watching %s (Ctrl-C to stop)", path)

		scan := scanner.New(cfg.Scanner, log.WithComponent("scanner"))
		engine := masking.NewEngine(cfg.Masking, log.WithComponent("masking"))

		var backups *backup.Manager
		if cfg.Backup.Enabled && !watchNoBackup {
			backups = backup.New(cfg.Backup, log.WithComponent("backup"))
		}

		run := runner.New(runner.Options{
			Scanner: scan,
			Engine:  engine,
			Backups: backups,
			Console: console,
			Logger:  log.WithComponent("runner"),
		})

		watcher := watch.New(run, scan, log.WithComponent("watch"))
		if err := watcher.Watch(cmd.Context(), path); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoBackup, "no-backup", false, "Modify files without creating backups")
}
