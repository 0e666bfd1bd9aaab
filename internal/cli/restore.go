package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/confmask/confmask/internal/backup"
	"github.com/confmask/confmask/internal/report"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [paths...]",
	Short: "Restore original files from backups",
	Long: `Restores every file recorded in a project's backup manifest to its
latest backed-up content. Projects without a manifest are left untouched.`,
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
		console.Header("confmask — backup restore")

		backups := backup.New(cfg.Backup, log.WithComponent("backup"))

		for _, path := range paths {
			console.Info("Restoring: %s", path)

			restored, err := backups.RestoreAll(path)
			if err != nil {
				return err
			}
			if len(restored) == 0 {
				console.Warn("No backups to restore in %s", path)
				continue
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				absPath = path
			}
			for _, file := range restored {
				relPath, err := filepath.Rel(absPath, file)
				if err != nil {
					relPath = file
				}
				console.Info("Restored: %s", relPath)
			}
			console.Info("%d file(s) restored.", len(restored))
		}
		return nil
	},
}
