package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/confmask/confmask/internal/report"
	"github.com/confmask/confmask/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "List candidate configuration files without modifying them",
	Args:  cobra.MaximumNArgs(1),
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
		console.Header("confmask — configuration file scan")
		console.Info("Scanning: %s", path)

		scan := scanner.New(cfg.Scanner, log.WithComponent("scanner"))
		files, err := scan.Scan(path)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			console.Warn("No candidate files found.")
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}

		fmt.Printf("\nFound %d configuration file(s):\n\n", len(files))
		for _, file := range files {
			relPath, err := filepath.Rel(absPath, file)
			if err != nil {
				relPath = file
			}
			fmt.Printf("  • %s\n", relPath)
		}
		return nil
	},
}
