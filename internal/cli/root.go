// Package cli wires the cobra commands for the confmask binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/confmask/confmask/internal/config"
	"github.com/confmask/confmask/internal/logger"
)

var (
	configPath string

	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "confmask",
	Short:         "Mask credentials in configuration files",
	Long:          "confmask detects and redacts passwords, tokens, and keys in YAML, properties, and env files while preserving formatting, with reversible backups.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Run executes the root command and returns an exit code.
func Run(version, commit, date string) int {
	buildVersion, buildCommit, buildDate = version, commit, date

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	rootCmd.AddCommand(
		maskCmd,
		restoreCmd,
		scanCmd,
		reportCmd,
		initCmd,
		modelsCmd,
		watchCmd,
		versionCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print confmask version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("confmask %s (commit: %s, built: %s)\n", buildVersion, buildCommit, buildDate)
	},
}

// bootstrap loads configuration and builds the logger every command
// shares.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	logCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		logCfg.File = cfg.Logging.File.Path
	}

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, log, nil
}
