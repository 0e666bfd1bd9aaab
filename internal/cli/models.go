package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confmask/confmask/internal/detector"
	"github.com/confmask/confmask/internal/report"
)

var modelsEndpoint string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the LLM detection endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		if modelsEndpoint != "" {
			cfg.Detector.Endpoint = modelsEndpoint
		}

		console := report.NewConsole()
		console.Header("confmask — available models")

		client := detector.New(cfg.Detector, log.WithComponent("detector"))
		models, err := client.ListModels(cmd.Context())
		if err != nil {
			console.Error("Cannot reach %s: %v", cfg.Detector.Endpoint, err)
			console.Info("Is the server running? For Ollama: 'ollama serve'")
			return err
		}

		if len(models) == 0 {
			console.Warn("No models installed at %s", cfg.Detector.Endpoint)
			console.Info("Install one with e.g. 'ollama pull %s'", cfg.Detector.Model)
			return nil
		}

		console.Info("Endpoint: %s", cfg.Detector.Endpoint)
		fmt.Printf("\nAvailable models (%d):\n\n", len(models))
		for _, model := range models {
			fmt.Printf("  • %s\n", model)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	modelsCmd.Flags().StringVarP(&modelsEndpoint, "endpoint", "e", "", "Override the detector endpoint")
}
