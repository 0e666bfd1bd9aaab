package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/confmask/confmask/internal/report"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Print the most recent masking report for a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		projectPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		for _, ext := range []string{"json", "yaml", "txt"} {
			reportPath := filepath.Join(projectPath, "masking_report."+ext)
			content, err := os.ReadFile(reportPath)
			if err != nil {
				continue
			}

			// A saved JSON report can be re-rendered as text on request.
			if reportFormat == "text" && ext == "json" {
				var rep report.Report
				if err := json.Unmarshal(content, &rep); err != nil {
					return fmt.Errorf("parsing %s: %w", reportPath, err)
				}
				text, err := report.NewGenerator("text").Generate(&rep)
				if err != nil {
					return err
				}
				fmt.Print(text)
				return nil
			}

			fmt.Print(string(content))
			return nil
		}

		return fmt.Errorf("no masking report found in %s", projectPath)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "Output format: json, yaml, or text")
}
