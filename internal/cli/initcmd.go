package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultConfigTemplate = `# confmask configuration

masking:
  # Replacement text for redacted values.
  mask_format: "***MASKED***"

  # Keys matching any of these patterns (case-insensitive) are masked.
  sensitive_key_patterns:
    - "password"
    - "passwd"
    - "pwd"
    - "secret"
    - "token"
    - "api[-_]?key"
    - "private[-_]?key"
    - "credential"
    - "auth[-_]?token"
    - "encrypt"
    - "signing[-_]?key"

  # Values matching these patterns are masked regardless of key name.
  sensitive_value_patterns: []

  # Exclusions win over inclusions.
  exclude_key_patterns: []
  exclude_value_patterns: []

scanner:
  file_patterns:
    - "application.properties"
    - "application.yml"
    - "application.yaml"
    - "application-*.yml"
    - "application-*.yaml"
    - "application-*.properties"
    - "*.env"
    - ".env"
    - "bootstrap.yml"
    - "bootstrap.properties"
  exclude_dirs:
    - ".git"
    - "node_modules"
    - "target"
    - "build"
    - ".idea"
    - ".vscode"

backup:
  enabled: true
  directory: ".confmask_backup"
  suffix: ".backup"

detector:
  enabled: false
  provider: "ollama"
  endpoint: "http://localhost:11434"
  model: "gemma3:27b"
  timeout: 120s
  max_retries: 3
  rate_limit: 1

report:
  format: "json"

logging:
  level: "info"
  format: "console"
`

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml to the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(".", "config.yaml")

		if _, err := os.Stat(target); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}

		if err := os.WriteFile(target, []byte(defaultConfigTemplate), 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Configuration written to %s\n", target)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config.yaml")
}
