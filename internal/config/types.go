package config

import "time"

// DefaultMaskFormat is the literal replacement text for redacted values.
const DefaultMaskFormat = "***MASKED***"

// Config represents the main configuration structure
type Config struct {
	Masking  MaskingConfig  `yaml:"masking" mapstructure:"masking"`
	Scanner  ScannerConfig  `yaml:"scanner" mapstructure:"scanner"`
	Backup   BackupConfig   `yaml:"backup" mapstructure:"backup"`
	Detector DetectorConfig `yaml:"detector" mapstructure:"detector"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// MaskingConfig contains the mask sentinel and the classifier pattern sets.
type MaskingConfig struct {
	MaskFormat             string   `yaml:"mask_format" mapstructure:"mask_format"`
	SensitiveKeyPatterns   []string `yaml:"sensitive_key_patterns" mapstructure:"sensitive_key_patterns"`
	SensitiveValuePatterns []string `yaml:"sensitive_value_patterns" mapstructure:"sensitive_value_patterns"`
	ExcludeKeyPatterns     []string `yaml:"exclude_key_patterns" mapstructure:"exclude_key_patterns"`
	ExcludeValuePatterns   []string `yaml:"exclude_value_patterns" mapstructure:"exclude_value_patterns"`
}

// ScannerConfig contains file discovery configuration.
type ScannerConfig struct {
	FilePatterns []string `yaml:"file_patterns" mapstructure:"file_patterns"`
	ExcludeDirs  []string `yaml:"exclude_dirs" mapstructure:"exclude_dirs"`
}

// BackupConfig contains backup manager configuration.
type BackupConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Directory string `yaml:"directory" mapstructure:"directory"`
	Suffix    string `yaml:"suffix" mapstructure:"suffix"`
}

// DetectorConfig contains LLM-based key detection configuration.
type DetectorConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Provider       string        `yaml:"provider" mapstructure:"provider"` // ollama or openai
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Model          string        `yaml:"model" mapstructure:"model"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries     int           `yaml:"max_retries" mapstructure:"max_retries"`
	RateLimit      float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	PromptTemplate string        `yaml:"prompt_template" mapstructure:"prompt_template"`
}

// ReportConfig contains report output configuration.
type ReportConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // json, yaml, or text
	Output string `yaml:"output" mapstructure:"output"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Masking: MaskingConfig{
			MaskFormat: DefaultMaskFormat,
			SensitiveKeyPatterns: []string{
				"password", "passwd", "pwd", "secret", "token",
				"api[-_]?key", "private[-_]?key", "credential",
				"auth[-_]?token", "encrypt", "signing[-_]?key",
			},
		},
		Scanner: ScannerConfig{
			FilePatterns: []string{
				"application.properties",
				"application.yml",
				"application.yaml",
				"application-*.yml",
				"application-*.yaml",
				"application-*.properties",
				"*.env",
				".env",
				"bootstrap.yml",
				"bootstrap.properties",
			},
			ExcludeDirs: []string{
				".git", "node_modules", "target", "build", ".idea", ".vscode",
			},
		},
		Backup: BackupConfig{
			Enabled:   true,
			Directory: ".confmask_backup",
			Suffix:    ".backup",
		},
		Detector: DetectorConfig{
			Enabled:    false,
			Provider:   "ollama",
			Endpoint:   "http://localhost:11434",
			Model:      "gemma3:27b",
			Timeout:    120 * time.Second,
			MaxRetries: 3,
			RateLimit:  1,
		},
		Report: ReportConfig{
			Format: "json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
