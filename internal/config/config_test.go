package config

import (
	"strings"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	if cfg.Masking.MaskFormat != DefaultMaskFormat {
		t.Errorf("mask format = %q", cfg.Masking.MaskFormat)
	}
	if len(cfg.Masking.SensitiveKeyPatterns) == 0 {
		t.Error("defaults must ship sensitive key patterns")
	}
	if len(cfg.Scanner.FilePatterns) == 0 {
		t.Error("defaults must ship file patterns")
	}
	if cfg.Backup.Directory == "" || cfg.Backup.Suffix == "" {
		t.Error("backup defaults incomplete")
	}
	if cfg.Detector.Provider != "ollama" {
		t.Errorf("default provider = %q", cfg.Detector.Provider)
	}

	if err := validateConfig(cfg); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "empty mask format",
			mutate:  func(c *Config) { c.Masking.MaskFormat = "" },
			wantErr: "mask_format",
		},
		{
			name:    "empty backup directory",
			mutate:  func(c *Config) { c.Backup.Directory = "" },
			wantErr: "backup directory",
		},
		{
			name:    "unknown detector provider",
			mutate:  func(c *Config) { c.Detector.Provider = "anthropic" },
			wantErr: "detector provider",
		},
		{
			name:    "unknown report format",
			mutate:  func(c *Config) { c.Report.Format = "xml" },
			wantErr: "report format",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "log level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "logfmt" },
			wantErr: "log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaults()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
