package masking

import (
	"strings"
	"testing"

	"github.com/confmask/confmask/internal/config"
	"github.com/confmask/confmask/internal/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(config.MaskingConfig{
		MaskFormat:           "***MASKED***",
		SensitiveKeyPatterns: []string{"password", "secret", "token"},
	}, logger.Nop())
}

func TestFormatFor(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"application.yml", FormatYAML},
		{"config/application.yaml", FormatYAML},
		{"application.properties", FormatProperties},
		{".env", FormatEnv},
		{".env.production", FormatEnv},
		{"deploy/prod.env", FormatEnv},
		{"README.txt", FormatProperties},
		{"Dockerfile", FormatProperties},
	}

	for _, tc := range cases {
		if got := FormatFor(tc.path); got != tc.want {
			t.Errorf("FormatFor(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestEngineMaskFileDispatch(t *testing.T) {
	e := newTestEngine(t)

	t.Run("YAML", func(t *testing.T) {
		result := e.MaskFile("application.yml", "password: hunter2")
		if !result.Success() {
			t.Fatalf("unexpected error: %v", result.Err)
		}
		if result.MaskedContent != `password: "***MASKED***"` {
			t.Errorf("masked = %q", result.MaskedContent)
		}
		if result.MaskedCount() != 1 {
			t.Errorf("count = %d", result.MaskedCount())
		}
	})

	t.Run("Properties", func(t *testing.T) {
		result := e.MaskFile("application.properties", "db.password=s3cr3t")
		if result.MaskedContent != "db.password=***MASKED***" {
			t.Errorf("masked = %q", result.MaskedContent)
		}
	})

	t.Run("Env", func(t *testing.T) {
		result := e.MaskFile(".env", "export TOKEN=abc123")
		if result.MaskedContent != `export TOKEN="***MASKED***"` {
			t.Errorf("masked = %q", result.MaskedContent)
		}
	})

	t.Run("OriginalPreserved", func(t *testing.T) {
		result := e.MaskFile(".env", "export TOKEN=abc123")
		if result.Original != "export TOKEN=abc123" {
			t.Errorf("original = %q", result.Original)
		}
	})
}

func TestEngineAddSensitivePatterns(t *testing.T) {
	e := newTestEngine(t)

	before := e.MaskFile("application.properties", "ldap.bind_dn=cn=admin")
	if before.MaskedCount() != 0 {
		t.Fatalf("unexpected masking before widening: %d", before.MaskedCount())
	}

	e.AddSensitivePatterns([]string{"bind[-_]?dn", "([broken"})

	// Widening applies to every file processed afterwards.
	after := e.MaskFile("application.properties", "ldap.bind_dn=cn=admin")
	if after.MaskedCount() != 1 {
		t.Errorf("pattern added at runtime was not applied, count = %d", after.MaskedCount())
	}

	other := e.MaskFile("other.properties", "LDAP.BIND-DN: cn=admin")
	if other.MaskedCount() != 1 {
		t.Errorf("widened pattern must persist across files, count = %d", other.MaskedCount())
	}
}

func TestEngineIdentity(t *testing.T) {
	e := newTestEngine(t)

	content := strings.Join([]string{
		"server:",
		"  port: 8080",
	}, "\n")

	result := e.MaskFile("application.yml", content)
	if result.MaskedContent != content {
		t.Error("neutral content must be returned unchanged")
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
}

func TestEngineDefaultMaskFormat(t *testing.T) {
	e := NewEngine(config.MaskingConfig{
		SensitiveKeyPatterns: []string{"password"},
	}, logger.Nop())

	result := e.MaskFile("a.properties", "password=x1")
	if result.MaskedContent != "password="+config.DefaultMaskFormat {
		t.Errorf("masked = %q, want default sentinel", result.MaskedContent)
	}
}
