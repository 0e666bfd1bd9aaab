package masking

import (
	"strings"
	"testing"
)

func newTestPropertiesMasker(t *testing.T) *propertiesMasker {
	t.Helper()
	c := newTestClassifier(t, ClassifierConfig{
		KeyPatterns: []string{"password", "secret"},
	})
	return &propertiesMasker{classifier: c, maskFormat: "***MASKED***"}
}

func TestPropertiesMaskerBasic(t *testing.T) {
	m := newTestPropertiesMasker(t)

	masked, items := m.maskContent("db.password=s3cr3t")
	if masked != "db.password=***MASKED***" {
		t.Errorf("masked = %q, no quotes must be added", masked)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Key != "db.password" || items[0].Value != "s3cr3t" {
		t.Errorf("item = %+v", items[0])
	}
	if items[0].Format != FormatProperties {
		t.Errorf("format = %q", items[0].Format)
	}
}

func TestPropertiesMaskerColonSeparator(t *testing.T) {
	m := newTestPropertiesMasker(t)

	masked, items := m.maskContent("db.password: s3cr3t")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if masked != "db.password:***MASKED***" {
		t.Errorf("masked = %q", masked)
	}
}

func TestPropertiesMaskerSeparatorPrecedence(t *testing.T) {
	m := newTestPropertiesMasker(t)

	// The line splits on ":" but contains "=" inside the value; the
	// rewrite prefers "=" whenever the line contains one anywhere.
	masked, items := m.maskContent("db.password: s3cr3t=abc")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if masked != "db.password=***MASKED***" {
		t.Errorf("masked = %q, want = separator chosen over :", masked)
	}
}

func TestPropertiesMaskerComments(t *testing.T) {
	m := newTestPropertiesMasker(t)

	content := strings.Join([]string{
		"# password=commented",
		"! password=also-commented",
		"",
		"user=admin",
	}, "\n")

	masked, items := m.maskContent(content)
	if masked != content {
		t.Error("comments and neutral lines must pass through byte-identical")
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestPropertiesMaskerIdempotence(t *testing.T) {
	m := newTestPropertiesMasker(t)

	once, items := m.maskContent("db.password=s3cr3t")
	if len(items) != 1 {
		t.Fatalf("first pass: expected 1 item, got %d", len(items))
	}

	twice, items := m.maskContent(once)
	if twice != once || len(items) != 0 {
		t.Errorf("re-masking changed content (%d new items)", len(items))
	}
}

func TestPropertiesMaskerTrimsKeyAndValue(t *testing.T) {
	m := newTestPropertiesMasker(t)

	masked, items := m.maskContent("  db.password  =  s3cr3t  ")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Key != "db.password" || items[0].Value != "s3cr3t" {
		t.Errorf("item = %+v, key and value must be trimmed", items[0])
	}
	if masked != "db.password=***MASKED***" {
		t.Errorf("masked = %q", masked)
	}
}
