package masking

import (
	"strings"
	"testing"
)

func newTestYamlMasker(t *testing.T) *yamlMasker {
	t.Helper()
	c := newTestClassifier(t, ClassifierConfig{
		KeyPatterns: []string{"password", "secret", "token"},
	})
	return &yamlMasker{classifier: c, maskFormat: "***MASKED***"}
}

func TestYamlMaskerNesting(t *testing.T) {
	m := newTestYamlMasker(t)

	content := strings.Join([]string{
		"spring:",
		"  datasource:",
		"    password: hunter2",
	}, "\n")

	masked, items := m.maskContent(content)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Key != "spring.datasource.password" {
		t.Errorf("key = %q, want spring.datasource.password", item.Key)
	}
	if item.Value != "hunter2" {
		t.Errorf("value = %q, want hunter2", item.Value)
	}
	if item.Line != 3 {
		t.Errorf("line = %d, want 3", item.Line)
	}

	lines := strings.Split(masked, "\n")
	if lines[2] != `    password: "***MASKED***"` {
		t.Errorf("masked line = %q, indentation must be preserved", lines[2])
	}
}

func TestYamlMaskerSiblingScopes(t *testing.T) {
	m := newTestYamlMasker(t)

	content := strings.Join([]string{
		"spring:",
		"  datasource:",
		"    password: hunter2",
		"  security:",
		"    token: abc",
		"server:",
		"  port: 8080",
	}, "\n")

	_, items := m.maskContent(content)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Key != "spring.datasource.password" {
		t.Errorf("first key = %q", items[0].Key)
	}
	// The datasource scope must have been popped when security started.
	if items[1].Key != "spring.security.token" {
		t.Errorf("second key = %q, want spring.security.token", items[1].Key)
	}
}

func TestYamlMaskerIdentity(t *testing.T) {
	m := newTestYamlMasker(t)

	content := strings.Join([]string{
		"server:",
		"  port: 8080",
		"",
		"# comment",
		"logging:",
		"  level: info",
	}, "\n")

	masked, items := m.maskContent(content)
	if masked != content {
		t.Error("content without sensitive values must pass through unchanged")
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestYamlMaskerIdempotence(t *testing.T) {
	m := newTestYamlMasker(t)

	content := `password: "hunter2"`
	once, items := m.maskContent(content)
	if len(items) != 1 {
		t.Fatalf("first pass: expected 1 item, got %d", len(items))
	}

	twice, items := m.maskContent(once)
	if twice != once {
		t.Error("re-masking masked content must be a no-op")
	}
	if len(items) != 0 {
		t.Errorf("re-masking yielded %d new items", len(items))
	}
}

func TestYamlMaskerSequenceItemsPassThrough(t *testing.T) {
	m := newTestYamlMasker(t)

	content := strings.Join([]string{
		"servers:",
		"  - password: hunter2",
	}, "\n")

	masked, items := m.maskContent(content)
	if masked != content {
		t.Error("sequence items must pass through unmodified")
	}
	if len(items) != 0 {
		t.Errorf("expected no items for sequence-nested secrets, got %d", len(items))
	}
}

func TestYamlMaskerQuotedValue(t *testing.T) {
	m := newTestYamlMasker(t)

	masked, items := m.maskContent(`password: "hunter2"`)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Value != "hunter2" {
		t.Errorf("recorded value = %q, quotes must be stripped", items[0].Value)
	}
	if masked != `password: "***MASKED***"` {
		t.Errorf("masked = %q", masked)
	}
}

func TestYamlMaskerInlineCommentValueTreatedAsParent(t *testing.T) {
	m := newTestYamlMasker(t)

	content := strings.Join([]string{
		"password: # set via env",
		"  nested: hunter2",
	}, "\n")

	_, items := m.maskContent(content)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Key != "password.nested" {
		t.Errorf("key = %q, comment-only value must open a scope", items[0].Key)
	}
}

func TestYamlMaskerPreservesLineCount(t *testing.T) {
	m := newTestYamlMasker(t)

	content := "a: 1\n\npassword: x\n# end\n"
	masked, _ := m.maskContent(content)
	if got, want := strings.Count(masked, "\n"), strings.Count(content, "\n"); got != want {
		t.Errorf("line count changed: %d != %d", got, want)
	}
}

func TestYamlMaskerKeyAndIndentUntouched(t *testing.T) {
	m := newTestYamlMasker(t)

	masked, items := m.maskContent("    db_password: s3cr3t99")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if masked != `    db_password: "***MASKED***"` {
		t.Errorf("masked = %q", masked)
	}
}
