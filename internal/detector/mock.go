package detector

import (
	"context"
	"strings"
)

// mockKeywords drives the rule-based stand-in detection.
var mockKeywords = []string{
	"password", "secret", "key", "token", "credential",
	"private", "auth", "api_key", "apikey",
}

// Mock is a rule-based Client stand-in for tests: any assignment line
// whose text mentions a credential keyword yields its key.
type Mock struct {
	// Keys, when set, is returned verbatim instead of scanning content.
	Keys []string
}

// DetectSensitiveKeys scans content line by line for keyword hits.
func (m *Mock) DetectSensitiveKeys(_ context.Context, content string) ([]string, error) {
	if m.Keys != nil {
		return m.Keys, nil
	}

	seen := make(map[string]struct{})
	var found []string
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		for _, keyword := range mockKeywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			var key string
			if idx := strings.Index(line, "="); idx != -1 {
				key = strings.TrimSpace(line[:idx])
			} else if idx := strings.Index(line, ":"); idx != -1 {
				key = strings.TrimSpace(line[:idx])
			}
			if key == "" {
				continue
			}
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				found = append(found, key)
			}
		}
	}
	return found, nil
}

// Available always succeeds.
func (m *Mock) Available(context.Context) bool { return true }

// ListModels returns a single placeholder model.
func (m *Mock) ListModels(context.Context) ([]string, error) {
	return []string{"mock"}, nil
}
