package masking

import "strings"

// yamlMasker rewrites YAML documents without a full parser. Nesting is
// inferred from indentation alone: a stack of (indent, key) scopes tracks
// the active dotted path, reset on every call. Sequence items (lines
// starting with "-") are passed through unmodified, so secrets nested
// inside sequences are never masked.
type yamlMasker struct {
	classifier *Classifier
	maskFormat string
}

// yamlScope is one open mapping level on the indentation stack.
type yamlScope struct {
	indent int
	key    string
}

func (m *yamlMasker) maskContent(content string) (string, []Item) {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	var items []Item
	var stack []yamlScope

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			result = append(result, line)
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		// Close every scope at or below the current indentation.
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}

		if strings.Contains(stripped, ":") && !strings.HasPrefix(stripped, "-") {
			keyPart, valuePart, _ := strings.Cut(stripped, ":")
			keyPart = strings.TrimSpace(keyPart)
			valuePart = strings.TrimSpace(valuePart)

			fullKey := keyPart
			if len(stack) > 0 {
				parts := make([]string, 0, len(stack)+1)
				for _, scope := range stack {
					parts = append(parts, scope.key)
				}
				fullKey = strings.Join(append(parts, keyPart), ".")
			}

			if valuePart != "" && !strings.HasPrefix(valuePart, "#") {
				actual := unquote(valuePart)
				if m.classifier.ShouldMask(fullKey, actual) {
					// Replace only the first occurrence of the raw value
					// substring; key and indentation stay untouched.
					masked := strings.Replace(line, valuePart, `"`+m.maskFormat+`"`, 1)
					result = append(result, masked)
					items = append(items, Item{
						Line:   i + 1,
						Key:    fullKey,
						Value:  actual,
						Format: FormatYAML,
					})
					continue
				}
			} else {
				// No inline scalar: this key opens a nested scope.
				stack = append(stack, yamlScope{indent: indent, key: keyPart})
			}
		}

		result = append(result, line)
	}

	return strings.Join(result, "\n"), items
}
