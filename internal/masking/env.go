package masking

import (
	"regexp"
	"strings"
)

// envLineRe matches a shell-env assignment with an optional export prefix.
var envLineRe = regexp.MustCompile(`^(export\s+)?([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

// envMasker rewrites shell-env files. Masked values are always emitted
// double-quoted, whatever the original quoting was.
type envMasker struct {
	classifier *Classifier
	maskFormat string
}

func (m *envMasker) maskContent(content string) (string, []Item) {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	var items []Item

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			result = append(result, line)
			continue
		}

		if match := envLineRe.FindStringSubmatch(line); match != nil {
			exportPrefix, key := match[1], match[2]
			value := unquote(match[3])

			if m.classifier.ShouldMask(key, value) {
				result = append(result, exportPrefix+key+`="`+m.maskFormat+`"`)
				items = append(items, Item{
					Line:   i + 1,
					Key:    key,
					Value:  value,
					Format: FormatEnv,
				})
				continue
			}
		}

		result = append(result, line)
	}

	return strings.Join(result, "\n"), items
}
