package masking

import (
	"regexp"
	"strings"
)

// propertiesLineRe splits a Java properties line at the first "=" or ":".
var propertiesLineRe = regexp.MustCompile(`^([^=:]+)[=:](.*)$`)

// propertiesMasker rewrites Java-style .properties files. Comment lines
// start with "#" or "!".
type propertiesMasker struct {
	classifier *Classifier
	maskFormat string
}

func (m *propertiesMasker) maskContent(content string) (string, []Item) {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	var items []Item

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "!") {
			result = append(result, line)
			continue
		}

		if match := propertiesLineRe.FindStringSubmatch(line); match != nil {
			key := strings.TrimSpace(match[1])
			value := strings.TrimSpace(match[2])

			if m.classifier.ShouldMask(key, value) {
				// Separator choice looks at the whole line, not at which
				// character the split actually happened on. A line parsed
				// on ":" whose value contains "=" is rewritten with "=".
				separator := ":"
				if strings.Contains(line, "=") {
					separator = "="
				}
				result = append(result, key+separator+m.maskFormat)
				items = append(items, Item{
					Line:   i + 1,
					Key:    key,
					Value:  value,
					Format: FormatProperties,
				})
				continue
			}
		}

		result = append(result, line)
	}

	return strings.Join(result, "\n"), items
}
