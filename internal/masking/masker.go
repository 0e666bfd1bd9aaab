package masking

// masker is the shared contract of the per-format line rewriters. All
// implementations preserve line count, pass blank and comment lines
// through byte-identical, and replace only sensitive value substrings.
type masker interface {
	maskContent(content string) (string, []Item)
}

// unquote strips one layer of matching single or double quotes from both
// ends of s, if present. Inner quotes are left alone.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
