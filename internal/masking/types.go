package masking

// Format identifies the configuration file syntax a masker understands.
type Format string

const (
	FormatYAML       Format = "yaml"
	FormatProperties Format = "properties"
	FormatEnv        Format = "env"
)

// Item records a single redacted field. Items are produced once per
// masked value and never mutated afterwards.
type Item struct {
	Line   int    `json:"line"`
	Key    string `json:"key"`
	Value  string `json:"original_value"`
	Format Format `json:"type"`
}

// Result is the outcome of masking one file. Content fields are fixed at
// construction; on failure MaskedContent always equals Original.
type Result struct {
	Path          string
	Original      string
	MaskedContent string
	Items         []Item
	Err           error
}

// MaskedCount returns the number of redacted fields.
func (r *Result) MaskedCount() int {
	return len(r.Items)
}

// Success reports whether the file was transformed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}
