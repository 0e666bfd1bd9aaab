package masking

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/confmask/confmask/internal/logger"
)

// Classifier decides whether a key/value pair holds credential-like data.
//
// Key patterns match case-insensitively anywhere in the key; value patterns
// match case-sensitively anchored at the start of the value. Exclusion
// patterns are checked before inclusion patterns and short-circuit to "not
// sensitive". The key-include list may grow during a run via Extend and
// never shrinks.
type Classifier struct {
	keyPatterns          []*regexp.Regexp
	valuePatterns        []*regexp.Regexp
	excludeKeyPatterns   []*regexp.Regexp
	excludeValuePatterns []*regexp.Regexp
	logger               *logger.Logger
}

// ClassifierConfig carries the regex source strings for a Classifier.
type ClassifierConfig struct {
	KeyPatterns          []string
	ValuePatterns        []string
	ExcludeKeyPatterns   []string
	ExcludeValuePatterns []string
}

// NewClassifier compiles the configured pattern sets. Individual patterns
// that fail to compile are dropped; construction itself never fails.
func NewClassifier(cfg ClassifierConfig, log *logger.Logger) *Classifier {
	c := &Classifier{logger: log}
	c.keyPatterns = compileAll(cfg.KeyPatterns, compileKeyPattern, log)
	c.valuePatterns = compileAll(cfg.ValuePatterns, compileValuePattern, log)
	c.excludeKeyPatterns = compileAll(cfg.ExcludeKeyPatterns, compileKeyPattern, log)
	c.excludeValuePatterns = compileAll(cfg.ExcludeValuePatterns, compileValuePattern, log)
	return c
}

// compileKeyPattern compiles a case-insensitive pattern for unanchored search.
func compileKeyPattern(src string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + src)
}

// compileValuePattern compiles a case-sensitive pattern anchored at the start.
func compileValuePattern(src string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + src + ")")
}

func compileAll(sources []string, compile func(string) (*regexp.Regexp, error), log *logger.Logger) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		re, err := compile(src)
		if err != nil {
			log.Debug("Dropping invalid pattern",
				zap.String("pattern", src),
				zap.Error(err),
			)
			continue
		}
		patterns = append(patterns, re)
	}
	return patterns
}

// IsSensitiveKey reports whether the key names a credential. A key matching
// any exclude pattern is never sensitive, regardless of include matches.
func (c *Classifier) IsSensitiveKey(key string) bool {
	for _, re := range c.excludeKeyPatterns {
		if re.MatchString(key) {
			return false
		}
	}
	for _, re := range c.keyPatterns {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether the value itself looks like a credential.
func (c *Classifier) IsSensitiveValue(value string) bool {
	for _, re := range c.excludeValuePatterns {
		if re.MatchString(value) {
			return false
		}
	}
	for _, re := range c.valuePatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// ShouldMask reports whether the key/value pair is a masking target. Empty
// values and values already carrying the mask wrapper are skipped so that
// re-masking a file is a no-op.
func (c *Classifier) ShouldMask(key, value string) bool {
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "***") && strings.HasSuffix(value, "***") {
		return false
	}
	return c.IsSensitiveKey(key) || c.IsSensitiveValue(value)
}

// Extend appends additional key-include patterns, compiled case-insensitive.
// Invalid patterns are dropped silently. Appended patterns apply to every
// subsequent classification for the lifetime of this Classifier; there is
// no way to remove them.
func (c *Classifier) Extend(patterns []string) {
	for _, src := range patterns {
		re, err := compileKeyPattern(src)
		if err != nil {
			c.logger.Debug("Dropping invalid detector pattern",
				zap.String("pattern", src),
				zap.Error(err),
			)
			continue
		}
		c.keyPatterns = append(c.keyPatterns, re)
	}
}
