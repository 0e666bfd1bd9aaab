package masking

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/confmask/confmask/internal/config"
	"github.com/confmask/confmask/internal/logger"
)

// Engine dispatches files to the per-format maskers. All three maskers
// share one Classifier, so patterns added at runtime apply to every file
// the engine processes afterwards.
type Engine struct {
	classifier *Classifier
	maskers    map[Format]masker
	logger     *logger.Logger
}

// NewEngine builds an engine from the masking configuration.
func NewEngine(cfg config.MaskingConfig, log *logger.Logger) *Engine {
	classifier := NewClassifier(ClassifierConfig{
		KeyPatterns:          cfg.SensitiveKeyPatterns,
		ValuePatterns:        cfg.SensitiveValuePatterns,
		ExcludeKeyPatterns:   cfg.ExcludeKeyPatterns,
		ExcludeValuePatterns: cfg.ExcludeValuePatterns,
	}, log)

	maskFormat := cfg.MaskFormat
	if maskFormat == "" {
		maskFormat = config.DefaultMaskFormat
	}

	return &Engine{
		classifier: classifier,
		maskers: map[Format]masker{
			FormatYAML:       &yamlMasker{classifier: classifier, maskFormat: maskFormat},
			FormatProperties: &propertiesMasker{classifier: classifier, maskFormat: maskFormat},
			FormatEnv:        &envMasker{classifier: classifier, maskFormat: maskFormat},
		},
		logger: log,
	}
}

// FormatFor resolves the masker format for a file path. Unknown extensions
// fall back to the properties syntax, which tolerates arbitrary key=value
// text.
func FormatFor(path string) Format {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return FormatYAML
	case ".properties":
		return FormatProperties
	}
	if strings.Contains(filepath.Base(path), ".env") {
		return FormatEnv
	}
	return FormatProperties
}

// MaskFile transforms one file's content. Masking is all-or-nothing: on
// any failure the result carries the error and the content unmodified.
func (e *Engine) MaskFile(path, content string) (result *Result) {
	result = &Result{
		Path:          path,
		Original:      content,
		MaskedContent: content,
	}

	// A transform failure must never abort a multi-file run.
	defer func() {
		if r := recover(); r != nil {
			result.Items = nil
			result.MaskedContent = content
			result.Err = fmt.Errorf("masking %s: %v", path, r)
			e.logger.Error("Masking failed",
				zap.String("path", path),
				zap.Any("panic", r),
			)
		}
	}()

	format := FormatFor(path)
	masked, items := e.maskers[format].maskContent(content)
	result.MaskedContent = masked
	result.Items = items

	if len(items) > 0 {
		e.logger.Debug("Sensitive values masked",
			zap.String("path", path),
			zap.String("format", string(format)),
			zap.Int("count", len(items)),
		)
	}

	return result
}

// AddSensitivePatterns widens the key classifier at runtime. This is the
// integration point for external detectors: patterns they suggest are
// compiled case-insensitive and appended to the include list, and invalid
// regex strings are dropped rather than surfaced.
func (e *Engine) AddSensitivePatterns(patterns []string) {
	e.classifier.Extend(patterns)
}
