// Package scanner discovers candidate configuration files under a project
// root, pruning excluded directories during descent.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/confmask/confmask/internal/config"
	"github.com/confmask/confmask/internal/logger"
)

// FileScanner walks a project tree and yields paths matching the
// configured file-name patterns. Ad-hoc include patterns, when supplied,
// replace the defaults; ad-hoc exclude patterns always win.
type FileScanner struct {
	filePatterns    []string
	excludeDirs     map[string]struct{}
	includePatterns []string
	excludePatterns []string
	logger          *logger.Logger
}

// Option customizes a FileScanner.
type Option func(*FileScanner)

// WithIncludePatterns sets ad-hoc include globs, matched against the bare
// filename. When present, the configured default patterns are ignored.
func WithIncludePatterns(patterns []string) Option {
	return func(s *FileScanner) { s.includePatterns = patterns }
}

// WithExcludePatterns sets ad-hoc exclude globs, matched against both the
// root-relative path and the bare filename.
func WithExcludePatterns(patterns []string) Option {
	return func(s *FileScanner) { s.excludePatterns = patterns }
}

// New creates a FileScanner from the scanner configuration.
func New(cfg config.ScannerConfig, log *logger.Logger, opts ...Option) *FileScanner {
	s := &FileScanner{
		filePatterns: cfg.FilePatterns,
		excludeDirs:  make(map[string]struct{}, len(cfg.ExcludeDirs)),
		logger:       log,
	}
	for _, dir := range cfg.ExcludeDirs {
		s.excludeDirs[dir] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks root and returns the absolute paths of all candidate files,
// in directory-walk order. Each call re-walks the tree.
func (s *FileScanner) Scan(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			// Prune excluded and hidden directories before descending;
			// their entire subtrees are never visited.
			if path != absRoot && s.shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}

		if s.shouldProcess(relPath, d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", absRoot, err)
	}

	s.logger.Debug("Scan complete",
		zap.String("root", absRoot),
		zap.Int("files", len(files)),
	)
	return files, nil
}

// ScanMultiple scans several project roots in sequence.
func (s *FileScanner) ScanMultiple(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		found, err := s.Scan(root)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// Matches reports whether a file with the given root-relative path would
// be selected by this scanner's pattern rules.
func (s *FileScanner) Matches(relPath string) bool {
	return s.shouldProcess(relPath, filepath.Base(relPath))
}

// ExcludesDir reports whether a directory with this name is pruned.
func (s *FileScanner) ExcludesDir(name string) bool {
	return s.shouldExcludeDir(name)
}

func (s *FileScanner) shouldExcludeDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, excluded := s.excludeDirs[name]
	return excluded
}

func (s *FileScanner) shouldProcess(relPath, filename string) bool {
	for _, pattern := range s.excludePatterns {
		if matchGlob(pattern, filepath.ToSlash(relPath)) || matchGlob(pattern, filename) {
			return false
		}
	}

	// Ad-hoc include patterns replace the configured defaults entirely.
	if len(s.includePatterns) > 0 {
		return matchAny(filename, s.includePatterns)
	}

	return matchAny(filename, s.filePatterns)
}

func matchAny(filename string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(pattern, filename) {
			return true
		}
	}
	return false
}

func matchGlob(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
