// Package watch re-masks configuration files as they change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/confmask/confmask/internal/logger"
	"github.com/confmask/confmask/internal/runner"
	"github.com/confmask/confmask/internal/scanner"
)

// debounceWindow coalesces the event bursts editors produce on save.
const debounceWindow = 500 * time.Millisecond

// Watcher observes a project tree and re-masks candidate files on write.
// Directory pruning follows the scanner's rules, so excluded and hidden
// directories (including the backup directory) are never watched.
type Watcher struct {
	runner  *runner.Runner
	scanner *scanner.FileScanner
	logger  *logger.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a Watcher.
func New(r *runner.Runner, s *scanner.FileScanner, log *logger.Logger) *Watcher {
	return &Watcher{
		runner:  r,
		scanner: s,
		logger:  log,
		pending: make(map[string]*time.Timer),
	}
}

// Watch blocks until ctx is cancelled, re-masking files under root as
// they are created or written.
func (w *Watcher) Watch(ctx context.Context, root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", root, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, root); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", zap.String("root", root))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fsw, root, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// addTree watches root and every directory below it the scanner does not
// prune.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.scanner.ExcludesDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, root string, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		if event.Op.Has(fsnotify.Create) && !w.scanner.ExcludesDir(filepath.Base(event.Name)) {
			if err := w.addTree(fsw, event.Name); err != nil {
				w.logger.Warn("Cannot watch new directory",
					zap.String("dir", event.Name),
					zap.Error(err),
				)
			}
		}
		return
	}

	relPath, err := filepath.Rel(root, event.Name)
	if err != nil || !w.scanner.Matches(filepath.ToSlash(relPath)) {
		return
	}

	w.schedule(ctx, event.Name, root)
}

// schedule queues a debounced re-mask of file. A rewrite by the runner
// itself triggers another event; the idempotence guard in the classifier
// makes that second pass a no-op rather than a loop.
func (w *Watcher) schedule(ctx context.Context, file, root string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[file]; ok {
		timer.Stop()
	}
	w.pending[file] = time.AfterFunc(debounceWindow, func() {
		w.mu.Lock()
		delete(w.pending, file)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}

		fileReport := w.runner.ProcessFile(ctx, file, root)
		if fileReport.Error != "" {
			w.logger.Warn("Re-mask failed",
				zap.String("file", file),
				zap.String("error", fileReport.Error),
			)
			return
		}
		if fileReport.MaskedCount > 0 {
			w.logger.Info("File re-masked",
				zap.String("file", file),
				zap.Int("masked", fileReport.MaskedCount),
			)
		}
	})
}
