// Package backup snapshots files before mutation and restores them from a
// persisted manifest.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/confmask/confmask/internal/config"
	"github.com/confmask/confmask/internal/logger"
)

const manifestName = "manifest.json"

// Manager copies files into a per-project backup directory and tracks the
// latest snapshot of each file in a JSON manifest. Only the most recent
// backup per original path stays reachable through the manifest; older
// snapshot files remain on disk but are never restored or pruned.
//
// The manifest read-modify-write cycle is not atomic: callers must
// serialize backup operations per project root.
type Manager struct {
	dirName string
	suffix  string
	logger  *logger.Logger
	now     func() time.Time
}

// New creates a backup manager from the backup configuration.
func New(cfg config.BackupConfig, log *logger.Logger) *Manager {
	return &Manager{
		dirName: cfg.Directory,
		suffix:  cfg.Suffix,
		logger:  log,
		now:     time.Now,
	}
}

func (m *Manager) backupDir(root string) string {
	return filepath.Join(root, m.dirName)
}

func (m *Manager) manifestPath(root string) string {
	return filepath.Join(m.backupDir(root), manifestName)
}

// Create copies file into the project's backup directory and records it in
// the manifest, overwriting any previous entry for the same original path.
// It returns the backup path.
func (m *Manager) Create(file, root string) (string, error) {
	file, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", file, err)
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", root, err)
	}

	dir := m.backupDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	relPath, err := filepath.Rel(root, file)
	if err != nil {
		return "", fmt.Errorf("relativizing %s: %w", file, err)
	}

	timestamp := m.now().Format("20060102_150405")
	name := strings.ReplaceAll(relPath, string(os.PathSeparator), "_") + "_" + timestamp + m.suffix
	backupPath := filepath.Join(dir, name)

	if err := copyFile(file, backupPath); err != nil {
		return "", fmt.Errorf("copying to backup: %w", err)
	}

	manifest, err := m.loadManifest(root)
	if err != nil {
		return "", err
	}
	manifest[file] = backupPath
	if err := m.saveManifest(root, manifest); err != nil {
		return "", err
	}

	m.logger.Debug("Backup created",
		zap.String("file", file),
		zap.String("backup", backupPath),
	)
	return backupPath, nil
}

// RestoreAll copies every manifest entry whose backup file still exists
// back over its original path and returns the restored original paths.
// A missing manifest means nothing to restore, not an error; entries whose
// backup file has disappeared are skipped silently.
func (m *Manager) RestoreAll(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	manifest, err := m.loadManifest(root)
	if err != nil {
		return nil, err
	}

	var restored []string
	for original, backupPath := range manifest {
		if _, err := os.Stat(backupPath); err != nil {
			continue
		}
		if err := copyFile(backupPath, original); err != nil {
			return restored, fmt.Errorf("restoring %s: %w", original, err)
		}
		restored = append(restored, original)
		m.logger.Debug("File restored",
			zap.String("file", original),
			zap.String("backup", backupPath),
		)
	}
	return restored, nil
}

// Latest returns the manifest entry for file, if any.
func (m *Manager) Latest(file, root string) (string, bool) {
	file, err := filepath.Abs(file)
	if err != nil {
		return "", false
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return "", false
	}

	manifest, err := m.loadManifest(root)
	if err != nil {
		return "", false
	}
	backupPath, ok := manifest[file]
	return backupPath, ok
}

func (m *Manager) loadManifest(root string) (map[string]string, error) {
	data, err := os.ReadFile(m.manifestPath(root))
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	manifest := map[string]string{}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return manifest, nil
}

func (m *Manager) saveManifest(root string, manifest map[string]string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(m.manifestPath(root), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(src); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(dst, data, perm)
}
