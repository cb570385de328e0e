// Package backup snapshots existing target files before a deployment
// overwrites them and restores those snapshots on rollback.
package backup

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
)

// DefaultRetention is how many backups are kept per agent; older ones are
// pruned oldest-first after each new backup.
const DefaultRetention = 5

// timestampLayout embeds a lexically sortable timestamp in backup
// directory names, so pruning can order them by name alone.
const timestampLayout = "20060102_150405"

// Manager creates and restores per-agent backups under a shared root.
type Manager struct {
	root      string
	retention int
	now       func() time.Time
}

// New creates a Manager rooted at the given backup directory.
func New(root string) *Manager {
	return &Manager{root: root, retention: DefaultRetention, now: time.Now}
}

// WithRetention overrides the per-agent retention count.
func (m *Manager) WithRetention(n int) *Manager {
	if n > 0 {
		m.retention = n
	}
	return m
}

// WithClock overrides the timestamp source; used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// CreateBackup copies every path in paths that currently exists into a
// fresh timestamped directory for the agent and returns that directory.
// When none of the paths exist there is nothing to protect and the
// returned directory is empty with no error.
func (m *Manager) CreateBackup(agentID string, paths []string) (string, error) {
	logger := logging.GetLogger("backup")

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		logger.Debug().Str("agent", agentID).Msg("no existing files, skipping backup")
		return "", nil
	}

	backupDir := filepath.Join(m.root, agentID, m.now().UTC().Format(timestampLayout))
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed, "failed to create backup directory %s", backupDir)
	}

	for _, p := range existing {
		dest := filepath.Join(backupDir, filepath.Base(p))
		info, err := os.Stat(p)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrBackupFailed, "failed to stat %s", p)
		}
		if info.IsDir() {
			err = copyDir(p, dest)
		} else {
			err = copyFile(p, dest)
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrBackupFailed, "failed to back up %s", filepath.Base(p))
		}
	}

	logger.Info().Str("agent", agentID).Str("dir", backupDir).
		Int("files", len(existing)).Msg("backup created")

	if err := m.pruneOld(agentID); err != nil {
		// Pruning failure never invalidates the backup that was just made.
		logger.Warn().Err(err).Str("agent", agentID).Msg("failed to prune old backups")
	}

	return backupDir, nil
}

// RestoreBackup copies entries from backupDir back over their original
// paths, matched by basename. The current file or directory at each
// matched location is replaced. Entries with no matching original path
// are skipped; restoration is best-effort per file.
func (m *Manager) RestoreBackup(backupDir string, originalPaths []string) error {
	logger := logging.GetLogger("backup")

	if _, err := os.Stat(backupDir); err != nil {
		return errors.Newf(errors.ErrRollbackFailed, "backup directory does not exist: %s", backupDir)
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRollbackFailed, "failed to read backup directory %s", backupDir)
	}

	for _, entry := range entries {
		original := matchByBasename(entry.Name(), originalPaths)
		if original == "" {
			logger.Warn().Str("entry", entry.Name()).Msg("no original path for backup entry, skipping")
			continue
		}

		if err := os.RemoveAll(original); err != nil {
			return errors.Wrapf(err, errors.ErrRollbackFailed, "failed to remove %s", original)
		}

		backupPath := filepath.Join(backupDir, entry.Name())
		if entry.IsDir() {
			err = copyDir(backupPath, original)
		} else {
			err = copyFile(backupPath, original)
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrRollbackFailed, "failed to restore %s", entry.Name())
		}

		logger.Debug().Str("path", original).Msg("restored from backup")
	}

	return nil
}

// pruneOld removes the oldest backup directories for an agent beyond the
// retention count. Directory names embed the timestamp, so lexical order
// is chronological order.
func (m *Manager) pruneOld(agentID string) error {
	agentDir := filepath.Join(m.root, agentID)

	entries, err := os.ReadDir(agentDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	if len(dirs) <= m.retention {
		return nil
	}

	sort.Strings(dirs)
	for _, name := range dirs[:len(dirs)-m.retention] {
		if err := os.RemoveAll(filepath.Join(agentDir, name)); err != nil {
			return err
		}
	}
	return nil
}

func matchByBasename(name string, paths []string) string {
	for _, p := range paths {
		if filepath.Base(p) == name {
			return p
		}
	}
	return ""
}

func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func copyDir(source, destination string) error {
	if err := os.MkdirAll(destination, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(source, entry.Name())
		dstPath := filepath.Join(destination, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}
