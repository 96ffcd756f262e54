// Package backup keeps copies of destination record files before a transfer rewrites them.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/logging"
)

const (
	// DirPerm is the permission for backup directories (rwxr-x---)
	DirPerm = 0o750
	// FilePerm is the permission for backup files (rw-r-----)
	FilePerm = 0o640
)

// Options configures a single backup
type Options struct {
	Snapshot    string   // Snapshot root the file belongs to
	Description string   // Human-readable description
	Tags        []string // Tags for categorization
}

// Manager stores backups and their index under a directory.
type Manager struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewManager creates a manager storing backups under dir.
func NewManager(fs afero.Fs, dir string) *Manager {
	return &Manager{fs: fs, dir: dir, now: time.Now}
}

// WithClock replaces the manager's time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Create copies a file into the backup directory and records it in the index.
func (m *Manager) Create(sourcePath string, opts Options) (*Metadata, error) {
	sourceInfo, err := m.fs.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source path %q: %w", sourcePath, err)
	}

	content, err := afero.ReadFile(m.fs, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %q: %w", sourcePath, err)
	}

	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])

	index, err := m.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	created := m.now()
	backupID := created.Format("20060102-150405-") + hashStr[:8]
	for n := 2; ; n++ {
		if _, taken := index.Backups[backupID]; !taken {
			break
		}
		backupID = fmt.Sprintf("%s-%s-%d", created.Format("20060102-150405"), hashStr[:8], n)
	}

	group := snapshotGroup(opts.Snapshot)
	groupDir := filepath.Join(m.dir, group)
	if err := m.fs.MkdirAll(groupDir, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create snapshot backup directory: %w", err)
	}

	backupPath := filepath.Join(groupDir, backupID+"-"+filepath.Base(sourcePath))
	if err := afero.WriteFile(m.fs, backupPath, content, FilePerm); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	metadata := Metadata{
		ID:          backupID,
		SourcePath:  sourcePath,
		BackupPath:  backupPath,
		Snapshot:    opts.Snapshot,
		CreatedAt:   created,
		ModifiedAt:  sourceInfo.ModTime(),
		Hash:        hashStr,
		Size:        sourceInfo.Size(),
		Description: opts.Description,
		Tags:        opts.Tags,
	}

	index.Backups[backupID] = metadata
	if err := m.SaveIndex(index); err != nil {
		return nil, fmt.Errorf("failed to add backup to index: %w", err)
	}

	logging.Debug("created backup",
		logging.Path(sourcePath),
		slog.String("backup_id", backupID),
	)

	return &metadata, nil
}

// Restore writes a backup's content to targetPath after verifying its hash.
// An empty targetPath restores over the file the backup was taken from.
func (m *Manager) Restore(backupID, targetPath string) error {
	metadata, err := m.find(backupID)
	if err != nil {
		return err
	}
	if targetPath == "" {
		targetPath = metadata.SourcePath
	}

	content, err := afero.ReadFile(m.fs, metadata.BackupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	hash := sha256.Sum256(content)
	if hex.EncodeToString(hash[:]) != metadata.Hash {
		return fmt.Errorf("backup file corrupted: hash mismatch")
	}

	if err := m.fs.MkdirAll(filepath.Dir(targetPath), DirPerm); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	// #nosec G306 - restored record files are project data
	if err := afero.WriteFile(m.fs, targetPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write target file: %w", err)
	}

	return nil
}

// List returns all backups, optionally filtered by snapshot root, newest first.
func (m *Manager) List(snapshot string) ([]Metadata, error) {
	index, err := m.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	backups := index.ListBackups()
	if snapshot == "" {
		return backups, nil
	}

	filtered := make([]Metadata, 0, len(backups))
	for _, b := range backups {
		if b.Snapshot == snapshot {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// Delete removes a backup file and its index entry.
func (m *Manager) Delete(backupID string) error {
	index, err := m.LoadIndex()
	if err != nil {
		return fmt.Errorf("failed to load backup index: %w", err)
	}

	metadata, exists := index.Backups[backupID]
	if !exists {
		return fmt.Errorf("backup %q not found", backupID)
	}

	if err := m.fs.Remove(metadata.BackupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete backup file: %w", err)
	}

	delete(index.Backups, backupID)
	if err := m.SaveIndex(index); err != nil {
		return fmt.Errorf("failed to remove backup from index: %w", err)
	}

	return nil
}

// Verify checks that a backup file is present and matches its hash.
func (m *Manager) Verify(backupID string) error {
	metadata, err := m.find(backupID)
	if err != nil {
		return err
	}

	content, err := afero.ReadFile(m.fs, metadata.BackupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup file missing: %s", metadata.BackupPath)
		}
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	hash := sha256.Sum256(content)
	if got := hex.EncodeToString(hash[:]); got != metadata.Hash {
		return fmt.Errorf("backup file corrupted: hash mismatch (expected %s, got %s)", metadata.Hash, got)
	}

	return nil
}

// History returns all backups of a source file, newest first.
func (m *Manager) History(sourcePath string) ([]Metadata, error) {
	index, err := m.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	var history []Metadata
	for _, b := range index.Backups {
		if b.SourcePath == sourcePath {
			history = append(history, b)
		}
	}
	sortNewestFirst(history)

	return history, nil
}

func (m *Manager) find(backupID string) (Metadata, error) {
	index, err := m.LoadIndex()
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to load backup index: %w", err)
	}

	metadata, exists := index.Backups[backupID]
	if !exists {
		return Metadata{}, fmt.Errorf("backup %q not found", backupID)
	}
	return metadata, nil
}

// snapshotGroup names the sub-directory holding one snapshot's backups.
func snapshotGroup(snapshot string) string {
	if snapshot == "" {
		return "default"
	}
	sum := sha256.Sum256([]byte(filepath.Clean(snapshot)))
	return filepath.Base(filepath.Clean(snapshot)) + "-" + hex.EncodeToString(sum[:])[:8]
}
