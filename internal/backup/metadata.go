package backup

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// Metadata contains metadata about a single backup
type Metadata struct {
	ID          string    `json:"id"`          // Unique backup identifier (timestamp-based)
	SourcePath  string    `json:"source_path"` // Original record file path
	BackupPath  string    `json:"backup_path"` // Path to backup file
	Snapshot    string    `json:"snapshot"`    // Snapshot root the file belongs to
	CreatedAt   time.Time `json:"created_at"`  // Backup creation timestamp
	ModifiedAt  time.Time `json:"modified_at"` // Source modification timestamp
	Hash        string    `json:"hash"`        // SHA256 hash of content
	Size        int64     `json:"size"`        // File size in bytes
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// Index maintains an index of all backups
type Index struct {
	Version string              `json:"version"`
	Updated time.Time           `json:"updated"`
	Backups map[string]Metadata `json:"backups"` // Key: backup ID
}

const (
	// IndexVersion is the current version of the backup index format
	IndexVersion = "1.0"
	// IndexFilename is the name of the index file
	IndexFilename = "index.json"
)

func (m *Manager) indexPath() string {
	return filepath.Join(m.dir, IndexFilename)
}

// LoadIndex loads the backup index, returning an empty one when none exists yet.
func (m *Manager) LoadIndex() (*Index, error) {
	path := m.indexPath()

	exists, err := afero.Exists(m.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat index file: %w", err)
	}
	if !exists {
		return &Index{
			Version: IndexVersion,
			Updated: time.Now(),
			Backups: make(map[string]Metadata),
		}, nil
	}

	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse index file: %w", err)
	}
	if index.Backups == nil {
		index.Backups = make(map[string]Metadata)
	}

	return &index, nil
}

// SaveIndex writes the backup index.
func (m *Manager) SaveIndex(index *Index) error {
	if err := m.fs.MkdirAll(m.dir, DirPerm); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	index.Updated = time.Now()

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := afero.WriteFile(m.fs, m.indexPath(), data, FilePerm); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// ListBackups returns all backups sorted by creation time (newest first)
func (idx *Index) ListBackups() []Metadata {
	backups := make([]Metadata, 0, len(idx.Backups))
	for _, backup := range idx.Backups {
		backups = append(backups, backup)
	}
	sortNewestFirst(backups)
	return backups
}

func sortNewestFirst(backups []Metadata) {
	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].ID > backups[j].ID
		}
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
}
