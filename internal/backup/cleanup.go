package backup

import (
	"fmt"
	"time"
)

// CleanupOptions configures backup cleanup behavior
type CleanupOptions struct {
	// MaxBackups limits the number of backups to keep per source file (0 = unlimited)
	MaxBackups int

	// MaxAge is the maximum age of backups to keep (0 = unlimited)
	MaxAge time.Duration

	// KeepAtLeastOne ensures at least one backup is kept per source file
	KeepAtLeastOne bool

	// Snapshot filters cleanup to a specific snapshot root (empty = all)
	Snapshot string

	// DryRun previews what would be deleted without actually deleting
	DryRun bool
}

// DefaultCleanupOptions returns sensible defaults for cleanup
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{
		MaxBackups:     10,
		MaxAge:         30 * 24 * time.Hour,
		KeepAtLeastOne: true,
	}
}

// Cleanup removes old backups and returns the ids it deleted (or would delete in dry-run mode).
func (m *Manager) Cleanup(opts CleanupOptions) ([]string, error) {
	index, err := m.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	groups := make(map[string][]Metadata)
	for _, b := range index.Backups {
		if opts.Snapshot != "" && b.Snapshot != opts.Snapshot {
			continue
		}
		groups[b.SourcePath] = append(groups[b.SourcePath], b)
	}

	var toDelete []string
	now := m.now()

	for _, backups := range groups {
		sortNewestFirst(backups)

		var groupDelete []string
		for i, b := range backups {
			expired := opts.MaxAge > 0 && now.Sub(b.CreatedAt) > opts.MaxAge
			overLimit := opts.MaxBackups > 0 && i >= opts.MaxBackups
			if expired || overLimit {
				groupDelete = append(groupDelete, b.ID)
			}
		}

		// Everything in the group is going; spare the newest.
		if opts.KeepAtLeastOne && len(groupDelete) == len(backups) && len(groupDelete) > 0 {
			groupDelete = groupDelete[1:]
		}
		toDelete = append(toDelete, groupDelete...)
	}

	var deleted []string
	for _, id := range toDelete {
		if !opts.DryRun {
			if err := m.Delete(id); err != nil {
				return deleted, fmt.Errorf("failed to delete backup %q: %w", id, err)
			}
		}
		deleted = append(deleted, id)
	}

	return deleted, nil
}

// Stats contains statistics about backups
type Stats struct {
	TotalBackups      int
	TotalSize         int64
	BackupsBySnapshot map[string]int
	OldestBackup      time.Time
	NewestBackup      time.Time
}

// Stats returns statistics about the stored backups.
func (m *Manager) Stats() (*Stats, error) {
	index, err := m.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	stats := &Stats{
		TotalBackups:      len(index.Backups),
		BackupsBySnapshot: make(map[string]int),
	}

	for _, b := range index.Backups {
		stats.TotalSize += b.Size
		stats.BackupsBySnapshot[b.Snapshot]++

		if stats.OldestBackup.IsZero() || b.CreatedAt.Before(stats.OldestBackup) {
			stats.OldestBackup = b.CreatedAt
		}
		if b.CreatedAt.After(stats.NewestBackup) {
			stats.NewestBackup = b.CreatedAt
		}
	}

	return stats, nil
}
