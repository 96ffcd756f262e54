// Package workflow drives the scan, transfer, submit, and export sequence.
//
// A Session replaces process-wide state: it owns the snapshot paths and the
// last scanned changelog, and serializes its operations so concurrent callers
// never apply each other's diff.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/backup"
	"github.com/klauern/cusubmit/internal/diff"
	"github.com/klauern/cusubmit/internal/export"
	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
	"github.com/klauern/cusubmit/internal/submit"
	"github.com/klauern/cusubmit/internal/transfer"
)

// ErrNoChangelog is returned by operations that need a prior scan.
var ErrNoChangelog = errors.New("no changelog: scan the snapshots first")

// ErrNoTarget is returned by ExportChangelog before any transfer or submit.
var ErrNoTarget = errors.New("no transfer or submission target yet")

// Session holds the state of one scan-then-apply workflow.
type Session struct {
	mu sync.Mutex

	fs        afero.Fs
	store     lcf.Store
	opts      Options
	generator *diff.Generator

	base        string
	modified    string
	destination string
	target      string
	changelog   *model.Changelog
}

// New creates a Session reading and writing through fs and store.
func New(fs afero.Fs, store lcf.Store, opts Options) *Session {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Session{
		fs:        fs,
		store:     store,
		opts:      opts,
		generator: diff.NewGenerator(fs, store, opts.Scan),
	}
}

// Scan computes the changelog between base and modified and makes it current.
// On failure the previous changelog is discarded.
func (s *Session) Scan(ctx context.Context, base, modified string) (*model.Changelog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.changelog = nil
	cl, err := s.generator.Scan(ctx, base, modified)
	if err != nil {
		return nil, err
	}

	s.base, s.modified = base, modified
	s.changelog = cl
	return cl, nil
}

// Changelog returns the current changelog, or nil before a successful scan.
func (s *Session) Changelog() *model.Changelog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changelog
}

// Paths returns the base, modified, and destination snapshot roots.
func (s *Session) Paths() (base, modified, destination string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base, s.modified, s.destination
}

// Transfer replays the current changelog onto destination, copying from the
// modified snapshot.
func (s *Session) Transfer(ctx context.Context, destination string) (*transfer.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.changelog == nil {
		return nil, ErrNoChangelog
	}
	s.destination = destination

	opts := transfer.Options{Progress: s.opts.Progress}
	if s.opts.Backups != nil {
		opts.Backup = s.backupFunc(destination)
	}

	result, err := transfer.New(s.fs, s.store, opts).Apply(ctx, s.changelog, s.modified, destination)
	if result != nil && len(result.Items) > 0 {
		s.target = destination
	}
	if s.opts.Backups != nil {
		s.pruneBackups(destination)
	}
	return result, err
}

func (s *Session) backupFunc(destination string) transfer.BackupFunc {
	return func(path string) (string, error) {
		meta, err := s.opts.Backups.Create(path, backup.Options{
			Snapshot:    destination,
			Description: fmt.Sprintf("before transfer from %s", s.modified),
			Tags:        []string{"transfer"},
		})
		if err != nil {
			return "", err
		}
		return meta.ID, nil
	}
}

func (s *Session) pruneBackups(destination string) {
	opts := backup.DefaultCleanupOptions()
	opts.MaxBackups = s.opts.MaxBackups
	opts.MaxAge = 0
	opts.Snapshot = destination

	removed, err := s.opts.Backups.Cleanup(opts)
	if err != nil {
		logging.Warn("backup cleanup failed", logging.Err(err))
		return
	}
	if len(removed) > 0 {
		logging.Debug("pruned old backups", logging.Count(len(removed)))
	}
}

// Submit packages the current changelog under the configured output directory.
// An empty name selects submit.DefaultName.
func (s *Session) Submit(ctx context.Context, name string) (*submit.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.changelog == nil {
		return nil, ErrNoChangelog
	}

	result, err := submit.NewPackager(s.fs, s.opts.Submit).Package(ctx, s.changelog, s.modified, s.opts.OutputDir, name)
	if err != nil {
		return nil, err
	}
	s.target = result.Dir
	return result, nil
}

// ExportChangelog writes the text rendering of the current changelog next to
// the last transfer destination or submission package and returns its path.
func (s *Session) ExportChangelog() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.changelog == nil {
		return "", ErrNoChangelog
	}
	if s.target == "" {
		return "", ErrNoTarget
	}
	return export.WriteTextFile(s.fs, filepath.Dir(filepath.Clean(s.target)), s.changelog)
}
