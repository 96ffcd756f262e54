package lcf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Store loads and saves the record files of a snapshot.
// Implementations own the on-disk encoding; callers only see the decoded records.
type Store interface {
	LoadDatabase(path string) (*Database, error)
	SaveDatabase(path string, db *Database) error
	LoadMapTree(path string) (*TreeMap, error)
	SaveMapTree(path string, tree *TreeMap) error
	LoadMap(path string) (*Map, error)
	SaveMap(path string, m *Map) error
}

// YAMLStore persists records as YAML documents under the conventional file names.
type YAMLStore struct {
	fs     afero.Fs
	atomic bool
}

// NewYAMLStore creates a store over the given filesystem.
// Writes go through a temporary file and a rename unless disabled with WithAtomicWrites.
func NewYAMLStore(fs afero.Fs) *YAMLStore {
	return &YAMLStore{fs: fs, atomic: true}
}

// WithAtomicWrites toggles temp-file-and-rename writes.
func (s *YAMLStore) WithAtomicWrites(atomic bool) *YAMLStore {
	s.atomic = atomic
	return s
}

// LoadDatabase reads a database file.
func (s *YAMLStore) LoadDatabase(path string) (*Database, error) {
	var db Database
	if err := s.load(path, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// SaveDatabase writes a database file as a whole.
func (s *YAMLStore) SaveDatabase(path string, db *Database) error {
	return s.save(path, db)
}

// LoadMapTree reads a map-tree file.
func (s *YAMLStore) LoadMapTree(path string) (*TreeMap, error) {
	var tree TreeMap
	if err := s.load(path, &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// SaveMapTree writes a map-tree file as a whole.
func (s *YAMLStore) SaveMapTree(path string, tree *TreeMap) error {
	return s.save(path, tree)
}

// LoadMap reads a single map file.
func (s *YAMLStore) LoadMap(path string) (*Map, error) {
	var m Map
	if err := s.load(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMap writes a single map file.
func (s *YAMLStore) SaveMap(path string, m *Map) error {
	return s.save(path, m)
}

func (s *YAMLStore) load(path string, out any) error {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %q: %w", path, err)
	}
	return nil
}

func (s *YAMLStore) save(path string, in any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", path, err)
	}

	if !s.atomic {
		// #nosec G306 - record files are project data shared with the authoring tool
		if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %q: %w", path, err)
		}
		return nil
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %q: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to close %q: %w", tmpName, err)
	}
	if err := s.fs.Chmod(tmpName, 0o644); err != nil && !os.IsNotExist(err) {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to chmod %q: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}
