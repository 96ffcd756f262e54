// Package lcftest builds snapshot fixtures for tests on an afero filesystem.
package lcftest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/model"
	"github.com/klauern/cusubmit/internal/util"
)

// Fixed modification times used by fixtures.
var (
	T1 = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	T2 = time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC)
	T3 = time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
)

// Snapshot is a snapshot root under construction.
// Tree and DB are written by Save; maps and assets are written immediately.
type Snapshot struct {
	t     *testing.T
	fs    afero.Fs
	store *lcf.YAMLStore
	Root  string
	Tree  *lcf.TreeMap
	DB    *lcf.Database
}

// NewSnapshot creates a root with an empty map-tree and database and saves them.
func NewSnapshot(t *testing.T, fs afero.Fs, root string) *Snapshot {
	t.Helper()
	if err := fs.MkdirAll(root, 0o750); err != nil {
		t.Fatalf("failed to create snapshot root %s: %v", root, err)
	}
	s := &Snapshot{
		t:     t,
		fs:    fs,
		store: lcf.NewYAMLStore(fs),
		Root:  root,
		Tree:  &lcf.TreeMap{Maps: []lcf.MapInfo{lcf.BlankMapInfo(0)}},
		DB:    &lcf.Database{},
	}
	s.Save()
	return s
}

// Store returns the store the snapshot writes through.
func (s *Snapshot) Store() *lcf.YAMLStore {
	return s.store
}

// SetMapInfo sets the map-tree entry of id, growing the tree with blank entries.
func (s *Snapshot) SetMapInfo(id int, name, music string) {
	for len(s.Tree.Maps) <= id {
		s.Tree.Maps = append(s.Tree.Maps, lcf.BlankMapInfo(len(s.Tree.Maps)))
	}
	s.Tree.Maps[id] = lcf.MapInfo{
		ID:     id,
		Name:   name,
		Parent: 0,
		Music:  lcf.Music{Name: music, Volume: 100, Tempo: 100, Balance: 50},
	}
}

// Save writes the map-tree and database.
func (s *Snapshot) Save() {
	s.t.Helper()
	if err := s.store.SaveMapTree(lcf.MapTreePath(s.Root), s.Tree); err != nil {
		s.t.Fatalf("failed to save map-tree: %v", err)
	}
	if err := s.store.SaveDatabase(lcf.DatabasePath(s.Root), s.DB); err != nil {
		s.t.Fatalf("failed to save database: %v", err)
	}
}

// WriteMap saves a map payload and pins its modification time.
func (s *Snapshot) WriteMap(id int, m *lcf.Map, mtime time.Time) string {
	s.t.Helper()
	path := lcf.MapPath(s.Root, id)
	if err := s.store.SaveMap(path, m); err != nil {
		s.t.Fatalf("failed to save map %d: %v", id, err)
	}
	util.Touch(s.t, s.fs, path, mtime)
	return path
}

// WriteAsset writes a file into a category folder and pins its modification time.
func (s *Snapshot) WriteAsset(category model.AssetCategory, filename, content string, mtime time.Time) string {
	s.t.Helper()
	path := filepath.Join(s.Root, category.Folder(), filename)
	util.WriteFileAt(s.t, s.fs, path, content, mtime)
	return path
}

// MkdirCategories creates every category folder.
func (s *Snapshot) MkdirCategories() {
	s.t.Helper()
	for _, info := range model.Categories() {
		if err := s.fs.MkdirAll(filepath.Join(s.Root, info.Folder), 0o750); err != nil {
			s.t.Fatalf("failed to create category folder: %v", err)
		}
	}
}

// MapWith returns a blank map carrying the given events.
func MapWith(events ...lcf.Event) *lcf.Map {
	m := lcf.BlankMap()
	for i := range events {
		if events[i].ID == 0 {
			events[i].ID = i + 1
		}
	}
	m.Events = events
	return m
}

// EventAt returns a single-page event at (x, y) running the given commands.
func EventAt(x, y int, commands ...lcf.EventCommand) lcf.Event {
	return lcf.Event{
		X:     x,
		Y:     y,
		Pages: []lcf.EventPage{{ID: 1, Commands: commands}},
	}
}

// Teleport returns a transfer command to (x, y) on mapID.
func Teleport(mapID, x, y int) lcf.EventCommand {
	return lcf.EventCommand{Code: lcf.CodeTeleport, Parameters: []int{mapID, x, y, 0}}
}

// PlayBGM returns a play-music command.
func PlayBGM(track string, volume, tempo int) lcf.EventCommand {
	return lcf.EventCommand{Code: lcf.CodePlayBGM, String: track, Parameters: []int{0, volume, tempo, 50}}
}

// Switches returns a switch list with ids 1..n named by names (missing names are empty).
func Switches(n int, names map[int]string) []lcf.Switch {
	list := make([]lcf.Switch, n)
	for i := range list {
		list[i] = lcf.Switch{ID: i + 1, Name: names[i+1]}
	}
	return list
}
