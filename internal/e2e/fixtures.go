package e2e

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/lcf/lcftest"
	"github.com/klauern/cusubmit/internal/model"
)

// Snapshot creates an empty snapshot root named name under the harness home.
func (h *Harness) Snapshot(name string) *lcftest.Snapshot {
	h.t.Helper()
	return lcftest.NewSnapshot(h.t, afero.NewOsFs(), filepath.Join(h.homeDir, name))
}

// Project creates a snapshot with every category folder, one named map, three
// switches, and a character set and a music track.
func (h *Harness) Project(name string) *lcftest.Snapshot {
	h.t.Helper()
	s := h.Snapshot(name)
	s.MkdirCategories()
	s.SetMapInfo(1, "Town of Dawn", "Town")
	s.DB.Switches = lcftest.Switches(3, map[int]string{3: "Mine_Open"})
	s.Save()
	s.WriteMap(1, lcftest.MapWith(lcftest.EventAt(4, 4, lcftest.PlayBGM("Town", 100, 100))), lcftest.T1)
	s.WriteAsset(model.CharSet, "hero.png", "hero", lcftest.T1)
	s.WriteAsset(model.Music, "theme.mid", "theme", lcftest.T1)
	return s
}

// Database loads the database of a snapshot root.
func (h *Harness) Database(root string) *lcf.Database {
	h.t.Helper()
	db, err := lcf.NewYAMLStore(afero.NewOsFs()).LoadDatabase(lcf.DatabasePath(root))
	if err != nil {
		h.t.Fatalf("failed to load database of %s: %v", root, err)
	}
	return db
}

// MapTree loads the map-tree of a snapshot root.
func (h *Harness) MapTree(root string) *lcf.TreeMap {
	h.t.Helper()
	tree, err := lcf.NewYAMLStore(afero.NewOsFs()).LoadMapTree(lcf.MapTreePath(root))
	if err != nil {
		h.t.Fatalf("failed to load map-tree of %s: %v", root, err)
	}
	return tree
}
