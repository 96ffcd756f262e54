package backup

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/util"
)

// steppingClock returns a clock that advances by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func newTestManager(t *testing.T) (*Manager, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	start := time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)
	return NewManager(fs, "/backups").WithClock(steppingClock(start, time.Minute)), fs
}

func TestCreateAndRestore(t *testing.T) {
	m, fs := newTestManager(t)
	util.WriteFile(t, fs, "/dest/RPG_RT.ldb", "database v1")

	meta, err := m.Create("/dest/RPG_RT.ldb", Options{Snapshot: "/dest", Description: "before transfer"})
	util.AssertNoError(t, err)

	util.AssertEqual(t, meta.SourcePath, "/dest/RPG_RT.ldb")
	util.AssertEqual(t, meta.Snapshot, "/dest")
	util.AssertEqual(t, meta.Size, int64(len("database v1")))
	if !strings.HasSuffix(meta.BackupPath, "-RPG_RT.ldb") {
		t.Errorf("backup path %q should keep the source file name", meta.BackupPath)
	}
	util.AssertEqual(t, util.ReadFile(t, fs, meta.BackupPath), "database v1")

	util.WriteFile(t, fs, "/dest/RPG_RT.ldb", "database v2")
	util.AssertNoError(t, m.Restore(meta.ID, "/dest/RPG_RT.ldb"))
	util.AssertEqual(t, util.ReadFile(t, fs, "/dest/RPG_RT.ldb"), "database v1")
}

func TestCreate_MissingSource(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.Create("/dest/missing.lmt", Options{}); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestCreate_UniqueIDsWithinSameSecond(t *testing.T) {
	fs := afero.NewMemMapFs()
	fixed := time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)
	m := NewManager(fs, "/backups").WithClock(func() time.Time { return fixed })
	util.WriteFile(t, fs, "/dest/RPG_RT.lmt", "same")

	first, err := m.Create("/dest/RPG_RT.lmt", Options{Snapshot: "/dest"})
	util.AssertNoError(t, err)
	second, err := m.Create("/dest/RPG_RT.lmt", Options{Snapshot: "/dest"})
	util.AssertNoError(t, err)

	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both were %q", first.ID)
	}
	if !strings.HasSuffix(second.ID, "-2") {
		t.Errorf("second id %q should carry a -2 suffix", second.ID)
	}
}

func TestVerify(t *testing.T) {
	m, fs := newTestManager(t)
	util.WriteFile(t, fs, "/dest/RPG_RT.ldb", "database")

	meta, err := m.Create("/dest/RPG_RT.ldb", Options{Snapshot: "/dest"})
	util.AssertNoError(t, err)
	util.AssertNoError(t, m.Verify(meta.ID))

	util.WriteFile(t, fs, meta.BackupPath, "tampered")
	if err := m.Verify(meta.ID); err == nil || !strings.Contains(err.Error(), "hash mismatch") {
		t.Errorf("expected hash mismatch, got %v", err)
	}
	if err := m.Restore(meta.ID, "/dest/RPG_RT.ldb"); err == nil {
		t.Error("expected restore of corrupted backup to fail")
	}

	util.AssertNoError(t, fs.Remove(meta.BackupPath))
	if err := m.Verify(meta.ID); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("expected missing file error, got %v", err)
	}

	if err := m.Verify("nope"); err == nil {
		t.Error("expected error for unknown backup")
	}
}

func TestListAndHistory(t *testing.T) {
	m, fs := newTestManager(t)
	util.WriteFile(t, fs, "/a/RPG_RT.ldb", "a1")
	util.WriteFile(t, fs, "/b/RPG_RT.ldb", "b1")

	first, err := m.Create("/a/RPG_RT.ldb", Options{Snapshot: "/a"})
	util.AssertNoError(t, err)
	_, err = m.Create("/b/RPG_RT.ldb", Options{Snapshot: "/b"})
	util.AssertNoError(t, err)
	util.WriteFile(t, fs, "/a/RPG_RT.ldb", "a2")
	latest, err := m.Create("/a/RPG_RT.ldb", Options{Snapshot: "/a"})
	util.AssertNoError(t, err)

	all, err := m.List("")
	util.AssertNoError(t, err)
	util.AssertEqual(t, len(all), 3)

	onlyA, err := m.List("/a")
	util.AssertNoError(t, err)
	util.AssertEqual(t, len(onlyA), 2)

	history, err := m.History("/a/RPG_RT.ldb")
	util.AssertNoError(t, err)
	util.AssertEqual(t, len(history), 2)
	util.AssertEqual(t, history[0].ID, latest.ID)
	util.AssertEqual(t, history[1].ID, first.ID)
}

func TestDelete(t *testing.T) {
	m, fs := newTestManager(t)
	util.WriteFile(t, fs, "/dest/RPG_RT.ldb", "database")

	meta, err := m.Create("/dest/RPG_RT.ldb", Options{Snapshot: "/dest"})
	util.AssertNoError(t, err)
	util.AssertNoError(t, m.Delete(meta.ID))

	if util.Exists(t, fs, meta.BackupPath) {
		t.Error("backup file should be removed")
	}
	if err := m.Delete(meta.ID); err == nil {
		t.Error("expected error deleting unknown backup")
	}
}

func TestLoadIndex_Corrupt(t *testing.T) {
	m, fs := newTestManager(t)
	util.WriteFile(t, fs, "/backups/index.json", "{not json")

	if _, err := m.LoadIndex(); err == nil {
		t.Error("expected parse error")
	}
}
