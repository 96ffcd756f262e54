package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/cusubmit/internal/config"
	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/lcf/lcftest"
	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
)

type harness struct {
	t       *testing.T
	fs      afero.Fs
	cfgPath string
	input   string
	out     bytes.Buffer
	errOut  bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Developer.Name = "Ari"
	cfg.Backup.Location = "/backups"
	cfg.Output.Color = "never"

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.SaveToPath(path))
	return &harness{t: t, fs: afero.NewMemMapFs(), cfgPath: path}
}

func (h *harness) run(args ...string) error {
	h.out.Reset()
	h.errOut.Reset()
	e := &env{
		fs:          h.fs,
		in:          strings.NewReader(h.input),
		out:         &h.out,
		errOut:      &h.errOut,
		interactive: func() bool { return false },
	}
	argv := append([]string{"cusubmit", "--config", h.cfgPath}, args...)
	return newApp(e).Run(context.Background(), argv)
}

func seed(s *lcftest.Snapshot) {
	s.MkdirCategories()
	s.SetMapInfo(1, "Town of Dawn", "Town")
	s.DB.Switches = lcftest.Switches(3, nil)
	s.Save()
	s.WriteMap(1, lcftest.MapWith(), lcftest.T1)
	s.WriteAsset(model.CharSet, "hero.png", "hero", lcftest.T1)
}

// snapshots creates base, modified, and destination roots where modified
// renames switch 1, adds an event to map 1, and updates hero.png.
func (h *harness) snapshots() (base, mod, dest *lcftest.Snapshot) {
	base = lcftest.NewSnapshot(h.t, h.fs, "/work/base")
	mod = lcftest.NewSnapshot(h.t, h.fs, "/work/mod")
	dest = lcftest.NewSnapshot(h.t, h.fs, "/game/dest")
	seed(base)
	seed(mod)
	seed(dest)

	mod.DB.Switches[0].Name = "Flag_Boss"
	mod.Save()
	mod.WriteMap(1, lcftest.MapWith(lcftest.EventAt(3, 4, lcftest.PlayBGM("Battle", 80, 100))), lcftest.T2)
	mod.WriteAsset(model.CharSet, "hero.png", "hero v2", lcftest.T2)
	return base, mod, dest
}

func (h *harness) switchName(root string, id int) string {
	h.t.Helper()
	db, err := lcf.NewYAMLStore(h.fs).LoadDatabase(lcf.DatabasePath(root))
	require.NoError(h.t, err)
	return db.Switches[id-1].Name
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("version"))
	assert.Contains(t, h.out.String(), "cusubmit version dev")
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("config", "path"))
	assert.Equal(t, h.cfgPath+"\n", h.out.String())

	require.NoError(t, h.run("--developer", "Mel", "config", "show"))
	assert.Contains(t, h.out.String(), "name: Mel")

	err := h.run("config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	h.cfgPath = filepath.Join(t.TempDir(), "fresh", "config.yaml")
	require.NoError(t, h.run("config", "init"))
	cfg, err := config.LoadFromPath(h.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDeveloper, cfg.Developer.Name)
}

func TestConfigureLogging(t *testing.T) {
	tests := []struct {
		args []string
		want slog.Level
	}{
		{nil, slog.LevelWarn},
		{[]string{"--verbose"}, slog.LevelInfo},
		{[]string{"--debug"}, slog.LevelDebug},
	}

	for _, tt := range tests {
		h := newHarness(t)
		args := append(tt.args, "config", "path")
		require.NoError(t, h.run(args...))

		ctx := context.Background()
		assert.True(t, logging.Default().Enabled(ctx, tt.want), "args %v", tt.args)
		assert.False(t, logging.Default().Enabled(ctx, tt.want-1), "args %v", tt.args)
	}
}

func TestScanCommand_Text(t *testing.T) {
	h := newHarness(t)
	base, mod, _ := h.snapshots()

	require.NoError(t, h.run("scan", "--out", "/out", base.Root, mod.Root))
	assert.Contains(t, h.out.String(), "Changelog written to /out/Ari_")

	files, err := afero.ReadDir(h.fs, "/out")
	require.NoError(t, err)
	require.Len(t, files, 1)
	content, err := afero.ReadFile(h.fs, filepath.Join("/out", files[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Flag_Boss")
	assert.Contains(t, string(content), "hero.png")
}

func TestScanCommand_JSON(t *testing.T) {
	h := newHarness(t)
	base, mod, _ := h.snapshots()

	require.NoError(t, h.run("scan", "--format", "json", base.Root, mod.Root))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &doc))
	assert.Equal(t, "Ari", doc["developer"])
	assert.Len(t, doc["switches"], 1)
}

func TestScanCommand_Errors(t *testing.T) {
	h := newHarness(t)
	base, _, _ := h.snapshots()

	assert.Error(t, h.run("scan", base.Root))
	assert.Error(t, h.run("scan", "--format", "xml", base.Root, base.Root))
	assert.Error(t, h.run("scan", base.Root, "/missing"))
}

func TestTransferCommand_Yes(t *testing.T) {
	h := newHarness(t)
	base, mod, dest := h.snapshots()

	require.NoError(t, h.run("transfer", "--yes", base.Root, mod.Root, dest.Root))
	assert.Equal(t, "Flag_Boss", h.switchName(dest.Root, 1))
	assert.Contains(t, h.out.String(), "Changelog written to /game/Ari_")

	hero, err := afero.ReadFile(h.fs, filepath.Join(dest.Root, "CharSet", "hero.png"))
	require.NoError(t, err)
	assert.Equal(t, "hero v2", string(hero))

	require.NoError(t, h.run("backup", "list"))
	assert.Contains(t, h.out.String(), lcf.DatabasePath(dest.Root))
}

func TestTransferCommand_Prompt(t *testing.T) {
	h := newHarness(t)
	base, mod, dest := h.snapshots()

	h.input = "n\n"
	require.NoError(t, h.run("transfer", base.Root, mod.Root, dest.Root))
	assert.Contains(t, h.out.String(), "Confirm transfer to /game/dest?")
	assert.Contains(t, h.out.String(), "Transfer cancelled")
	assert.Equal(t, "", h.switchName(dest.Root, 1))

	h.input = "y\n"
	require.NoError(t, h.run("transfer", "--no-backup", base.Root, mod.Root, dest.Root))
	assert.Equal(t, "Flag_Boss", h.switchName(dest.Root, 1))

	exists, err := afero.Exists(h.fs, "/backups")
	require.NoError(t, err)
	assert.False(t, exists, "--no-backup should not create backups")
}

func TestTransferCommand_NoDifferences(t *testing.T) {
	h := newHarness(t)
	base, _, dest := h.snapshots()

	require.NoError(t, h.run("transfer", base.Root, base.Root, dest.Root))
	assert.Contains(t, h.out.String(), "No differences found")
}

func TestSubmitCommand(t *testing.T) {
	h := newHarness(t)
	base, mod, _ := h.snapshots()

	require.NoError(t, h.run("submit", "--yes", "--zip", "--out", "/subs", base.Root, mod.Root, "pkg"))
	assert.Contains(t, h.out.String(), "Package written to /subs/pkg")
	assert.Contains(t, h.out.String(), "Archive written to /subs/pkg.zip")

	for _, path := range []string{
		"/subs/pkg/submission.toml",
		"/subs/pkg/" + lcf.DatabaseFile,
		"/subs/pkg/CharSet/hero.png",
		"/subs/pkg.zip",
	} {
		exists, err := afero.Exists(h.fs, path)
		require.NoError(t, err)
		assert.True(t, exists, "expected %s", path)
	}
}

func TestBackupCommands(t *testing.T) {
	h := newHarness(t)
	base, mod, dest := h.snapshots()
	require.NoError(t, h.run("transfer", "--yes", base.Root, mod.Root, dest.Root))

	require.NoError(t, h.run("backup", "stats"))
	assert.Contains(t, h.out.String(), "total: 2")

	require.NoError(t, h.run("backup", "list"))
	assert.Contains(t, h.out.String(), lcf.DatabasePath(dest.Root))
	assert.Contains(t, h.out.String(), lcf.MapTreePath(dest.Root))

	require.NoError(t, h.run("backup", "cleanup", "--max", "1", "--dry-run"))
	assert.Contains(t, h.out.String(), "Would delete 0 backup(s)")

	assert.Error(t, h.run("backup", "browse"), "browse needs a terminal")
	assert.Error(t, h.run("backup", "verify"))
	assert.Error(t, h.run("backup", "restore", "no-such-id"))
}
