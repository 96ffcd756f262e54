package transfer

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
	"github.com/klauern/cusubmit/internal/validation"
)

// BackupFunc is called with the path of a record file right before it is rewritten.
// It returns an identifier for the backup it took.
type BackupFunc func(path string) (string, error)

// ProgressFunc reports each applied entry. done counts entries processed so far.
type ProgressFunc func(done, total int, item string)

// Options configures the applier.
type Options struct {
	// Backup, when set, runs before the database and map-tree are rewritten.
	// A failing backup prevents the rewrite of that file.
	Backup BackupFunc

	// Progress, when set, is called after every entry.
	Progress ProgressFunc
}

// Applier replays a changelog onto a destination snapshot.
type Applier struct {
	fs    afero.Fs
	store lcf.Store
	opts  Options
}

// New creates an Applier reading and writing through fs and store.
func New(fs afero.Fs, store lcf.Store, opts Options) *Applier {
	return &Applier{fs: fs, store: store, opts: opts}
}

// records bundles the two whole-file record stores of a snapshot.
type records struct {
	db   *lcf.Database
	tree *lcf.TreeMap
}

// entry is the part of a changelog record entry the applier needs.
type entry struct {
	Status model.Status
	ID     int
	Name   string
}

// run carries the state of one Apply call.
type run struct {
	*Applier
	origin      string
	destination string
	result      *Result
	done        int
	total       int
}

// Apply mutates destination so that every entry of cl matches origin.
//
// Asset, map, and record entries fail individually and are reported in the
// returned Result. The database and map-tree are then rewritten as whole files;
// a failure there is returned as an *model.IOError alongside the Result.
// Missing or unreadable record files on either side abort before anything is
// touched.
func (a *Applier) Apply(ctx context.Context, cl *model.Changelog, origin, destination string) (*Result, error) {
	defer logging.Timer("transfer")()

	result := &Result{
		Origin:      origin,
		Destination: destination,
		Items:       make([]ItemResult, 0, cl.Count()),
		Database:    FileResult{Path: lcf.DatabasePath(destination)},
		MapTree:     FileResult{Path: lcf.MapTreePath(destination)},
	}

	logging.Info("starting transfer",
		logging.Operation("transfer"),
		slog.String("origin", origin),
		slog.String("destination", destination),
		logging.Count(cl.Count()),
	)

	for _, check := range []struct{ root, role string }{
		{origin, "origin"},
		{destination, "destination"},
	} {
		if err := validation.ValidateSnapshot(a.fs, check.root, check.role); err != nil {
			logging.Error("cannot transfer", logging.Path(check.root), logging.Err(err))
			return result, err
		}
	}

	src, err := a.load(origin)
	if err != nil {
		return result, err
	}
	dst, err := a.load(destination)
	if err != nil {
		return result, err
	}

	r := &run{
		Applier:     a,
		origin:      origin,
		destination: destination,
		result:      result,
		total:       cl.Count() + len(cl.Maps) - len(cl.Connections),
	}

	phases := []func(){
		func() { r.applyAssets(cl) },
		func() { r.applyMaps(cl.Maps) },
		func() { r.applyDatabase(cl, src.db, dst.db) },
		func() { r.applyMapTree(cl.Maps, src.tree, dst.tree) },
	}
	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		phase()
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	var errs []error
	if cl.RecordCount() > 0 {
		result.Database = r.writeFile(result.Database.Path, func(path string) error {
			return a.store.SaveDatabase(path, dst.db)
		})
		errs = append(errs, result.Database.Error)
	}
	if len(cl.Maps) > 0 {
		result.MapTree = r.writeFile(result.MapTree.Path, func(path string) error {
			return a.store.SaveMapTree(path, dst.tree)
		})
		errs = append(errs, result.MapTree.Error)
	}

	logging.Info("transfer finished",
		logging.Operation("transfer"),
		logging.Count(result.TotalChanged()),
		slog.Int("failed", len(result.Failed())),
	)

	return result, errors.Join(errs...)
}

func (a *Applier) load(root string) (*records, error) {
	db, err := a.store.LoadDatabase(lcf.DatabasePath(root))
	if err != nil {
		return nil, &model.FormatError{Path: lcf.DatabasePath(root), Err: err}
	}
	tree, err := a.store.LoadMapTree(lcf.MapTreePath(root))
	if err != nil {
		return nil, &model.FormatError{Path: lcf.MapTreePath(root), Err: err}
	}
	return &records{db: db, tree: tree}, nil
}

// record appends an item result, logs failures, and reports progress.
func (r *run) record(ir ItemResult) {
	if ir.Error != nil {
		ir.Action = ActionFailed
		logging.Warn("skipping entry",
			logging.Operation("transfer"),
			logging.Status(ir.Status.String()),
			slog.String("item", ir.Label()),
			logging.Err(ir.Error),
		)
	}
	r.result.Items = append(r.result.Items, ir)
	r.done++
	if r.opts.Progress != nil {
		r.opts.Progress(r.done, r.total, ir.Label())
	}
}

func (r *run) applyAssets(cl *model.Changelog) {
	for _, info := range model.Categories() {
		for _, asset := range cl.AssetsFor(info.Category) {
			r.record(r.applyAsset(info, asset))
		}
	}
}

func (r *run) applyAsset(info model.CategoryInfo, asset model.Asset) ItemResult {
	dir := filepath.Join(r.destination, info.Folder)
	path := filepath.Join(dir, asset.Filename)
	ir := ItemResult{Kind: KindAsset, Name: asset.Filename, Status: asset.Status, Path: path}

	if ok, _ := afero.DirExists(r.fs, dir); !ok {
		ir.Error = &model.PathError{Op: "open category folder", Path: dir}
		return ir
	}

	if asset.Status == model.StatusRemoved {
		if err := removeExisting(r.fs, path); err != nil {
			ir.Error = &model.IOError{Op: "delete asset", Path: path, Err: err}
			return ir
		}
		ir.Action = ActionDeleted
		return ir
	}

	src := filepath.Join(r.origin, info.Folder, asset.Filename)
	if err := CopyFile(r.fs, src, path); err != nil {
		ir.Error = &model.IOError{Op: "copy asset", Path: path, Err: err}
		return ir
	}
	ir.Action = ActionCopied
	return ir
}

func (r *run) applyMaps(maps []model.Map) {
	for _, m := range maps {
		path := lcf.MapPath(r.destination, m.ID)
		ir := ItemResult{Kind: KindMap, ID: m.ID, Name: m.Name, Status: m.Status, Path: path}

		if m.Status == model.StatusRemoved {
			if err := r.store.SaveMap(path, lcf.BlankMap()); err != nil {
				ir.Error = &model.IOError{Op: "reset map", Path: path, Err: err}
			} else {
				ir.Action = ActionReset
			}
		} else {
			if err := CopyFile(r.fs, lcf.MapPath(r.origin, m.ID), path); err != nil {
				ir.Error = &model.IOError{Op: "copy map", Path: path, Err: err}
			} else {
				ir.Action = ActionCopied
			}
		}
		r.record(ir)
	}
}

func (r *run) applyDatabase(cl *model.Changelog, src, dst *lcf.Database) {
	for _, ir := range applyRecords(KindCommonEvent, commonEventEntries(cl), src.CommonEvents, &dst.CommonEvents, lcf.BlankCommonEvent) {
		r.record(ir)
	}
	for _, ir := range applyRecords(KindTileset, tilesetEntries(cl), src.Chipsets, &dst.Chipsets, lcf.BlankChipset) {
		r.record(ir)
	}
	for _, ir := range applyRecords(KindSwitch, switchEntries(cl), src.Switches, &dst.Switches, lcf.BlankSwitch) {
		r.record(ir)
	}
	for _, ir := range applyRecords(KindVariable, variableEntries(cl), src.Variables, &dst.Variables, lcf.BlankVariable) {
		r.record(ir)
	}
	for _, ir := range applyRecords(KindAnimation, animationEntries(cl), src.Animations, &dst.Animations, lcf.BlankAnimation) {
		r.record(ir)
	}
}

// applyRecords writes each entry into the destination list at position id-1.
// Origin records are checked against their position before they are copied.
func applyRecords[R lcf.Record](kind Kind, entries []entry, origin []R, dst *[]R, blank func(int) R) []ItemResult {
	results := make([]ItemResult, 0, len(entries))
	for _, e := range entries {
		ir := ItemResult{Kind: kind, ID: e.ID, Name: e.Name, Status: e.Status}

		if err := checkOrigin(kind, e.ID, origin); err != nil {
			ir.Error = err
			results = append(results, ir)
			continue
		}

		for len(*dst) < e.ID {
			*dst = append(*dst, blank(len(*dst)+1))
		}
		if e.Status == model.StatusRemoved {
			(*dst)[e.ID-1] = blank(e.ID)
			ir.Action = ActionReset
		} else {
			(*dst)[e.ID-1] = origin[e.ID-1]
			ir.Action = ActionCopied
		}
		results = append(results, ir)
	}
	return results
}

func checkOrigin[R lcf.Record](kind Kind, id int, origin []R) error {
	got := 0
	if id >= 1 && id <= len(origin) {
		got = origin[id-1].RecordID()
		if got == id {
			return nil
		}
	}
	return &model.AlignmentError{Kind: string(kind), Position: id - 1, Expected: id, Got: got}
}

func (r *run) applyMapTree(maps []model.Map, src, dst *lcf.TreeMap) {
	for _, m := range maps {
		ir := ItemResult{Kind: KindMapInfo, ID: m.ID, Name: m.Name, Status: m.Status}

		info := lcf.BlankMapInfo(m.ID)
		if m.Status != model.StatusRemoved {
			var ok bool
			info, ok = src.Info(m.ID)
			if !ok {
				got := 0
				if m.ID >= 0 && m.ID < len(src.Maps) {
					got = src.Maps[m.ID].ID
				}
				ir.Error = &model.AlignmentError{Kind: string(KindMapInfo), Position: m.ID, Expected: m.ID, Got: got}
				r.record(ir)
				continue
			}
		}

		for len(dst.Maps) <= m.ID {
			dst.Maps = append(dst.Maps, lcf.BlankMapInfo(len(dst.Maps)))
		}
		dst.Maps[m.ID] = info

		if m.Status == model.StatusRemoved {
			ir.Action = ActionReset
		} else {
			ir.Action = ActionCopied
			addToTreeOrder(dst, m.ID)
		}
		r.record(ir)
	}
}

// addToTreeOrder lists id in the display order of trees that keep one.
func addToTreeOrder(tree *lcf.TreeMap, id int) {
	if len(tree.TreeOrder) == 0 {
		return
	}
	for _, existing := range tree.TreeOrder {
		if existing == id {
			return
		}
	}
	tree.TreeOrder = append(tree.TreeOrder, id)
}

// writeFile backs up and rewrites one whole record file.
func (r *run) writeFile(path string, save func(string) error) FileResult {
	fr := FileResult{Path: path}

	if r.opts.Backup != nil {
		id, err := r.opts.Backup(path)
		if err != nil {
			fr.Error = &model.IOError{Op: "back up", Path: path, Err: err}
			logging.Error("backup failed, file not written", logging.Path(path), logging.Err(err))
			return fr
		}
		fr.Backup = id
	}

	if err := save(path); err != nil {
		fr.Error = &model.IOError{Op: "write", Path: path, Err: err}
		logging.Error("failed to write record file", logging.Path(path), logging.Err(err))
		return fr
	}

	fr.Written = true
	logging.Debug("wrote record file", logging.Path(path))
	return fr
}

func commonEventEntries(cl *model.Changelog) []entry {
	out := make([]entry, 0, len(cl.CommonEvents))
	for _, r := range cl.CommonEvents {
		out = append(out, entry{Status: r.Status, ID: r.ID, Name: r.Name})
	}
	return out
}

func tilesetEntries(cl *model.Changelog) []entry {
	out := make([]entry, 0, len(cl.Tilesets))
	for _, r := range cl.Tilesets {
		out = append(out, entry{Status: r.Status, ID: r.ID, Name: r.Name})
	}
	return out
}

func switchEntries(cl *model.Changelog) []entry {
	out := make([]entry, 0, len(cl.Switches))
	for _, r := range cl.Switches {
		out = append(out, entry{Status: r.Status, ID: r.ID, Name: r.Name})
	}
	return out
}

func variableEntries(cl *model.Changelog) []entry {
	out := make([]entry, 0, len(cl.Variables))
	for _, r := range cl.Variables {
		out = append(out, entry{Status: r.Status, ID: r.ID, Name: r.Name})
	}
	return out
}

func animationEntries(cl *model.Changelog) []entry {
	out := make([]entry, 0, len(cl.Animations))
	for _, r := range cl.Animations {
		out = append(out, entry{Status: r.Status, ID: r.ID, Name: r.Name})
	}
	return out
}
