package diff

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
	"github.com/klauern/cusubmit/internal/validation"
)

// DefaultDeveloper is stamped on changelogs when no developer is configured.
const DefaultDeveloper = "NoDevName"

// Options configures a Generator.
type Options struct {
	// Header fields copied verbatim into the changelog.
	Developer   string
	Summary     string
	MapPolicy   string
	AssetPolicy string

	// BGMExcludedMaps lists map ids whose music triggers are never reported.
	BGMExcludedMaps []int
	// MinMapNameLength is the display-name length below which a map is still blank.
	MinMapNameLength int
	// StrictIDs skips record positions whose stored id does not match the position.
	StrictIDs bool

	// Now returns the changelog date; defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns options with strict id checks enabled.
func DefaultOptions() Options {
	return Options{
		Developer:        DefaultDeveloper,
		MinMapNameLength: DefaultMinMapNameLength,
		StrictIDs:        true,
	}
}

// Generator produces changelogs from pairs of snapshots.
type Generator struct {
	fs     afero.Fs
	store  lcf.Store
	opts   Options
	assets *AssetScanner
	maps   *MapDiffEngine
}

// NewGenerator creates a generator reading snapshots from fs through store.
func NewGenerator(fs afero.Fs, store lcf.Store, opts Options) *Generator {
	if opts.Developer == "" {
		opts.Developer = DefaultDeveloper
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{
		fs:     fs,
		store:  store,
		opts:   opts,
		assets: NewAssetScanner(fs),
		maps: NewMapDiffEngine(fs, store, MapOptions{
			BGMExcludedMaps:  opts.BGMExcludedMaps,
			MinMapNameLength: opts.MinMapNameLength,
		}),
	}
}

// snapshot is the parsed record state of one snapshot root.
type snapshot struct {
	root string
	tree *lcf.TreeMap
	db   *lcf.Database
}

// Scan computes the changelog between base and modified.
//
// A missing snapshot root, map-tree, or database fails the whole scan.
// Unreadable category folders and individual maps are logged and skipped.
func (g *Generator) Scan(ctx context.Context, baseRoot, modifiedRoot string) (*model.Changelog, error) {
	done := logging.Timer("scan")
	defer done()

	if err := validation.ValidatePair(g.fs, baseRoot, modifiedRoot); err != nil {
		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			logging.Error("cannot scan snapshots", logging.Err(err))
			return nil, err
		}
		logging.Warn("scanning a snapshot against itself", logging.Path(baseRoot))
	}

	base, err := g.load(baseRoot)
	if err != nil {
		return nil, err
	}
	modified, err := g.load(modifiedRoot)
	if err != nil {
		return nil, err
	}

	cl := model.NewChangelog(g.opts.Developer, g.opts.Now())
	cl.Summary = g.opts.Summary
	cl.MapPolicy = g.opts.MapPolicy
	cl.AssetPolicy = g.opts.AssetPolicy

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maps, connections, err := g.maps.Diff(base.root, modified.root, base.tree, modified.tree)
	if err != nil {
		logging.Error("cannot compare maps", logging.Err(err))
		return nil, err
	}
	cl.Maps = maps
	cl.Connections = connections

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if errs := diffDatabase(cl, base.db, modified.db, g.opts.StrictIDs); len(errs) > 0 {
		logging.Debug("database compared with skipped records", logging.Count(len(errs)))
	}

	for _, info := range model.Categories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		assets, err := g.assets.Scan(base.root, modified.root, info.Category)
		if err != nil {
			logging.Warn("asset folder unavailable",
				logging.Category(string(info.Category)),
				logging.Err(err),
			)
		}
		cl.SetAssets(info.Category, assets)
	}

	logging.Info("changelog generated",
		logging.Count(cl.Count()),
		slog.String("developer", cl.Developer),
	)
	return cl, nil
}

// load reads the map-tree and database of a snapshot root.
func (g *Generator) load(root string) (*snapshot, error) {
	treePath := lcf.MapTreePath(root)
	tree, err := g.store.LoadMapTree(treePath)
	if err != nil {
		logging.Error("cannot read map-tree", logging.Path(treePath), logging.Err(err))
		return nil, &model.FormatError{Path: treePath, Err: err}
	}

	dbPath := lcf.DatabasePath(root)
	db, err := g.store.LoadDatabase(dbPath)
	if err != nil {
		logging.Error("cannot read database", logging.Path(dbPath), logging.Err(err))
		return nil, &model.FormatError{Path: dbPath, Err: err}
	}

	return &snapshot{root: root, tree: tree, db: db}, nil
}
