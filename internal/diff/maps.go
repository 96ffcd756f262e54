package diff

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
)

// DefaultMinMapNameLength is the display-name length below which a map is still blank.
const DefaultMinMapNameLength = 5

// MapOptions configures the map differ.
type MapOptions struct {
	// BGMExcludedMaps lists map ids whose music triggers are never reported.
	BGMExcludedMaps []int
	// MinMapNameLength is the display-name length below which a map is skipped.
	MinMapNameLength int
}

// MapDiffEngine compares the map files of two snapshots.
type MapDiffEngine struct {
	fs       afero.Fs
	store    lcf.Store
	excluded map[int]bool
	minName  int
}

// NewMapDiffEngine creates a map differ reading payloads through store.
func NewMapDiffEngine(fs afero.Fs, store lcf.Store, opts MapOptions) *MapDiffEngine {
	excluded := make(map[int]bool, len(opts.BGMExcludedMaps))
	for _, id := range opts.BGMExcludedMaps {
		excluded[id] = true
	}
	minName := opts.MinMapNameLength
	if minName <= 0 {
		minName = DefaultMinMapNameLength
	}
	return &MapDiffEngine{
		fs:       fs,
		store:    store,
		excluded: excluded,
		minName:  minName,
	}
}

// mapFile is a map file found at a snapshot root.
type mapFile struct {
	id      int
	path    string
	modTime time.Time
}

// payloadPair holds both sides of a map that changed.
type payloadPair struct {
	id       int
	base     *lcf.Map
	modified *lcf.Map
}

// Diff returns the changed maps and the warps that changed between them.
func (e *MapDiffEngine) Diff(baseRoot, modifiedRoot string, baseTree, modifiedTree *lcf.TreeMap) ([]model.Map, []model.Connection, error) {
	baseFiles, err := e.listMaps(baseRoot)
	if err != nil {
		return nil, nil, err
	}
	modifiedFiles, err := e.listMaps(modifiedRoot)
	if err != nil {
		return nil, nil, err
	}

	baseByID := make(map[int]mapFile, len(baseFiles))
	for _, f := range baseFiles {
		baseByID[f.id] = f
	}
	modifiedByID := make(map[int]mapFile, len(modifiedFiles))
	for _, f := range modifiedFiles {
		modifiedByID[f.id] = f
	}

	var (
		maps  []model.Map
		pairs []payloadPair
	)

	for _, mf := range modifiedFiles {
		bf, ok := baseByID[mf.id]
		if !ok {
			logging.Debug("skipping new map file without base counterpart", logging.Map(mf.id))
			continue
		}
		if bf.modTime.Equal(mf.modTime) {
			continue
		}

		info, _ := modifiedTree.Info(mf.id)
		if utf8.RuneCountInString(info.Name) < e.minName {
			logging.Debug("skipping blank map", logging.Map(mf.id))
			continue
		}

		basePayload, err := e.store.LoadMap(bf.path)
		if err != nil {
			logging.Warn("failed to read map", logging.Map(mf.id), logging.Path(bf.path), logging.Err(err))
			continue
		}
		modPayload, err := e.store.LoadMap(mf.path)
		if err != nil {
			logging.Warn("failed to read map", logging.Map(mf.id), logging.Path(mf.path), logging.Err(err))
			continue
		}

		baseInfo, _ := baseTree.Info(mf.id)
		status := model.StatusModified
		if baseInfo.Name != info.Name {
			status = model.StatusAdded
		}

		entry := model.Map{
			Status:    status,
			ID:        mf.id,
			Name:      info.Name,
			MainMusic: toMusic(info.Music),
		}
		if !e.excluded[mf.id] {
			entry.BGMEvents = extractBGMEvents(modPayload, info.Music.Name)
		}
		maps = append(maps, entry)
		pairs = append(pairs, payloadPair{id: mf.id, base: basePayload, modified: modPayload})
	}

	for _, bf := range baseFiles {
		if _, ok := modifiedByID[bf.id]; ok {
			continue
		}
		info, _ := baseTree.Info(bf.id)
		if utf8.RuneCountInString(info.Name) < e.minName {
			continue
		}
		maps = append(maps, model.Map{
			Status:    model.StatusRemoved,
			ID:        bf.id,
			Name:      info.Name,
			MainMusic: toMusic(info.Music),
		})
	}

	sort.SliceStable(maps, func(i, j int) bool {
		return maps[i].ID < maps[j].ID
	})

	connections := e.diffConnections(pairs, baseByID, modifiedByID)

	logging.Debug("compared map files",
		logging.Count(len(maps)),
		logging.Operation("map_diff"),
	)

	return maps, connections, nil
}

// listMaps returns the map files of a snapshot root sorted by id.
func (e *MapDiffEngine) listMaps(root string) ([]mapFile, error) {
	entries, err := afero.ReadDir(e.fs, root)
	if err != nil {
		return nil, &model.PathError{Path: root, Op: "list map files", Err: err}
	}

	var files []mapFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := lcf.ParseMapID(entry.Name())
		if !ok {
			continue
		}
		files = append(files, mapFile{
			id:      id,
			path:    lcf.MapPath(root, id),
			modTime: entry.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].id < files[j].id
	})
	return files, nil
}

// extractBGMEvents lists every play-music command that starts a track other than ambient.
func extractBGMEvents(m *lcf.Map, ambient string) []model.BGMEvent {
	var events []model.BGMEvent
	for _, ev := range m.Events {
		for _, page := range ev.Pages {
			for _, cmd := range page.Commands {
				if cmd.Code != lcf.CodePlayBGM || cmd.String == ambient {
					continue
				}
				events = append(events, model.BGMEvent{
					Coordinates: model.Coordinates{X: ev.X, Y: ev.Y},
					TrackName:   cmd.String,
					Volume:      cmd.Param(1),
					Speed:       cmd.Param(2),
				})
			}
		}
	}
	return events
}

// extractWarps lists the teleports of a map that lead to another map, keyed by identity.
func extractWarps(mapID int, m *lcf.Map) map[model.ConnectionKey]model.Connection {
	warps := make(map[model.ConnectionKey]model.Connection)
	for _, ev := range m.Events {
		for _, page := range ev.Pages {
			for _, cmd := range page.Commands {
				if cmd.Code != lcf.CodeTeleport {
					continue
				}
				target := cmd.Param(0)
				if target == mapID {
					continue
				}
				conn := model.Connection{
					FromMap:         mapID,
					FromCoordinates: model.Coordinates{X: ev.X, Y: ev.Y},
					ToMap:           target,
					ToCoordinates:   model.Coordinates{X: cmd.Param(1), Y: cmd.Param(2)},
					Type:            model.OneWay,
				}
				warps[conn.Key()] = conn
			}
		}
	}
	return warps
}

// diffConnections compares the warps of every changed map. Return trips are
// also looked up in the unchanged maps those warps lead to.
func (e *MapDiffEngine) diffConnections(pairs []payloadPair, baseFiles, modifiedFiles map[int]mapFile) []model.Connection {
	baseWarps := make(map[model.ConnectionKey]model.Connection)
	modWarps := make(map[model.ConnectionKey]model.Connection)
	changed := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		changed[p.id] = true
		for k, c := range extractWarps(p.id, p.base) {
			baseWarps[k] = c
		}
		for k, c := range extractWarps(p.id, p.modified) {
			modWarps[k] = c
		}
	}
	linkReverse(baseWarps, e.targetWarps(baseWarps, changed, baseFiles))
	linkReverse(modWarps, e.targetWarps(modWarps, changed, modifiedFiles))

	var conns []model.Connection
	for k, mod := range modWarps {
		base, ok := baseWarps[k]
		switch {
		case !ok:
			mod.Status = model.StatusAdded
			conns = append(conns, mod)
		case !base.SameFields(mod):
			mod.Status = model.StatusModified
			conns = append(conns, mod)
		}
	}
	for k, base := range baseWarps {
		if _, ok := modWarps[k]; !ok {
			base.Status = model.StatusRemoved
			conns = append(conns, base)
		}
	}

	sort.Slice(conns, func(i, j int) bool {
		return connectionLess(conns[i], conns[j])
	})
	return conns
}

// targetWarps loads the warps of the unchanged maps that warps lead to.
func (e *MapDiffEngine) targetWarps(warps map[model.ConnectionKey]model.Connection, changed map[int]bool, files map[int]mapFile) map[model.ConnectionKey]model.Connection {
	out := make(map[model.ConnectionKey]model.Connection)
	seen := make(map[int]bool)
	for k := range warps {
		id := k.ToMap
		if changed[id] || seen[id] {
			continue
		}
		seen[id] = true

		f, ok := files[id]
		if !ok {
			continue
		}
		payload, err := e.store.LoadMap(f.path)
		if err != nil {
			logging.Debug("cannot read warp target", logging.Map(id), logging.Path(f.path), logging.Err(err))
			continue
		}
		for tk, tc := range extractWarps(id, payload) {
			out[tk] = tc
		}
	}
	return out
}

// linkReverse marks warps whose exact return trip is among warps or returns as both-way.
func linkReverse(warps, returns map[model.ConnectionKey]model.Connection) {
	for k, c := range warps {
		reverse := model.ConnectionKey{
			FromMap:         k.ToMap,
			FromCoordinates: k.ToCoordinates,
			ToMap:           k.FromMap,
			ToCoordinates:   k.FromCoordinates,
		}
		_, ok := warps[reverse]
		if !ok {
			_, ok = returns[reverse]
		}
		if ok {
			c.Type = model.BothWay
			warps[k] = c
		}
	}
}

func connectionLess(a, b model.Connection) bool {
	if a.FromMap != b.FromMap {
		return a.FromMap < b.FromMap
	}
	if a.FromCoordinates != b.FromCoordinates {
		return coordinatesLess(a.FromCoordinates, b.FromCoordinates)
	}
	if a.ToMap != b.ToMap {
		return a.ToMap < b.ToMap
	}
	return coordinatesLess(a.ToCoordinates, b.ToCoordinates)
}

func coordinatesLess(a, b model.Coordinates) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func toMusic(m lcf.Music) model.MusicRef {
	return model.MusicRef{
		Name:    m.Name,
		Volume:  m.Volume,
		Tempo:   m.Tempo,
		Balance: m.Balance,
	}
}
