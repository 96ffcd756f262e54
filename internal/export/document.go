package export

import (
	"github.com/klauern/cusubmit/internal/model"
)

// Document is the structured form of a changelog. Statuses are rendered as
// their glyphs and assets are grouped under their category key.
type Document struct {
	Developer    string                  `json:"developer" yaml:"developer"`
	Date         string                  `json:"date" yaml:"date"`
	Summary      string                  `json:"summary" yaml:"summary"`
	MapPolicy    string                  `json:"map_policy" yaml:"map_policy"`
	AssetPolicy  string                  `json:"asset_policy" yaml:"asset_policy"`
	Maps         []MapEntry              `json:"maps" yaml:"maps"`
	Connections  []ConnectionEntry       `json:"connections" yaml:"connections"`
	CommonEvents []RecordEntry           `json:"common_events" yaml:"common_events"`
	Tilesets     []RecordEntry           `json:"tilesets" yaml:"tilesets"`
	Switches     []RecordEntry           `json:"switches" yaml:"switches"`
	Variables    []RecordEntry           `json:"variables" yaml:"variables"`
	Animations   []RecordEntry           `json:"animations" yaml:"animations"`
	Assets       map[string][]AssetEntry `json:"assets" yaml:"assets"`
}

// CoordinatesEntry is an (x, y) pair.
type CoordinatesEntry struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// MusicEntry is a music reference.
type MusicEntry struct {
	Name    string `json:"name" yaml:"name"`
	Volume  int    `json:"volume" yaml:"volume"`
	Tempo   int    `json:"tempo" yaml:"tempo"`
	Balance int    `json:"balance" yaml:"balance"`
}

// BGMEntry is a music trigger found on a map.
type BGMEntry struct {
	Coordinates CoordinatesEntry `json:"coordinates" yaml:"coordinates"`
	TrackName   string           `json:"track_name" yaml:"track_name"`
	Volume      int              `json:"volume" yaml:"volume"`
	Speed       int              `json:"speed" yaml:"speed"`
}

// EdgeEntry is an open or closed map edge.
type EdgeEntry struct {
	Status      string           `json:"status" yaml:"status"`
	Coordinates CoordinatesEntry `json:"coordinates" yaml:"coordinates"`
}

// MapEntry is a changed map.
type MapEntry struct {
	Status            string      `json:"status" yaml:"status"`
	ID                int         `json:"id" yaml:"id"`
	Name              string      `json:"name" yaml:"name"`
	Notes             []string    `json:"notes" yaml:"notes"`
	BGMEvents         []BGMEntry  `json:"bgm_events" yaml:"bgm_events"`
	OpenConnections   []EdgeEntry `json:"open_connections" yaml:"open_connections"`
	ClosedConnections []EdgeEntry `json:"closed_connections" yaml:"closed_connections"`
	MainMusic         MusicEntry  `json:"main_music" yaml:"main_music"`
}

// ConnectionEntry is a changed warp.
type ConnectionEntry struct {
	Status          string           `json:"status" yaml:"status"`
	Notes           []string         `json:"notes" yaml:"notes"`
	FromMap         int              `json:"from_map" yaml:"from_map"`
	FromCoordinates CoordinatesEntry `json:"from_coordinates" yaml:"from_coordinates"`
	ToMap           int              `json:"to_map" yaml:"to_map"`
	ToCoordinates   CoordinatesEntry `json:"to_coordinates" yaml:"to_coordinates"`
	Type            string           `json:"type" yaml:"type"`
}

// RecordEntry is a changed database record. Extra carries the chipset or
// animation file name for tilesets and animations.
type RecordEntry struct {
	Status string   `json:"status" yaml:"status"`
	ID     int      `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Extra  string   `json:"extra,omitempty" yaml:"extra,omitempty"`
	Notes  []string `json:"notes" yaml:"notes"`
}

// AssetEntry is a changed asset file.
type AssetEntry struct {
	Status       string   `json:"status" yaml:"status"`
	Name         string   `json:"name" yaml:"name"`
	Filename     string   `json:"filename" yaml:"filename"`
	Contributors string   `json:"contributors" yaml:"contributors"`
	Notes        []string `json:"notes" yaml:"notes"`
}

// NewDocument converts a changelog into its structured form.
func NewDocument(cl *model.Changelog) Document {
	doc := Document{
		Developer:    cl.Developer,
		Date:         model.DateString(cl.Date),
		Summary:      cl.Summary,
		MapPolicy:    cl.MapPolicy,
		AssetPolicy:  cl.AssetPolicy,
		Maps:         make([]MapEntry, 0, len(cl.Maps)),
		Connections:  make([]ConnectionEntry, 0, len(cl.Connections)),
		CommonEvents: make([]RecordEntry, 0, len(cl.CommonEvents)),
		Tilesets:     make([]RecordEntry, 0, len(cl.Tilesets)),
		Switches:     make([]RecordEntry, 0, len(cl.Switches)),
		Variables:    make([]RecordEntry, 0, len(cl.Variables)),
		Animations:   make([]RecordEntry, 0, len(cl.Animations)),
		Assets:       make(map[string][]AssetEntry, len(model.Categories())),
	}

	for _, m := range cl.Maps {
		entry := MapEntry{
			Status:            m.Status.Glyph(),
			ID:                m.ID,
			Name:              m.Name,
			Notes:             notes(m.Notes),
			BGMEvents:         make([]BGMEntry, 0, len(m.BGMEvents)),
			OpenConnections:   make([]EdgeEntry, 0, len(m.OpenConnections)),
			ClosedConnections: make([]EdgeEntry, 0, len(m.ClosedConnections)),
			MainMusic: MusicEntry{
				Name:    m.MainMusic.Name,
				Volume:  m.MainMusic.Volume,
				Tempo:   m.MainMusic.Tempo,
				Balance: m.MainMusic.Balance,
			},
		}
		for _, b := range m.BGMEvents {
			entry.BGMEvents = append(entry.BGMEvents, BGMEntry{
				Coordinates: coordinates(b.Coordinates),
				TrackName:   b.TrackName,
				Volume:      b.Volume,
				Speed:       b.Speed,
			})
		}
		for _, o := range m.OpenConnections {
			entry.OpenConnections = append(entry.OpenConnections, EdgeEntry{Status: o.Status.Glyph(), Coordinates: coordinates(o.Coordinates)})
		}
		for _, c := range m.ClosedConnections {
			entry.ClosedConnections = append(entry.ClosedConnections, EdgeEntry{Status: c.Status.Glyph(), Coordinates: coordinates(c.Coordinates)})
		}
		doc.Maps = append(doc.Maps, entry)
	}

	for _, c := range cl.Connections {
		doc.Connections = append(doc.Connections, ConnectionEntry{
			Status:          c.Status.Glyph(),
			Notes:           notes(c.Notes),
			FromMap:         c.FromMap,
			FromCoordinates: coordinates(c.FromCoordinates),
			ToMap:           c.ToMap,
			ToCoordinates:   coordinates(c.ToCoordinates),
			Type:            c.Type.String(),
		})
	}

	for _, r := range cl.CommonEvents {
		doc.CommonEvents = append(doc.CommonEvents, record(r.Status, r.ID, r.Name, "", r.Notes))
	}
	for _, r := range cl.Tilesets {
		doc.Tilesets = append(doc.Tilesets, record(r.Status, r.ID, r.Name, r.ChipsetName, r.Notes))
	}
	for _, r := range cl.Switches {
		doc.Switches = append(doc.Switches, record(r.Status, r.ID, r.Name, "", r.Notes))
	}
	for _, r := range cl.Variables {
		doc.Variables = append(doc.Variables, record(r.Status, r.ID, r.Name, "", r.Notes))
	}
	for _, r := range cl.Animations {
		doc.Animations = append(doc.Animations, record(r.Status, r.ID, r.Name, r.AnimationName, r.Notes))
	}

	for _, info := range model.Categories() {
		assets := cl.AssetsFor(info.Category)
		entries := make([]AssetEntry, 0, len(assets))
		for _, a := range assets {
			entries = append(entries, AssetEntry{
				Status:       a.Status.Glyph(),
				Name:         a.Name,
				Filename:     a.Filename,
				Contributors: a.Contributors,
				Notes:        notes(a.Notes),
			})
		}
		doc.Assets[info.Key] = entries
	}

	return doc
}

func record(status model.Status, id int, name, extra string, n []string) RecordEntry {
	return RecordEntry{
		Status: status.Glyph(),
		ID:     id,
		Name:   name,
		Extra:  extra,
		Notes:  notes(n),
	}
}

func coordinates(c model.Coordinates) CoordinatesEntry {
	return CoordinatesEntry{X: c.X, Y: c.Y}
}

func notes(n []string) []string {
	if n == nil {
		return []string{}
	}
	return n
}
