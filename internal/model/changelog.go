package model

import (
	"fmt"
	"time"
)

// Coordinates is a tile position inside a map.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String renders the coordinates as "(x,y)".
func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// MusicRef describes a background music reference.
type MusicRef struct {
	Name    string `json:"name"`
	Volume  int    `json:"volume"`
	Tempo   int    `json:"tempo"`
	Balance int    `json:"balance"`
}

// BGMEvent describes an event that starts a background track other than the map's own.
type BGMEvent struct {
	Coordinates Coordinates `json:"coordinates"`
	TrackName   string      `json:"track_name"`
	Volume      int         `json:"volume"`
	Speed       int         `json:"speed"`
}

// OpenConnection marks a map edge left open for other developers to connect to.
type OpenConnection struct {
	Status      Status      `json:"status"`
	Coordinates Coordinates `json:"coordinates"`
}

// ClosedConnection marks a map edge that must not be connected to.
type ClosedConnection struct {
	Status      Status      `json:"status"`
	Coordinates Coordinates `json:"coordinates"`
}

// Map is the changelog entry for a single map file.
type Map struct {
	Status            Status             `json:"status"`
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	Notes             []string           `json:"notes,omitempty"`
	BGMEvents         []BGMEvent         `json:"bgm_events,omitempty"`
	OpenConnections   []OpenConnection   `json:"open_connections,omitempty"`
	ClosedConnections []ClosedConnection `json:"closed_connections,omitempty"`
	MainMusic         MusicRef           `json:"main_music"`
}

// ConnectionType describes how a warp may be traversed.
type ConnectionType int

const (
	// OneWay warps can only be taken from their source map.
	OneWay ConnectionType = iota
	// BothWay warps have a matching warp back.
	BothWay
	// Unlocked warps must first be opened from the destination side.
	Unlocked
)

// String returns the rendered description of the connection type.
func (t ConnectionType) String() string {
	switch t {
	case OneWay:
		return "one-way"
	case BothWay:
		return "both-way"
	case Unlocked:
		return "unlocked from the other side"
	default:
		return "unknown"
	}
}

// ConnectionKey is the identity used to align warps between snapshots.
type ConnectionKey struct {
	FromMap         int
	FromCoordinates Coordinates
	ToMap           int
	ToCoordinates   Coordinates
}

// Connection is a warp between two different maps.
type Connection struct {
	Status          Status         `json:"status"`
	Notes           []string       `json:"notes,omitempty"`
	FromMap         int            `json:"from_map"`
	FromCoordinates Coordinates    `json:"from_coordinates"`
	ToMap           int            `json:"to_map"`
	ToCoordinates   Coordinates    `json:"to_coordinates"`
	Type            ConnectionType `json:"type"`
}

// Key returns the identity of the warp.
func (c Connection) Key() ConnectionKey {
	return ConnectionKey{
		FromMap:         c.FromMap,
		FromCoordinates: c.FromCoordinates,
		ToMap:           c.ToMap,
		ToCoordinates:   c.ToCoordinates,
	}
}

// SameFields reports whether two warps carry the same identity and attributes.
// Status and notes are annotations and do not participate.
func (c Connection) SameFields(other Connection) bool {
	return c.Key() == other.Key() && c.Type == other.Type
}

// CommonEvent is the changelog entry for a database common event.
type CommonEvent struct {
	Status Status   `json:"status"`
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Notes  []string `json:"notes,omitempty"`
}

// TilesetInfo is the changelog entry for a database tileset.
type TilesetInfo struct {
	Status      Status   `json:"status"`
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	ChipsetName string   `json:"chipset_name,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// Switch is the changelog entry for a database switch.
type Switch struct {
	Status Status   `json:"status"`
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Notes  []string `json:"notes,omitempty"`
}

// Variable is the changelog entry for a database variable.
type Variable struct {
	Status Status   `json:"status"`
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Notes  []string `json:"notes,omitempty"`
}

// Animation is the changelog entry for a database battle animation.
type Animation struct {
	Status        Status   `json:"status"`
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	AnimationName string   `json:"animation_name,omitempty"`
	Notes         []string `json:"notes,omitempty"`
}

// Asset is the changelog entry for a file inside a category folder.
type Asset struct {
	Status       Status        `json:"status"`
	Category     AssetCategory `json:"category"`
	Name         string        `json:"name"`
	Filename     string        `json:"filename"`
	Notes        []string      `json:"notes,omitempty"`
	Contributors string        `json:"contributors,omitempty"`
}

// Changelog is the structured difference between two snapshots.
// It is produced once per scan and treated as read-only afterwards.
type Changelog struct {
	Developer   string    `json:"developer"`
	Date        time.Time `json:"date"`
	Summary     string    `json:"summary,omitempty"`
	MapPolicy   string    `json:"map_policy,omitempty"`
	AssetPolicy string    `json:"asset_policy,omitempty"`

	Maps         []Map         `json:"maps"`
	Connections  []Connection  `json:"connections"`
	CommonEvents []CommonEvent `json:"common_events"`
	Tilesets     []TilesetInfo `json:"tilesets"`
	Switches     []Switch      `json:"switches"`
	Variables    []Variable    `json:"variables"`
	Animations   []Animation   `json:"animations"`

	// Assets holds one list per category; use AssetsFor to read it in table order.
	Assets map[AssetCategory][]Asset `json:"assets"`
}

// NewChangelog returns an empty changelog stamped with the developer and date.
func NewChangelog(developer string, date time.Time) *Changelog {
	return &Changelog{
		Developer: developer,
		Date:      date,
		Assets:    make(map[AssetCategory][]Asset, len(categoryTable)),
	}
}

// AssetsFor returns the asset list for a category.
func (c *Changelog) AssetsFor(category AssetCategory) []Asset {
	if c.Assets == nil {
		return nil
	}
	return c.Assets[category]
}

// SetAssets replaces the asset list for a category.
func (c *Changelog) SetAssets(category AssetCategory, assets []Asset) {
	if c.Assets == nil {
		c.Assets = make(map[AssetCategory][]Asset, len(categoryTable))
	}
	c.Assets[category] = assets
}

// AssetCount returns the number of asset entries across all categories.
func (c *Changelog) AssetCount() int {
	n := 0
	for _, assets := range c.Assets {
		n += len(assets)
	}
	return n
}

// RecordCount returns the number of database entries across the five record kinds.
func (c *Changelog) RecordCount() int {
	return len(c.CommonEvents) + len(c.Tilesets) + len(c.Switches) + len(c.Variables) + len(c.Animations)
}

// Count returns the total number of entries in the changelog.
func (c *Changelog) Count() int {
	return len(c.Maps) + len(c.Connections) + c.RecordCount() + c.AssetCount()
}

// IsEmpty returns true if the changelog records no differences.
func (c *Changelog) IsEmpty() bool {
	return c.Count() == 0
}
