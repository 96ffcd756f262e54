package model

import (
	"testing"
	"time"
)

func TestCoordinatesString(t *testing.T) {
	tests := map[string]struct {
		c    Coordinates
		want string
	}{
		"origin":   {c: Coordinates{}, want: "(0,0)"},
		"position": {c: Coordinates{X: 3, Y: 14}, want: "(3,14)"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.c.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnectionTypeString(t *testing.T) {
	tests := map[string]struct {
		typ  ConnectionType
		want string
	}{
		"one way":  {typ: OneWay, want: "one-way"},
		"both way": {typ: BothWay, want: "both-way"},
		"unlocked": {typ: Unlocked, want: "unlocked from the other side"},
		"unknown":  {typ: ConnectionType(9), want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnectionIdentity(t *testing.T) {
	base := Connection{
		Status:          StatusAdded,
		FromMap:         12,
		FromCoordinates: Coordinates{X: 0, Y: 5},
		ToMap:           13,
		ToCoordinates:   Coordinates{X: 19, Y: 5},
		Type:            OneWay,
	}

	tests := []struct {
		name     string
		mutate   func(c *Connection)
		sameKey  bool
		sameFull bool
	}{
		{
			name:     "identical",
			mutate:   func(*Connection) {},
			sameKey:  true,
			sameFull: true,
		},
		{
			name: "status and notes ignored",
			mutate: func(c *Connection) {
				c.Status = StatusRemoved
				c.Notes = []string{"moved"}
			},
			sameKey:  true,
			sameFull: true,
		},
		{
			name:     "type differs",
			mutate:   func(c *Connection) { c.Type = BothWay },
			sameKey:  true,
			sameFull: false,
		},
		{
			name:     "destination tile differs",
			mutate:   func(c *Connection) { c.ToCoordinates.Y = 6 },
			sameKey:  false,
			sameFull: false,
		},
		{
			name:     "source map differs",
			mutate:   func(c *Connection) { c.FromMap = 11 },
			sameKey:  false,
			sameFull: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			if got := base.Key() == other.Key(); got != tt.sameKey {
				t.Errorf("keys equal = %v, want %v", got, tt.sameKey)
			}
			if got := base.SameFields(other); got != tt.sameFull {
				t.Errorf("SameFields() = %v, want %v", got, tt.sameFull)
			}
		})
	}
}

func TestChangelogCounts(t *testing.T) {
	cl := NewChangelog("Ari", time.Date(2024, time.May, 7, 0, 0, 0, 0, time.UTC))
	if !cl.IsEmpty() {
		t.Fatalf("new changelog should be empty, Count() = %d", cl.Count())
	}

	cl.Maps = []Map{{Status: StatusModified, ID: 1, Name: "Town of Dawn", MainMusic: MusicRef{Name: "Town"}}}
	cl.Connections = []Connection{{Status: StatusAdded, FromMap: 1, ToMap: 2}}
	cl.Switches = []Switch{{Status: StatusAdded, ID: 3}}
	cl.Variables = []Variable{{Status: StatusRemoved, ID: 1}, {Status: StatusAdded, ID: 2}}
	cl.SetAssets(Sound, []Asset{
		{Status: StatusAdded, Category: Sound, Name: "door", Filename: "door.wav"},
		{Status: StatusRemoved, Category: Sound, Name: "door", Filename: "door.ogg"},
	})
	cl.SetAssets(CharSet, []Asset{{Status: StatusModified, Category: CharSet, Name: "hero", Filename: "hero.png"}})

	if got := cl.RecordCount(); got != 3 {
		t.Errorf("RecordCount() = %d, want 3", got)
	}
	if got := cl.AssetCount(); got != 3 {
		t.Errorf("AssetCount() = %d, want 3", got)
	}
	if got := cl.Count(); got != 8 {
		t.Errorf("Count() = %d, want 8", got)
	}
	if cl.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if got := len(cl.AssetsFor(Music)); got != 0 {
		t.Errorf("len(AssetsFor(Music)) = %d, want 0", got)
	}
}

func TestChangelogAssetsOnZeroValue(t *testing.T) {
	var cl Changelog
	if got := cl.AssetsFor(CharSet); got != nil {
		t.Errorf("AssetsFor() on zero changelog = %v, want nil", got)
	}
	cl.SetAssets(CharSet, []Asset{{Name: "hero", Filename: "hero.png"}})
	if got := cl.AssetCount(); got != 1 {
		t.Errorf("AssetCount() = %d, want 1", got)
	}
}
