package submit

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/model"
)

// ManifestFile is the name of the manifest written at the package root.
const ManifestFile = "submission.toml"

// ManifestVersion is the manifest layout version.
const ManifestVersion = "1.0"

// Manifest describes a submission package.
type Manifest struct {
	Version   string    `toml:"version"`
	ID        string    `toml:"id"`
	Developer string    `toml:"developer"`
	Date      string    `toml:"date"`
	CreatedAt time.Time `toml:"created_at"`
	Summary   string    `toml:"summary,omitempty"`
	Changelog string    `toml:"changelog"`
	Counts    Counts    `toml:"counts"`
	Files     []string  `toml:"files"`
}

// Counts tallies the changelog entries by kind.
type Counts struct {
	Maps         int            `toml:"maps"`
	Connections  int            `toml:"connections"`
	CommonEvents int            `toml:"common_events"`
	Tilesets     int            `toml:"tilesets"`
	Switches     int            `toml:"switches"`
	Variables    int            `toml:"variables"`
	Animations   int            `toml:"animations"`
	Assets       map[string]int `toml:"assets"`
}

// CountsOf tallies a changelog. Asset counts are keyed by category list name.
func CountsOf(cl *model.Changelog) Counts {
	c := Counts{
		Maps:         len(cl.Maps),
		Connections:  len(cl.Connections),
		CommonEvents: len(cl.CommonEvents),
		Tilesets:     len(cl.Tilesets),
		Switches:     len(cl.Switches),
		Variables:    len(cl.Variables),
		Animations:   len(cl.Animations),
		Assets:       make(map[string]int),
	}
	for _, info := range model.Categories() {
		if n := len(cl.AssetsFor(info.Category)); n > 0 {
			c.Assets[info.Key] = n
		}
	}
	return c
}

// WriteManifest encodes m to path.
func WriteManifest(fs afero.Fs, path string, m *Manifest) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	// #nosec G306 - manifest is part of a shared deliverable
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", path, err)
	}
	return nil
}

// ReadManifest decodes the manifest at path.
func ReadManifest(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %q: %w", path, err)
	}
	return &m, nil
}
