// Package export renders changelogs as text, JSON, or YAML and writes changelog files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
)

// Format represents the output format for an exported changelog.
type Format string

const (
	// FormatText renders the human-readable changelog.
	FormatText Format = "text"
	// FormatJSON exports the changelog as JSON.
	FormatJSON Format = "json"
	// FormatYAML exports the changelog as YAML.
	FormatYAML Format = "yaml"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// AllFormats returns all supported export formats.
func AllFormats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: text, json, yaml)", s)
	}
	return format, nil
}

// Options configures export behavior.
type Options struct {
	// Format specifies the output format.
	Format Format
	// Pretty enables indentation for JSON.
	Pretty bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{
		Format: FormatText,
		Pretty: true,
	}
}

// Exporter writes changelogs in a configured format.
type Exporter struct {
	opts Options
}

// New creates a new Exporter with the given options.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Export writes the changelog to w in the configured format.
func (e *Exporter) Export(cl *model.Changelog, w io.Writer) error {
	defer logging.Timer("export")()

	if cl == nil {
		return fmt.Errorf("no changelog to export")
	}

	var err error
	switch e.opts.Format {
	case FormatText:
		_, err = io.WriteString(w, Text(cl))
	case FormatJSON:
		err = e.exportJSON(cl, w)
	case FormatYAML:
		err = e.exportYAML(cl, w)
	default:
		err = fmt.Errorf("unsupported format: %s", e.opts.Format)
	}

	if err != nil {
		logging.Error("export failed",
			slog.String("format", string(e.opts.Format)),
			logging.Err(err),
		)
		return err
	}

	logging.Debug("changelog exported",
		slog.String("format", string(e.opts.Format)),
		logging.Count(cl.Count()),
	)
	return nil
}

// exportJSON exports the changelog as JSON.
func (e *Exporter) exportJSON(cl *model.Changelog, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if e.opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(NewDocument(cl))
}

// exportYAML exports the changelog as YAML.
func (e *Exporter) exportYAML(cl *model.Changelog, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(NewDocument(cl)); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}
