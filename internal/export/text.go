package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klauern/cusubmit/internal/model"
)

// Separator is the rule printed between changelog sections.
const Separator = "---------------------------------------------------"

// Text renders the human-readable changelog.
func Text(cl *model.Changelog) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Developer: %s\nDate: %s\n\n", cl.Developer, model.DateString(cl.Date))

	if cl.Summary != "" {
		sb.WriteString("// " + cl.Summary + "\n")
	}
	if cl.MapPolicy != "" || cl.AssetPolicy != "" {
		sb.WriteString(Separator + "\n")
	}
	if cl.MapPolicy != "" {
		sb.WriteString("Map policy... " + cl.MapPolicy + "\n")
	}
	if cl.AssetPolicy != "" {
		sb.WriteString("Asset policy... " + cl.AssetPolicy + "\n")
	}

	if len(cl.Maps) > 0 {
		sb.WriteString(Separator + "\n")
	}
	for _, m := range cl.Maps {
		sb.WriteString(mapLine(m) + "\n")
	}

	if len(cl.Connections) > 0 {
		sb.WriteString("\n")
	}
	for _, c := range cl.Connections {
		sb.WriteString(connectionLine(c) + "\n")
	}

	section(&sb, len(cl.CommonEvents), func(i int) string {
		r := cl.CommonEvents[i]
		return recordLine(r.Status, "CE", r.ID, r.Name, "", r.Notes)
	})
	section(&sb, len(cl.Tilesets), func(i int) string {
		r := cl.Tilesets[i]
		return recordLine(r.Status, "Tileset", r.ID, r.Name, extra(r.Status, "chipset", r.ChipsetName), r.Notes)
	})
	section(&sb, len(cl.Switches), func(i int) string {
		r := cl.Switches[i]
		return recordLine(r.Status, "Switch", r.ID, r.Name, "", r.Notes)
	})
	section(&sb, len(cl.Variables), func(i int) string {
		r := cl.Variables[i]
		return recordLine(r.Status, "Variable", r.ID, r.Name, "", r.Notes)
	})
	section(&sb, len(cl.Animations), func(i int) string {
		r := cl.Animations[i]
		return recordLine(r.Status, "Animation", r.ID, r.Name, extra(r.Status, "file", r.AnimationName), r.Notes)
	})

	for _, info := range model.Categories() {
		assets := cl.AssetsFor(info.Category)
		section(&sb, len(assets), func(i int) string {
			return assetLine(info.Folder, assets[i])
		})
	}

	return sb.String()
}

func section(sb *strings.Builder, n int, line func(int) string) {
	if n == 0 {
		return
	}
	sb.WriteString(Separator + "\n")
	for i := range n {
		sb.WriteString(line(i) + "\n")
	}
}

func mapLine(m model.Map) string {
	s := fmt.Sprintf("%s MAP[%s] - %s", m.Status.Glyph(), model.IDString(m.ID), m.Name)
	s += noteLines(m.Notes)
	for _, b := range m.BGMEvents {
		s += "\n\t" + bgmLine(b)
	}
	for _, o := range m.OpenConnections {
		s += fmt.Sprintf("\n\t%s Open connection at %s", o.Status.Glyph(), o.Coordinates)
	}
	for _, c := range m.ClosedConnections {
		s += fmt.Sprintf("\n\t%s Closed connection at %s", c.Status.Glyph(), c.Coordinates)
	}
	return s
}

func bgmLine(b model.BGMEvent) string {
	s := "| BGM in event at " + b.Coordinates.String()
	if b.TrackName != "" && b.Volume != 0 && b.Speed != 0 {
		s += " (track: " + b.TrackName +
			", volume: " + strconv.Itoa(b.Volume) +
			"%, speed: " + strconv.Itoa(b.Speed) + "%)"
	}
	return s
}

func connectionLine(c model.Connection) string {
	s := fmt.Sprintf("%s Connection from MAP[%s].%s to MAP[%s].%s(%s)",
		c.Status.Glyph(),
		model.IDString(c.FromMap), c.FromCoordinates,
		model.IDString(c.ToMap), c.ToCoordinates,
		c.Type)
	return s + noteLines(c.Notes)
}

func recordLine(status model.Status, label string, id int, name, suffix string, notes []string) string {
	return fmt.Sprintf("%s %s[%s] - %s%s", status.Glyph(), label, model.IDString(id), name, suffix) + noteLines(notes)
}

// extra renders the file reference of a record, shown only for new records.
func extra(status model.Status, label, value string) string {
	if value == "" || status != model.StatusAdded {
		return ""
	}
	return " (" + label + ": " + value + ")"
}

func assetLine(folder string, a model.Asset) string {
	name := a.Filename
	if name == "" {
		name = a.Name
	}
	s := a.Status.Glyph() + " " + folder + " " + name
	if a.Contributors != "" {
		s += " (by " + a.Contributors + ")"
	}
	return s + noteLines(a.Notes)
}

func noteLines(notes []string) string {
	var s string
	for _, n := range notes {
		s += "\n\t| " + n
	}
	return s
}
