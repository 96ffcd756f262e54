package model

import (
	"fmt"
	"strings"
)

// Status tags every changelog entry with the kind of change it records.
type Status string

const (
	// StatusAdded marks content that exists only on the modified side.
	StatusAdded Status = "added"

	// StatusRemoved marks content that exists only on the base side.
	StatusRemoved Status = "removed"

	// StatusModified marks content present on both sides with differing state.
	StatusModified Status = "modified"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusAdded, StatusRemoved, StatusModified:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Glyph returns the single-character marker used in rendered changelogs.
func (s Status) Glyph() string {
	switch s {
	case StatusAdded:
		return "+"
	case StatusRemoved:
		return "-"
	case StatusModified:
		return "*"
	default:
		return "?"
	}
}

// AllStatuses returns every status in rendering order.
func AllStatuses() []Status {
	return []Status{StatusAdded, StatusRemoved, StatusModified}
}

// ParseStatus accepts either a status name or its glyph.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "added", "+":
		return StatusAdded, nil
	case "removed", "-":
		return StatusRemoved, nil
	case "modified", "*":
		return StatusModified, nil
	default:
		return "", fmt.Errorf("unknown status %q (valid: added, removed, modified)", s)
	}
}
