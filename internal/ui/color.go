// Package ui provides terminal output helpers for cusubmit.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/klauern/cusubmit/internal/model"
)

// Color function types for styled output.
var (
	// Success is used for successful operations (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for warnings and cautions (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Info is used for informational messages (cyan).
	Info = color.New(color.FgCyan).SprintFunc()
	// Bold is used for emphasis (bold white).
	Bold = color.New(color.Bold).SprintFunc()
	// Dim is used for secondary information (faint).
	Dim = color.New(color.Faint).SprintFunc()
	// Header is used for table headers (bold cyan).
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Status symbols with colors.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
	SymbolPending = "○"
)

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string {
	if msg == "" {
		return Success(SymbolSuccess)
	}
	return Success(SymbolSuccess) + " " + msg
}

// StatusError returns a red X with optional message.
func StatusError(msg string) string {
	if msg == "" {
		return Error(SymbolError)
	}
	return Error(SymbolError) + " " + msg
}

// StatusWarning returns a yellow warning with optional message.
func StatusWarning(msg string) string {
	if msg == "" {
		return Warning(SymbolWarning)
	}
	return Warning(SymbolWarning) + " " + msg
}

// StatusSkipped returns a dimmed skip symbol with optional message.
func StatusSkipped(msg string) string {
	if msg == "" {
		return Dim(SymbolSkipped)
	}
	return Dim(SymbolSkipped) + " " + msg
}

// DisableColors disables all color output.
// This is useful for piping output or for users who prefer no colors.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}

// ConfigureColors applies an output.color setting (auto, always, never).
// auto leaves fatih/color's own terminal and NO_COLOR detection in place.
func ConfigureColors(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return nil
	case "always":
		EnableColors()
	case "never":
		DisableColors()
	default:
		return fmt.Errorf("invalid color mode %q (valid: auto, always, never)", mode)
	}
	return nil
}

// Glyph returns the colored status glyph of a changelog entry.
func Glyph(s model.Status) string {
	switch s {
	case model.StatusAdded:
		return Success(s.Glyph())
	case model.StatusRemoved:
		return Error(s.Glyph())
	case model.StatusModified:
		return Warning(s.Glyph())
	default:
		return Dim(s.Glyph())
	}
}

// ChangelogLine colors one line of a text changelog by its leading glyph.
// Separators and notes are dimmed; header lines are left as they are.
func ChangelogLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+ "):
		return Success(line)
	case strings.HasPrefix(line, "- "):
		return Error(line)
	case strings.HasPrefix(line, "* "):
		return Warning(line)
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "\t|"), strings.HasPrefix(line, "//"):
		return Dim(line)
	default:
		return line
	}
}

// Changelog colors every line of a text changelog.
func Changelog(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = ChangelogLine(line)
	}
	return strings.Join(lines, "\n")
}
