package transfer

import (
	"fmt"
	"strings"

	"github.com/klauern/cusubmit/internal/model"
)

// Action represents what the applier did with a changelog entry.
type Action string

const (
	// ActionCopied indicates the origin file or record was copied over the destination.
	ActionCopied Action = "copied"

	// ActionDeleted indicates a destination asset file was deleted.
	ActionDeleted Action = "deleted"

	// ActionReset indicates a destination map or record was reset to its blank form.
	ActionReset Action = "reset"

	// ActionFailed indicates the entry could not be applied.
	ActionFailed Action = "failed"
)

// Kind names the type of entry an ItemResult refers to.
type Kind string

// Entry kinds.
const (
	KindAsset       Kind = "asset"
	KindMap         Kind = "map"
	KindMapInfo     Kind = "map entry"
	KindCommonEvent Kind = "common event"
	KindTileset     Kind = "tileset"
	KindSwitch      Kind = "switch"
	KindVariable    Kind = "variable"
	KindAnimation   Kind = "animation"
)

// ItemResult represents the outcome of applying a single changelog entry.
type ItemResult struct {
	// Kind is the entry type.
	Kind Kind

	// ID is the map or record id; zero for assets.
	ID int

	// Name is the asset file name or the entry name.
	Name string

	// Status is the changelog status that was applied.
	Status model.Status

	// Action is the action that was taken.
	Action Action

	// Path is the destination file touched (assets and maps).
	Path string

	// Error contains any error that occurred during processing.
	Error error
}

// Success returns true if the entry was applied.
func (ir *ItemResult) Success() bool {
	return ir.Action != ActionFailed
}

// Label renders the entry for log lines and summaries.
func (ir *ItemResult) Label() string {
	if ir.Kind == KindAsset {
		return ir.Name
	}
	return fmt.Sprintf("%s %s", ir.Kind, model.IDString(ir.ID))
}

// FileResult records the whole-file write of the database or the map-tree.
type FileResult struct {
	Path    string
	Written bool
	// Backup is the id of the backup taken before the write, if any.
	Backup string
	Error  error
}

// String renders a FileResult for logs.
func (f FileResult) String() string {
	if f.Error != nil {
		return fmt.Sprintf("%s (failed: %v)", f.Path, f.Error)
	}
	return f.Path
}

// Result contains the complete outcome of a transfer.
type Result struct {
	// Origin is the snapshot records and files are copied from.
	Origin string

	// Destination is the snapshot that was modified.
	Destination string

	// Items contains the result for each changelog entry.
	Items []ItemResult

	// Database is the outcome of the database rewrite.
	Database FileResult

	// MapTree is the outcome of the map-tree rewrite.
	MapTree FileResult
}

// Copied returns entries that were copied.
func (r *Result) Copied() []ItemResult {
	return r.filterByAction(ActionCopied)
}

// Deleted returns entries that were deleted.
func (r *Result) Deleted() []ItemResult {
	return r.filterByAction(ActionDeleted)
}

// Reset returns entries that were reset to blank.
func (r *Result) Reset() []ItemResult {
	return r.filterByAction(ActionReset)
}

// Failed returns entries that could not be applied.
func (r *Result) Failed() []ItemResult {
	return r.filterByAction(ActionFailed)
}

// filterByAction returns entries with the given action.
func (r *Result) filterByAction(action Action) []ItemResult {
	var filtered []ItemResult
	for _, ir := range r.Items {
		if ir.Action == action {
			filtered = append(filtered, ir)
		}
	}
	return filtered
}

// Success returns true if every entry and both file writes succeeded.
func (r *Result) Success() bool {
	return len(r.Failed()) == 0 && r.Database.Error == nil && r.MapTree.Error == nil
}

// TotalProcessed returns the number of entries processed.
func (r *Result) TotalProcessed() int {
	return len(r.Items)
}

// TotalChanged returns the number of entries applied.
func (r *Result) TotalChanged() int {
	return len(r.Items) - len(r.Failed())
}

// Summary returns a human-readable summary of the transfer.
func (r *Result) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Transferred %s -> %s\n", r.Origin, r.Destination)
	fmt.Fprintf(&sb, "  Copied:  %d\n", len(r.Copied()))
	fmt.Fprintf(&sb, "  Deleted: %d\n", len(r.Deleted()))
	fmt.Fprintf(&sb, "  Reset:   %d\n", len(r.Reset()))
	fmt.Fprintf(&sb, "  Failed:  %d\n", len(r.Failed()))

	for _, f := range []FileResult{r.Database, r.MapTree} {
		switch {
		case f.Error != nil:
			fmt.Fprintf(&sb, "  %s: not written (%v)\n", f.Path, f.Error)
		case f.Written:
			fmt.Fprintf(&sb, "  %s: written\n", f.Path)
		}
	}

	if failed := r.Failed(); len(failed) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, f := range failed {
			fmt.Fprintf(&sb, "  - %s: %v\n", f.Label(), f.Error)
		}
	}

	return sb.String()
}
