package transfer

import (
	"errors"
	"strings"
	"testing"

	"github.com/klauern/cusubmit/internal/model"
)

func TestResult_Filters(t *testing.T) {
	r := &Result{
		Items: []ItemResult{
			{Kind: KindAsset, Name: "a.png", Status: model.StatusAdded, Action: ActionCopied},
			{Kind: KindAsset, Name: "b.png", Status: model.StatusRemoved, Action: ActionDeleted},
			{Kind: KindMap, ID: 2, Status: model.StatusRemoved, Action: ActionReset},
			{Kind: KindSwitch, ID: 3, Status: model.StatusAdded, Action: ActionFailed, Error: errors.New("boom")},
		},
	}

	tests := []struct {
		name string
		got  []ItemResult
		want int
	}{
		{"copied", r.Copied(), 1},
		{"deleted", r.Deleted(), 1},
		{"reset", r.Reset(), 1},
		{"failed", r.Failed(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != tt.want {
				t.Errorf("got %d items, want %d", len(tt.got), tt.want)
			}
		})
	}

	if r.Success() {
		t.Error("Success() = true with a failed item")
	}
	if got := r.TotalChanged(); got != 3 {
		t.Errorf("TotalChanged() = %d, want 3", got)
	}
}

func TestResult_SuccessRequiresFileWrites(t *testing.T) {
	r := &Result{Database: FileResult{Path: "RPG_RT.ldb", Error: errors.New("disk full")}}
	if r.Success() {
		t.Error("Success() = true with a failed database write")
	}
}

func TestItemResult_Label(t *testing.T) {
	tests := []struct {
		item ItemResult
		want string
	}{
		{ItemResult{Kind: KindAsset, Name: "hero.png"}, "hero.png"},
		{ItemResult{Kind: KindSwitch, ID: 3}, "switch 0003"},
		{ItemResult{Kind: KindMapInfo, ID: 12}, "map entry 0012"},
	}
	for _, tt := range tests {
		if got := tt.item.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestResult_Summary(t *testing.T) {
	r := &Result{
		Origin:      "/mod",
		Destination: "/dest",
		Items: []ItemResult{
			{Kind: KindAsset, Name: "a.png", Action: ActionCopied},
			{Kind: KindVariable, ID: 7, Action: ActionFailed, Error: errors.New("misaligned")},
		},
		Database: FileResult{Path: "/dest/RPG_RT.ldb", Written: true},
	}

	summary := r.Summary()
	for _, want := range []string{
		"Transferred /mod -> /dest",
		"Copied:  1",
		"Failed:  1",
		"/dest/RPG_RT.ldb: written",
		"variable 0007: misaligned",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}
