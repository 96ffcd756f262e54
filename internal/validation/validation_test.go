package validation

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/model"
	"github.com/klauern/cusubmit/internal/util"
)

func newSnapshot(t *testing.T, fs afero.Fs, root string) {
	t.Helper()
	util.WriteFile(t, fs, lcf.DatabasePath(root), "common_events: []\n")
	util.WriteFile(t, fs, lcf.MapTreePath(root), "maps: []\n")
}

func TestValidateRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	util.WriteFile(t, fs, "/file.txt", "x")
	if err := fs.MkdirAll("/snap", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	tests := []struct {
		name    string
		root    string
		wantErr bool
	}{
		{"existing directory", "/snap", false},
		{"missing", "/nope", true},
		{"file", "/file.txt", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoot(fs, tt.root, "base")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRoot(%q) error = %v, wantErr %v", tt.root, err, tt.wantErr)
			}
			if err != nil {
				var pathErr *model.PathError
				if !errors.As(err, &pathErr) {
					t.Errorf("expected *model.PathError, got %T", err)
				}
			}
		})
	}
}

func TestValidateSnapshot_MissingRecordFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	util.WriteFile(t, fs, lcf.DatabasePath("/base"), "common_events: []\n")

	err := ValidateSnapshot(fs, "/base", "base")
	var formatErr *model.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected *model.FormatError, got %v", err)
	}
	if formatErr.Path != lcf.MapTreePath("/base") {
		t.Errorf("FormatError.Path = %q, want map-tree path", formatErr.Path)
	}
	if !strings.Contains(err.Error(), "missing record file") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidatePair(t *testing.T) {
	fs := afero.NewMemMapFs()
	newSnapshot(t, fs, "/base")
	newSnapshot(t, fs, "/mod")

	if err := ValidatePair(fs, "/base", "/mod"); err != nil {
		t.Errorf("ValidatePair() error = %v", err)
	}

	var vErr *Error
	if err := ValidatePair(fs, "/base", "/base"); !errors.As(err, &vErr) {
		t.Errorf("expected validation.Error for identical snapshots, got %v", err)
	}
}

func TestValidateDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	newSnapshot(t, fs, "/dest")
	for _, info := range model.Categories() {
		if info.Category == model.Music {
			continue
		}
		if err := fs.MkdirAll(filepath.Join("/dest", info.Folder), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}

	result, err := ValidateDestination(fs, "/dest")
	if err != nil {
		t.Fatalf("ValidateDestination() error = %v", err)
	}
	if !result.Valid {
		t.Error("expected result to be valid")
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Music") {
		t.Errorf("expected one warning about Music, got %v", result.Warnings)
	}
	if result.Summary() != "Validation passed with warnings (1 warning(s))" {
		t.Errorf("unexpected summary %q", result.Summary())
	}
}

func TestValidateDestination_ReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	newSnapshot(t, base, "/dest")
	fs := afero.NewReadOnlyFs(base)

	result, err := ValidateDestination(fs, "/dest")
	if err == nil {
		t.Fatal("expected write permission error")
	}
	if result.Valid {
		t.Error("expected result to be invalid")
	}
}

func TestValidateOutputDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	util.WriteFile(t, fs, "/out/full/a.txt", "x")
	util.WriteFile(t, fs, "/out/file", "x")

	tests := []struct {
		name         string
		path         string
		wantErr      bool
		wantWarnings int
	}{
		{"new directory", "/out/new", false, 0},
		{"non-empty directory", "/out/full", false, 1},
		{"existing file", "/out/file", true, 0},
		{"empty name", "", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateOutputDir(fs, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateOutputDir(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", result.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	if got := Errors(nil).Error(); got != "no validation errors" {
		t.Errorf("empty Errors = %q", got)
	}
	one := Errors{errors.New("a")}
	if got := one.Error(); got != "a" {
		t.Errorf("single Errors = %q", got)
	}
	two := Errors{errors.New("a"), errors.New("b")}
	if !strings.HasPrefix(two.Error(), "2 validation errors") {
		t.Errorf("multiple Errors = %q", two.Error())
	}
}
