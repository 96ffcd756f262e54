package model

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"path with cause": {
			err:  &PathError{Op: "open snapshot", Path: "/base", Err: fs.ErrNotExist},
			want: `open snapshot "/base": file does not exist`,
		},
		"path without cause": {
			err:  &PathError{Op: "open snapshot", Path: "/base"},
			want: `open snapshot "/base": invalid path`,
		},
		"missing record file": {
			err:  &FormatError{Path: "/base/RPG_RT.ldb"},
			want: `missing record file "/base/RPG_RT.ldb"`,
		},
		"unreadable record file": {
			err:  &FormatError{Path: "/base/RPG_RT.ldb", Err: errors.New("bad header")},
			want: `unreadable record file "/base/RPG_RT.ldb": bad header`,
		},
		"alignment": {
			err:  &AlignmentError{Kind: "switch", Position: 4, Expected: 5, Got: 7},
			want: "switch ids are not properly ordered at position 4: 0007 != 0005",
		},
		"io": {
			err:  &IOError{Op: "copy", Path: "/dest/CharSet/hero.png", Err: fs.ErrPermission},
			want: `copy "/dest/CharSet/hero.png": permission denied`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	tests := map[string]struct {
		err    error
		target error
	}{
		"path":   {err: &PathError{Op: "stat", Path: "/x", Err: fs.ErrNotExist}, target: fs.ErrNotExist},
		"format": {err: &FormatError{Path: "/x", Err: fs.ErrNotExist}, target: fs.ErrNotExist},
		"io":     {err: &IOError{Op: "write", Path: "/x", Err: fs.ErrPermission}, target: fs.ErrPermission},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			wrapped := fmt.Errorf("transfer: %w", tt.err)
			if !errors.Is(wrapped, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.target)
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	err := fmt.Errorf("diff database: %w", errors.Join(
		&AlignmentError{Kind: "variable", Position: 0, Expected: 1, Got: 2},
		&IOError{Op: "write", Path: "/x", Err: fs.ErrClosed},
	))

	var alignErr *AlignmentError
	if !errors.As(err, &alignErr) {
		t.Fatal("errors.As should find the AlignmentError")
	}
	if alignErr.Kind != "variable" || alignErr.Got != 2 {
		t.Errorf("AlignmentError = %+v", alignErr)
	}

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatal("errors.As should find the IOError")
	}
	if ioErr.Op != "write" {
		t.Errorf("IOError.Op = %q, want write", ioErr.Op)
	}
}
