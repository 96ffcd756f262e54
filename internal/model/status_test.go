package model

import "testing"

func TestStatusGlyph(t *testing.T) {
	tests := map[string]struct {
		status Status
		want   string
	}{
		"added":    {status: StatusAdded, want: "+"},
		"removed":  {status: StatusRemoved, want: "-"},
		"modified": {status: StatusModified, want: "*"},
		"unknown":  {status: "renamed", want: "?"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.status.Glyph(); got != tt.want {
				t.Errorf("Status(%q).Glyph() = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestStatusValidation(t *testing.T) {
	tests := map[string]struct {
		status Status
		valid  bool
	}{
		"added valid":     {status: StatusAdded, valid: true},
		"removed valid":   {status: StatusRemoved, valid: true},
		"modified valid":  {status: StatusModified, valid: true},
		"empty invalid":   {status: "", valid: false},
		"glyph invalid":   {status: "+", valid: false},
		"unknown invalid": {status: "renamed", valid: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.valid {
				t.Errorf("Status(%q).IsValid() = %v, want %v", tt.status, got, tt.valid)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{input: "added", want: StatusAdded},
		{input: "+", want: StatusAdded},
		{input: " Removed ", want: StatusRemoved},
		{input: "-", want: StatusRemoved},
		{input: "MODIFIED", want: StatusModified},
		{input: "*", want: StatusModified},
		{input: "", wantErr: true},
		{input: "changed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllStatusesRoundTripThroughGlyph(t *testing.T) {
	for _, s := range AllStatuses() {
		got, err := ParseStatus(s.Glyph())
		if err != nil {
			t.Fatalf("ParseStatus(%q) error = %v", s.Glyph(), err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s.Glyph(), got, s)
		}
	}
}
