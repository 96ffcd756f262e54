package tui

import "testing"

func TestTruncateText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a longer line", 8, "a lon..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateText(tt.text, tt.width); got != tt.want {
			t.Errorf("truncateText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestFormatDetail_Wraps(t *testing.T) {
	got := formatDetail("Target: ", "/game/projects/collective/dest", 20)
	want := "Target: /game/projects/collective/dest"
	if got != want {
		t.Errorf("formatDetail() = %q, want %q", got, want)
	}

	got = formatDetail("Target: ", "one two three", 14)
	want = "Target: one\n        two\n        three"
	if got != want {
		t.Errorf("formatDetail() = %q, want %q", got, want)
	}
}
