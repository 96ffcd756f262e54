package progress

import (
	"bytes"
	"testing"
)

func TestNew_DisabledForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Max: 3, Description: "Transferring", Writer: &buf})
	if b.Enabled() {
		t.Fatal("expected bar to be disabled for a non-terminal writer")
	}

	for i := 1; i <= 3; i++ {
		b.Report(i, 3, "switch 0003")
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote %q", buf.String())
	}
}
