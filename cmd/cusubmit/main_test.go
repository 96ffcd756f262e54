package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/klauern/cusubmit/internal/cli"
)

// runCaptured runs the CLI with stdout redirected and returns what was written.
func runCaptured(t *testing.T, args ...string) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := cli.Run(context.Background(), args)

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close pipe writer: %v", closeErr)
	}
	os.Stdout = old

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("failed to read captured output: %v", copyErr)
	}
	return buf.String(), runErr
}

func TestCLIInitialization(t *testing.T) {
	output, err := runCaptured(t, "cusubmit", "--help")
	if err != nil {
		t.Fatalf("CLI initialization failed: %v", err)
	}

	if !strings.Contains(output, "cusubmit") {
		t.Errorf("expected help output to contain 'cusubmit', got: %q", output)
	}
	if !strings.Contains(output, "USAGE") || !strings.Contains(output, "COMMANDS") {
		t.Errorf("expected help output to contain USAGE and COMMANDS sections, got: %q", output)
	}
}

func TestVersionFlag(t *testing.T) {
	output, err := runCaptured(t, "cusubmit", "--version")
	if err != nil {
		t.Fatalf("version flag failed: %v", err)
	}
	if !strings.Contains(output, "cusubmit") {
		t.Errorf("expected version output to contain 'cusubmit', got: %q", output)
	}
}

func TestGlobalFlagsRecognized(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr bool
	}{
		"verbose flag": {
			args: []string{"cusubmit", "--verbose", "version"},
		},
		"debug flag": {
			args: []string{"cusubmit", "--debug", "version"},
		},
		"json logs": {
			args: []string{"cusubmit", "--log-json", "version"},
		},
		"no-color flag": {
			args: []string{"cusubmit", "--no-color", "version"},
		},
		"developer override": {
			args: []string{"cusubmit", "--developer", "Ari", "--verbose", "version"},
		},
		"unknown flag": {
			args:    []string{"cusubmit", "--frobnicate", "version"},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runCaptured(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllCommandsRegistered(t *testing.T) {
	output, err := runCaptured(t, "cusubmit", "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	for _, cmd := range []string{"version", "config", "scan", "transfer", "submit", "backup"} {
		if !strings.Contains(output, cmd) {
			t.Errorf("expected command %q to be registered, help output: %q", cmd, output)
		}
	}
}

func TestHelpSubcommand(t *testing.T) {
	output, err := runCaptured(t, "cusubmit", "help", "transfer")
	if err != nil {
		t.Fatalf("help subcommand failed: %v", err)
	}
	if !strings.Contains(output, "<destination>") {
		t.Errorf("expected transfer usage in help output, got: %q", output)
	}
}
