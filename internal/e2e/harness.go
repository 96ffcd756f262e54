// Package e2e runs the cusubmit CLI end to end against snapshots on the real
// filesystem, with an isolated CUSUBMIT_HOME per test.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/cusubmit/internal/cli"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness runs CLI commands in an isolated environment.
type Harness struct {
	t       *testing.T
	homeDir string
}

// NewHarness creates a harness whose config and backups live in a fresh
// temporary directory.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	homeDir := t.TempDir()
	h := &Harness{t: t, homeDir: homeDir}

	h.SetEnv("CUSUBMIT_HOME", filepath.Join(homeDir, ".cusubmit"))
	h.SetEnv("CUSUBMIT_BACKUP_LOCATION", h.BackupDir())
	h.SetEnv("CUSUBMIT_OUTPUT_COLOR", "never")
	h.SetEnv("CUSUBMIT_DEVELOPER_NAME", "Ari")

	return h
}

// SetEnv sets an environment variable for the duration of the test.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.t.Setenv(key, value)
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// BackupDir returns where transfers store their backups.
func (h *Harness) BackupDir() string {
	return filepath.Join(h.homeDir, "backups")
}

// Run executes a CLI command with the given arguments and captures stdout.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()
	return h.run(nil, args)
}

// RunWithStdin executes a CLI command that reads answers from stdin.
func (h *Harness) RunWithStdin(stdin string, args ...string) *Result {
	h.t.Helper()
	return h.run(&stdin, args)
}

func (h *Harness) run(stdin *string, args []string) *Result {
	h.t.Helper()

	if len(args) == 0 || args[0] != "cusubmit" {
		args = append([]string{"cusubmit"}, args...)
	}

	if stdin != nil {
		oldStdin := os.Stdin
		stdinR, stdinW, err := os.Pipe()
		if err != nil {
			h.t.Fatalf("failed to create stdin pipe: %v", err)
		}
		go func() {
			defer func() {
				_ = stdinW.Close()
			}()
			_, _ = stdinW.WriteString(*stdin)
		}()
		os.Stdin = stdinR
		defer func() {
			os.Stdin = oldStdin
			_ = stdinR.Close()
		}()
	}

	oldStdout := os.Stdout
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = stdoutW

	// Drain concurrently so output larger than the pipe buffer cannot block the command.
	var stdoutBuf bytes.Buffer
	var copyErr error
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		_, copyErr = io.Copy(&stdoutBuf, stdoutR)
	}()

	cmdErr := cli.Run(context.Background(), args)

	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	os.Stdout = oldStdout

	<-copyDone
	if copyErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", copyErr)
	}

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   stdoutBuf.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}
