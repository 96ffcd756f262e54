package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauern/cusubmit/internal/logging"
)

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})

	logger.Info("copied asset", logging.Category("charset"), logging.Path("CharSet/hero.png"))

	output := buf.String()
	if !strings.Contains(output, "copied asset") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "category=charset") {
		t.Errorf("expected category attribute in output, got: %s", output)
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf, JSON: true})

	logger.Info("map skipped", logging.Map(12))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if entry["msg"] != "map skipped" {
		t.Errorf("expected msg='map skipped', got: %v", entry["msg"])
	}
	if entry["map"] != float64(12) {
		t.Errorf("expected map=12, got: %v", entry["map"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("expected debug and info to be filtered at warn level, got: %s", output)
	}
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should appear at warn level")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := logging.DefaultOptions()

	if opts.Level != logging.LevelInfo {
		t.Errorf("expected default level to be Info, got: %v", opts.Level)
	}
	if opts.JSON || opts.AddSource {
		t.Error("expected text output without source by default")
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})

	ctx := logging.NewContext(context.Background(), logger)
	logging.WithContext(ctx).Info("context message")

	if !strings.Contains(buf.String(), "context message") {
		t.Error("expected logger from context to write to buffer")
	}
	if logging.FromContext(context.Background()) != nil {
		t.Error("expected nil logger from empty context")
	}
}

func TestWithContext_FallbackToDefault(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf}))

	logging.WithContext(context.Background()).Info("fallback message")
	logging.With("component", "transfer").Info("child message")

	output := buf.String()
	if !strings.Contains(output, "fallback message") {
		t.Error("expected WithContext to fall back to default logger")
	}
	if !strings.Contains(output, "component=transfer") {
		t.Errorf("expected With attributes in output, got: %s", output)
	}
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{name: "Category", attr: logging.Category("music"), wantKey: "category", wantVal: "music"},
		{name: "Record", attr: logging.Record("switch"), wantKey: "record", wantVal: "switch"},
		{name: "Path", attr: logging.Path("/builds/dev/Map0001.lmu"), wantKey: "path", wantVal: "/builds/dev/Map0001.lmu"},
		{name: "Operation", attr: logging.Operation("transfer"), wantKey: "operation", wantVal: "transfer"},
		{name: "Status", attr: logging.Status("added"), wantKey: "status", wantVal: "added"},
		{name: "Map", attr: logging.Map(7), wantKey: "map", wantVal: "7"},
		{name: "ID", attr: logging.ID(3), wantKey: "id", wantVal: "3"},
		{name: "Count", attr: logging.Count(42), wantKey: "count", wantVal: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("got key %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("got value %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestErr(t *testing.T) {
	if attr := logging.Err(nil); attr.Key != "" {
		t.Errorf("expected empty key for nil error, got: %q", attr.Key)
	}

	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf, JSON: true})
	logger.Info("copy failed", logging.Err(errors.New("disk full")))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if entry["error"] != "disk full" {
		t.Errorf("expected error field, got %v", entry["error"])
	}
}

func TestTimer(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf}))

	done := logging.Timer("scan")
	done()

	output := buf.String()
	if !strings.Contains(output, "operation=scan") {
		t.Errorf("expected operation attribute, got: %s", output)
	}
	if !strings.Contains(output, "duration=") {
		t.Errorf("expected duration attribute, got: %s", output)
	}
}
