package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Level: "warn", Format: "json"})

	log.Info(context.Background(), "dropped")
	log.Warn(context.Background(), "kept", Float64("photons", 13.5), Err(errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if rec["msg"] != "kept" {
		t.Fatalf("msg = %v, want kept", rec["msg"])
	}
	if rec["photons"] != 13.5 {
		t.Fatalf("photons = %v, want 13.5", rec["photons"])
	}
	if rec["error"] != "boom" {
		t.Fatalf("error = %v, want boom", rec["error"])
	}
}

func TestWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Level: "debug"}).With(String("instrument", "paranal-ut4"))
	log.Debug(context.Background(), "hello")

	if !strings.Contains(buf.String(), "instrument=paranal-ut4") {
		t.Fatalf("expected instrument field in %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in).Level(); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")

	cfg := ConfigFromEnv(Config{}, "warn")
	if cfg.Level != "error" || cfg.Format != "json" {
		t.Fatalf("ConfigFromEnv = %+v, want level=error format=json", cfg)
	}

	cfg = ConfigFromEnv(Config{Level: "debug"}, "warn")
	if cfg.Level != "debug" {
		t.Fatalf("explicit level overridden: %+v", cfg)
	}

	t.Setenv("LOG_LEVEL", "")
	cfg = ConfigFromEnv(Config{}, "warn")
	if cfg.Level != "warn" {
		t.Fatalf("default level = %q, want warn", cfg.Level)
	}
}

func TestContextLogger(t *testing.T) {
	if _, ok := FromContext(context.Background()).(noopLogger); !ok {
		t.Fatalf("expected noop logger from empty context")
	}
	var buf bytes.Buffer
	log := New(&buf, Config{})
	ctx := ContextWithLogger(context.Background(), log)
	FromContext(ctx).Info(ctx, "via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Fatalf("context logger did not write: %q", buf.String())
	}
}

func TestAddSourceReportsCaller(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Config{AddSource: true}).Info(context.Background(), "located")

	if !strings.Contains(buf.String(), "logging_test.go") {
		t.Fatalf("source = %q, want the calling test file", buf.String())
	}

	buf.Reset()
	New(&buf, Config{}).Info(context.Background(), "unlocated")
	if strings.Contains(buf.String(), "source=") {
		t.Fatalf("source recorded without AddSource: %q", buf.String())
	}
}
