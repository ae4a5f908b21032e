package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"comicvault/internal/config"
	"comicvault/internal/logging"
	"comicvault/internal/services"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("scan started")

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, "comicvault.log"))
	if !strings.Contains(content, "scan started") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if content := readLog(t, logPath); strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if content := readLog(t, logPath); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerFormatsSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	base, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "0123456789abcdef")
	ctx = services.WithRecordID(ctx, 7)
	ctx = services.WithStage(ctx, "identify")
	logger := logging.WithContext(ctx, logging.NewComponentLogger(base, "identifier"))

	logger.Info("record identified",
		logging.String("volume_name", "Batman"),
		logging.Int64("file_size", 2048),
		logging.Bool("issue_matched", true),
		logging.Duration("elapsed", 1500*time.Millisecond),
	)

	content := readLog(t, logPath)
	for _, want := range []string{
		"INFO [identifier] Run 01234567 · Record #7 (identify) – record identified",
		"- Volume name: Batman",
		"- File size: 2.0 kB",
		"- Issue matched: yes",
		"- Elapsed: 1.5s",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "Run id:") || strings.Contains(content, "Component:") {
		t.Fatalf("subject fields should not repeat as bullets: %q", content)
	}
}

func TestJSONLoggerEmitsContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	base, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRecordID(context.Background(), 123)
	ctx = services.WithStage(ctx, "enrich")
	ctx = services.WithRunID(ctx, "run-xyz")

	logging.WithContext(ctx, base).Warn("contextual log", logging.Error(errors.New("boom")))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["msg"] != "contextual log" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry header: %#v", entry)
	}
	if entry[logging.FieldRecordID] != float64(123) {
		t.Fatalf("record_id = %v", entry[logging.FieldRecordID])
	}
	if entry[logging.FieldStage] != "enrich" || entry[logging.FieldRunID] != "run-xyz" {
		t.Fatalf("missing context fields: %#v", entry)
	}
	if entry["error"] != "boom" {
		t.Fatalf("error = %v", entry["error"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key: %#v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "catalog throttled", "rate_limited")

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry[logging.FieldEventType] != "rate_limited" {
		t.Fatalf("event_type = %v", entry[logging.FieldEventType])
	}
	if entry[logging.FieldErrorHint] == nil || entry[logging.FieldImpact] == nil {
		t.Fatalf("expected default hint and impact: %#v", entry)
	}
}

func TestProgressSamplerBuckets(t *testing.T) {
	sampler := logging.NewProgressSampler(25)
	steps := []struct {
		percent float64
		stage   string
		want    bool
	}{
		{0, "identify", true},
		{10, "identify", false},
		{26, "identify", true},
		{30, "identify", false},
		{100, "identify", true},
		{5, "enrich", true},
	}
	for i, step := range steps {
		if got := sampler.ShouldLog(step.percent, step.stage); got != step.want {
			t.Fatalf("step %d: ShouldLog(%v, %q) = %v, want %v", i, step.percent, step.stage, got, step.want)
		}
	}
}
