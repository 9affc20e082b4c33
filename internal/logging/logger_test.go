package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFacadeWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Info("members imported", "success_count", 3, "error_count", 1)
	Warn("lookup missed", "level_code", "B9")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["success_count"] != int64(3) {
		t.Errorf("expected success_count 3, got %v", fields["success_count"])
	}
	if entries[1].Level != zap.WarnLevel {
		t.Errorf("expected warn level, got %s", entries[1].Level)
	}
}

func TestInitWithFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizdesk.log")
	if err := Init("production", Options{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Info("file sink check", "key", "value")
	_ = Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), "file sink check") {
		t.Errorf("log file missing entry: %s", data)
	}
}
