package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersNoopBeforeInit(t *testing.T) {
	Logger = nil
	// Must not panic.
	Info("info")
	Debug("debug")
	Warn("warn")
	Error("error")
	if WithPrefix("x") != nil {
		t.Error("WithPrefix before init should return nil")
	}
}

func TestInitWriterKeyvals(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	defer func() { Logger = nil }()

	Warn("fetch failed", "query", "ma", "status", 502)

	out := buf.String()
	for _, want := range []string{"fetch failed", "query=ma", "status=502", "WARN"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestInitCreatesDatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Init(dir); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	Close()
	Logger = nil

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "marquee-") || !strings.HasSuffix(name, ".log") {
		t.Errorf("unexpected log file name %q", name)
	}
}
