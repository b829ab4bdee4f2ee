package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abelbrown/marquee/internal/config"
)

func TestInitConfig(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "marquee", name)

			if err := initConfig(path, false); err != nil {
				t.Fatalf("initConfig() error: %v", err)
			}
			cfg, err := config.Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.MinChars != 2 || cfg.DebounceMs != 300 {
				t.Errorf("written config = %+v, want defaults", cfg)
			}

			if err := initConfig(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
				t.Errorf("second initConfig() error = %v, want already exists", err)
			}
			if err := initConfig(path, true); err != nil {
				t.Errorf("initConfig(force) error: %v", err)
			}
		})
	}
}

func TestPrintConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MinChars = 0

	var out bytes.Buffer
	if err := printConfig(&out, "/tmp/config.json", cfg); err != nil {
		t.Fatalf("printConfig() error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"# /tmp/config.json", `"endpoint": "http://127.0.0.1:5000"`, "# invalid:", "min_chars"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
