package main

import (
	"log"
	"path/filepath"

	"github.com/abelbrown/marquee/internal/config"
	"github.com/abelbrown/marquee/internal/suggest"
)

// eventLogPath returns the path to marquee.events.jsonl.
func eventLogPath() string {
	return filepath.Join(config.DataDir(), "marquee.events.jsonl")
}

// loadConfig reads the default config file, applies MARQUEE_* overrides and
// the -endpoint flag, or fatals.
func loadConfig(endpoint string) *config.Config {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ApplyEnv()
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return cfg
}

// newClient builds the suggestion client the TUI would use.
func newClient(cfg *config.Config) *suggest.Client {
	return suggest.NewClient(cfg.Endpoint,
		suggest.WithTimeout(cfg.Timeout()),
		suggest.WithRateLimit(cfg.RateLimit),
	)
}
