// Command marquee is a search-as-you-type movie picker.
//
// It queries GET {endpoint}/search?query=<text> while you type, lets you pick
// a suggestion with the mouse or the arrow keys, and prints the submitted
// title to stdout. The exit status is 1 when nothing was chosen.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/marquee/internal/autocomplete"
	"github.com/abelbrown/marquee/internal/config"
	"github.com/abelbrown/marquee/internal/logging"
	"github.com/abelbrown/marquee/internal/otel"
	"github.com/abelbrown/marquee/internal/suggest"
	"github.com/abelbrown/marquee/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", config.ConfigPath(), "config file (.json or .toml)")
	endpoint := flag.String("endpoint", "", "search server base URL (overrides config)")
	debounce := flag.Duration("debounce", 0, "quiet period before searching (overrides config)")
	minChars := flag.Int("min-chars", 0, "minimum query length (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 2
	}
	cfg.ApplyEnv()
	overrides := config.Overrides{Endpoint: *endpoint, Debounce: *debounce, MinChars: *minChars}
	overrides.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid config: %v", err)
		return 2
	}

	dataDir := config.DataDir()
	if err := logging.Init(filepath.Join(dataDir, "logs")); err != nil {
		log.Printf("Warning: logging disabled: %v", err)
	}
	defer logging.Close()

	// Event log: JSONL on disk, last events in memory for the debug overlay.
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	var events *otel.Logger
	if f, err := os.OpenFile(filepath.Join(dataDir, "marquee.events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
		logging.Warn("event log disabled", "err", err)
		events = otel.NewNullLogger()
	} else {
		defer f.Close()
		events = otel.NewLogger(f)
	}
	events.SetRingBuffer(ring)
	defer events.Close()

	events.Info(otel.KindStartup, "main", cfg.Endpoint)
	logging.Info("config", "endpoint", cfg.Endpoint, "debounce_ms", cfg.DebounceMs, "min_chars", cfg.MinChars,
		"session", events.SessionID())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := suggest.NewClient(cfg.Endpoint,
		suggest.WithTimeout(cfg.Timeout()),
		suggest.WithRateLimit(cfg.RateLimit),
	)

	app := ui.NewAppWithConfig(ui.AppConfig{
		Context:   ctx,
		Suggester: client,
		Options: autocomplete.Options{
			Delay:    cfg.Debounce(),
			MinChars: cfg.MinChars,
		},
		MaxVisible: cfg.UI.MaxVisible,
		Prompt:     cfg.UI.Prompt,
		Endpoint:   cfg.Endpoint,
		Obs:        ui.ObsConfig{Logger: events, Ring: ring},
	})

	// The TUI draws on stderr so stdout carries only the chosen title.
	program := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)

	err = config.Watch(ctx, *configPath, overrides,
		func(c *config.Config) {
			logging.Info("config reloaded", "path", *configPath)
			program.Send(ui.ConfigReloaded{Config: c})
		},
		func(err error) {
			logging.Warn("config reload failed", "err", err)
			events.Error(otel.KindError, "config", err)
		},
	)
	if err != nil {
		logging.Warn("config watch disabled", "err", err)
		events.Warn(otel.KindError, "config", "watch disabled: "+err.Error())
	}

	final, err := program.Run()
	if err != nil {
		logging.Error("program failed", "err", err)
		fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
		return 1
	}

	chosen := ""
	if a, ok := final.(ui.App); ok {
		chosen = a.Chosen()
	}
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShutdown, Comp: "main", Query: chosen})
	if n := events.Dropped(); n > 0 {
		logging.Warn("event log dropped events", "count", n, "session", events.SessionID())
	}

	if chosen == "" {
		return 1
	}
	fmt.Println(chosen)
	return 0
}
