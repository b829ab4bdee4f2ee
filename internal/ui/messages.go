// Package ui provides the Bubble Tea TUI for the marquee movie picker.
package ui

import (
	"time"

	"github.com/abelbrown/marquee/internal/config"
)

// SuggestionsLoaded is sent when a suggestion request finishes.
// Seq is the request it answers; responses for anything but the request the
// controller is awaiting are discarded.
type SuggestionsLoaded struct {
	Seq    uint64
	Query  string
	Titles []string
	Dur    time.Duration
	Err    error // already collapsed into empty Titles; kept for logging
}

// ConfigReloaded is sent by the config watcher after the file changed.
type ConfigReloaded struct {
	Config *config.Config
}

// debounceElapsed fires once the quiet period for generation gen has passed.
type debounceElapsed struct {
	gen uint64
}
