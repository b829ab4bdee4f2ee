// Package otel records what the picker does as a stream of typed events.
//
// Events are serialized as JSONL by an async writer and mirrored into an
// in-memory ring buffer that backs the debug overlay. Every event belonging
// to one suggestion request carries the same Seq.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Input events
	KindKeystroke EventKind = "input.keystroke"
	KindDebounced EventKind = "input.debounced"
	KindTooShort  EventKind = "input.too_short"

	// Fetch events
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchError    EventKind = "fetch.error"
	KindFetchStale    EventKind = "fetch.stale"

	// UI events
	KindSelect        EventKind = "ui.select"
	KindDismiss       EventKind = "ui.dismiss"
	KindSubmit        EventKind = "ui.submit"
	KindSubmitBlocked EventKind = "ui.submit_blocked"
	KindConfigReload  EventKind = "ui.config_reload"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace events (MARQUEE_TRACE)
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is the universal observability record. Every field except Kind and
// Time is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // "ui", "suggest", "main"
	SessionID string         `json:"session_id,omitempty"` // random hex, same for entire run
	Seq       uint64         `json:"seq,omitempty"`        // request sequence number
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Status    int            `json:"status,omitempty"` // HTTP status
	Query     string         `json:"query,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
