package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/abelbrown/marquee/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing request stats and recent events.
// Pure function with no side effects. Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Request Stats"))
	lines = append(lines, fmt.Sprintf("  Input:      %d keystrokes, %d debounced, %d too short",
		stats[otel.KindKeystroke], stats[otel.KindDebounced], stats[otel.KindTooShort]))
	lines = append(lines, fmt.Sprintf("  Fetches:    %d started, %d complete, %d errors, %d stale",
		stats[otel.KindFetchStart], stats[otel.KindFetchComplete], stats[otel.KindFetchError], stats[otel.KindFetchStale]))
	lines = append(lines, fmt.Sprintf("  Picks:      %d selected, %d dismissed, %d blocked",
		stats[otel.KindSelect], stats[otel.KindDismiss], stats[otel.KindSubmitBlocked]))

	buffer := fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap())
	if len(recent) > 0 && !recent[0].Time.IsZero() {
		buffer += ", oldest shown " + humanize.Time(recent[0].Time)
	}
	lines = append(lines, buffer)
	lines = append(lines, "")

	// Full lifecycle of the newest request, even if parts of it scrolled
	// out of the recent list.
	if seq := lastSeq(recent); seq != 0 {
		lines = append(lines, DebugHeaderStyle.Render(fmt.Sprintf("Request #%d", seq)))
		for _, e := range ring.BySeq(seq) {
			lines = append(lines, eventLine(e))
		}
		lines = append(lines, "")
	}

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		lines = append(lines, eventLine(e))
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 76
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	content := strings.Join(lines, "\n")
	return DebugPanel.Width(panelWidth).Render(content)
}

func eventLine(e otel.Event) string {
	line := fmt.Sprintf("  %6s  %-20s", formatAge(time.Since(e.Time)), string(e.Kind))
	if e.Seq != 0 {
		line += fmt.Sprintf("  #%d", e.Seq)
	}
	if e.Query != "" {
		line += fmt.Sprintf("  %q", truncateRunes(e.Query, 24))
	}
	if e.Count != 0 {
		line += fmt.Sprintf("  n=%d", e.Count)
	}
	if e.Dur > 0 {
		line += "  " + e.Dur.Round(time.Millisecond).String()
	}
	if e.Msg != "" {
		line += "  " + truncateRunes(e.Msg, 40)
	}
	if e.Err != "" {
		line += "  ERR:" + truncateRunes(e.Err, 30)
	}
	return line
}

// lastSeq returns the request sequence of the newest event that has one.
func lastSeq(events []otel.Event) uint64 {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Seq != 0 {
			return events[i].Seq
		}
	}
	return 0
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	hint := StatusBarKey.Render("F2") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + hint)
}
