// Package autocomplete holds the headless state of a search-as-you-type field:
// the debounce generation, the request sequence, the suggestion list and the
// highlighted row. It does no I/O and owns no timers; callers schedule the
// debounce tick and run the fetch, then feed the results back in.
//
// A Controller is not safe for concurrent use. In the TUI it lives on the
// Bubble Tea update goroutine.
package autocomplete

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Defaults for a movie-title search box.
const (
	DefaultDelay    = 300 * time.Millisecond
	DefaultMinChars = 2
)

// State is the lifecycle position of one input session.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateFetching
	StateShowing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateFetching:
		return "fetching"
	case StateShowing:
		return "showing"
	default:
		return "unknown"
	}
}

// Key is a navigation key the controller understands.
type Key int

const (
	KeyDown Key = iota
	KeyUp
	KeyEnter
	KeyEscape
)

// Options configure a Controller.
type Options struct {
	Delay    time.Duration // quiet period before a search is issued
	MinChars int           // minimum trimmed query length, in runes
}

func (o Options) withDefaults() Options {
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.MinChars < 1 {
		o.MinChars = DefaultMinChars
	}
	return o
}

// Request is a fetch the caller should issue. Seq must be passed back to
// Deliver together with the response.
type Request struct {
	Seq   uint64
	Query string
}

// Controller is the autocomplete state machine.
type Controller struct {
	opts Options

	value string // raw input value
	state State

	gen      uint64 // latest debounce generation
	seq      uint64 // last issued request
	awaiting uint64 // request whose response may still be applied, 0 = none

	suggestions []string
	visible     bool
	highlight   int // -1 = none
}

// New creates a Controller. Zero options fall back to the defaults except
// Delay, where zero means "fire on the next tick".
func New(opts Options) *Controller {
	return &Controller{
		opts:      opts.withDefaults(),
		highlight: -1,
	}
}

// Options returns the effective options.
func (c *Controller) Options() Options { return c.opts }

// SetOptions replaces the options. A pending debounce keeps the delay it was
// scheduled with.
func (c *Controller) SetOptions(opts Options) {
	c.opts = opts.withDefaults()
}

// Input records a keystroke. It supersedes any pending debounce and returns
// the generation the caller must pass to Elapsed once Delay has passed.
func (c *Controller) Input(text string) uint64 {
	c.value = text
	c.gen++
	c.state = StateDebouncing
	return c.gen
}

// Elapsed is called when the debounce delay for gen has passed. Superseded
// generations are ignored. A query shorter than MinChars clears the list and
// abandons any in-flight response; otherwise a new Request is returned.
func (c *Controller) Elapsed(gen uint64) (Request, bool) {
	if gen != c.gen || c.state != StateDebouncing {
		return Request{}, false
	}

	query := strings.TrimSpace(c.value)
	if utf8.RuneCountInString(query) < c.opts.MinChars {
		c.clear()
		c.awaiting = 0
		c.state = StateIdle
		return Request{}, false
	}

	c.seq++
	c.awaiting = c.seq
	c.state = StateFetching
	return Request{Seq: c.seq, Query: query}, true
}

// Deliver applies the response of request seq. It returns false and changes
// nothing when seq is not the request currently awaited, so an older response
// can never overwrite a newer one.
func (c *Controller) Deliver(seq uint64, titles []string) bool {
	if seq == 0 || seq != c.awaiting {
		return false
	}
	c.awaiting = 0

	c.suggestions = append([]string(nil), titles...)
	c.highlight = -1
	c.visible = len(c.suggestions) > 0

	// A keystroke since the fetch started keeps the new debounce alive.
	if c.state == StateFetching {
		if c.visible {
			c.state = StateShowing
		} else {
			c.state = StateIdle
		}
	}
	return true
}

// Click selects suggestion i: its text becomes the input value and the list
// is closed. Out-of-range indexes and hidden lists are ignored.
func (c *Controller) Click(i int) (string, bool) {
	if !c.visible || i < 0 || i >= len(c.suggestions) {
		return "", false
	}
	chosen := c.suggestions[i]
	c.value = chosen
	c.dismiss()
	return chosen, true
}

// OutsideClick hides the results panel.
func (c *Controller) OutsideClick() {
	if c.visible {
		c.dismiss()
	}
}

// Key handles a navigation key. handled reports whether the key was consumed
// by the list; it is always false when no list is shown. chosen is set when
// Enter activated a highlighted item.
func (c *Controller) Key(k Key) (handled bool, chosen string) {
	if !c.visible {
		return false, ""
	}

	last := len(c.suggestions) - 1
	switch k {
	case KeyDown:
		c.highlight = min(c.highlight+1, last)
		return true, ""

	case KeyUp:
		c.highlight = max(c.highlight-1, 0)
		return true, ""

	case KeyEnter:
		if c.highlight < 0 {
			return false, ""
		}
		chosen, _ = c.Click(c.highlight)
		return true, chosen

	case KeyEscape:
		c.dismiss()
		return true, ""
	}
	return false, ""
}

// Submit reports whether the form may be submitted and with which title.
// Empty and whitespace-only values are refused.
func (c *Controller) Submit() (string, bool) {
	title := strings.TrimSpace(c.value)
	if title == "" {
		return "", false
	}
	return title, true
}

// State returns the current lifecycle position.
func (c *Controller) State() State { return c.state }

// Value returns the raw input value, untrimmed.
func (c *Controller) Value() string { return c.value }

// Visible reports whether the results panel is shown.
func (c *Controller) Visible() bool { return c.visible }

// Highlighted returns the keyboard-highlighted index, or -1 for none.
func (c *Controller) Highlighted() int { return c.highlight }

// Generation returns the debounce generation of the latest keystroke.
func (c *Controller) Generation() uint64 { return c.gen }

// Awaiting returns the Seq whose response will be applied, or 0 for none.
func (c *Controller) Awaiting() uint64 { return c.awaiting }

// Suggestions returns the list currently shown. Callers must not modify it.
func (c *Controller) Suggestions() []string { return c.suggestions }

// dismiss ends the list lifecycle: the panel closes, a pending debounce is
// dropped and a late response for the previous query is no longer applied.
func (c *Controller) dismiss() {
	c.clear()
	c.awaiting = 0
	c.state = StateIdle
}

func (c *Controller) clear() {
	c.suggestions = nil
	c.visible = false
	c.highlight = -1
}
