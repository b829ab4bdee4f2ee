package autocomplete

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once no new trigger
// has arrived for the configured delay. At most one call is pending at a
// time. Safe for concurrent use; fn runs on a timer goroutine.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	fn      func()
	gen     uint64
	running sync.WaitGroup
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, cancelling whatever was pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// Stop does not catch a timer that already fired and is waiting on mu.
		current := gen == d.gen
		if current {
			d.timer = nil
			d.fn = nil
			d.running.Add(1)
		}
		d.mu.Unlock()
		if current {
			defer d.running.Done()
			fn()
		}
	})
}

// Flush runs the pending call now instead of waiting out the delay, then
// waits for calls already in progress. It reports whether a pending call ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.fn
	pending := d.timer != nil && fn != nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	d.gen++
	d.mu.Unlock()

	if pending {
		fn()
	}
	d.running.Wait()
	return pending
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	d.gen++
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// SetDelay changes the quiet period for subsequent triggers.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	d.delay = delay
	d.mu.Unlock()
}
