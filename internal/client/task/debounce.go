package task

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one callback after a
// quiet window. Each Trigger resets the window; Cancel drops any
// pending callback.
type Debouncer struct {
	clock  Clock
	window time.Duration

	mu      sync.Mutex
	pending Timer
}

func NewDebouncer(clock Clock, window time.Duration) *Debouncer {
	return &Debouncer{clock: clock, window: window}
}

// Trigger schedules f after the quiet window, replacing any pending
// callback.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
	}
	d.pending = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		d.pending = nil
		d.mu.Unlock()
		f()
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
