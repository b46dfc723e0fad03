// Package task provides the timing primitives the navigation layer
// depends on: an injectable clock and a cancellable debouncer, so the
// cosmetic delays and rollup windows are testable without real timers.
package task

import (
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock abstracts time for delays and scheduled callbacks.
type Clock interface {
	Sleep(d time.Duration)
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock delegates to the time package.
type RealClock struct{}

func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FakeClock is a manually advanced clock for tests. Sleep returns
// immediately; AfterFunc callbacks fire when Advance crosses their
// deadline, in scheduling order.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*fakeTimer
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Duration
	f        func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func NewFakeClock() *FakeClock { return &FakeClock{} }

func (c *FakeClock) Sleep(time.Duration) {}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now + d, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the fake time forward, firing due callbacks
// synchronously on the caller's goroutine.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	var rest []*fakeTimer
	for _, t := range c.pending {
		if !t.stopped && t.deadline <= c.now {
			t.fired = true
			due = append(due, t)
		} else if !t.stopped {
			rest = append(rest, t)
		}
	}
	c.pending = rest
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}
