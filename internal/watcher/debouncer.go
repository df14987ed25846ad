package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single notification
// once a quiet window has passed. An export being re-synced touches
// hundreds of files; the corpus should reload once, not per file.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	out chan struct{}
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		out:    make(chan struct{}, 1),
	}
}

// Trigger records activity. The notification fires once the window
// elapses with no further triggers.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	// Non-blocking: a pending notification already covers this burst.
	select {
	case d.out <- struct{}{}:
	default:
	}
}

// C returns the notification channel.
func (d *Debouncer) C() <-chan struct{} {
	return d.out
}

// Stop cancels any pending notification. Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
