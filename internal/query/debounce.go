package query

import (
	"sync"
	"time"
)

// DefaultSettle is how long input must be stable before a debounced
// callback runs.
const DefaultSettle = 200 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback that fires once
// the triggers have settled. A later Trigger replaces an earlier pending one.
type Debouncer struct {
	settle time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a Debouncer with the given settle interval.
// A non-positive interval uses DefaultSettle.
func NewDebouncer(settle time.Duration) *Debouncer {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Debouncer{settle: settle}
}

// Trigger schedules fn to run after the settle interval, replacing any
// pending callback. fn runs on a timer goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.settle, fn)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
