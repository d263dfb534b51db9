// Package debounce delays a call until its trigger has been quiet for a
// fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered func once no new trigger has
// arrived for Delay. Each Trigger cancels the pending call.
// Safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, replacing any pending call.
// It reports false once the debouncer has been stopped.
func (d *Debouncer) Trigger(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A newer Trigger or Stop may have raced with this timer firing.
		current := seq == d.seq && !d.stopped
		d.mu.Unlock()
		if current {
			fn()
		}
	})
	return true
}

// Cancel drops the pending call, if any, without stopping the debouncer.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
}

// Stop cancels the pending call and rejects further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	d.stopped = true
}
