package clock

import (
	"sync"
	"time"
)

// Debouncer delays fn until Trigger calls stop arriving for the quiet
// period. Each Trigger cancels the pending call and reschedules it.
type Debouncer struct {
	clock Clock
	wait  time.Duration
	fn    func()

	mu      sync.Mutex
	pending Timer
}

func NewDebouncer(c Clock, wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{clock: c, wait: wait, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
	}
	var t Timer
	t = d.clock.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if d.pending != t {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()
		d.fn()
	})
	d.pending = t
}

// Stop drops any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
