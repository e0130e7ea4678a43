// Package debounce delays a function call until a burst of triggers has
// settled. Only the last call inside the window executes; earlier ones are
// cancelled, not queued.
package debounce

import (
	"context"
	"sync"
	"time"
)

type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	if d == nil || fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call and rejects further triggers.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Bind ties the debouncer's lifetime to a context, so component teardown
// cancels pending timers instead of letting a late callback fire into a
// consumer that is already gone.
func (d *Debouncer) Bind(ctx context.Context) {
	if d == nil || ctx == nil {
		return
	}
	go func() {
		<-ctx.Done()
		d.Stop()
	}()
}
