package debounce

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestTrigger_OnlyLastCallExecutes(t *testing.T) {
	d := New(30 * time.Millisecond)
	var ran int64
	var last int64

	for i := 1; i <= 5; i++ {
		i := i
		d.Trigger(func() {
			atomic.AddInt64(&ran, 1)
			atomic.StoreInt64(&last, int64(i))
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt64(&ran); got != 1 {
		t.Fatalf("ran = %d, want 1", got)
	}
	if got := atomic.LoadInt64(&last); got != 5 {
		t.Fatalf("last = %d, want 5", got)
	}
}

func TestTrigger_SettledCallsBothExecute(t *testing.T) {
	d := New(20 * time.Millisecond)
	var ran int64

	d.Trigger(func() { atomic.AddInt64(&ran, 1) })
	time.Sleep(60 * time.Millisecond)
	d.Trigger(func() { atomic.AddInt64(&ran, 1) })
	time.Sleep(60 * time.Millisecond)

	if got := atomic.LoadInt64(&ran); got != 2 {
		t.Fatalf("ran = %d, want 2", got)
	}
}

func TestStop_CancelsPending(t *testing.T) {
	d := New(30 * time.Millisecond)
	var ran int64

	d.Trigger(func() { atomic.AddInt64(&ran, 1) })
	d.Stop()
	time.Sleep(80 * time.Millisecond)

	if got := atomic.LoadInt64(&ran); got != 0 {
		t.Fatalf("ran = %d, want 0 after Stop", got)
	}

	// Triggers after Stop are rejected.
	d.Trigger(func() { atomic.AddInt64(&ran, 1) })
	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt64(&ran); got != 0 {
		t.Fatalf("ran = %d, want 0 after stopped trigger", got)
	}
}

func TestBind_ContextCancelStops(t *testing.T) {
	d := New(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	d.Bind(ctx)

	var ran int64
	d.Trigger(func() { atomic.AddInt64(&ran, 1) })
	cancel()
	time.Sleep(120 * time.Millisecond)

	if got := atomic.LoadInt64(&ran); got != 0 {
		t.Fatalf("ran = %d, want 0 after context cancel", got)
	}
}
