package query

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}

	// Wait well past the settle interval.
	time.Sleep(100 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("expected exactly 1 callback after rapid triggers, got %d", got)
	}
}

func TestDebouncer_FiresAfterSettle(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	done := make(chan struct{})
	d.Trigger(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced callback never fired")
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(50 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Errorf("expected no callback after Stop, got %d", got)
	}
}

func TestNewDebouncer_DefaultSettle(t *testing.T) {
	d := NewDebouncer(0)
	if d.settle != DefaultSettle {
		t.Errorf("expected default settle %v, got %v", DefaultSettle, d.settle)
	}
}
