package service

import (
	"testing"
	"time"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	clock := newFakeClock()
	debouncer := NewDebouncer(100*time.Millisecond, clock)

	var fired []int
	for i := 1; i <= 5; i++ {
		i := i
		debouncer.Trigger(func() { fired = append(fired, i) })
		clock.Advance(10 * time.Millisecond)
	}

	if len(fired) != 0 {
		t.Fatalf("expected nothing to fire inside the quiet window, got %v", fired)
	}

	clock.Advance(100 * time.Millisecond)

	if len(fired) != 1 {
		t.Fatalf("expected exactly one firing, got %v", fired)
	}
	if fired[0] != 5 {
		t.Fatalf("expected only the last trigger of the burst to run, got %d", fired[0])
	}
}

func TestDebouncer_SeparateBurstsFireSeparately(t *testing.T) {
	clock := newFakeClock()
	debouncer := NewDebouncer(50*time.Millisecond, clock)

	count := 0
	debouncer.Trigger(func() { count++ })
	clock.Advance(60 * time.Millisecond)
	debouncer.Trigger(func() { count++ })
	clock.Advance(60 * time.Millisecond)

	if count != 2 {
		t.Fatalf("expected two firings for two separated bursts, got %d", count)
	}
}

func TestDebouncer_FlushRunsPendingImmediately(t *testing.T) {
	clock := newFakeClock()
	debouncer := NewDebouncer(time.Second, clock)

	count := 0
	debouncer.Trigger(func() { count++ })
	debouncer.Flush()

	if count != 1 {
		t.Fatalf("expected flush to run the pending function, got %d firings", count)
	}

	clock.Advance(2 * time.Second)
	if count != 1 {
		t.Fatalf("expected no second firing after flush, got %d", count)
	}
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	clock := newFakeClock()
	debouncer := NewDebouncer(50*time.Millisecond, clock)

	count := 0
	debouncer.Trigger(func() { count++ })
	debouncer.Stop()
	clock.Advance(time.Second)

	if count != 0 {
		t.Fatalf("expected stopped debouncer not to fire, got %d firings", count)
	}
}

func TestDebouncer_IndependentWindows(t *testing.T) {
	clock := newFakeClock()
	saves := NewDebouncer(500*time.Millisecond, clock)
	resizes := NewDebouncer(100*time.Millisecond, clock)

	var savedCount, resizedCount int
	saves.Trigger(func() { savedCount++ })
	resizes.Trigger(func() { resizedCount++ })

	clock.Advance(100 * time.Millisecond)
	if resizedCount != 1 {
		t.Fatalf("expected resize debouncer to fire after its own window")
	}
	if savedCount != 0 {
		t.Fatalf("expected save debouncer to still be waiting")
	}

	clock.Advance(400 * time.Millisecond)
	if savedCount != 1 {
		t.Fatalf("expected save debouncer to fire after its window")
	}
}
