package reactive

import "testing"

func TestFlushDeferredBeforePost(t *testing.T) {
	count := NewCell(0)
	var order []string

	// Post watcher subscribes first, but still runs after deferred jobs.
	Watch(count, func(_, _ any, _ func(func())) {
		order = append(order, "post")
	}, WithFlush(FlushPost))
	Watch(count, func(_, _ any, _ func(func())) {
		order = append(order, "deferred")
	})

	count.Set(1)

	if len(order) != 2 || order[0] != "deferred" || order[1] != "post" {
		t.Errorf("expected [deferred post], got %v", order)
	}
}

func TestFlushTierOrderingInBatch(t *testing.T) {
	count := NewCell(0)
	var order []string

	CreateEffect(func() {
		_ = count.Get()
		order = append(order, "effect")
	})
	Watch(count, func(_, _ any, _ func(func())) {
		order = append(order, "sync")
	}, WithFlush(FlushSync))
	Watch(count, func(_, _ any, _ func(func())) {
		order = append(order, "deferred")
	})

	order = nil
	Batch(func() {
		count.Set(1)
	})

	want := []string{"effect", "sync", "deferred"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], order[i])
		}
	}
}

func TestFlushExplicitNoop(t *testing.T) {
	// Flushing an empty queue is safe
	Flush()
	Flush()
}

func TestFlushJobsEnqueuedDuringFlushSameCycle(t *testing.T) {
	a := NewCell(0)
	b := NewCell(0)
	var order []string

	Watch(a, func(newV, _ any, _ func(func())) {
		order = append(order, "a")
		b.Set(newV.(int))
	})
	Watch(b, func(_, _ any, _ func(func())) {
		order = append(order, "b")
	})

	a.Set(1)

	// The write to b inside a's job extends the same flush cycle
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("expected [a b], got %v", order)
	}
}

func TestFlushBudgetPanicsInDevMode(t *testing.T) {
	DevMode = true
	oldMax := MaxFlushRuns
	MaxFlushRuns = 25
	defer func() {
		DevMode = false
		MaxFlushRuns = oldMax
	}()

	count := NewCell(0)
	w := Watch(count, func(newV, _ any, _ func(func())) {
		// Self-perpetuating: every delivery schedules the next
		count.Set(newV.(int) + 1)
	})
	defer w.Stop()

	defer func() {
		if r := recover(); r != ErrFlushBudgetExceeded {
			t.Errorf("expected ErrFlushBudgetExceeded panic, got %v", r)
		}
	}()
	count.Set(1)
}

func TestFlushBudgetDropsQueueInProduction(t *testing.T) {
	oldMax := MaxFlushRuns
	MaxFlushRuns = 10
	defer func() { MaxFlushRuns = oldMax }()

	count := NewCell(0)
	calls := 0
	w := Watch(count, func(newV, _ any, _ func(func())) {
		calls++
		count.Set(newV.(int) + 1)
	})
	defer w.Stop()

	// Must return rather than livelock
	count.Set(1)

	if calls == 0 {
		t.Error("expected deliveries before the budget tripped")
	}
	if calls > MaxFlushRuns {
		t.Errorf("expected at most %d deliveries, got %d", MaxFlushRuns, calls)
	}
}
