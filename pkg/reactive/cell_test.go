package reactive

import (
	"math"
	"testing"
)

func TestCellBasic(t *testing.T) {
	count := NewCell(0)

	// Initial value
	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	// Set value
	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	// Update value
	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestCellSubscription(t *testing.T) {
	count := NewCell(0)
	runs := 0

	CreateEffect(func() {
		_ = count.Get()
		runs++
	})

	if runs != 1 {
		t.Fatalf("expected 1 initial run, got %d", runs)
	}

	// Setting should re-run the effect exactly once
	count.Set(1)
	if runs != 2 {
		t.Errorf("expected 2 runs after write, got %d", runs)
	}

	// Same value should not re-run
	count.Set(1)
	if runs != 2 {
		t.Errorf("same value should not re-run, got %d runs", runs)
	}

	count.Set(2)
	if runs != 3 {
		t.Errorf("expected 3 runs, got %d", runs)
	}
}

func TestCellPeekDoesNotSubscribe(t *testing.T) {
	count := NewCell(42)
	runs := 0

	CreateEffect(func() {
		_ = count.Peek()
		runs++
	})

	count.Set(100)
	if runs != 1 {
		t.Errorf("Peek should not subscribe, got %d runs", runs)
	}
}

func TestCellNoTrackingOutsideComputation(t *testing.T) {
	count := NewCell(0)

	// A bare read registers nothing; this must not panic or leak edges.
	if count.Get() != 0 {
		t.Errorf("expected 0, got %d", count.Get())
	}
	count.Set(1)
	if count.Get() != 1 {
		t.Errorf("expected 1, got %d", count.Get())
	}
}

func TestCellMultipleSubscribers(t *testing.T) {
	count := NewCell(0)
	runs1, runs2, runs3 := 0, 0, 0

	CreateEffect(func() { _ = count.Get(); runs1++ })
	CreateEffect(func() { _ = count.Get(); runs2++ })
	CreateEffect(func() { _ = count.Get(); runs3++ })

	count.Set(1)
	if runs1 != 2 || runs2 != 2 || runs3 != 2 {
		t.Errorf("expected all subscribers to re-run once, got %d/%d/%d", runs1, runs2, runs3)
	}
}

func TestCellNaNWriteSuppressed(t *testing.T) {
	v := NewCell(math.NaN())
	runs := 0

	CreateEffect(func() {
		_ = v.Get()
		runs++
	})

	// NaN -> NaN is not a change
	v.Set(math.NaN())
	if runs != 1 {
		t.Errorf("NaN to NaN write should not trigger, got %d runs", runs)
	}

	v.Set(1.5)
	if runs != 2 {
		t.Errorf("expected re-run on NaN to 1.5, got %d runs", runs)
	}

	v.Set(math.NaN())
	if runs != 3 {
		t.Errorf("expected re-run on 1.5 to NaN, got %d runs", runs)
	}
}

func TestCellWithEquals(t *testing.T) {
	type point struct{ x, y int }

	p := NewCell(point{1, 2}).WithEquals(func(a, b point) bool {
		return a.x == b.x // only x matters
	})
	runs := 0

	CreateEffect(func() {
		_ = p.Get()
		runs++
	})

	p.Set(point{1, 99})
	if runs != 1 {
		t.Errorf("custom equality should suppress the write, got %d runs", runs)
	}

	p.Set(point{2, 99})
	if runs != 2 {
		t.Errorf("expected re-run on x change, got %d runs", runs)
	}
}

func TestCellMapWriteComparesIdentity(t *testing.T) {
	c := NewCell(map[string]any{"a": 1})
	runs := 0

	CreateEffect(func() {
		_ = c.Get()
		runs++
	})

	// A fresh map with equal contents is still a different value
	c.Set(map[string]any{"a": 1})
	if runs != 2 {
		t.Errorf("distinct map should trigger, got %d runs", runs)
	}

	// Rewriting the same map does not change identity
	m := map[string]any{"b": 2}
	c.Set(m)
	if runs != 3 {
		t.Fatalf("expected 3 runs, got %d", runs)
	}
	c.Set(m)
	if runs != 3 {
		t.Errorf("same map reference should not trigger, got %d runs", runs)
	}
}

func TestCellSelfWriteDoesNotRetrigger(t *testing.T) {
	count := NewCell(0)
	runs := 0

	CreateEffect(func() {
		n := count.Get()
		runs++
		if n < 5 {
			// Writing a dependency from inside its own effect must not
			// re-enter the effect synchronously.
			count.Set(n + 100)
		}
	})

	if runs != 1 {
		t.Errorf("expected exactly 1 run, got %d", runs)
	}
	if count.Get() != 100 {
		t.Errorf("expected 100, got %d", count.Get())
	}
}

func TestCellUpdateSameValue(t *testing.T) {
	count := NewCell(7)
	runs := 0

	CreateEffect(func() { _ = count.Get(); runs++ })

	count.Update(func(n int) int { return n })
	if runs != 1 {
		t.Errorf("identity update should not trigger, got %d runs", runs)
	}
}
