package reactive

import "testing"

func TestBatchSingleRun(t *testing.T) {
	first := NewCell("ada")
	last := NewCell("lovelace")
	runs := 0
	var full string

	CreateEffect(func() {
		full = first.Get() + " " + last.Get()
		runs++
	})

	Batch(func() {
		first.Set("grace")
		last.Set("hopper")
	})

	if runs != 2 {
		t.Errorf("batched writes should re-run the effect once, got %d runs", runs)
	}
	if full != "grace hopper" {
		t.Errorf("expected both writes visible, got %q", full)
	}
}

func TestBatchNested(t *testing.T) {
	count := NewCell(0)
	runs := 0

	CreateEffect(func() {
		_ = count.Get()
		runs++
	})

	Batch(func() {
		count.Set(1)
		Batch(func() {
			count.Set(2)
		})
		// Inner batch end must not replay early
		if runs != 1 {
			t.Errorf("nested batch should defer to the outermost, got %d runs", runs)
		}
		count.Set(3)
	})

	if runs != 2 {
		t.Errorf("expected one replay at outermost batch end, got %d runs", runs)
	}
	if count.Get() != 3 {
		t.Errorf("expected 3, got %d", count.Get())
	}
}

func TestBatchReadsSeeWrites(t *testing.T) {
	count := NewCell(1)

	Batch(func() {
		count.Set(2)
		// Reads inside the batch observe the written value immediately
		if count.Get() != 2 {
			t.Errorf("expected 2 inside batch, got %d", count.Get())
		}
	})
}

func TestBatchMultipleCells(t *testing.T) {
	a := NewCell(1)
	b := NewCell(2)
	c := NewCell(3)

	runsAB, runsBC := 0, 0
	CreateEffect(func() { _ = a.Get() + b.Get(); runsAB++ })
	CreateEffect(func() { _ = b.Get() + c.Get(); runsBC++ })

	Batch(func() {
		a.Set(10)
		b.Set(20)
		c.Set(30)
	})

	if runsAB != 2 {
		t.Errorf("a+b effect should re-run once, got %d runs", runsAB)
	}
	if runsBC != 2 {
		t.Errorf("b+c effect should re-run once, got %d runs", runsBC)
	}
}

func TestBatchComputedConsistency(t *testing.T) {
	width := NewCell(2)
	height := NewCell(3)
	area := NewComputed(func() int { return width.Get() * height.Get() })

	var seen []int
	CreateEffect(func() {
		seen = append(seen, area.Get())
	})

	Batch(func() {
		width.Set(10)
		height.Set(20)
	})

	// Never an intermediate 10*3 or 2*20
	want := []int{6, 200}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], seen[i])
		}
	}
}

func TestBatchComputedReadsFresh(t *testing.T) {
	width := NewCell(2)
	height := NewCell(3)
	area := NewComputed(func() int { return width.Get() * height.Get() })

	if area.Get() != 6 {
		t.Fatalf("expected 6, got %d", area.Get())
	}

	Batch(func() {
		width.Set(10)
		// Writes inside the batch invalidate the computed immediately
		if got := area.Get(); got != 30 {
			t.Errorf("expected 30 inside batch, got %d", got)
		}
		height.Set(20)
		if got := area.Get(); got != 200 {
			t.Errorf("expected 200 inside batch, got %d", got)
		}
	})

	if area.Get() != 200 {
		t.Errorf("expected 200 after batch, got %d", area.Get())
	}
}

func TestBatchContainerWrites(t *testing.T) {
	s := Wrap(map[string]any{"a": 1, "b": 2}).(*Store)
	runs := 0

	CreateEffect(func() {
		_ = s.Get("a")
		_ = s.Get("b")
		runs++
	})

	Batch(func() {
		s.Set("a", 10)
		s.Set("b", 20)
	})

	if runs != 2 {
		t.Errorf("batched container writes should re-run once, got %d runs", runs)
	}
}
