package reactive

import "testing"

// End-to-end scenario exercising containers, computeds, watchers, and
// batching together: a shopping cart whose total is derived from a
// reactive list of item records.
func TestCartEndToEnd(t *testing.T) {
	items := Wrap([]any{}).(*List)

	total := NewComputed(func() int {
		sum := 0
		for _, v := range items.Values() {
			item := v.(*Store)
			sum += item.Get("price").(int) * item.Get("qty").(int)
		}
		return sum
	})

	var totals []int
	Watch(total, func(newV, _ any, _ func(func())) {
		totals = append(totals, newV.(int))
	})

	items.Push(map[string]any{"price": 5, "qty": 2})
	items.Push(map[string]any{"price": 3, "qty": 1})

	// Mutating a nested record flows through to the derived total
	items.Get(0).(*Store).Set("qty", 3)

	// Batched writes produce a single recomputation and delivery
	Batch(func() {
		items.Get(0).(*Store).Set("qty", 1)
		items.Get(1).(*Store).Set("qty", 2)
	})

	want := []int{10, 13, 18, 11}
	if len(totals) != len(want) {
		t.Fatalf("expected %v, got %v", want, totals)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("delivery %d: expected %d, got %d", i, want[i], totals[i])
		}
	}

	if total.Get() != 11 {
		t.Errorf("expected final total 11, got %d", total.Get())
	}
}

func TestFormValidationScenario(t *testing.T) {
	form := Wrap(map[string]any{
		"email":    "",
		"password": "",
	}).(*Store)

	valid := NewComputed(func() bool {
		email, _ := form.Get("email").(string)
		password, _ := form.Get("password").(string)
		return len(email) > 3 && len(password) >= 8
	})

	var states []bool
	Watch(valid, func(newV, _ any, _ func(func())) {
		states = append(states, newV.(bool))
	}, Immediate())

	form.Set("email", "a@b.io")
	// Still invalid: no delivery for an unchanged result
	form.Set("password", "short")
	form.Set("password", "long enough")
	form.Set("email", "")

	want := []bool{false, true, false}
	if len(states) != len(want) {
		t.Fatalf("expected %v, got %v", want, states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("delivery %d: expected %v, got %v", i, want[i], states[i])
		}
	}
}

func TestScopedComponentLifecycle(t *testing.T) {
	count := NewCell(0)

	// A host mounting and unmounting a unit of reactive work
	renders := 0
	scope := NewScope(nil)
	scope.Run(func() {
		doubled := NewComputed(func() int { return count.Get() * 2 })
		CreateEffect(func() {
			_ = doubled.Get()
			renders++
		})
	})

	count.Set(1)
	count.Set(2)
	if renders != 3 {
		t.Fatalf("expected 3 renders while mounted, got %d", renders)
	}

	scope.Dispose()
	count.Set(3)
	if renders != 3 {
		t.Errorf("unmounted component must not render, got %d", renders)
	}
}
