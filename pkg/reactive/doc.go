// Package reactive provides the fine-grained dependency-tracking core
// for monkeys-go.
//
// Dependencies are tracked automatically at runtime: reading tracked
// state during a computation subscribes that computation to the exact
// keys it touched, and later writes to those keys re-run it.
//
// # Core Types
//
// Cell[T] is a single boxed reactive value:
//
//	count := NewCell(0)
//	value := count.Get()  // Read (subscribes current computation)
//	count.Set(5)          // Write (notifies dependents)
//
// Store and List wrap raw map[string]any / []any structures and
// intercept reads, writes, deletes, and enumeration per key:
//
//	state := Wrap(map[string]any{"user": map[string]any{"name": "ada"}}).(*Store)
//	name := state.Get("user").(*Store).Get("name")
//
// Computed[T] is a cached derived value, invalidated lazily:
//
//	doubled := NewComputed(func() int { return count.Get() * 2 })
//
// Watch separates "what to observe" from "what to do on change":
//
//	w := Watch(func() any { return count.Get() },
//	    func(newV, oldV any, onCleanup func(func())) {
//	        fmt.Println(oldV, "->", newV)
//	    })
//	defer w.Stop()
//
// # Batching and Flushing
//
// Multiple writes can be batched into a single notification phase:
//
//	Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // Dependents re-run once after the outermost batch completes
//
// Watchers with the default (deferred) or post flush policy run from a
// job queue drained by Flush. The engine flushes automatically when a
// write completes outside any batch and when the outermost batch ends;
// hosts driving their own tick can also call Flush explicitly.
//
// # Thread Safety
//
// All primitives are safe for concurrent use. The tracking context is
// per-goroutine, so a computation body and the reads it tracks must
// stay on one goroutine; spawning goroutines requires explicit scope
// propagation via WithScope.
package reactive
