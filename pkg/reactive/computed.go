package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Computed is a cached derived value exposed with a Cell-shaped surface.
// The getter runs lazily, at most once per dirty transition: upstream
// changes only mark the cache dirty and pass the invalidation on to the
// computed's own dependents; the next read recomputes.
//
// Computeds chain: a computed reading another computed becomes its
// dependent like any other computation.
type Computed[T any] struct {
	id uint64

	// deps are the listeners subscribed to this computed's own
	// identity. Reads register the reader here even when the cached
	// value is fresh.
	deps depSet

	get func() T
	set func(T)

	// value is the cached result of the last getter run.
	value   T
	valueMu sync.RWMutex

	// dirty marks the cache stale. Initialized true so the first read
	// computes.
	dirty atomic.Bool

	// backing is the lazy derived computation that runs the getter and
	// tracks its upstream dependencies.
	backing *Computation
}

// NewComputed creates a read-only computed from a getter.
// The getter does not run until the first read.
func NewComputed[T any](get func() T) *Computed[T] {
	return newComputed(get, nil)
}

// NewWritableComputed creates a computed with an explicit getter/setter
// pair. Set invokes the setter; what it writes upstream determines how
// the computed's own value reacts.
func NewWritableComputed[T any](get func() T, set func(T)) *Computed[T] {
	return newComputed(get, set)
}

func newComputed[T any](get func() T, set func(T)) *Computed[T] {
	cd := &Computed[T]{
		id:  nextID(),
		get: get,
		set: set,
	}
	cd.dirty.Store(true)

	cd.backing = NewComputation(func() {
		v := cd.get()
		cd.valueMu.Lock()
		cd.value = v
		cd.valueMu.Unlock()
	},
		Lazy(),
		asDerived(),
		WithScheduler(func(func()) {
			// Upstream changed: invalidate, do not recompute eagerly.
			if cd.dirty.CompareAndSwap(false, true) {
				if ins := currentInstrument(); ins != nil {
					ins.ComputedInvalidated(cd.id)
				}
				cd.deps.notify()
			}
		}),
	)

	return cd
}

// Get returns the computed value, running the getter only if the cache
// is dirty. The reader is registered as a dependent regardless of dirty
// state, so a computation that merely reads a fresh computed still
// re-runs when it later changes.
func (cd *Computed[T]) Get() T {
	trackDep(&cd.deps)
	cd.refresh()

	cd.valueMu.RLock()
	value := cd.value
	cd.valueMu.RUnlock()
	return value
}

// Peek returns the value without subscribing.
// Still recomputes if the cache is dirty.
func (cd *Computed[T]) Peek() T {
	cd.refresh()
	cd.valueMu.RLock()
	defer cd.valueMu.RUnlock()
	return cd.value
}

// Set routes the write through the setter. A computed constructed
// without one reports the misuse and drops the write (panics in
// DevMode); plain assignment never raises.
func (cd *Computed[T]) Set(value T) {
	if cd.set == nil {
		if DevMode {
			panic(ErrReadOnlyComputed)
		}
		slog.Warn("reactive: write to read-only computed ignored", "computed", cd.id)
		return
	}
	cd.set(value)
}

// ID returns the unique identifier for this computed.
func (cd *Computed[T]) ID() uint64 {
	return cd.id
}

// GetAny implements Readable for use as a Watch source.
func (cd *Computed[T]) GetAny() any {
	return cd.Get()
}

// Stop tears down the backing computation. The cached value remains
// readable but no longer updates.
func (cd *Computed[T]) Stop() {
	cd.backing.Stop()
}

// refresh runs the getter if the cache is dirty. The CAS guarantees the
// getter runs at most once per dirty transition even under concurrent
// reads.
func (cd *Computed[T]) refresh() {
	if !cd.dirty.Load() {
		return
	}
	if cd.dirty.CompareAndSwap(true, false) {
		cd.backing.Run()
	}
}
