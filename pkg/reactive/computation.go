package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Computation is the raw re-runnable unit of work underlying effects,
// Computed, and Watch. While it runs it becomes the active computation
// on its goroutine, so every tracked read inside the body registers an
// edge back to it. When any of those edges triggers, the computation
// either re-runs directly or hands the replay to its scheduler.
type Computation struct {
	id uint64

	// fn is the body to (re-)run.
	fn func()

	// scheduler, when set, is invoked with the replay thunk instead of
	// re-running directly. This indirection is what lets Computed,
	// Watch, and batching each implement a different execution policy
	// on the same primitive.
	scheduler func(run func())

	// onStop runs once when the computation is stopped.
	onStop func()

	lazy    bool
	derived bool

	// deps are the dependency sets this computation has joined,
	// kept for O(edges) teardown.
	deps   []*depSet
	depsMu sync.Mutex

	stopped atomic.Bool
}

// ComputationOption configures a Computation at creation.
type ComputationOption func(*Computation)

// Lazy prevents the computation from running immediately on creation.
// The first run happens on an explicit Run call or the first trigger.
func Lazy() ComputationOption {
	return func(c *Computation) { c.lazy = true }
}

// WithScheduler routes replays through fn instead of re-running
// directly. fn receives the replay thunk and decides when (or whether)
// to invoke it.
func WithScheduler(fn func(run func())) ComputationOption {
	return func(c *Computation) { c.scheduler = fn }
}

// OnStop registers a hook invoked once when the computation is stopped.
func OnStop(fn func()) ComputationOption {
	return func(c *Computation) { c.onStop = fn }
}

// asDerived marks the computation as backing a Computed, routing it into
// the derived bucket that triggers replay before plain computations.
func asDerived() ComputationOption {
	return func(c *Computation) { c.derived = true }
}

// NewComputation creates a computation and, unless Lazy, runs it once to
// establish its initial dependency edges. The computation registers with
// the current Scope (if any) for automatic teardown.
func NewComputation(fn func(), opts ...ComputationOption) *Computation {
	c := &Computation{
		id: nextID(),
		fn: fn,
	}
	for _, opt := range opts {
		opt(c)
	}

	if s := currentScope(); s != nil {
		s.register(c)
	}

	if !c.lazy {
		c.Run()
	}
	return c
}

// CreateEffect runs fn immediately and re-runs it whenever any tracked
// state it read changes. It is the plain-effect convenience over
// NewComputation; the returned computation's Stop tears it down.
func CreateEffect(fn func(), opts ...ComputationOption) *Computation {
	return NewComputation(fn, opts...)
}

// ID returns the unique identifier for this computation.
// Implements the Listener interface.
func (c *Computation) ID() uint64 {
	return c.id
}

// MarkDirty replays the computation: directly, or via its scheduler.
// Implements the Listener interface. Stopped computations are never
// invoked again.
func (c *Computation) MarkDirty() {
	if c.stopped.Load() {
		return
	}
	if c.scheduler != nil {
		c.scheduler(c.Run)
		return
	}
	c.Run()
}

// Run executes the body, re-establishing dependency edges from scratch.
// A scheduled replay of a computation stopped in the meantime is
// suppressed rather than allowed to run once more.
func (c *Computation) Run() {
	if c.stopped.Load() {
		return
	}

	// Drop stale edges; the body re-registers the ones still read.
	c.clearDeps()

	pushComputation(c)
	defer popComputation()

	if Debug.LogComputationRuns {
		slog.Debug("reactive: computation run", "id", c.id)
	}

	if ins := currentInstrument(); ins != nil {
		start := time.Now()
		c.fn()
		ins.ComputationRan(c.id, time.Since(start))
		return
	}
	c.fn()
}

// Stopped reports whether Stop has been called.
func (c *Computation) Stopped() bool {
	return c.stopped.Load()
}

// Stop removes the computation from every dependency set it joined and
// marks it permanently inactive. Idempotent.
func (c *Computation) Stop() {
	if c.stopped.Swap(true) {
		return
	}
	c.clearDeps()
	if c.onStop != nil {
		c.onStop()
	}
}

func (c *Computation) derivedListener() bool {
	return c.derived
}

// addDep records membership in a dependency set.
// Called by the registry when this computation tracks a read.
func (c *Computation) addDep(d *depSet) {
	c.depsMu.Lock()
	defer c.depsMu.Unlock()

	for _, existing := range c.deps {
		if existing == d {
			return
		}
	}
	c.deps = append(c.deps, d)
}

// clearDeps leaves every joined dependency set.
func (c *Computation) clearDeps() {
	c.depsMu.Lock()
	deps := c.deps
	c.deps = nil
	c.depsMu.Unlock()

	for _, d := range deps {
		d.remove(c)
	}
}
