package reactive

import (
	"log/slog"
	"sync"
)

// WatchCallback receives the new and previous value of a watched source.
// onCleanup registers a function run before the next callback delivery
// and at stop, for cancelling side work the previous delivery started.
type WatchCallback func(newValue, oldValue any, onCleanup func(func()))

// WatchOption configures a Watcher at creation.
type WatchOption func(*watchConfig)

type watchConfig struct {
	immediate bool
	deep      bool
	flush     FlushMode
}

// Immediate fires the callback once at creation with the initial value
// (previous value nil), instead of waiting for the first change.
func Immediate() WatchOption {
	return func(c *watchConfig) { c.immediate = true }
}

// Deep traverses the watched value recursively on every run, so
// mutations anywhere inside a nested structure fire the callback.
// Watching a *Store or *List source is deep implicitly.
func Deep() WatchOption {
	return func(c *watchConfig) { c.deep = true }
}

// WithFlush selects when the callback runs relative to the triggering
// write. Default is FlushDeferred.
func WithFlush(mode FlushMode) WatchOption {
	return func(c *watchConfig) { c.flush = mode }
}

// Watcher observes a source and delivers old/new values to a callback
// when the source changes. Created by Watch.
type Watcher struct {
	id   uint64
	comp *Computation
	cb   WatchCallback
	cfg  watchConfig

	getter func() any
	multi  bool

	mu       sync.Mutex
	latest   any
	old      any
	cleanups []func()
}

// Watch observes source and invokes cb on change. Source forms:
//
//   - func() any: a getter re-evaluated under tracking
//   - a Cell or Computed (anything Readable)
//   - *Store or *List: the container itself, watched deeply
//   - []any of any of the above: multiple sources, values delivered as
//     []any in the same order
//
// Scalar results suppress the callback when the value is unchanged
// (NaN-safe strict comparison). Structure-shaped results always fire:
// the engine does not diff their contents, it reports that a tracked
// mutation happened. Deep watchers likewise always fire.
//
// The watcher registers with the current Scope. Stop it directly or
// dispose the scope; either way no further callbacks are delivered,
// including replays already scheduled.
func Watch(source any, cb WatchCallback, opts ...WatchOption) *Watcher {
	cfg := watchConfig{flush: FlushDeferred}
	for _, opt := range opts {
		opt(&cfg)
	}

	getter, implicitDeep, ok := makeGetter(source)
	if !ok {
		if DevMode {
			panic(ErrInvalidWatchSource)
		}
		slog.Warn("reactive: invalid watch source, watcher is inert",
			"source", source)
		return &Watcher{id: nextID(), cfg: cfg}
	}
	if implicitDeep {
		cfg.deep = true
	}

	_, multi := source.([]any)
	w := &Watcher{
		id:     nextID(),
		cb:     cb,
		cfg:    cfg,
		getter: getter,
		multi:  multi,
	}

	w.comp = NewComputation(w.read,
		Lazy(),
		WithScheduler(w.schedule),
		OnStop(w.runCleanups),
	)

	w.comp.Run()
	w.mu.Lock()
	w.old = w.latest
	w.mu.Unlock()

	if cfg.immediate {
		w.deliverImmediate()
	}
	return w
}

// Stop tears the watcher down: dependency edges are removed, pending
// cleanups run, and scheduled replays are suppressed. Idempotent.
func (w *Watcher) Stop() {
	if w.comp != nil {
		w.comp.Stop()
	}
}

// ID returns the unique identifier for this watcher.
func (w *Watcher) ID() uint64 {
	return w.id
}

// read is the computation body: evaluate the getter under tracking,
// traversing deeply when configured, and stash the result.
func (w *Watcher) read() {
	v := w.getter()
	if w.cfg.deep {
		visited := make(map[uint64]bool)
		if vs, ok := v.([]any); ok && w.multi {
			// Multi-source results traverse per element; the envelope
			// slice itself is not a watched structure.
			for _, elem := range vs {
				traverse(elem, visited)
			}
		} else {
			traverse(v, visited)
		}
	}

	w.mu.Lock()
	w.latest = v
	w.mu.Unlock()
}

// schedule routes a trigger into the configured flush tier. Sync runs
// inline inside the write; deferred and post queue for the next flush,
// deduplicated so one watcher runs at most once per cycle.
func (w *Watcher) schedule(run func()) {
	job := func() {
		if w.comp.Stopped() {
			return
		}
		run()
		w.deliver()
	}

	if w.cfg.flush == FlushSync {
		job()
		return
	}
	enqueueJob(w.cfg.flush, w.id, job)
}

// deliverImmediate fires the creation-time callback unconditionally,
// with a nil previous value. Subsequent deliveries compare against the
// initial value as usual.
func (w *Watcher) deliverImmediate() {
	w.mu.Lock()
	newV := w.latest
	w.mu.Unlock()

	w.cb(newV, nil, w.onCleanup)

	if ins := currentInstrument(); ins != nil {
		ins.WatcherFired(w.id, w.cfg.flush)
	}
}

// deliver compares latest against the previous value and, when the
// change is observable, runs pending cleanups and fires the callback.
func (w *Watcher) deliver() {
	w.mu.Lock()
	newV, oldV := w.latest, w.old
	w.mu.Unlock()

	if !w.changed(newV, oldV) {
		return
	}

	w.runCleanups()
	w.cb(newV, oldV, w.onCleanup)

	w.mu.Lock()
	w.old = newV
	w.mu.Unlock()

	if ins := currentInstrument(); ins != nil {
		ins.WatcherFired(w.id, w.cfg.flush)
	}
}

// changed decides whether a delivery is warranted. Deep watchers fired
// because something inside mutated; structure-shaped results carry no
// comparable snapshot, so both always deliver.
func (w *Watcher) changed(newV, oldV any) bool {
	if w.cfg.deep {
		return true
	}

	if w.multi {
		na, _ := newV.([]any)
		oa, ok := oldV.([]any)
		if !ok || len(oa) != len(na) {
			return true
		}
		for i := range na {
			if isRefLike(na[i]) || !sameValue(na[i], oa[i]) {
				return true
			}
		}
		return false
	}

	return isRefLike(newV) || !sameValue(newV, oldV)
}

func (w *Watcher) onCleanup(fn func()) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	w.cleanups = append(w.cleanups, fn)
	w.mu.Unlock()
}

func (w *Watcher) runCleanups() {
	w.mu.Lock()
	cleanups := w.cleanups
	w.cleanups = nil
	w.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// makeGetter normalizes a watch source into a tracked getter. The
// second result reports whether the source implies deep observation.
func makeGetter(source any) (func() any, bool, bool) {
	switch t := source.(type) {
	case func() any:
		return t, false, true
	case Readable:
		return t.GetAny, false, true
	case *Store:
		return func() any { return t }, true, true
	case *List:
		return func() any { return t }, true, true
	case []any:
		getters := make([]func() any, len(t))
		deep := false
		for i, src := range t {
			g, d, ok := makeGetter(src)
			if !ok {
				return nil, false, false
			}
			getters[i] = g
			deep = deep || d
		}
		return func() any {
			out := make([]any, len(getters))
			for i, g := range getters {
				out[i] = g()
			}
			return out
		}, deep, true
	default:
		return nil, false, false
	}
}

// traverse walks a value recursively under tracking, registering edges
// on every key and element so any nested mutation triggers the walker.
// Cycles are broken with a visited set keyed by container ID.
func traverse(v any, visited map[uint64]bool) {
	switch t := Wrap(v).(type) {
	case *Store:
		if visited[t.id] {
			return
		}
		visited[t.id] = true
		for _, k := range t.Keys() {
			traverse(t.Get(k), visited)
		}
	case *List:
		if visited[t.id] {
			return
		}
		visited[t.id] = true
		n := t.Len()
		for i := 0; i < n; i++ {
			traverse(t.Get(i), visited)
		}
	}
}
