package reactive

import (
	"log/slog"
	"strconv"
	"sync"
)

// ChangeKind classifies a container mutation so the registry can route
// list-specific notifications (additions grow length, shrinking deletes
// trailing indices).
type ChangeKind uint8

const (
	// ChangeSet is an update of an existing key.
	ChangeSet ChangeKind = iota

	// ChangeAdd is the creation of a previously absent key.
	ChangeAdd

	// ChangeDelete is the removal of an existing key.
	ChangeDelete
)

// String returns a stable label for metrics and debug logs.
func (k ChangeKind) String() string {
	switch k {
	case ChangeSet:
		return "set"
	case ChangeAdd:
		return "add"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// KeyLength is the synthetic key tracked by list length reads.
// Additions notify it; shrinking it notifies removed index readers.
const KeyLength = "length"

// keyIterate is the synthetic key tracked by record enumeration
// (Keys/Len/Values on Store). Adding or deleting keys triggers it.
const keyIterate = "__iterate__"

// depSet is one dependency set: the listeners currently interested in a
// single (container, key) pair, or in a Cell/Computed's own identity.
// Registration is idempotent (deduplicated by listener ID).
type depSet struct {
	subs []Listener
	mu   sync.RWMutex
}

// add subscribes a listener. No-op if it is already a member.
func (d *depSet) add(l Listener) {
	if l == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	lid := l.ID()
	for _, existing := range d.subs {
		if existing.ID() == lid {
			return
		}
	}
	d.subs = append(d.subs, l)
}

// remove unsubscribes a listener. Order is not preserved.
func (d *depSet) remove(l Listener) {
	if l == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	lid := l.ID()
	for i, existing := range d.subs {
		if existing.ID() == lid {
			d.subs[i] = d.subs[len(d.subs)-1]
			d.subs = d.subs[:len(d.subs)-1]
			return
		}
	}
}

// snapshot copies the member list so notification never holds the lock.
func (d *depSet) snapshot() []Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.subs) == 0 {
		return nil
	}
	out := make([]Listener, len(d.subs))
	copy(out, d.subs)
	return out
}

// notify replays every member of this set (used by Cell and Computed,
// whose registry is a single set keyed on their own identity).
func (d *depSet) notify() {
	notifyListeners(d.snapshot())
}

// trackDep subscribes the currently running computation to d and records
// the back-reference used for O(edges) teardown. No-op outside a
// computation: read-only traversal leaves no trace.
func trackDep(d *depSet) {
	c := currentComputation()
	if c == nil {
		return
	}
	d.add(c)
	c.addDep(d)
}

// depMap is the per-container dependency registry:
// key -> set of listeners interested in that key.
// Entries are created on first tracked read of a key.
type depMap struct {
	deps map[string]*depSet
	mu   sync.Mutex
}

// track records that the currently running computation depends on key.
// No-op if no computation is running.
func (m *depMap) track(key string) {
	if currentComputation() == nil {
		return
	}

	m.mu.Lock()
	if m.deps == nil {
		m.deps = make(map[string]*depSet)
	}
	d := m.deps[key]
	if d == nil {
		d = &depSet{}
		m.deps[key] = d
	}
	m.mu.Unlock()

	trackDep(d)
}

// trigger notifies every listener registered on any of the given keys.
// Absent keys are a correct no-op, not an error. Listeners appearing
// under several keys are replayed once.
func (m *depMap) trigger(kind ChangeKind, keys ...string) {
	merged := m.collect(keys)
	if Debug.LogTriggers && len(keys) > 0 {
		slog.Debug("reactive: trigger",
			"kind", kind.String(), "key", keys[0], "notified", len(merged))
	}
	if ins := currentInstrument(); ins != nil && len(keys) > 0 {
		ins.Triggered(kind, keys[0], len(merged))
	}
	notifyListeners(merged)
}

// collect merges the snapshots for keys, deduplicated by listener ID in
// first-seen order.
func (m *depMap) collect(keys []string) []Listener {
	m.mu.Lock()
	sets := make([]*depSet, 0, len(keys))
	for _, key := range keys {
		if d := m.deps[key]; d != nil {
			sets = append(sets, d)
		}
	}
	m.mu.Unlock()

	if len(sets) == 0 {
		return nil
	}

	seen := make(map[uint64]bool)
	var merged []Listener
	for _, d := range sets {
		for _, l := range d.snapshot() {
			if id := l.ID(); !seen[id] {
				seen[id] = true
				merged = append(merged, l)
			}
		}
	}
	return merged
}

// indexKeysAtOrBeyond returns the registered numeric keys >= from.
// Used when a list shrinks: elements conceptually removed must notify
// their specific-index readers.
func (m *depMap) indexKeysAtOrBeyond(from int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for key := range m.deps {
		if idx, err := strconv.Atoi(key); err == nil && idx >= from {
			keys = append(keys, key)
		}
	}
	return keys
}

// notifyListeners replays the listeners for one change, derived
// (Computed-backing) ones before plain ones, skipping the computation
// currently on top of the active stack so an effect cannot retrigger
// itself via a write to its own dependency. In batch mode derived
// listeners are invalidated immediately, so reads inside the batch
// recompute against the written values, while plain listeners are
// queued for replay when the outermost batch completes.
//
// Derived invalidations cascade synchronously (a computed's dependents
// include further computeds and effects); nested notifications raised
// during the derived pass fold into the same replay set, deduplicated
// by ID, so a diamond-shaped graph re-runs each plain computation
// exactly once per write.
func notifyListeners(ls []Listener) {
	if len(ls) == 0 {
		return
	}

	if getBatchDepth() > 0 {
		for _, l := range ls {
			// Invalidation only marks the computed stale and cascades;
			// its plain dependents land back here and queue.
			if isDerived(l) {
				l.MarkDirty()
			} else {
				queuePendingUpdate(l)
			}
		}
		return
	}

	ctx := getTrackingContext()
	if ctx.collect != nil {
		// Inside an outer trigger's derived pass: fold in.
		*ctx.collect = append(*ctx.collect, ls...)
		return
	}

	cur := currentComputation()
	pending := append([]Listener(nil), ls...)
	ctx.collect = &pending

	seen := make(map[uint64]bool, len(pending))
	var plain []Listener
	// pending grows while derived invalidations cascade.
	for i := 0; i < len(pending); i++ {
		l := pending[i]
		id := l.ID()
		if seen[id] || (cur != nil && id == cur.ID()) {
			continue
		}
		seen[id] = true
		if isDerived(l) {
			l.MarkDirty()
		} else {
			plain = append(plain, l)
		}
	}
	ctx.collect = nil

	for _, l := range plain {
		l.MarkDirty()
	}

	// A bare write delivers deferred watcher jobs once it completes,
	// the way the reference engine drains its microtask queue.
	maybeFlush()
}

func indexKey(i int) string {
	return strconv.Itoa(i)
}
