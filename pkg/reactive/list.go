package reactive

import "sync"

// List is the list-shaped reactive container over a raw []any. Index
// reads and writes track and trigger per index; length reads track the
// synthetic KeyLength, which additions notify and shrinking both
// notifies and cascades to the removed indices. Obtain one via Wrap.
type List struct {
	id       uint64
	cacheKey uintptr

	raw  []any
	mu   sync.RWMutex
	deps depMap
}

// Get reads index i, tracking it. Out-of-range reads track too (the
// index may come into range later) and return nil.
func (l *List) Get(i int) any {
	if i < 0 {
		return nil
	}

	l.mu.RLock()
	var v any
	if i < len(l.raw) {
		v = l.raw[i]
	}
	l.mu.RUnlock()

	l.deps.track(indexKey(i))
	return Wrap(v)
}

// Set writes index i. Writing one past the end (or beyond, padding with
// nils) is an addition and notifies length readers; in-range writes of
// a different value are updates. Negative indices are ignored.
func (l *List) Set(i int, value any) {
	if i < 0 {
		return
	}
	value = unwrap(value)

	l.mu.Lock()
	if i < len(l.raw) {
		if sameValue(l.raw[i], value) {
			l.mu.Unlock()
			return
		}
		l.raw[i] = value
		l.mu.Unlock()
		l.deps.trigger(ChangeSet, indexKey(i))
		return
	}

	for len(l.raw) < i {
		l.raw = append(l.raw, nil)
	}
	l.raw = append(l.raw, value)
	l.mu.Unlock()

	l.deps.trigger(ChangeAdd, indexKey(i), KeyLength)
}

// Push appends values. Index-based iteration sees the length grow.
func (l *List) Push(values ...any) {
	if len(values) == 0 {
		return
	}

	keys := make([]string, 0, len(values)+1)
	l.mu.Lock()
	for _, v := range values {
		keys = append(keys, indexKey(len(l.raw)))
		l.raw = append(l.raw, unwrap(v))
	}
	l.mu.Unlock()

	keys = append(keys, KeyLength)
	l.deps.trigger(ChangeAdd, keys...)
}

// Pop removes and returns the last element, or nil when empty.
func (l *List) Pop() any {
	l.mu.Lock()
	n := len(l.raw)
	if n == 0 {
		l.mu.Unlock()
		return nil
	}
	v := l.raw[n-1]
	l.raw = l.raw[:n-1]
	l.mu.Unlock()

	l.deps.trigger(ChangeDelete, indexKey(n-1), KeyLength)
	return Wrap(v)
}

// Len returns the length, tracking KeyLength.
func (l *List) Len() int {
	l.mu.RLock()
	n := len(l.raw)
	l.mu.RUnlock()

	l.deps.track(KeyLength)
	return n
}

// SetLen truncates or nil-extends the list. Shrinking notifies length
// readers and the readers of every registered index at or beyond the
// new length; elements conceptually removed must reach their
// specific-index readers.
func (l *List) SetLen(n int) {
	if n < 0 {
		n = 0
	}

	l.mu.Lock()
	old := len(l.raw)
	switch {
	case n == old:
		l.mu.Unlock()
		return
	case n < old:
		l.raw = l.raw[:n]
		l.mu.Unlock()

		keys := l.deps.indexKeysAtOrBeyond(n)
		keys = append(keys, KeyLength)
		l.deps.trigger(ChangeDelete, keys...)
	default:
		for len(l.raw) < n {
			l.raw = append(l.raw, nil)
		}
		l.mu.Unlock()

		l.deps.trigger(ChangeAdd, KeyLength)
	}
}

// Values returns the wrapped elements. Enumeration of a list tracks its
// length, so growth and shrinkage re-run the enumerator.
func (l *List) Values() []any {
	l.mu.RLock()
	out := make([]any, len(l.raw))
	copy(out, l.raw)
	l.mu.RUnlock()

	l.deps.track(KeyLength)
	for i, v := range out {
		out[i] = Wrap(v)
	}
	return out
}

// ID returns the unique identifier for this list.
func (l *List) ID() uint64 {
	return l.id
}

// Raw returns the underlying slice. Mutating it directly bypasses
// tracking; use it for read-only handoff to non-reactive code.
func (l *List) Raw() []any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.raw
}
