package reactive

import (
	"sort"
	"sync"
)

// Store is the record-shaped reactive container. It wraps exactly one
// raw map[string]any and intercepts reads, writes, deletions, and
// enumeration to feed its per-key dependency registry. Obtain one via
// Wrap; the association with the raw map is 1:1 and identity-stable.
type Store struct {
	id       uint64
	cacheKey uintptr

	raw  map[string]any
	mu   sync.RWMutex
	deps depMap
}

// Get performs the read, records the dependency, and lazily wraps
// structure-shaped results so nested mutations stay observable.
// Absent keys track like present ones and return nil.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	v := s.raw[key]
	s.mu.RUnlock()

	s.deps.track(key)
	return Wrap(v)
}

// Set writes the value, distinguishing addition from update, and
// triggers only when warranted: writes of an identical value (NaN-safe
// strict comparison) are suppressed, additions also invalidate
// enumerators.
func (s *Store) Set(key string, value any) {
	value = unwrap(value)

	s.mu.Lock()
	old, existed := s.raw[key]
	if existed && sameValue(old, value) {
		s.mu.Unlock()
		return
	}
	s.raw[key] = value
	s.mu.Unlock()

	if existed {
		s.deps.trigger(ChangeSet, key)
	} else {
		s.deps.trigger(ChangeAdd, key, keyIterate)
	}
}

// Delete removes the key, triggering only if it existed.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	_, existed := s.raw[key]
	if existed {
		delete(s.raw, key)
	}
	s.mu.Unlock()

	if existed {
		s.deps.trigger(ChangeDelete, key, keyIterate)
	}
}

// Has reports key existence, tracking the key so later additions or
// deletions re-run the asker.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	_, ok := s.raw[key]
	s.mu.RUnlock()

	s.deps.track(key)
	return ok
}

// Keys returns the keys in sorted order. Enumeration tracks the store
// itself, so adding or removing any key re-runs the enumerator.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.raw))
	for k := range s.raw {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	s.deps.track(keyIterate)
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys. Tracks like enumeration.
func (s *Store) Len() int {
	s.mu.RLock()
	n := len(s.raw)
	s.mu.RUnlock()

	s.deps.track(keyIterate)
	return n
}

// ID returns the unique identifier for this store.
func (s *Store) ID() uint64 {
	return s.id
}

// Raw returns the underlying map. Mutating it directly bypasses
// tracking; use it for read-only handoff to non-reactive code.
func (s *Store) Raw() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw
}
