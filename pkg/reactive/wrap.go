package reactive

import (
	"reflect"
	"sync"
)

// wrapCache is the identity side-table from raw structure to its
// container, keyed by the raw map/slice data pointer. It makes Wrap
// idempotent: the same raw structure always yields the same container.
//
// The association is strong (Go offers no weak maps at this language
// version); callers done with a structure for good can drop the entry
// with Release.
var wrapCache sync.Map // uintptr -> *Store | *List

// Wrap returns the reactive container for a raw structure, creating it
// on first use. map[string]any wraps to *Store, []any wraps to *List,
// existing containers pass through, and non-container values are
// returned unchanged; there is nothing to wrap.
//
// Nested structures are not wrapped eagerly; they wrap on first read
// through their parent container.
func Wrap(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *Store:
		return t
	case *List:
		return t
	case map[string]any:
		if t == nil {
			return t
		}
		key := reflect.ValueOf(t).Pointer()
		if w, ok := wrapCache.Load(key); ok {
			return w
		}
		s := &Store{id: nextID(), raw: t, cacheKey: key}
		if w, loaded := wrapCache.LoadOrStore(key, s); loaded {
			return w
		}
		return s
	case []any:
		if len(t) == 0 && cap(t) == 0 {
			// Empty slices have no stable data pointer; the container
			// owns the (only) canonical copy from here on.
			return &List{id: nextID(), raw: t}
		}
		key := reflect.ValueOf(t).Pointer()
		if w, ok := wrapCache.Load(key); ok {
			return w
		}
		l := &List{id: nextID(), raw: t, cacheKey: key}
		if w, loaded := wrapCache.LoadOrStore(key, l); loaded {
			return w
		}
		return l
	default:
		return v
	}
}

// Release drops the identity-cache entry for a raw structure or its
// container, letting the raw structure be collected once callers drop
// their own references. Accepts the same inputs as Wrap.
func Release(v any) {
	switch t := v.(type) {
	case *Store:
		if t.cacheKey != 0 {
			wrapCache.Delete(t.cacheKey)
		}
	case *List:
		if t.cacheKey != 0 {
			wrapCache.Delete(t.cacheKey)
		}
	case map[string]any:
		if t != nil {
			wrapCache.Delete(reflect.ValueOf(t).Pointer())
		}
	case []any:
		if len(t) > 0 || cap(t) > 0 {
			wrapCache.Delete(reflect.ValueOf(t).Pointer())
		}
	}
}

// unwrap strips a container back to its raw structure so containers are
// never stored inside other containers' raw data.
func unwrap(v any) any {
	switch t := v.(type) {
	case *Store:
		return t.Raw()
	case *List:
		return t.Raw()
	default:
		return v
	}
}
