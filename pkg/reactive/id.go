package reactive

import "sync/atomic"

// idCounter allocates identifiers for cells, computations, containers,
// scopes, and watchers. IDs are process-wide, monotonic, never reused.
var idCounter atomic.Uint64

func nextID() uint64 {
	return idCounter.Add(1)
}
