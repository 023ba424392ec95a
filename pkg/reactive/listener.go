package reactive

// Listener is anything that can be notified when a tracked key changes.
// Within this package it is implemented by Computation, which also backs
// Computed and Watch.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has
	// changed. For plain computations this re-runs (or schedules) the
	// body; for computed-backing computations it invalidates the cache.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during trigger and batch processing.
	ID() uint64
}

// derivedListener marks listeners that back a Computed. Triggers replay
// derived listeners before plain ones so a plain computation reading a
// Computed observes the refreshed value rather than a stale one.
type derivedListener interface {
	derivedListener() bool
}

func isDerived(l Listener) bool {
	d, ok := l.(derivedListener)
	return ok && d.derivedListener()
}

// Readable is a single reactive value that can be read without knowing
// its element type. Cell[T] and Computed[T] implement it; Watch accepts
// any Readable as a source.
type Readable interface {
	// GetAny returns the current value, subscribing the current
	// computation.
	GetAny() any
}
