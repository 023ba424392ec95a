package reactive

import (
	"sync/atomic"
	"time"
)

// Instrument receives engine lifecycle callbacks for observability.
// Implementations must be safe for concurrent use and cheap: they run
// inline on the reactive hot path. The metrics and tracing packages
// provide Prometheus- and OpenTelemetry-backed implementations.
type Instrument interface {
	// ComputationRan is called after each computation run.
	ComputationRan(id uint64, d time.Duration)

	// Triggered is called once per trigger with the primary key and the
	// number of listeners notified.
	Triggered(kind ChangeKind, key string, notified int)

	// ComputedInvalidated is called when an upstream change marks a
	// computed dirty.
	ComputedInvalidated(id uint64)

	// WatcherFired is called when a watcher delivers its callback.
	WatcherFired(id uint64, mode FlushMode)

	// FlushCompleted is called at the end of each non-empty flush cycle.
	FlushCompleted(jobs int, d time.Duration)
}

// activeInstrument holds the installed Instrument, if any.
var activeInstrument atomic.Value // of instrumentBox

type instrumentBox struct{ ins Instrument }

// SetInstrument installs (or, with nil, removes) the engine-wide
// instrument. Install once at startup; swapping under load is safe but
// callbacks in flight may still reach the previous instrument.
func SetInstrument(ins Instrument) {
	activeInstrument.Store(instrumentBox{ins: ins})
}

func currentInstrument() Instrument {
	box, ok := activeInstrument.Load().(instrumentBox)
	if !ok {
		return nil
	}
	return box.ins
}
