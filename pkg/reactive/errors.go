package reactive

import "errors"

// ErrFlushBudgetExceeded is reported when a flush cycle replays more
// jobs than MaxFlushRuns allows. This almost always means a watcher or
// effect writes to state it also observes, producing a self-perpetuating
// update loop. In DevMode the flush panics with this error; otherwise
// the remaining queue is dropped and the error is logged.
var ErrFlushBudgetExceeded = errors.New("reactive: flush replay budget exceeded")

// ErrReadOnlyComputed is reported when Set is called on a Computed
// constructed without a setter. Simple value assignment keeps a
// no-panic contract, so outside DevMode the write is logged and
// dropped rather than raised.
var ErrReadOnlyComputed = errors.New("reactive: write to computed without setter")

// ErrInvalidWatchSource is reported when Watch receives a source that is
// not a getter func, a Readable, a container, or a sequence of those.
var ErrInvalidWatchSource = errors.New("reactive: unsupported watch source")
