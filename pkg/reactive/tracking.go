package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for a goroutine.
// Each goroutine has its own tracking context so concurrent callers can
// run computations without sharing an active-computation stack.
type trackingContext struct {
	// active is the stack of currently running computations. The top
	// entry is what reads subscribe; a nil top entry means tracking is
	// suspended (see Untracked). A stack, not a single slot, so a
	// computation that synchronously runs another restores the outer
	// one as active on return.
	active []*Computation

	// currentScope is the Scope that will own newly created
	// computations. Set via Scope.Run / WithScope.
	currentScope *Scope

	// batchDepth tracks nested Batch() calls.
	// When > 0, triggers queue notifications instead of firing immediately.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when the outermost
	// batch completes. Deduplicated by ID before notification.
	pendingUpdates []Listener

	// collect, when non-nil, redirects nested notifications raised
	// during a trigger's derived pass into that trigger's replay set,
	// so a downstream fan-out cannot re-run a computation twice for
	// one write.
	collect *[]Listener

	// queue holds deferred and post watcher jobs for this goroutine.
	queue flushQueue
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header ("goroutine <id> ...").
// Implementation detail; never exposed.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current
// goroutine, creating one on first use.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// currentComputation returns the computation on top of the active stack.
// Returns nil if no tracking is active.
func currentComputation() *Computation {
	ctx := getTrackingContext()
	if len(ctx.active) == 0 {
		return nil
	}
	return ctx.active[len(ctx.active)-1]
}

// pushComputation makes c the active computation. A nil c suspends
// tracking until the matching popComputation.
func pushComputation(c *Computation) {
	ctx := getTrackingContext()
	ctx.active = append(ctx.active, c)
}

// popComputation restores the previously active computation.
func popComputation() {
	ctx := getTrackingContext()
	if len(ctx.active) > 0 {
		ctx.active = ctx.active[:len(ctx.active)-1]
	}
}

func currentScope() *Scope {
	return getTrackingContext().currentScope
}

// setCurrentScope sets the scope owning new computations and returns
// the previous one so it can be restored.
func setCurrentScope(s *Scope) *Scope {
	ctx := getTrackingContext()
	old := ctx.currentScope
	ctx.currentScope = s
	return old
}

func getBatchDepth() int {
	return getTrackingContext().batchDepth
}

func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth decreases the batch depth by 1.
// Returns true if batch depth reached 0 (batch complete).
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

// queuePendingUpdate adds a listener to the batch replay queue.
func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// drainPendingUpdates returns and clears the batch replay queue.
func drainPendingUpdates() []Listener {
	ctx := getTrackingContext()
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	return updates
}

// WithScope runs fn with the given scope as the current owner of any
// computations it creates. Used when spawning goroutines that need
// their work torn down with a particular scope.
//
// Example:
//
//	go func() {
//	    WithScope(parent, func() {
//	        Watch(src, onChange)
//	    })
//	}()
func WithScope(s *Scope, fn func()) {
	old := setCurrentScope(s)
	defer setCurrentScope(old)
	fn()
}
