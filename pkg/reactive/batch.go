package reactive

// Batch groups multiple writes into a single notification phase.
// Derived computations are invalidated as the writes land, so reads
// inside the batch see fresh values; plain computations are collected,
// deduplicated by listener, and replayed once when the outermost batch
// completes, followed by a flush of any deferred watcher jobs.
//
// Batches nest; nested batches collapse into the outermost one.
//
// Example:
//
//	Batch(func() {
//	    firstName.Set("Ada")
//	    lastName.Set("Lovelace")
//	    age.Set(36)
//	})
//	// Dependents re-run once with all three changes
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
			Flush()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates the queued listeners and replays
// them as one trigger (fan-out collapsed).
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))
	for _, l := range updates {
		if id := l.ID(); !seen[id] {
			seen[id] = true
			unique = append(unique, l)
		}
	}

	notifyListeners(unique)
}

// Untracked runs fn with dependency tracking suspended: reads inside it
// register nothing, even when a computation is running.
//
// For single cell reads, Peek is the clearer choice.
func Untracked(fn func()) {
	pushComputation(nil)
	defer popComputation()
	fn()
}
