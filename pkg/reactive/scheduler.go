package reactive

import (
	"log/slog"
	"time"
)

// FlushMode is the timing rule governing when a watcher's job runs
// relative to the triggering write.
type FlushMode uint8

const (
	// FlushDeferred (default) queues the job for the next flush cycle.
	// The engine flushes automatically when a bare write completes and
	// when the outermost batch ends; hosts may also call Flush.
	FlushDeferred FlushMode = iota

	// FlushSync replays the job inline inside the triggering write,
	// before control returns to the writer.
	FlushSync

	// FlushPost queues the job behind all deferred jobs of the same
	// flush cycle, for work that must observe their results.
	FlushPost
)

// String returns a stable label for metrics and debug logs.
func (m FlushMode) String() string {
	switch m {
	case FlushSync:
		return "sync"
	case FlushPost:
		return "post"
	default:
		return "deferred"
	}
}

// flushJob is one queued replay, deduplicated by owner ID.
type flushJob struct {
	id  uint64
	run func()
}

// flushQueue is the per-goroutine two-tier job queue. Deferred jobs
// drain fully before each pass over post jobs; jobs enqueued while
// flushing are picked up by the same cycle.
type flushQueue struct {
	jobs     []flushJob
	postJobs []flushJob
	queued   map[uint64]bool
	flushing bool
}

// enqueueJob adds a replay to the queue unless the owner already has
// one pending in either tier.
func enqueueJob(mode FlushMode, id uint64, run func()) {
	ctx := getTrackingContext()
	q := &ctx.queue

	if q.queued == nil {
		q.queued = make(map[uint64]bool)
	}
	if q.queued[id] {
		return
	}
	q.queued[id] = true

	job := flushJob{id: id, run: run}
	if mode == FlushPost {
		q.postJobs = append(q.postJobs, job)
	} else {
		q.jobs = append(q.jobs, job)
	}
}

// maybeFlush drains the queue when no batch is open. Re-entrant calls
// during an active flush return immediately; the running cycle picks up
// newly enqueued jobs itself.
func maybeFlush() {
	if getBatchDepth() == 0 {
		Flush()
	}
}

// Flush drains the current goroutine's deferred and post job queues.
// Deferred jobs run first; post jobs run after every deferred job of
// the same cycle, mirroring the reference engine's two-tier microtask
// ordering. Jobs enqueued by running jobs extend the same cycle, up to
// MaxFlushRuns replays.
func Flush() {
	ctx := getTrackingContext()
	q := &ctx.queue

	if q.flushing {
		return
	}
	q.flushing = true
	defer func() { q.flushing = false }()

	start := time.Now()
	runs := 0
	for len(q.jobs) > 0 || len(q.postJobs) > 0 {
		for len(q.jobs) > 0 {
			job := q.jobs[0]
			q.jobs = q.jobs[1:]
			delete(q.queued, job.id)

			runs++
			if exceeded(runs) {
				reportFlushOverrun(q)
				return
			}
			job.run()
		}

		if len(q.postJobs) > 0 {
			job := q.postJobs[0]
			q.postJobs = q.postJobs[1:]
			delete(q.queued, job.id)

			runs++
			if exceeded(runs) {
				reportFlushOverrun(q)
				return
			}
			job.run()
		}
	}

	if runs > 0 {
		if Debug.LogFlush {
			slog.Debug("reactive: flush complete", "jobs", runs)
		}
		if ins := currentInstrument(); ins != nil {
			ins.FlushCompleted(runs, time.Since(start))
		}
	}
}

func exceeded(runs int) bool {
	return MaxFlushRuns > 0 && runs > MaxFlushRuns
}

// reportFlushOverrun drops the remaining queue and reports the budget
// trip. Dropping is preferable to livelocking the writer.
func reportFlushOverrun(q *flushQueue) {
	q.jobs = nil
	q.postJobs = nil
	q.queued = nil

	if DevMode {
		panic(ErrFlushBudgetExceeded)
	}
	slog.Error("reactive: flush replay budget exceeded, dropping queue",
		"budget", MaxFlushRuns)
}
