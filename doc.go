// Package weaver provides an in-process, work-stealing-free worker
// pool: a priority-ordered job queue, an elastic thread inventory, and
// a six-state coordinator (InConstruction, WorkingHard, Suspending,
// Suspended, ShuttingDown, Destructed) gating what the pool will do
// with a job at any given moment.
//
// Architecture overview
//
// Jobs (Job, BaseJob) carry a status, a priority, an ordered list of
// QueuePolicy gates, and a decorator chain (ExecuteWrapper) wrapping
// their own execution. A JobCollection is itself a Job composed of N
// child jobs, completing only once every child — and its own
// placeholder body — has finished, via an atomic countdown rather than
// a second condition variable.
//
// A Weaver holds one non-recursive mutex guarding its assignment list,
// its thread inventory, the count of currently-executing workers, and
// its coordinator state. Two condition variables share that mutex:
// jobAvailable, on which idle workers wait, and jobFinished, on which
// Finish and ShutDown wait while draining. Job bodies never run while
// this mutex is held.
//
// Scheduling model
//
// There is no work stealing and no task-level preemption: a Thread
// runs one job's Run method to completion before requesting another.
// Admission is strict priority, FIFO within a priority — never aging,
// never deadline-based fairness. A QueuePolicy can still refuse an
// otherwise-next job, in which case the weaver walks past it to the
// next candidate without removing it from the queue.
//
// Error handling
//
// A job reports failure by returning a non-nil error from Run; the
// weaver does not retry it. RetryWrapper and TimeoutWrapper in retry.go
// are opt-in decorators a caller can install for that behavior, not
// defaults. Panics inside Run are recovered and reported as a failed
// job. Programmer errors — enqueueing a nil job, a non-positive thread
// cap, adding to an already-queued collection — panic immediately
// rather than being silently tolerated.
//
// Observability
//
// The package carries no transport, persistence, or process boundary:
// an Observer registered via Weaver.RegisterObserver receives every
// lifecycle event (state changes, thread lifecycle, job completion),
// and WithLogger wires structured diagnostics through zap. Both are
// optional; a Weaver constructed with neither runs silently.
package weaver
