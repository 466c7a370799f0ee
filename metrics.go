package weaver

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the weaver to report queueing
// and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncExecuted increments the executed jobs counter.
	IncExecuted()

	// IncQueued increments the queued jobs counter.
	IncQueued()

	// BatchDecQueued decrements the queued counter by n.
	//
	// DequeueAll uses it to remove every queued job at once; a single
	// dequeue or a job handed to a worker reports n=1.
	BatchDecQueued(n int64)

	// IncFailed increments the failed jobs counter.
	IncFailed()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// executed is the total number of jobs a worker has started
	// executing (one per ThreadBusy event).
	executed atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	// queued is the current number of jobs in the assignment list.
	queued atomic.Int64

	// failed is the total number of jobs that finished with
	// StatusFailed.
	failed atomic.Uint64
}

// Executed returns the total number of jobs started by a worker.
// Intended for cold-path observation.
func (m *AtomicMetrics) Executed() uint64 {
	return m.executed.Load()
}

// Queued returns the current number of jobs in the assignment list.
// Intended for cold-path observation.
func (m *AtomicMetrics) Queued() int64 {
	return m.queued.Load()
}

// Failed returns the total number of jobs that finished with
// StatusFailed.
func (m *AtomicMetrics) Failed() uint64 {
	return m.failed.Load()
}

// IncExecuted increments the executed jobs counter by one.
func (m *AtomicMetrics) IncExecuted() {
	m.executed.Add(1)
}

// IncQueued increments the queued jobs counter by one.
func (m *AtomicMetrics) IncQueued() {
	m.queued.Add(1)
}

// BatchDecQueued decrements the queued jobs counter by n.
func (m *AtomicMetrics) BatchDecQueued(n int64) {
	m.queued.Add(-n)
}

// IncFailed increments the failed jobs counter by one.
func (m *AtomicMetrics) IncFailed() {
	m.failed.Add(1)
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
//
// It can be used when metrics collection is disabled and
// zero overhead is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncExecuted()           {}
func (m *NoopMetrics) IncQueued()             {}
func (m *NoopMetrics) BatchDecQueued(n int64) {}
func (m *NoopMetrics) IncFailed()             {}
