package weaver

import "sync"

// Job is the unit of work a Weaver schedules. Implementations normally
// embed BaseJob and provide only Run; BaseJob supplies every other
// method with the bookkeeping the weaver core needs.
//
// self is always the outermost Job value the caller obtained from New* —
// methods on an embedded BaseJob cannot discover it themselves (Go has
// no virtual self-dispatch through embedding), so the weaver core always
// passes it back in explicitly through execute, AddJob, elementStarted,
// and elementFinished.
type Job interface {
	// Run performs the actual work. self is the same value the caller
	// enqueued; thread identifies the worker executing it. An error
	// return marks the job Failed; a nil return marks it Success unless
	// an abort was requested, in which case it is marked Aborted
	// regardless of the returned error.
	Run(self Job, thread *Thread) error

	// Priority orders jobs within the assignment list. Higher values run
	// first; jobs of equal priority run in FIFO order.
	Priority() int

	// QueuePolicies lists the policies consulted before this job may be
	// assigned to a worker.
	QueuePolicies() []QueuePolicy

	// Status returns the job's current lifecycle status.
	Status() Status
	// SetStatus transitions the job to a new status. Callers outside the
	// weaver core should treat this as internal bookkeeping.
	SetStatus(Status)

	// RequestAbort asks a running job to stop cooperatively. Run must
	// poll AbortRequested itself; nothing forces it to return early.
	RequestAbort()
	AbortRequested() bool

	// AboutToBeQueued and AboutToBeDequeued are called by the weaver
	// core immediately before a job enters the assignment list or is
	// dequeued from it, under the weaver mutex. JobCollection overrides
	// both: to bind itself to the weaver, and to dequeue its elements.
	AboutToBeQueued(w *Weaver)
	AboutToBeDequeued(w *Weaver)

	// Executor returns the head of the job's decorator chain.
	Executor() ExecuteWrapper
	// SetExecutor installs a new head of the decorator chain and
	// returns the previous head, so the caller can wrap it.
	SetExecutor(ExecuteWrapper) ExecuteWrapper

	// weaverExecute runs the job's full execution chain. BaseJob
	// implements the default behavior; JobCollection overrides it to
	// defer its own completion until every element has finished.
	weaverExecute(w *Weaver, self Job, thread *Thread)
}

// BaseJob implements every Job method except Run. Embed it in concrete
// job types and provide Run.
type BaseJob struct {
	mu       sync.Mutex
	status   Status
	priority int
	policies []QueuePolicy
	executor ExecuteWrapper
	aborting boolFlag
	err      error
}

// NewBaseJob returns a BaseJob with the given priority and queue
// policies, ready to embed in a concrete job type.
func NewBaseJob(priority int, policies ...QueuePolicy) *BaseJob {
	b := &BaseJob{
		status:   StatusNew,
		priority: priority,
		policies: policies,
	}
	b.executor = &defaultExecutor{}
	return b
}

func (b *BaseJob) Priority() int { return b.priority }

func (b *BaseJob) QueuePolicies() []QueuePolicy {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]QueuePolicy, len(b.policies))
	copy(out, b.policies)
	return out
}

// AddQueuePolicy appends a policy. It must not be called once the job
// has been queued.
func (b *BaseJob) AddQueuePolicy(p QueuePolicy) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.policies = append(b.policies, p)
}

func (b *BaseJob) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *BaseJob) SetStatus(s Status) {
	b.mu.Lock()
	b.status = s
	b.mu.Unlock()
}

// Err returns the error Run returned, if the job finished Failed.
func (b *BaseJob) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *BaseJob) setErr(err error) {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}

func (b *BaseJob) RequestAbort()       { b.aborting.set() }
func (b *BaseJob) AbortRequested() bool { return b.aborting.get() }

func (b *BaseJob) AboutToBeQueued(w *Weaver)   {}
func (b *BaseJob) AboutToBeDequeued(w *Weaver) {}

func (b *BaseJob) Executor() ExecuteWrapper {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.executor
}

func (b *BaseJob) SetExecutor(next ExecuteWrapper) ExecuteWrapper {
	b.mu.Lock()
	defer b.mu.Unlock()
	prev := b.executor
	b.executor = next
	return prev
}

// weaverExecute is the default execution path shared by every plain
// job: run the decorator chain (which records any Run error on self
// before End fires, see runChain), derive a final status from that
// error and from AbortRequested, release its queue policies, then
// notify observers. JobCollection shadows this method to defer its own
// final status and policy release until every element has completed.
func (b *BaseJob) weaverExecute(w *Weaver, self Job, thread *Thread) {
	self.SetStatus(StatusRunning)
	err := runChain(self, thread)
	final := StatusSuccess
	switch {
	case self.AbortRequested():
		final = StatusAborted
	case err != nil:
		final = StatusFailed
	}
	releaseAll(self)
	self.SetStatus(final)
	w.notifyJobDone(self)
}

// boolFlag is a tiny CAS-free boolean guarded by its own lock; it exists
// because sync/atomic.Bool was only added in Go 1.19 and some of the
// teacher's own atomics predate it — kept consistent with the rest of
// BaseJob's locking rather than mixing atomic and mutex-guarded state
// for a single flag that is read and written far less often than status.
type boolFlag struct {
	mu sync.Mutex
	v  bool
}

func (f *boolFlag) set()      { f.mu.Lock(); f.v = true; f.mu.Unlock() }
func (f *boolFlag) get() bool { f.mu.Lock(); defer f.mu.Unlock(); return f.v }
