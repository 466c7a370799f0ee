package weaver

import (
	"sync/atomic"

	"go.uber.org/multierr"
)

// JobCollection is a composite job: a barrier over a set of element
// jobs. Queueing the collection queues a placeholder for the collection
// itself; running that placeholder enqueues every element; the
// collection's own "finished" notification fires only once every
// element — and the placeholder — has completed, never before.
//
// The constructor installs two wrappers on the collection's own chain:
// an inner self-wrapper whose Begin/End are no-ops, suppressing the
// default started/finished notifications for the collection's
// placeholder body, and an outer collection-wrapper that reports
// elementStarted/elementFinished for the placeholder exactly as it does
// for every element. AddJob installs a second collection-wrapper,
// per element, on top of whatever chain that element already has.
type JobCollection struct {
	*BaseJob

	elements []Job

	jobCounter  atomic.Int64
	jobsStarted atomic.Bool

	self            Job
	selfIsExecuting bool
	boundWeaver     *Weaver
	errs            error
}

// NewJobCollection returns an empty collection. Use AddJob to add
// elements before queueing it; AddJob panics once the collection has
// been queued, except while the collection itself is executing.
func NewJobCollection(priority int, policies ...QueuePolicy) *JobCollection {
	c := &JobCollection{BaseJob: NewBaseJob(priority, policies...)}
	self := &collectionSelfWrapper{}
	Wrap(c, self)
	outer := &collectionExecuteWrapper{collection: c}
	Wrap(c, outer)
	return c
}

// AddJob adds job as an element of the collection. It is permitted
// before the collection has ever been queued, and while the collection
// itself is currently executing — its placeholder body may spawn
// grandchildren this way — but not once it has been queued and is
// merely waiting, nor after it has finished.
func (c *JobCollection) AddJob(job Job) {
	if job == nil {
		failf("weaver: cannot add a nil job to a collection")
	}
	c.BaseJob.mu.Lock()
	if c.boundWeaver != nil && !c.selfIsExecuting {
		c.BaseJob.mu.Unlock()
		failf("weaver: cannot add a job to a collection already queued")
	}
	queuedAlready := c.boundWeaver != nil
	c.elements = append(c.elements, job)
	c.BaseJob.mu.Unlock()
	if queuedAlready {
		// Joining the countdown after AboutToBeQueued already sized it
		// for the original element set; a grandchild spawned mid-run
		// needs its own decrement counted too.
		c.jobCounter.Add(1)
	}

	wrapper := &collectionExecuteWrapper{collection: c}
	Wrap(job, wrapper)
}

// Len reports how many elements the collection holds.
func (c *JobCollection) Len() int {
	c.BaseJob.mu.Lock()
	defer c.BaseJob.mu.Unlock()
	return len(c.elements)
}

// Run is the collection's own placeholder body: it does no work of its
// own. Every element runs independently once weaverExecute enqueues
// them from elementFinished.
func (c *JobCollection) Run(self Job, thread *Thread) error { return nil }

// AboutToBeQueued records the binding weaver and resets the element
// countdown. Elements are not enqueued here — they are enqueued once
// the placeholder itself has started and finished running, guaranteeing
// no element begins before the collection as a whole has been accepted
// by the weaver.
func (c *JobCollection) AboutToBeQueued(w *Weaver) {
	c.BaseJob.mu.Lock()
	defer c.BaseJob.mu.Unlock()
	if c.boundWeaver != nil {
		failf("%s", ErrAlreadyBound)
	}
	c.boundWeaver = w
	c.jobCounter.Store(int64(len(c.elements)) + 1)
	c.jobsStarted.Store(false)
	c.self = nil
	c.selfIsExecuting = false
	c.errs = nil
}

// AboutToBeDequeued dequeues every element that is still waiting to
// run, mirroring the destructor-time cleanup of an abandoned collection.
func (c *JobCollection) AboutToBeDequeued(w *Weaver) {
	c.BaseJob.mu.Lock()
	elems := append([]Job(nil), c.elements...)
	c.BaseJob.mu.Unlock()
	for _, e := range elems {
		w.dequeueElementLocked(e)
	}
}

// Stop dequeues the collection: if it has not started running yet,
// dequeuing the collection itself (which recursively cancels its
// not-yet-enqueued elements via AboutToBeDequeued) is enough. If it is
// already running — its placeholder body has started, so it is no
// longer present in the weaver's assignment list itself — the elements
// have already been published individually, so each is dequeued on its
// own. Mirrors the stop/dequeueElements split of collection teardown.
func (c *JobCollection) Stop(w *Weaver) {
	if w.Dequeue(c) {
		return
	}
	c.BaseJob.mu.Lock()
	elems := append([]Job(nil), c.elements...)
	c.BaseJob.mu.Unlock()
	for _, e := range elems {
		w.Dequeue(e)
	}
}

// Close detaches every element from the collection's decorator chain.
// It is the destructor-equivalent for a collection that is discarded
// before ever being queued: without it, elements would carry a dangling
// collectionExecuteWrapper pointing at a collection nobody will ever
// enqueue.
func (c *JobCollection) Close() {
	c.BaseJob.mu.Lock()
	elems := append([]Job(nil), c.elements...)
	c.elements = nil
	c.BaseJob.mu.Unlock()
	for _, e := range elems {
		if cw, ok := e.Executor().(*collectionExecuteWrapper); ok {
			e.SetExecutor(cw.Inner())
		}
	}
}

// Err returns the aggregated error of every element that failed, or nil
// if every element that has finished so far succeeded. It is safe to
// call before the collection has finished, but the result will grow as
// more elements complete.
func (c *JobCollection) Err() error {
	c.BaseJob.mu.Lock()
	defer c.BaseJob.mu.Unlock()
	return c.errs
}

// Errors returns the individual element errors aggregated by Err.
func (c *JobCollection) Errors() []error {
	c.BaseJob.mu.Lock()
	defer c.BaseJob.mu.Unlock()
	return multierr.Errors(c.errs)
}

// weaverExecute runs the collection's own placeholder chain and
// deliberately leaves status at Running: the collection is not done
// until finalCleanup says so.
func (c *JobCollection) weaverExecute(w *Weaver, self Job, thread *Thread) {
	c.BaseJob.mu.Lock()
	c.self = self
	c.selfIsExecuting = true
	c.BaseJob.mu.Unlock()

	self.SetStatus(StatusRunning)
	_ = runChain(self, thread)
}

// elementStarted fires exactly once per collection lifetime, for
// whichever element — the placeholder or one of its children — happens
// to start first. It tunnels the collection's own deferred "started"
// notification through to the real default executor, bypassing the
// self-wrapper that otherwise suppresses it.
func (c *JobCollection) elementStarted(job Job, thread *Thread) {
	if !c.jobsStarted.CompareAndSwap(false, true) {
		return
	}
	c.BaseJob.mu.Lock()
	self := c.self
	c.BaseJob.mu.Unlock()
	if self != nil {
		self.Executor().DefaultBegin(self, thread)
	}
}

// elementFinished is called once per element, including the
// placeholder itself. The placeholder finishing enqueues every element
// into the bound weaver; any other element finishing contributes its
// error, if any, to the collection's aggregate. When the countdown
// reaches zero the collection is done: finalCleanup runs, the deferred
// "finished" notification fires, and the collection itself — like any
// other Job — gets its own JobDone notification.
func (c *JobCollection) elementFinished(job Job, thread *Thread) {
	c.BaseJob.mu.Lock()
	selfFinishing := c.selfIsExecuting && job == c.self
	if selfFinishing {
		c.selfIsExecuting = false
	} else if errored, ok := job.(interface{ Err() error }); ok {
		if e := errored.Err(); e != nil {
			c.errs = multierr.Append(c.errs, e)
		}
	}
	elems := append([]Job(nil), c.elements...)
	w := c.boundWeaver
	c.BaseJob.mu.Unlock()

	if selfFinishing && w != nil && len(elems) > 0 {
		w.Enqueue(elems...)
	}

	if c.jobCounter.Add(-1) == 0 {
		self := c.finalCleanup()
		if self != nil {
			self.Executor().DefaultEnd(self, thread)
			if w != nil {
				w.notifyJobDone(self)
			}
		}
	}
}

// finalCleanup releases the queue-policy resources the collection's own
// placeholder held and marks the collection Success. It returns the
// self reference so the caller can fire the deferred finished
// notification, then drops it.
func (c *JobCollection) finalCleanup() Job {
	c.BaseJob.mu.Lock()
	self := c.self
	c.self = nil
	c.BaseJob.mu.Unlock()

	if self != nil {
		releaseAll(self)
		self.SetStatus(StatusSuccess)
	}
	return self
}

// collectionSelfWrapper suppresses the collection placeholder's own
// default started/finished notifications by not forwarding Begin/End to
// its inner link. Cleanup, DefaultBegin and DefaultEnd are left to
// Wrapper's forwarding behavior, since DefaultBegin/DefaultEnd are the
// tunnel elementStarted/elementFinished use to fire the real
// notification on their own schedule.
type collectionSelfWrapper struct {
	Wrapper
}

func (s *collectionSelfWrapper) Begin(Job, *Thread) {}
func (s *collectionSelfWrapper) End(Job, *Thread)   {}

// collectionExecuteWrapper is installed on the collection's own chain
// and on every element added via AddJob. Begin forwards first, then
// reports elementStarted; End reports elementFinished first, then
// forwards — the nesting is deliberate: the report precedes the
// elements's own completion signal but follows the elements' own setup,
// so the collection is always told about a start after, and a finish
// before, the element's own notification.
type collectionExecuteWrapper struct {
	Wrapper
	collection *JobCollection
}

func (c *collectionExecuteWrapper) Begin(self Job, thread *Thread) {
	c.Wrapper.Begin(self, thread)
	c.collection.elementStarted(self, thread)
}

func (c *collectionExecuteWrapper) End(self Job, thread *Thread) {
	c.collection.elementFinished(self, thread)
	c.Wrapper.End(self, thread)
}
