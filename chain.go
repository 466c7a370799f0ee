package weaver

import "fmt"

// ExecuteWrapper is a decorator around a job's execution. Wrappers chain
// together: installing one returns the previous head so the new wrapper
// can forward to it. Two call families exist:
//
//   - Begin/End/Cleanup are overridable hooks. A wrapper decides for
//     itself whether and when to forward to its inner link; a wrapper
//     that does not forward breaks the chain below it.
//   - DefaultBegin/DefaultEnd always tunnel straight to the innermost
//     link regardless of any Begin/End override in between. JobCollection
//     uses this to fire its own deferred "started"/"finished"
//     notification irrespective of the self-wrapper that otherwise
//     suppresses its normal Begin/End.
//
// Embed Wrapper to get correct forwarding behavior for free and
// override only the hooks a concrete decorator cares about.
type ExecuteWrapper interface {
	Begin(self Job, thread *Thread)
	End(self Job, thread *Thread)
	Cleanup(self Job, thread *Thread)
	DefaultBegin(self Job, thread *Thread)
	DefaultEnd(self Job, thread *Thread)
	Inner() ExecuteWrapper
	wrap(inner ExecuteWrapper)
}

// Wrapper is the embeddable base of every ExecuteWrapper. Its methods
// simply forward to the inner link; a decorator overrides the hooks it
// needs and calls the embedded Wrapper method to continue the chain.
type Wrapper struct {
	inner ExecuteWrapper
}

func (w *Wrapper) Inner() ExecuteWrapper   { return w.inner }
func (w *Wrapper) wrap(inner ExecuteWrapper) { w.inner = inner }

func (w *Wrapper) Begin(self Job, thread *Thread) {
	if w.inner != nil {
		w.inner.Begin(self, thread)
	}
}

func (w *Wrapper) End(self Job, thread *Thread) {
	if w.inner != nil {
		w.inner.End(self, thread)
	}
}

func (w *Wrapper) Cleanup(self Job, thread *Thread) {
	if w.inner != nil {
		w.inner.Cleanup(self, thread)
	}
}

func (w *Wrapper) DefaultBegin(self Job, thread *Thread) {
	if w.inner != nil {
		w.inner.DefaultBegin(self, thread)
	}
}

func (w *Wrapper) DefaultEnd(self Job, thread *Thread) {
	if w.inner != nil {
		w.inner.DefaultEnd(self, thread)
	}
}

// Wrap installs w on top of job's existing chain, recording the
// previous head as w's inner link. The caller keeps its own typed
// handle to w, e.g. as AddJob does:
//
//	wrapper := &collectionExecuteWrapper{collection: c}
//	Wrap(job, wrapper)
func Wrap(job Job, w ExecuteWrapper) {
	w.wrap(job.SetExecutor(w))
}

// defaultExecutor sits at the bottom of every fresh job's chain. Its
// Begin/End are the "real" notifications: a plain job's worker-busy and
// job-done observer events. DefaultBegin/DefaultEnd are identical to
// Begin/End here since there is nothing further to tunnel through.
type defaultExecutor struct {
	Wrapper
}

func (d *defaultExecutor) Begin(self Job, thread *Thread) {
	thread.weaver.notifyThreadBusy(thread, self)
}

func (d *defaultExecutor) End(self Job, thread *Thread) {
	// Observed via BaseJob.weaverExecute's call to notifyJobDone; the
	// default executor itself has nothing further to report.
}

func (d *defaultExecutor) DefaultBegin(self Job, thread *Thread) { d.Begin(self, thread) }
func (d *defaultExecutor) DefaultEnd(self Job, thread *Thread)   { d.End(self, thread) }

// runChain drives self's full decorator chain: Begin, Run (with panic
// recovery), End, Cleanup. It returns the error Run produced, leaving
// the caller to decide what final status that implies — JobCollection's
// own self-execution ignores the return value entirely, deferring to
// its element-tracking instead.
//
// The error is recorded on self before End is invoked, not after
// runChain returns: End is what drives collectionExecuteWrapper.End ->
// elementFinished for an element of a JobCollection, and
// elementFinished reads the element's Err() to aggregate it into the
// collection's own error. A write left until after runChain returns
// would always be too late for that read.
func runChain(self Job, thread *Thread) error {
	head := self.Executor()
	head.Begin(self, thread)
	err := safeRun(self, thread)
	if err != nil {
		recordJobErr(self, err)
	}
	head.End(self, thread)
	head.Cleanup(self, thread)
	return err
}

// recordJobErr stores err on self if self embeds a BaseJob (or anything
// else offering the same unexported hook), so it is visible through
// Err() to anything reacting to End before the caller of runChain ever
// sees the return value.
func recordJobErr(self Job, err error) {
	if r, ok := self.(interface{ setErr(error) }); ok {
		r.setErr(err)
	}
}

func safeRun(self Job, thread *Thread) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("weaver: job panicked: %v", r)
		}
	}()
	return self.Run(self, thread)
}
