package weaver

// state dispatches weaver operations according to the coordinator's
// current lifecycle stage. Each of the six states below implements a
// subset of the transition table; the rest inherit a no-op or
// rejecting default from embedding baseState.
//
// Transitions always happen under the weaver's mutex, via
// (*Weaver).transition. A state's id is read without the mutex by
// CurrentState for outside observation, matching "transitions always
// occur under the weaver mutex, but reads may be lock-free".
type state interface {
	id() StateID

	// enqueue is called with the mutex held, once per job, and
	// reports whether the job may be inserted into assignments at all
	// (InConstruction and the terminal states reject it).
	enqueue(w *Weaver, job Job) bool

	// applyForWork is called with the mutex held, after wasBusy
	// bookkeeping has already run. It returns the job to hand to the
	// worker (nil if none) and whether the worker should block on
	// jobAvailable before retrying.
	applyForWork(w *Weaver, t *Thread) (job Job, wait bool)

	suspend(w *Weaver)
	resume(w *Weaver)
	shutDown(w *Weaver)
}

// baseState gives every concrete state a reasonable terminal-state
// default: reject enqueue, never assign work, and ignore suspend/
// resume/shutDown. Concrete states embed it and override only the
// transitions the table grants them.
type baseState struct{}

func (baseState) enqueue(*Weaver, Job) bool { return false }
func (baseState) applyForWork(*Weaver, *Thread) (Job, bool) { return nil, false }
func (baseState) suspend(*Weaver) {}
func (baseState) resume(*Weaver)  {}
func (baseState) shutDown(*Weaver) {}

// inConstructionState is the state a Weaver starts in, before New has
// finished initializing it. Workers that show up
// this early block on jobAvailable rather than observing no-work and
// spinning.
type inConstructionState struct{ baseState }

func (inConstructionState) id() StateID { return StateInConstruction }

func (inConstructionState) applyForWork(w *Weaver, t *Thread) (Job, bool) {
	return nil, true
}

func (inConstructionState) shutDown(w *Weaver) {
	w.transition(&destructedState{})
}

// workingHardState is the normal operating state: enqueue is accepted,
// applyForWork walks the assignment list.
type workingHardState struct{ baseState }

func (workingHardState) id() StateID { return StateWorkingHard }

func (workingHardState) enqueue(w *Weaver, job Job) bool { return true }

func (workingHardState) applyForWork(w *Weaver, t *Thread) (Job, bool) {
	if job := w.selectJobLocked(); job != nil {
		return job, false
	}
	return nil, true
}

func (workingHardState) suspend(w *Weaver) {
	w.transition(&suspendingState{})
}

func (workingHardState) shutDown(w *Weaver) {
	w.transition(&shuttingDownState{})
}

// suspendingState means no new job is handed out, but workers already
// running are allowed to finish; the last one to go idle flips the
// weaver to Suspended.
type suspendingState struct{ baseState }

func (suspendingState) id() StateID { return StateSuspending }

func (suspendingState) enqueue(w *Weaver, job Job) bool { return true }

func (suspendingState) applyForWork(w *Weaver, t *Thread) (Job, bool) {
	if w.active == 0 {
		w.transition(&suspendedState{})
		w.notifySuspended()
		return nil, false
	}
	// Other workers still running: nothing to do but park. The last
	// busy worker's own ApplyForWork call finds active at zero and
	// performs the transition to Suspended itself.
	return nil, true
}

func (suspendingState) resume(w *Weaver) {
	w.transition(&workingHardState{})
}

func (suspendingState) shutDown(w *Weaver) {
	w.transition(&shuttingDownState{})
}

// suspendedState means the weaver is fully drained and idle by request;
// workers block until resume or shutDown.
type suspendedState struct{ baseState }

func (suspendedState) id() StateID { return StateSuspended }

func (suspendedState) enqueue(w *Weaver, job Job) bool { return true }

func (suspendedState) applyForWork(w *Weaver, t *Thread) (Job, bool) {
	return nil, true
}

func (suspendedState) resume(w *Weaver) {
	w.transition(&workingHardState{})
}

func (suspendedState) shutDown(w *Weaver) {
	w.transition(&shuttingDownState{})
}

// shuttingDownState rejects new work but still honors dequeue (handled
// directly by Weaver.Dequeue, which never consults state) and still
// lets in-flight workers return so shutDown's drain can observe them
// finishing.
type shuttingDownState struct{ baseState }

func (shuttingDownState) id() StateID { return StateShuttingDown }

func (shuttingDownState) applyForWork(w *Weaver, t *Thread) (Job, bool) {
	return nil, false
}

// destructedState is terminal: every operation is a no-op or rejection.
type destructedState struct{ baseState }

func (destructedState) id() StateID { return StateDestructed }
