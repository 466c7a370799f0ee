package weaver

import "runtime"

// Thread is a worker goroutine owned by a Weaver's inventory: a
// blocking loop that requests work, executes it to completion, and
// reports back.
//
// Thread carries no job-specific state between iterations; everything a
// job needs is threaded through Job.Run's self and thread parameters.
type Thread struct {
	id     int
	weaver *Weaver
}

// ID identifies the thread within its weaver's inventory, stable for
// its lifetime.
func (t *Thread) ID() int { return t.id }

// run is the worker's entry point, spawned by adjustInventoryLocked.
// If the weaver was constructed with WithPinWorkers, it first locks
// the goroutine to its OS thread and pins that thread to a CPU core,
// since affinity only holds as long as the goroutine never migrates
// to a different OS thread. It then registers itself as started
// (releasing ShutDown's pre-run gate), then loops: request work, run
// it to completion, report back, repeat — until ApplyForWork returns
// no job while the weaver is ShuttingDown or Destructed. The worker
// whose ApplyForWork call moves the weaver from Suspending to Suspended
// reports ThreadSuspended once, resetting the moment it is handed work
// again; workers already parked inside ApplyForWork at that moment do
// not report ThreadSuspended.
func (t *Thread) run() {
	if t.weaver.opts.pinWorkers {
		runtime.LockOSThread()
		if err := pinToCPU(t.id % runtime.NumCPU()); err != nil {
			t.weaver.reportInternalError(err)
		}
	}

	t.weaver.notifyThreadStarted(t)
	t.weaver.startedWG.Done()

	wasBusy := false
	reportedSuspended := false
loop:
	for {
		job := t.weaver.ApplyForWork(t, wasBusy)
		if job == nil {
			wasBusy = false
			switch st := t.weaver.CurrentState(); st {
			case StateShuttingDown, StateDestructed:
				break loop
			case StateSuspending, StateSuspended:
				if !reportedSuspended {
					reportedSuspended = true
					t.weaver.notifyThreadSuspended(t)
				}
				continue
			default:
				continue
			}
		}
		reportedSuspended = false
		job.weaverExecute(t.weaver, job, t)
		wasBusy = true
	}
	t.weaver.notifyThreadExited(t)
	t.weaver.createdWG.Done()
}
