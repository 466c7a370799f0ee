package weaver

import (
	"sync"
	"testing"
)

// TestPinWorkersRunsJobs verifies that enabling WithPinWorkers doesn't
// break job dispatch: pinning is platform-specific (a no-op outside
// Linux, per affinity_other.go) but must never prevent a worker from
// making progress.
func TestPinWorkersRunsJobs(t *testing.T) {
	w := New(WithMaxThreads(2), WithPinWorkers(true))
	defer w.ShutDown()

	var mu sync.Mutex
	var log []string
	job := newRecordingJob("pinned", 0, &mu, &log)
	w.Enqueue(job)
	w.Finish()

	mu.Lock()
	defer mu.Unlock()
	if len(log) != 1 || log[0] != "pinned" {
		t.Fatalf("log = %v, want [pinned]", log)
	}
}
