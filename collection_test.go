package weaver

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestJobCollectionClosePreventsDanglingWrapper(t *testing.T) {
	col := NewJobCollection(0)
	var counter atomic.Int64
	child := newIncrementJob(&counter)
	col.AddJob(child)

	if _, ok := child.Executor().(*collectionExecuteWrapper); !ok {
		t.Fatal("AddJob did not install a collectionExecuteWrapper on the child")
	}
	col.Close()
	if _, ok := child.Executor().(*collectionExecuteWrapper); ok {
		t.Fatal("Close left a collectionExecuteWrapper installed on an abandoned child")
	}
}

func TestJobCollectionAddJobAfterQueuedPanics(t *testing.T) {
	w := New(WithMaxThreads(1))
	defer w.ShutDown()

	col := NewJobCollection(0)
	var counter atomic.Int64
	col.AddJob(newIncrementJob(&counter))
	w.Enqueue(col)

	defer func() {
		if recover() == nil {
			t.Fatal("AddJob after queueing should panic")
		}
	}()
	col.AddJob(newIncrementJob(&counter))
}

func TestJobCollectionErrorsAggregateChildFailures(t *testing.T) {
	w := New(WithMaxThreads(2))
	defer w.ShutDown()

	col := NewJobCollection(0)
	col.AddJob(&failingJob{BaseJob: NewBaseJob(0)})
	col.AddJob(&noopJob{BaseJob: NewBaseJob(0)})
	w.Enqueue(col)
	w.Finish()

	deadline := time.Now().Add(time.Second)
	for col.Status() != StatusSuccess && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := col.Err(); err == nil {
		t.Fatal("expected an aggregated error from the failing child")
	}
	if n := len(col.Errors()); n != 1 {
		t.Fatalf("Errors() length = %d, want 1", n)
	}
}

func TestJobCollectionStopDequeuesUnstartedChildren(t *testing.T) {
	w := New(WithMaxThreads(0))
	defer w.ShutDown()

	gate := &toggleGatePolicy{}
	col := NewJobCollection(0, gate)
	var counter atomic.Int64
	col.AddJob(newIncrementJob(&counter))
	col.AddJob(newIncrementJob(&counter))

	w.Enqueue(col)
	col.Stop(w)

	if col.Status() != StatusNew {
		t.Fatalf("collection status after Stop = %v, want New", col.Status())
	}
	if w.QueueLength() != 0 {
		t.Fatalf("queue length after Stop = %d, want 0", w.QueueLength())
	}
}
