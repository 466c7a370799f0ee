package weaver

import "testing"

func testThread(t *testing.T) *Thread {
	t.Helper()
	w := New(WithMaxThreads(1))
	t.Cleanup(w.ShutDown)
	return &Thread{id: 0, weaver: w}
}

// orderWrapper records a tag into a shared log at Begin and End, to
// assert the execution chain unwinds in the expected nested order.
type orderWrapper struct {
	Wrapper
	tag string
	log *[]string
}

func (o *orderWrapper) Begin(self Job, thread *Thread) {
	*o.log = append(*o.log, o.tag+":begin")
	o.Wrapper.Begin(self, thread)
}

func (o *orderWrapper) End(self Job, thread *Thread) {
	o.Wrapper.End(self, thread)
	*o.log = append(*o.log, o.tag+":end")
}

type noopRunJob struct{ *BaseJob }

func (noopRunJob) Run(Job, *Thread) error { return nil }

func TestExecutionChainNesting(t *testing.T) {
	var log []string
	job := &noopRunJob{BaseJob: NewBaseJob(0)}

	outer := &orderWrapper{tag: "outer", log: &log}
	inner := &orderWrapper{tag: "inner", log: &log}
	Wrap(job, inner)
	Wrap(job, outer)

	runChain(job, testThread(t))

	want := []string{"outer:begin", "inner:begin", "inner:end", "outer:end"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}

func TestSetExecutorReturnsPrevious(t *testing.T) {
	job := &noopRunJob{BaseJob: NewBaseJob(0)}
	original := job.Executor()

	w := &orderWrapper{tag: "w", log: &[]string{}}
	prev := job.SetExecutor(w)

	if prev != original {
		t.Fatal("SetExecutor did not return the previous head")
	}
	if job.Executor() != w {
		t.Fatal("SetExecutor did not install the new head")
	}
}

type failingJob struct{ *BaseJob }

func (failingJob) Run(Job, *Thread) error { return errBoom }

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }

func TestRunChainPropagatesJobError(t *testing.T) {
	job := &failingJob{BaseJob: NewBaseJob(0)}
	if err := runChain(job, testThread(t)); err != errBoom {
		t.Fatalf("runChain error = %v, want errBoom", err)
	}
}

type panicJob struct{ *BaseJob }

func (panicJob) Run(Job, *Thread) error { panic("nope") }

func TestRunChainRecoversPanic(t *testing.T) {
	job := &panicJob{BaseJob: NewBaseJob(0)}
	err := runChain(job, testThread(t))
	if err == nil {
		t.Fatal("expected a non-nil error from a panicking job")
	}
}
