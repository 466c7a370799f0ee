package weaver

import "testing"

type noopJob struct{ *BaseJob }

func (noopJob) Run(Job, *Thread) error { return nil }

func TestDependencyPolicyBlocksUntilDepsDone(t *testing.T) {
	dep := &noopJob{BaseJob: NewBaseJob(0)}
	p := NewDependencyPolicy(dep)

	job := &noopJob{BaseJob: NewBaseJob(0, p)}
	if p.CanRun(job) {
		t.Fatal("DependencyPolicy admitted a job before its dependency finished")
	}

	dep.SetStatus(StatusSuccess)
	if !p.CanRun(job) {
		t.Fatal("DependencyPolicy refused a job after its dependency finished")
	}
}

func TestExclusivePolicyAdmitsOnlyOne(t *testing.T) {
	p := NewExclusivePolicy()
	job := &noopJob{BaseJob: NewBaseJob(0)}

	if !p.CanRun(job) {
		t.Fatal("ExclusivePolicy refused the first admission")
	}
	if p.CanRun(job) {
		t.Fatal("ExclusivePolicy admitted a second concurrent job")
	}
	p.Release(job)
	if !p.CanRun(job) {
		t.Fatal("ExclusivePolicy refused admission after Release")
	}
}

func TestAcquireAllRollsBackOnRefusal(t *testing.T) {
	first := NewExclusivePolicy()
	second := &alwaysRefuse{}
	job := &noopJob{BaseJob: NewBaseJob(0, first, second)}

	if acquireAll(job) {
		t.Fatal("acquireAll admitted a job gated by a refusing policy")
	}
	// first must have been rolled back (Free), not left held.
	if !first.CanRun(job) {
		t.Fatal("acquireAll left the first policy's grant held after rollback")
	}
}

type alwaysRefuse struct{}

func (alwaysRefuse) CanRun(Job) bool { return false }
func (alwaysRefuse) Release(Job)     {}
func (alwaysRefuse) Free(Job)        {}
