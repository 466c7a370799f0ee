package weaver

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// QueuePolicy gates whether a job may be assigned to a worker. The
// weaver core walks a job's policies in order while holding its own
// mutex (see core.go's selectJobLocked): each CanRun call that returns
// true is tentatively granted; if a later policy in the same job's list
// refuses, every already-granted policy is rolled back via Free instead
// of Release, exactly as if it had never been asked. Release is only
// called for policies that saw the job all the way through to
// execution.
type QueuePolicy interface {
	// CanRun is asked once per assignment attempt. It must not block.
	CanRun(job Job) bool
	// Release is called after a job that was granted by CanRun finishes
	// running (successfully, with an error, or aborted).
	Release(job Job)
	// Free undoes a CanRun grant for a job that will not run after all,
	// because a later policy in its list refused.
	Free(job Job)
}

// ResourceLimitPolicy admits at most N concurrently running jobs that
// share it. It is the idiomatic replacement for a hand-rolled
// acquire/CAS counter: golang.org/x/sync/semaphore.Weighted already
// gives non-blocking TryAcquire plus a weighted Release, which is all a
// CanRun/Release/Free gate needs.
type ResourceLimitPolicy struct {
	sem *semaphore.Weighted
}

// NewResourceLimitPolicy returns a policy admitting at most n jobs at
// once. n must be positive.
func NewResourceLimitPolicy(n int) *ResourceLimitPolicy {
	if n <= 0 {
		failf("weaver: ResourceLimitPolicy requires n > 0, got %d", n)
	}
	return &ResourceLimitPolicy{sem: semaphore.NewWeighted(int64(n))}
}

func (p *ResourceLimitPolicy) CanRun(Job) bool { return p.sem.TryAcquire(1) }
func (p *ResourceLimitPolicy) Release(Job)     { p.sem.Release(1) }
func (p *ResourceLimitPolicy) Free(Job)        { p.sem.Release(1) }

// ExclusivePolicy is a ResourceLimitPolicy of exactly one — a distinct
// type rather than NewResourceLimitPolicy(1) so call sites read as
// "this resource is serialized", matching the preference for
// naming the intent of a policy rather than its mechanism.
type ExclusivePolicy struct {
	*ResourceLimitPolicy
}

// NewExclusivePolicy returns a policy admitting exactly one job at a
// time across every job that shares it.
func NewExclusivePolicy() *ExclusivePolicy {
	return &ExclusivePolicy{ResourceLimitPolicy: NewResourceLimitPolicy(1)}
}

// DependencyPolicy refuses to admit a job until every job it depends on
// has reached a terminal status. It never blocks a worker: CanRun is a
// cheap status check, never an acquisition, so Release and Free are
// no-ops — there is nothing to roll back.
type DependencyPolicy struct {
	deps []Job
}

// NewDependencyPolicy returns a policy that keeps job from running
// until every job in deps has finished, regardless of outcome.
func NewDependencyPolicy(deps ...Job) *DependencyPolicy {
	return &DependencyPolicy{deps: deps}
}

func (p *DependencyPolicy) CanRun(Job) bool {
	for _, d := range p.deps {
		if !d.Status().Done() {
			return false
		}
	}
	return true
}

func (p *DependencyPolicy) Release(Job) {}
func (p *DependencyPolicy) Free(Job)    {}

// acquireAll walks job's policies in order, tentatively granting each
// one. If every policy admits the job it returns true; otherwise it
// rolls back every policy already granted, in the order they were
// granted, and returns false. Called under the weaver mutex.
func acquireAll(job Job) bool {
	policies := job.QueuePolicies()
	for i, p := range policies {
		if !p.CanRun(job) {
			for j := 0; j < i; j++ {
				policies[j].Free(job)
			}
			return false
		}
	}
	return true
}

// releaseAll releases every policy a job was granted, after it ran.
func releaseAll(job Job) {
	for _, p := range job.QueuePolicies() {
		p.Release(job)
	}
}

// background is used by policies that need a context but the weaver's
// public API is still context-free for blocking acquisition variants
// such as WaitAcquire below.
func background() context.Context { return context.Background() }

// WaitAcquire blocks until the resource limit policy admits a job,
// ignoring the normal non-blocking CanRun contract. It exists for
// callers that want backpressure instead of a refusal loop outside the
// weaver — e.g. a QueuePolicy used purely as an admission gate on a
// producer goroutine, not inside the weaver's own selection walk.
func (p *ResourceLimitPolicy) WaitAcquire(ctx context.Context) error {
	if ctx == nil {
		ctx = background()
	}
	return p.sem.Acquire(ctx, 1)
}
