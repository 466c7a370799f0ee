package weaver

import (
	"context"
	"time"

	"github.com/mirkobohm/weaver/backoff"
)

// RetryWrapper and TimeoutWrapper are job-level decorators, not
// ExecuteWrapper decorators: a job's Run is always called directly by
// the chain (see chain.go's runChain), never through the decorator
// chain itself, so retry and timeout semantics have to wrap the Job
// whose Run is retried or bounded, not the chain around it. Both embed
// BaseJob and are scheduled exactly like the job they wrap; the
// original job is never enqueued on its own.

// RetryWrapper re-runs inner's Run until it succeeds, the abort flag is
// set, or maxAttempts additional attempts have been made, backing off
// between attempts per strategy. A nil strategy falls back to
// backoff.Default().
type RetryWrapper struct {
	*BaseJob
	inner       Job
	maxAttempts int
	strategy    backoff.Strategy
}

// NewRetryWrapper wraps inner so that failed attempts are retried up to
// maxAttempts additional times.
func NewRetryWrapper(inner Job, maxAttempts int, strategy backoff.Strategy) *RetryWrapper {
	if inner == nil {
		failf("weaver: cannot wrap a nil job in RetryWrapper")
	}
	if strategy == nil {
		strategy = backoff.Default()
	}
	return &RetryWrapper{
		BaseJob:     NewBaseJob(inner.Priority(), inner.QueuePolicies()...),
		inner:       inner,
		maxAttempts: maxAttempts,
		strategy:    strategy,
	}
}

func (r *RetryWrapper) RequestAbort() {
	r.BaseJob.RequestAbort()
	r.inner.RequestAbort()
}

// Run calls inner.Run, retrying on a non-nil error. The last error is
// returned once attempts are exhausted.
func (r *RetryWrapper) Run(self Job, thread *Thread) error {
	var err error
	for attempt := 0; attempt <= r.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := r.strategy.Delay(attempt)
			timer := time.NewTimer(delay)
			<-timer.C
		}
		if self.AbortRequested() {
			return err
		}
		err = r.inner.Run(r.inner, thread)
		if err == nil {
			return nil
		}
	}
	return err
}

// TimeoutWrapper bounds how long inner's Run is allowed to run. If
// inner has not returned within timeout, Run itself returns
// context.DeadlineExceeded and requests inner's abort — inner's
// goroutine is left running cooperatively until it notices the abort
// flag; Go has no way to forcibly cancel a running function.
type TimeoutWrapper struct {
	*BaseJob
	inner   Job
	timeout time.Duration
}

// NewTimeoutWrapper wraps inner so that Run gives up after timeout.
func NewTimeoutWrapper(inner Job, timeout time.Duration) *TimeoutWrapper {
	if inner == nil {
		failf("weaver: cannot wrap a nil job in TimeoutWrapper")
	}
	return &TimeoutWrapper{
		BaseJob: NewBaseJob(inner.Priority(), inner.QueuePolicies()...),
		inner:   inner,
		timeout: timeout,
	}
}

func (t *TimeoutWrapper) RequestAbort() {
	t.BaseJob.RequestAbort()
	t.inner.RequestAbort()
}

func (t *TimeoutWrapper) Run(self Job, thread *Thread) error {
	done := make(chan error, 1)
	go func() {
		done <- t.inner.Run(t.inner, thread)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(t.timeout):
		t.inner.RequestAbort()
		return context.DeadlineExceeded
	}
}
