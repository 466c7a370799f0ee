package weaver

import (
	"testing"
	"time"

	"github.com/mirkobohm/weaver/backoff"
)

type flakyJob struct {
	*BaseJob
	failures int
	calls    int
}

func (f *flakyJob) Run(Job, *Thread) error {
	f.calls++
	if f.calls <= f.failures {
		return errBoom
	}
	return nil
}

func TestRetryWrapperRetriesUntilSuccess(t *testing.T) {
	inner := &flakyJob{BaseJob: NewBaseJob(0), failures: 2}
	rw := NewRetryWrapper(inner, 3, backoff.NewConstant(time.Millisecond))

	if err := rw.Run(rw, &Thread{}); err != nil {
		t.Fatalf("Run returned %v, want nil after retries", err)
	}
	if inner.calls != 3 {
		t.Fatalf("inner.Run called %d times, want 3", inner.calls)
	}
}

func TestRetryWrapperExhaustsAttempts(t *testing.T) {
	inner := &flakyJob{BaseJob: NewBaseJob(0), failures: 100}
	rw := NewRetryWrapper(inner, 2, backoff.NewConstant(time.Millisecond))

	err := rw.Run(rw, &Thread{})
	if err != errBoom {
		t.Fatalf("Run error = %v, want errBoom", err)
	}
	if inner.calls != 3 {
		t.Fatalf("inner.Run called %d times, want 3 (1 + 2 retries)", inner.calls)
	}
}

func TestTimeoutWrapperExpires(t *testing.T) {
	block := make(chan struct{})
	inner := &blockingJob{BaseJob: NewBaseJob(0), unblock: block}
	defer close(block)

	tw := NewTimeoutWrapper(inner, 10*time.Millisecond)
	err := tw.Run(tw, &Thread{})
	if err == nil {
		t.Fatal("expected a deadline error from TimeoutWrapper")
	}
	if !inner.AbortRequested() {
		t.Fatal("TimeoutWrapper did not request the inner job's abort on timeout")
	}
}

func TestBackoffStrategies(t *testing.T) {
	constant := backoff.NewConstant(5 * time.Millisecond)
	if constant.Delay(1) != 5*time.Millisecond || constant.Delay(10) != 5*time.Millisecond {
		t.Fatal("Constant strategy should ignore attempt number")
	}

	linear := backoff.NewLinear(time.Millisecond, 5*time.Millisecond)
	if linear.Delay(1) != time.Millisecond {
		t.Fatalf("Linear.Delay(1) = %v, want 1ms", linear.Delay(1))
	}
	if linear.Delay(10) != 5*time.Millisecond {
		t.Fatalf("Linear.Delay(10) = %v, want capped at 5ms", linear.Delay(10))
	}

	exp := backoff.NewExponential(time.Millisecond, 100*time.Millisecond)
	if exp.Delay(1) != time.Millisecond {
		t.Fatalf("Exponential.Delay(1) = %v, want 1ms", exp.Delay(1))
	}
	if exp.Delay(2) != 2*time.Millisecond {
		t.Fatalf("Exponential.Delay(2) = %v, want 2ms", exp.Delay(2))
	}
}
