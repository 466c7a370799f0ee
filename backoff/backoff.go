// Package backoff provides the retry delay strategies used by
// weaver.RetryWrapper. All strategies are stateless and safe for
// concurrent use.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// Strategy computes how long to wait before a retry attempt.
type Strategy interface {
	// Delay returns the wait before retry attempt n, where n is
	// 1-indexed: attempt 1 is the first retry after the original
	// failure.
	Delay(attempt int) time.Duration
}

// Constant always waits the same interval, regardless of attempt.
type Constant struct {
	Interval time.Duration
}

// NewConstant returns a Strategy that always waits interval.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

func (c *Constant) Delay(int) time.Duration { return c.Interval }

// Linear grows the delay by a fixed step per attempt, capped at Max.
// Delay = min(Initial * attempt, Max).
type Linear struct {
	Initial time.Duration
	Max     time.Duration
}

// NewLinear returns a Strategy growing linearly from initial, capped at
// maxDelay. maxDelay of zero means uncapped.
func NewLinear(initial, maxDelay time.Duration) *Linear {
	return &Linear{Initial: initial, Max: maxDelay}
}

func (l *Linear) Delay(attempt int) time.Duration {
	d := l.Initial * time.Duration(attempt)
	if l.Max > 0 && d > l.Max {
		return l.Max
	}
	return d
}

// Exponential doubles the delay on every attempt, capped at Max.
// Delay = min(Initial * 2^(attempt-1), Max).
type Exponential struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponential returns a Strategy doubling from initial, capped at
// maxDelay. maxDelay of zero means uncapped.
func NewExponential(initial, maxDelay time.Duration) *Exponential {
	return &Exponential{Initial: initial, Max: maxDelay}
}

func (e *Exponential) Delay(attempt int) time.Duration {
	d := time.Duration(float64(e.Initial) * math.Pow(2, float64(attempt-1)))
	if e.Max > 0 && d > e.Max {
		return e.Max
	}
	return d
}

// ExponentialWithJitter applies full jitter over an exponential base,
// spreading out retries from many jobs that failed around the same
// time instead of letting them all wake back up together.
// Delay = random value in [0, min(Initial * 2^(attempt-1), Max)].
type ExponentialWithJitter struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponentialWithJitter returns a jittered exponential Strategy.
// maxDelay of zero means uncapped.
func NewExponentialWithJitter(initial, maxDelay time.Duration) *ExponentialWithJitter {
	return &ExponentialWithJitter{Initial: initial, Max: maxDelay}
}

func (e *ExponentialWithJitter) Delay(attempt int) time.Duration {
	base := float64(e.Initial) * math.Pow(2, float64(attempt-1))
	if e.Max > 0 && base > float64(e.Max) {
		base = float64(e.Max)
	}
	return time.Duration(rand.Float64() * base) //nolint:gosec // jitter, not a secret
}

// Default returns the backoff weaver.RetryWrapper falls back to when
// none is configured explicitly: jittered exponential starting at 100ms
// and capped at 10s.
func Default() Strategy {
	return NewExponentialWithJitter(100*time.Millisecond, 10*time.Second)
}
