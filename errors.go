package weaver

import (
	"errors"
	"fmt"
)

// ErrAlreadyBound is the diagnostic failf panics with when a
// JobCollection is queued a second time: aboutToBeQueued must happen
// exactly once per collection.
var ErrAlreadyBound = errors.New("weaver: job collection already queued")

// failf panics with a formatted message. Contract violations such as
// enqueueing a nil job or calling SetMaximumNumberOfThreads with a
// non-positive value are fail-fast, not recoverable conditions.
func failf(format string, args ...any) {
	panic(fmt.Errorf(format, args...))
}
