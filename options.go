package weaver

import (
	"go.uber.org/zap"
)

// options configure a Weaver. All zero values are replaced with
// sensible defaults in fillDefaults. Callers never see this type
// directly — they configure it through the functional Option values
// returned by the With* constructors below.
type options struct {
	maxThreads int
	pinWorkers bool
	logger     *zap.Logger
	metrics    MetricsPolicy

	onJobError      func(Job, error)
	onInternalError func(error)
}

func (o *options) fillDefaults() {
	if o.maxThreads <= 0 {
		o.maxThreads = defaultMaxThreads()
	}
	if o.logger == nil {
		o.logger = newNopLogger()
	}
	if o.metrics == nil {
		o.metrics = &NoopMetrics{}
	}
}

// Option configures a Weaver at construction time.
type Option func(*options)

// WithMaxThreads caps the number of worker goroutines the weaver will
// ever create. It defaults to max(4, 2*runtime.GOMAXPROCS(0)), matching
// the default thread inventory size.
func WithMaxThreads(n int) Option {
	return func(o *options) { o.maxThreads = n }
}

// WithPinWorkers locks each worker's OS thread to a single CPU core, on
// platforms where that is supported (see affinity.go). Elsewhere it has
// no effect.
func WithPinWorkers(pin bool) Option {
	return func(o *options) { o.pinWorkers = pin }
}

// WithLogger sets the zap.Logger the weaver uses for its own
// diagnostics: a debug message on each worker-join retry during
// ShutDown. Thread lifecycle and internal errors are not logged. It
// defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the MetricsPolicy the weaver reports queueing and
// execution activity to. It defaults to NoopMetrics.
func WithMetrics(m MetricsPolicy) Option {
	return func(o *options) { o.metrics = m }
}

// WithJobErrorHandler registers a handler invoked whenever a job
// finishes with StatusFailed, including failures produced by panic
// recovery. Job errors never stop other workers.
func WithJobErrorHandler(h func(job Job, err error)) Option {
	return func(o *options) { o.onJobError = h }
}

// WithInternalErrorHandler registers a handler invoked on failures
// inside the weaver itself rather than inside a job — for example a
// worker goroutine that could not be pinned to a CPU.
func WithInternalErrorHandler(h func(err error)) Option {
	return func(o *options) { o.onInternalError = h }
}
