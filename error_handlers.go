package weaver

// reportInternalError reports a failure inside the weaver itself,
// rather than inside a job — worker setup issues or other unexpected
// runtime conditions.
//
// If no handler is registered, the error is silently ignored.
func (w *Weaver) reportInternalError(err error) {
	if w.opts.onInternalError != nil {
		w.opts.onInternalError(err)
	}
}

// reportJobError reports an error returned by a job's Run or produced
// by panic recovery around it.
//
// Job errors do not stop other workers. The configured handler is
// called synchronously, on the worker goroutine that ran the job.
func (w *Weaver) reportJobError(job Job, err error) {
	if w.opts.onJobError != nil {
		w.opts.onJobError(job, err)
	}
}
