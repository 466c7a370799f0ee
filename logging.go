package weaver

import "go.uber.org/zap"

// newNopLogger returns a zap.Logger that discards everything, the
// default when a Weaver is constructed without WithLogger. Structured
// logging throughout this package goes through zap directly rather
// than the standard library's log package.
func newNopLogger() *zap.Logger {
	return zap.NewNop()
}
