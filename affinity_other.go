//go:build !linux

package weaver

// pinToCPU is a no-op outside Linux: SchedSetaffinity has no portable
// equivalent, and a worker loop that cannot pin simply runs unpinned
// rather than failing to start.
func pinToCPU(cpu int) error { return nil }
