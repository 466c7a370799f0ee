//go:build linux

package weaver

import (
	"golang.org/x/sys/unix"
)

// pinToCPU locks the calling goroutine's OS thread and restricts it to
// run on a single CPU core. It is used by the worker loop when a
// Weaver is constructed with WithPinWorkers, trading scheduler-induced
// migration for predictability on CPU-bound job sets.
func pinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
