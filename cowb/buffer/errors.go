package buffer

import "errors"

var (
	// ErrAllocation reports that a storage block could not be
	// allocated. Fatal to the workload that requested it; the caller
	// must release what it already holds before surfacing the failure.
	ErrAllocation = errors.New("buffer: allocation failed")

	// ErrIndexOutOfRange reports an element access outside [0, size).
	ErrIndexOutOfRange = errors.New("buffer: index out of range")

	// ErrReleased reports an operation on a handle that has already
	// been released. A handle is consumed by Release; it cannot touch
	// the block again, so a double release can never corrupt the
	// reference count.
	ErrReleased = errors.New("buffer: handle already released")
)
