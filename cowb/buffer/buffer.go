// Package buffer implements a fixed-size, element-addressable buffer
// with shared-ownership reference counting and copy-on-first-write
// divergence.
//
// Clone is O(1): it aliases the storage block and bumps its reference
// count. Physical duplication is deferred until the first write through
// a handle whose block is still shared, and happens at most once per
// divergence. The type is single-goroutine by contract: the reference
// count is a plain integer, and no operation synchronizes. Handles must
// not be shared across goroutines.
package buffer

import "fmt"

// block is the storage shared by all handles that alias it. It stays
// alive until the reference count drops to zero.
type block[T any] struct {
	data     []T
	refcount int64
}

// Buffer is a caller-visible handle onto a shared storage block. Many
// handles may alias one block; the block is jointly owned by all of
// them. The zero value is not usable; construct with New or Clone.
type Buffer[T any] struct {
	blk      *block[T]
	released bool
}

// New allocates a storage block of size elements with a reference count
// of one. Returns ErrAllocation for a non-positive size.
func New[T any](size int) (*Buffer[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid element count %d", ErrAllocation, size)
	}
	b := &Buffer[T]{
		blk: &block[T]{
			data:     make([]T, size),
			refcount: 1,
		},
	}
	return b, nil
}

// FromSlice allocates a buffer initialized with a copy of src. The
// input slice is never retained.
func FromSlice[T any](src []T) (*Buffer[T], error) {
	b, err := New[T](len(src))
	if err != nil {
		return nil, err
	}
	copy(b.blk.data, src)
	return b, nil
}

// Clone returns a new handle aliasing the same storage block. No
// element data is read or written; the cost is one reference count
// increment regardless of size.
func (b *Buffer[T]) Clone() (*Buffer[T], error) {
	if b.released {
		return nil, ErrReleased
	}
	b.blk.refcount++
	return &Buffer[T]{blk: b.blk}, nil
}

// EnsureUnique guarantees the handle is the sole owner of its storage
// block, duplicating the block if it is currently shared. Calling it on
// an already-unique handle is a no-op, so consecutive calls perform at
// most one physical duplication.
func (b *Buffer[T]) EnsureUnique() error {
	if b.released {
		return ErrReleased
	}
	if b.blk.refcount == 1 {
		return nil
	}
	fresh := make([]T, len(b.blk.data))
	copy(fresh, b.blk.data)
	b.blk.refcount--
	b.blk = &block[T]{data: fresh, refcount: 1}
	return nil
}

// Set stores v at index i, diverging from a shared block first if
// needed. Returns ErrIndexOutOfRange outside [0, Len()).
func (b *Buffer[T]) Set(i int, v T) error {
	if b.released {
		return ErrReleased
	}
	if i < 0 || i >= len(b.blk.data) {
		return fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, len(b.blk.data))
	}
	if err := b.EnsureUnique(); err != nil {
		return err
	}
	b.blk.data[i] = v
	return nil
}

// Get returns the element at index i.
func (b *Buffer[T]) Get(i int) (T, error) {
	var zero T
	if b.released {
		return zero, ErrReleased
	}
	if i < 0 || i >= len(b.blk.data) {
		return zero, fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, len(b.blk.data))
	}
	return b.blk.data[i], nil
}

// Len returns the element count of the buffer, or zero for a released
// handle.
func (b *Buffer[T]) Len() int {
	if b.released {
		return 0
	}
	return len(b.blk.data)
}

// RefCount returns the number of live handles aliasing this handle's
// storage block, or zero for a released handle.
func (b *Buffer[T]) RefCount() int64 {
	if b.released {
		return 0
	}
	return b.blk.refcount
}

// Snapshot returns a copy of the element data. The backing slice is
// never exposed, so callers cannot mutate shared storage behind the
// reference count's back.
func (b *Buffer[T]) Snapshot() ([]T, error) {
	if b.released {
		return nil, ErrReleased
	}
	out := make([]T, len(b.blk.data))
	copy(out, b.blk.data)
	return out, nil
}

// Release consumes the handle, decrementing the block's reference
// count and dropping the storage exactly when the count reaches zero.
// A released handle is dead: every further operation, including a
// second Release, fails with ErrReleased.
func (b *Buffer[T]) Release() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	b.blk.refcount--
	if b.blk.refcount == 0 {
		b.blk.data = nil
	}
	b.blk = nil
	return nil
}
