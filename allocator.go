package chmap

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Allocator grants and reclaims the memory a table holds.
//
// Go memory is managed by the runtime, so an Allocator does not hand out
// raw pointers. Instead every object a table creates (its own record, the
// copy of the size sequence, chain-head arrays, entry nodes and, for a
// RecordMap, each private record buffer) is first reserved with Alloc and
// given back with Free of the same size once the table drops it. An
// Allocator therefore works as a memory budget that can refuse requests.
//
// A refused request must return an error wrapping ErrAllocFailed. Tables
// never retry; the error is propagated to the caller of New or Set.
type Allocator interface {
	// Alloc reserves size bytes.
	Alloc(size uintptr) error
	// Free returns size bytes previously reserved by Alloc.
	Free(size uintptr)
}

// HeapAllocator grants every request. It is the default Allocator.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(uintptr) error { return nil }

func (HeapAllocator) Free(uintptr) {}

// LimitAllocator refuses requests that would take the bytes in use above
// a fixed limit.
//
// Unlike the tables themselves, a LimitAllocator is safe for concurrent
// use, so one budget can be shared by tables owned by different
// goroutines.
type LimitAllocator struct {
	limit  uintptr
	inUse  paddedCounter
	peak   paddedCounter
	allocs paddedCounter
	frees  paddedCounter
}

// paddedCounter keeps each hot counter on its own cache line.
type paddedCounter struct {
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		c atomic.Uintptr
	}{})%CacheLineSize) % CacheLineSize]byte
	c atomic.Uintptr
}

// NewLimitAllocator creates a LimitAllocator with a budget of limit bytes.
func NewLimitAllocator(limit uintptr) *LimitAllocator {
	return &LimitAllocator{limit: limit}
}

func (a *LimitAllocator) Alloc(size uintptr) error {
	for {
		cur := a.inUse.c.Load()
		if size > a.limit || cur > a.limit-size {
			return fmt.Errorf("%w: %d bytes requested, %d of %d in use",
				ErrAllocFailed, size, cur, a.limit)
		}
		if a.inUse.c.CompareAndSwap(cur, cur+size) {
			a.allocs.c.Add(1)
			for {
				p := a.peak.c.Load()
				if cur+size <= p || a.peak.c.CompareAndSwap(p, cur+size) {
					break
				}
			}
			return nil
		}
	}
}

func (a *LimitAllocator) Free(size uintptr) {
	a.inUse.c.Add(^(size - 1))
	a.frees.c.Add(1)
}

// Limit returns the budget in bytes.
func (a *LimitAllocator) Limit() uintptr { return a.limit }

// InUse returns the bytes currently reserved.
func (a *LimitAllocator) InUse() uintptr { return a.inUse.c.Load() }

// Peak returns the highest InUse value observed.
func (a *LimitAllocator) Peak() uintptr { return a.peak.c.Load() }

// Allocs returns the number of granted Alloc calls.
func (a *LimitAllocator) Allocs() uint64 { return uint64(a.allocs.c.Load()) }

// Frees returns the number of Free calls.
func (a *LimitAllocator) Frees() uint64 { return uint64(a.frees.c.Load()) }
