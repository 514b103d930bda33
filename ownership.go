package chmap

import "fmt"

// owner decides how a key enters table storage and how the table lets go
// of it. It is a type parameter of the engine, so the ownership contract
// of a table is fixed by its type rather than checked at run time.
type owner[K any] interface {
	// acquire returns the key to store for key.
	acquire(a Allocator, key K) (K, error)
	// discard gives back whatever acquire reserved for a stored key.
	discard(a Allocator, stored K)
}

// borrowed stores the caller's key itself; the caller keeps ownership and
// is told through the release callback when the table stops using it.
type borrowed[K any] struct{}

func (borrowed[K]) acquire(_ Allocator, key K) (K, error) { return key, nil }

func (borrowed[K]) discard(Allocator, K) {}

// copied stores a private copy of every fixed-size record.
type copied struct {
	size int
}

func (o copied) acquire(a Allocator, key []byte) ([]byte, error) {
	if len(key) != o.size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrRecordSize, len(key), o.size)
	}
	if err := a.Alloc(uintptr(o.size)); err != nil {
		return nil, err
	}
	buf := make([]byte, o.size)
	copy(buf, key)
	return buf, nil
}

func (o copied) discard(a Allocator, _ []byte) {
	a.Free(uintptr(o.size))
}
