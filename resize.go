package chmap

import (
	"fmt"
	"math"
)

// grow moves the table to the next size of the sequence.
//
// Reserving the new bucket array is the only step that can fail, and it
// happens before any state changes, so a failed grow leaves the table
// fully usable at its current size. At the last size grow is a no-op and
// parks the threshold so Set stops checking.
func (m *core[K, P]) grow() error {
	if m.sizeIdx == len(m.sizes)-1 {
		m.growAt = math.MaxInt
		return nil
	}
	newTableLen := m.sizes[m.sizeIdx+1]
	if err := m.alloc.Alloc(m.bucketsBytes(newTableLen)); err != nil {
		return fmt.Errorf("chmap: grow to %d buckets: %w", newTableLen, err)
	}

	old := m.buckets
	m.buckets = make([]chain[K], newTableLen)
	m.sizeIdx++
	m.growAt = growThreshold(newTableLen, m.loadFactor)
	m.totalGrowths++
	m.rehash(old)
	m.alloc.Free(m.bucketsBytes(len(old)))
	return nil
}

// rehash relinks every entry of old onto the tail of its chain in the
// current bucket array, using the cached hash. Keys are not touched and
// nothing is allocated.
func (m *core[K, P]) rehash(old []chain[K]) {
	tableLen := uint64(len(m.buckets))
	for i := range old {
		for e := old[i].head; e != nil; {
			next := e.next
			m.buckets[e.hash%tableLen].push(e)
			e = next
		}
		old[i] = chain[K]{}
	}
}
