package chmap

import (
	"fmt"
	"math"
	"strings"
)

// Stats returns statistics for the table. It walks every chain, so it
// is an O(N) operation meant for diagnostics, debugging and tests.
func (m *core[K, P]) Stats() *MapStats {
	stats := &MapStats{
		Buckets:       len(m.buckets),
		SizeIndex:     m.sizeIdx,
		NumSizes:      len(m.sizes),
		Counter:       m.count,
		GrowThreshold: m.growAt,
		TotalGrowths:  m.totalGrowths,
		MinEntries:    math.MaxInt,
	}
	for i := range m.buckets {
		nentries := 0
		for e := m.buckets[i].head; e != nil; e = e.next {
			nentries++
		}
		stats.Size += nentries
		if nentries == 0 {
			stats.EmptyBuckets++
		}
		stats.MinEntries = min(stats.MinEntries, nentries)
		stats.MaxEntries = max(stats.MaxEntries, nentries)
	}
	if len(m.buckets) == 0 {
		stats.MinEntries = 0
	}
	return stats
}

// MapStats is Map and RecordMap statistics.
//
// Warning: the statistics are intended to be used for diagnostic
// purposes, not for production code. Breaking changes may be introduced
// into this struct even between minor releases.
type MapStats struct {
	// Buckets is the number of chain heads, i.e. the current size.
	Buckets int
	// SizeIndex is the position of Buckets in the size sequence.
	SizeIndex int
	// NumSizes is the length of the size sequence.
	NumSizes int
	// Size is the number of entries found by walking every chain.
	Size int
	// Counter is the element count the table maintains. It always
	// equals Size.
	Counter int
	// GrowThreshold is the Counter value at which the next Set grows the
	// table. It is math.MaxInt once the last size has been reached.
	GrowThreshold int
	// EmptyBuckets is the number of chains holding no entries.
	EmptyBuckets int
	// MinEntries is the length of the shortest chain.
	MinEntries int
	// MaxEntries is the length of the longest chain.
	MaxEntries int
	// TotalGrowths is the number of times the table grew.
	TotalGrowths uint32
}

// String returns string representation of map stats.
func (s *MapStats) String() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Buckets:       %d\n", s.Buckets))
	sb.WriteString(fmt.Sprintf("SizeIndex:     %d/%d\n", s.SizeIndex, s.NumSizes))
	sb.WriteString(fmt.Sprintf("Size:          %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Counter:       %d\n", s.Counter))
	sb.WriteString(fmt.Sprintf("GrowThreshold: %d\n", s.GrowThreshold))
	sb.WriteString(fmt.Sprintf("EmptyBuckets:  %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("MinEntries:    %d\n", s.MinEntries))
	sb.WriteString(fmt.Sprintf("MaxEntries:    %d\n", s.MaxEntries))
	sb.WriteString(fmt.Sprintf("TotalGrowths:  %d\n", s.TotalGrowths))
	sb.WriteString("}\n")
	return sb.String()
}
