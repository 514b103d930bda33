package chmap

import (
	"bytes"
	"fmt"
	"unsafe"
)

// Map is a separate-chaining hash set of caller-owned keys.
//
// Keys are stored by value as given; for pointer or slice keys the table
// references caller memory and never frees it. Whenever a stored key is
// superseded by an equal one, or dropped by Close, the release callback
// is invoked with it so that ownership returns to the caller at that
// moment. Any value associated with a key is part of the key itself and
// is recovered from the stored key returned by Get.
//
// The table grows through the size sequence given by WithSizes and never
// shrinks. A Map is not safe for concurrent use.
type Map[K any] struct {
	core[K, borrowed[K]]
}

// New creates a Map that hashes keys with hash and compares them with
// equal. equal must be an equivalence relation consistent with hash:
// equal(a, b) implies hash(a) == hash(b). release may be nil.
//
// Parameters:
//   - WithSizes option for the growth schedule
//   - WithLoadFactor option for the growth trigger
//   - WithAllocator option for memory accounting
func New[K any](
	hash func(key K) uint64,
	equal func(a, b K) bool,
	release func(key K),
	options ...func(*Config),
) (*Map[K], error) {
	if hash == nil || equal == nil {
		return nil, fmt.Errorf("chmap: %w: hash and equal functions are required", ErrInvalidConfig)
	}
	cfg, err := newConfig(options)
	if err != nil {
		return nil, err
	}
	m := &Map[K]{}
	if err := m.init(borrowed[K]{}, hash, equal, release, cfg); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordMap is a separate-chaining hash set of fixed-size byte records.
//
// Set stores a private copy of each record, reserved through the
// Allocator, so the caller may reuse its buffer right away. The record
// returned by Get belongs to the map and stays valid until an equal
// record supersedes it or the map is closed. A RecordMap is not safe for
// concurrent use.
type RecordMap struct {
	core[[]byte, copied]
}

// NewRecordMap creates a RecordMap for records of exactly recordSize
// bytes. A nil hash defaults to HashBytes and a nil equal to bytes.Equal,
// which treat the whole record as the key; callers embedding a value in
// the record pass functions that look at the key bytes only. release may
// be nil; it is called with the map's private copy just before the copy
// is freed.
func NewRecordMap(
	recordSize int,
	hash func(rec []byte) uint64,
	equal func(a, b []byte) bool,
	release func(rec []byte),
	options ...func(*Config),
) (*RecordMap, error) {
	if recordSize <= 0 {
		return nil, fmt.Errorf("chmap: %w: record size %d", ErrInvalidConfig, recordSize)
	}
	if hash == nil {
		hash = HashBytes
	}
	if equal == nil {
		equal = bytes.Equal
	}
	cfg, err := newConfig(options)
	if err != nil {
		return nil, err
	}
	m := &RecordMap{}
	if err := m.init(copied{size: recordSize}, hash, equal, release, cfg); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordSize returns the size of the records the map accepts.
func (m *RecordMap) RecordSize() int { return m.own.size }

// core is the table engine shared by Map and RecordMap.
type core[K any, P owner[K]] struct {
	buckets      []chain[K]
	sizes        []int
	sizeIdx      int
	count        int
	growAt       int // element count at which Set grows the table
	loadFactor   float64
	totalGrowths uint32
	closed       bool

	own     P
	hash    func(K) uint64
	equal   func(a, b K) bool
	release func(K)
	alloc   Allocator
}

// chain is the list of entries whose hash maps to one bucket.
type chain[K any] struct {
	head *entry[K]
	tail *entry[K]
}

type entry[K any] struct {
	key  K
	hash uint64 // hash of key, reused on rehash
	next *entry[K]
}

func (c *chain[K]) push(e *entry[K]) {
	e.next = nil
	if c.tail == nil {
		c.head = e
	} else {
		c.tail.next = e
	}
	c.tail = e
}

func (m *core[K, P]) recordBytes() uintptr { return unsafe.Sizeof(*m) }

func (m *core[K, P]) sizesBytes(n int) uintptr { return uintptr(n) * unsafe.Sizeof(int(0)) }

func (m *core[K, P]) bucketsBytes(n int) uintptr { return uintptr(n) * unsafe.Sizeof(chain[K]{}) }

func (m *core[K, P]) entryBytes() uintptr { return unsafe.Sizeof(entry[K]{}) }

// init reserves the table record, the size sequence and the first bucket
// array. On failure every reservation already made is returned.
func (m *core[K, P]) init(
	own P,
	hash func(K) uint64,
	equal func(a, b K) bool,
	release func(K),
	cfg *Config,
) error {
	a := cfg.allocator
	if err := a.Alloc(m.recordBytes()); err != nil {
		return fmt.Errorf("chmap: table record: %w", err)
	}
	if err := a.Alloc(m.sizesBytes(len(cfg.sizes))); err != nil {
		a.Free(m.recordBytes())
		return fmt.Errorf("chmap: size sequence: %w", err)
	}
	tableLen := cfg.sizes[0]
	if err := a.Alloc(m.bucketsBytes(tableLen)); err != nil {
		a.Free(m.sizesBytes(len(cfg.sizes)))
		a.Free(m.recordBytes())
		return fmt.Errorf("chmap: %d buckets: %w", tableLen, err)
	}

	m.sizes = append([]int(nil), cfg.sizes...)
	m.buckets = make([]chain[K], tableLen)
	m.sizeIdx = 0
	m.count = 0
	m.loadFactor = cfg.loadFactor
	m.growAt = growThreshold(tableLen, cfg.loadFactor)
	m.own = own
	m.hash = hash
	m.equal = equal
	m.release = release
	m.alloc = a
	return nil
}

// Get returns the stored key equal to key, so that a payload embedded in
// the stored key can be recovered. It never modifies the table.
func (m *core[K, P]) Get(key K) (stored K, ok bool) {
	if m.closed {
		return stored, false
	}
	hash := m.hash(key)
	for e := m.buckets[hash%uint64(len(m.buckets))].head; e != nil; e = e.next {
		if e.hash == hash && m.equal(e.key, key) {
			return e.key, true
		}
	}
	return stored, false
}

// Set inserts key, or replaces the stored key equal to it. A replaced key
// is handed to the release callback. Set grows the table first when the
// element count has reached the grow threshold.
//
// On error the table is unchanged apart from a growth that completed
// before the failing step; every key retrievable before the call is
// still retrievable.
func (m *core[K, P]) Set(key K) error {
	if m.closed {
		return fmt.Errorf("chmap: set: %w", ErrClosed)
	}
	if m.count >= m.growAt {
		if err := m.grow(); err != nil {
			return err
		}
	}

	stored, err := m.own.acquire(m.alloc, key)
	if err != nil {
		return fmt.Errorf("chmap: store key: %w", err)
	}
	hash := m.hash(stored)
	b := &m.buckets[hash%uint64(len(m.buckets))]
	for e := b.head; e != nil; e = e.next {
		if e.hash == hash && m.equal(e.key, stored) {
			m.drop(e.key)
			e.key = stored
			return nil
		}
	}

	if err := m.alloc.Alloc(m.entryBytes()); err != nil {
		m.own.discard(m.alloc, stored)
		return fmt.Errorf("chmap: new entry: %w", err)
	}
	b.push(&entry[K]{key: stored, hash: hash})
	m.count++
	return nil
}

// drop hands a stored key back: release callback first, then the
// ownership policy frees whatever the table reserved for it.
func (m *core[K, P]) drop(stored K) {
	if m.release != nil {
		m.release(stored)
	}
	m.own.discard(m.alloc, stored)
}

// Len returns the number of distinct keys in the table.
func (m *core[K, P]) Len() int { return m.count }

// Cap returns the current number of buckets.
func (m *core[K, P]) Cap() int { return len(m.buckets) }

// Close drops every stored key through the release callback and returns
// all reservations to the Allocator: entries first, then the bucket
// array, the size sequence and the table record. After Close, Get reports
// every key absent and Set fails with ErrClosed. Close is idempotent.
func (m *core[K, P]) Close() {
	if m.closed {
		return
	}
	for i := range m.buckets {
		for e := m.buckets[i].head; e != nil; {
			next := e.next
			m.drop(e.key)
			e.next = nil
			m.alloc.Free(m.entryBytes())
			e = next
		}
		m.buckets[i] = chain[K]{}
	}
	m.alloc.Free(m.bucketsBytes(len(m.buckets)))
	m.alloc.Free(m.sizesBytes(len(m.sizes)))
	m.alloc.Free(m.recordBytes())
	m.buckets = nil
	m.sizes = nil
	m.count = 0
	m.closed = true
}
