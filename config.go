package chmap

import (
	"fmt"
	"math"
)

const (
	// defaultLoadFactor is the ratio of entries to buckets that triggers
	// growth to the next size of the sequence.
	defaultLoadFactor = 0.75
	// defaultMinTableLen and defaultMaxTableLen bound the default size
	// sequence, which doubles from one to the other.
	defaultMinTableLen = 32
	defaultMaxTableLen = 1 << 30
)

// Config defines configurable Map and RecordMap options.
type Config struct {
	sizes      []int
	loadFactor float64
	allocator  Allocator
}

// WithSizes configures the ascending sequence of bucket counts the table
// grows through. The table starts at sizes[0] and never grows past the
// last size; from there on chains simply get longer.
//
// The slice is copied, so the caller may reuse it.
func WithSizes(sizes ...int) func(*Config) {
	return func(c *Config) {
		c.sizes = append(make([]int, 0, len(sizes)), sizes...)
	}
}

// WithLoadFactor configures the entries-per-bucket ratio at which the
// table grows. It must be a finite number greater than zero; values above
// one are allowed and yield longer chains before each growth.
func WithLoadFactor(loadFactor float64) func(*Config) {
	return func(c *Config) {
		c.loadFactor = loadFactor
	}
}

// WithAllocator configures the Allocator every table allocation is
// reserved through. Defaults to HeapAllocator.
func WithAllocator(a Allocator) func(*Config) {
	return func(c *Config) {
		c.allocator = a
	}
}

func newConfig(options []func(*Config)) (*Config, error) {
	c := &Config{
		loadFactor: defaultLoadFactor,
		allocator:  HeapAllocator{},
	}
	for _, opt := range options {
		opt(c)
	}
	if c.sizes == nil {
		c.sizes = defaultSizes()
	}
	if c.allocator == nil {
		c.allocator = HeapAllocator{}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if len(c.sizes) == 0 {
		return fmt.Errorf("chmap: %w: empty size sequence", ErrInvalidConfig)
	}
	for i, n := range c.sizes {
		if n <= 0 {
			return fmt.Errorf("chmap: %w: size %d at index %d is not positive",
				ErrInvalidConfig, n, i)
		}
		if i > 0 && n <= c.sizes[i-1] {
			return fmt.Errorf("chmap: %w: sizes not ascending at index %d (%d after %d)",
				ErrInvalidConfig, i, n, c.sizes[i-1])
		}
	}
	if math.IsNaN(c.loadFactor) || math.IsInf(c.loadFactor, 0) || c.loadFactor <= 0 {
		return fmt.Errorf("chmap: %w: load factor %v", ErrInvalidConfig, c.loadFactor)
	}
	return nil
}

// defaultSizes returns powers of two from defaultMinTableLen up to
// defaultMaxTableLen.
func defaultSizes() []int {
	var sizes []int
	for n := defaultMinTableLen; n <= defaultMaxTableLen; n <<= 1 {
		sizes = append(sizes, n)
	}
	return sizes
}

// growThreshold returns floor(tableLen*loadFactor), saturated at
// math.MaxInt.
func growThreshold(tableLen int, loadFactor float64) int {
	t := float64(tableLen) * loadFactor
	if t >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(t)
}
