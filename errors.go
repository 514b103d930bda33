package chmap

import "errors"

var (
	// ErrAllocFailed is returned when an Allocator refuses a request.
	// The table is left exactly as it was before the failed call.
	ErrAllocFailed = errors.New("allocation failed")

	// ErrInvalidConfig is returned by the constructors for unusable options.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrRecordSize is returned by RecordMap.Set for a record whose length
	// differs from the size the map was created with.
	ErrRecordSize = errors.New("record size mismatch")

	// ErrClosed is returned by Set after Close.
	ErrClosed = errors.New("map is closed")
)
