package heap

import "errors"

var (
	// ErrNoMemory indicates that no pool could satisfy the request. It does
	// not distinguish fragmentation from true exhaustion.
	ErrNoMemory = errors.New("heap: out of memory")

	// ErrBadAlign indicates a layout alignment that is not a power of two or
	// exceeds what the heap's pool configuration guarantees.
	ErrBadAlign = errors.New("heap: unsupported alignment")

	// ErrBadConfig indicates an invalid pool configuration.
	ErrBadConfig = errors.New("heap: invalid configuration")
)
