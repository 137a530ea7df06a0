// Package arena provides fixed-size backing memory regions for heap pools.
//
// On unix systems the region is an anonymous private mapping, so the pool
// array sits on page-aligned memory outside the Go heap. Elsewhere a plain
// byte slice is used. Either way the region has a stable address for its
// whole lifetime and is released explicitly, never by the garbage collector
// while an Arena still references it.
package arena

import "unsafe"

// Arena is a contiguous memory region with a stable base address.
type Arena struct {
	buf     []byte
	release func() error
}

// Bytes returns the whole region.
func (a *Arena) Bytes() []byte { return a.buf }

// Base returns the address of the first byte of the region.
func (a *Arena) Base() uintptr { return uintptr(unsafe.Pointer(&a.buf[0])) }

// Size returns the region length in bytes.
func (a *Arena) Size() int { return len(a.buf) }

// Release returns the region to the operating system. The region must not
// be accessed afterwards. Release is idempotent.
func (a *Arena) Release() error {
	if a.buf == nil {
		return nil
	}
	a.buf = nil
	if a.release == nil {
		return nil
	}
	return a.release()
}
