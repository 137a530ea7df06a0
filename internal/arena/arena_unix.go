//go:build unix

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Map reserves size bytes of anonymous, private, page-aligned memory.
func Map(size int) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("arena: size must be positive, got %d", size)
	}
	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", size, err)
	}
	// Munmap needs the original slice, capture it before Release nils a.buf.
	return &Arena{
		buf:     buf,
		release: func() error { return unix.Munmap(buf) },
	}, nil
}
