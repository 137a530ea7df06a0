//go:build !unix

package arena

import "fmt"

// Map reserves size bytes of zeroed memory on the Go heap.
func Map(size int) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("arena: size must be positive, got %d", size)
	}
	return &Arena{buf: make([]byte, size)}, nil
}
