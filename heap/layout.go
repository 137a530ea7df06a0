package heap

import "fmt"

// Layout describes a requested allocation: a size in bytes and a required
// alignment. Alignment must be a power of two.
type Layout struct {
	Size  int
	Align int
}

// NewLayout builds a validated Layout.
func NewLayout(size, align int) (Layout, error) {
	if size < 0 {
		return Layout{}, fmt.Errorf("%w: negative size %d", ErrBadConfig, size)
	}
	if align <= 0 || align&(align-1) != 0 {
		return Layout{}, fmt.Errorf("%w: alignment %d is not a power of two", ErrBadAlign, align)
	}
	return Layout{Size: size, Align: align}, nil
}
