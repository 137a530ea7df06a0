package pool

// Fits is the probe predicate shared by both dispatch axes. Over a pool
// slice sorted ascending by block size whose address ranges are also
// ascending, every Fits implementation here is monotonic: once it holds
// for a pool it holds for all later pools. That monotonicity is the
// precondition for lower-bound binary search.
type Fits interface {
	Fits(p *Pool) bool
}

// SizeProbe matches pools whose block size can hold a request of this size.
type SizeProbe int

// Fits reports whether a block of p can hold the requested size.
func (n SizeProbe) Fits(p *Pool) bool { return uintptr(n) <= p.blockSize }

// AddrProbe matches pools whose address range ends past this address.
type AddrProbe uintptr

// Fits reports whether the address lies before p's edge. Combined with the
// ascending-range invariant, the first matching pool is the one that owns
// the address.
func (a AddrProbe) Fits(p *Pool) bool { return uintptr(a) < p.edge }
