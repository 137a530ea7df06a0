package heap

import (
	"fmt"
	"math/bits"
	"os"
	"unsafe"

	"github.com/heapkit/heapkit/heap/pool"
	"github.com/heapkit/heapkit/heap/trace"
	"github.com/heapkit/heapkit/internal/arena"
)

// Runtime debug flag for dispatch logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// Heap dispatches allocation requests across a fixed array of size-class
// pools sorted ascending by block size. The pool array is built once,
// before any concurrent access, and never changes afterwards; all mutable
// state lives inside the pools.
type Heap struct {
	pools   []*pool.Pool
	backing *arena.Arena // nil when assembled from externally placed pools
	tracer  *trace.Tracer
	// guarantee is the largest power-of-two alignment every block in every
	// pool is known to satisfy, derived from pool bases and block sizes.
	guarantee int
}

// Option configures optional heap collaborators.
type Option func(*Heap)

// WithTracePort attaches a diagnostic trace port. Every operation then
// emits packed trace words when the port reports itself enabled. Tracing
// is purely observational and never affects allocation outcomes.
func WithTracePort(port trace.Port) Option {
	return func(h *Heap) { h.tracer = trace.New(port) }
}

// New builds a heap from cfg: one backing arena, with the pools laid out
// contiguously in ascending block-size order. The configuration is
// validated; see Config.Validate.
func New(cfg Config, opts ...Option) (*Heap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backing, err := arena.Map(cfg.TotalSize())
	if err != nil {
		return nil, err
	}
	pools := make([]*pool.Pool, len(cfg.Pools))
	offset := uintptr(0)
	for i, pc := range cfg.Pools {
		pools[i] = pool.New(backing.Base()+offset, pc.BlockSize, pc.Capacity)
		offset += uintptr(pc.BlockSize) * uintptr(pc.Capacity)
	}
	h := &Heap{pools: pools, backing: backing, guarantee: alignGuarantee(pools)}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// FromPools assembles a heap over pre-placed pools, for externally supplied
// memory and for test isolation (a fresh pool array per test).
//
// Preconditions, assumed and never verified here: the pools are sorted
// ascending by block size, their address ranges are ascending and
// non-overlapping in the same order, and their memory outlives the heap.
// Pools that will service Deallocate need a block size of at least one
// machine word for the free-list link.
func FromPools(pools []*pool.Pool, opts ...Option) *Heap {
	h := &Heap{pools: pools, guarantee: alignGuarantee(pools)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Close releases the backing arena, if the heap owns one. All blocks
// become invalid. Close is idempotent.
func (h *Heap) Close() error {
	if h.backing == nil {
		return nil
	}
	return h.backing.Release()
}

// AlignGuarantee returns the largest alignment Allocate accepts.
func (h *Heap) AlignGuarantee() int { return h.guarantee }

// Statistics returns a per-pool snapshot of (block size, capacity, remain).
func (h *Heap) Statistics() []pool.Statistics {
	stats := make([]pool.Statistics, len(h.pools))
	for i, p := range h.pools {
		stats[i] = p.Statistics()
	}
	return stats
}

// Allocate returns the address and usable length of a block holding l.
//
// A zero-size layout yields a non-zero dangling address with length 0 that
// must never be dereferenced; no pool is touched. Otherwise the request is
// dispatched to the smallest fitting pool and upgraded to larger pools on
// exhaustion; the usable length is the satisfying pool's block size, which
// may exceed l.Size. Fails with ErrNoMemory when every pool from the fit
// position onward is exhausted, or ErrBadAlign when l.Align exceeds the
// heap's guarantee.
func (h *Heap) Allocate(l Layout) (uintptr, int, error) {
	if h.tracer != nil {
		h.tracer.Allocate(l.Size)
	}
	if l.Size == 0 {
		return dangling(l.Align), 0, nil
	}
	if l.Align > h.guarantee {
		return 0, 0, fmt.Errorf("%w: need %d, pools guarantee %d", ErrBadAlign, l.Align, h.guarantee)
	}
	first := search(h.pools, pool.SizeProbe(l.Size))
	for i := first; i < len(h.pools); i++ {
		if addr, ok := h.pools[i].Allocate(); ok {
			if logAlloc && i > first {
				fmt.Fprintf(os.Stderr, "[HEAP] upgrade: size=%d served by %d-byte pool (best fit %d exhausted)\n",
					l.Size, h.pools[i].BlockSize(), h.pools[first].BlockSize())
			}
			return addr, h.pools[i].BlockSize(), nil
		}
	}
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[HEAP] exhausted: size=%d, searched pools [%d, %d)\n",
			l.Size, first, len(h.pools))
	}
	return 0, 0, ErrNoMemory
}

// AllocateZeroed is Allocate followed by a zero fill of the whole usable
// region.
func (h *Heap) AllocateZeroed(l Layout) (uintptr, int, error) {
	addr, n, err := h.Allocate(l)
	if err != nil {
		return 0, 0, err
	}
	clear(blockBytes(addr, n))
	return addr, n, nil
}

// Deallocate returns the block at addr to its pool. A zero-size layout is
// a no-op, mirroring the Allocate short-circuit: such a request never
// touched a pool.
//
// addr must have been produced by this heap and not already freed;
// violations are undefined behavior.
func (h *Heap) Deallocate(addr uintptr, l Layout) {
	if h.tracer != nil {
		h.tracer.Deallocate(l.Size)
	}
	if l.Size == 0 {
		return
	}
	h.pools[search(h.pools, pool.AddrProbe(addr))].Deallocate(addr)
}

// Grow moves the block at addr to a new block holding newLayout, copying
// oldLayout.Size bytes. Never in place. If the new allocation fails the
// old block is untouched and still valid: it is released only after the
// new one is secured.
func (h *Heap) Grow(addr uintptr, oldLayout, newLayout Layout) (uintptr, int, error) {
	if h.tracer != nil {
		h.tracer.Grow(oldLayout.Size, newLayout.Size)
	}
	return h.relocate(addr, oldLayout, newLayout, oldLayout.Size)
}

// Shrink moves the block at addr to a new block holding newLayout, copying
// newLayout.Size bytes. Same partial-failure contract as Grow.
func (h *Heap) Shrink(addr uintptr, oldLayout, newLayout Layout) (uintptr, int, error) {
	if h.tracer != nil {
		h.tracer.Shrink(oldLayout.Size, newLayout.Size)
	}
	return h.relocate(addr, oldLayout, newLayout, newLayout.Size)
}

// relocate implements grow and shrink: allocate new, copy n bytes, free old.
func (h *Heap) relocate(addr uintptr, oldLayout, newLayout Layout, n int) (uintptr, int, error) {
	newAddr, usable, err := h.Allocate(newLayout)
	if err != nil {
		return 0, 0, err
	}
	copy(blockBytes(newAddr, n), blockBytes(addr, n))
	h.Deallocate(addr, oldLayout)
	return newAddr, usable, nil
}

// blockBytes views n bytes at addr as a slice. Valid only for addresses
// handed out by the pools while their block is live.
func blockBytes(addr uintptr, n int) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}

// dangling returns a non-zero, well-aligned address for zero-size results.
func dangling(align int) uintptr {
	if align < 1 {
		align = 1
	}
	return uintptr(align)
}

// alignGuarantee computes the largest power of two dividing every block
// address of every pool. Block k of a pool lives at base + k*blockSize, so
// per pool that is the power-of-two part of gcd(base, blockSize).
func alignGuarantee(pools []*pool.Pool) int {
	guarantee := maxGuarantee
	for _, p := range pools {
		tz := bits.TrailingZeros64(uint64(p.Base()) | uint64(p.BlockSize()))
		if g := 1 << min(tz, maxGuaranteeShift); g < guarantee {
			guarantee = g
		}
	}
	return guarantee
}

// maxGuarantee caps the reported alignment guarantee at one page.
const (
	maxGuaranteeShift = 12
	maxGuarantee      = 1 << maxGuaranteeShift
)
