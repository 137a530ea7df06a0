package pool

import (
	"sync/atomic"
	"unsafe"
)

// Statistics is a read-only snapshot of one pool for external monitoring.
// Remain is diagnostic-only and may lag the true state under concurrency.
type Statistics struct {
	BlockSize int
	Capacity  int
	Remain    int
}

// Pool is a single size-class arena. The address range, block size and
// capacity are fixed at construction; only the free-list head, the bump
// cursor and the diagnostic counter change afterwards, and only through
// the atomic operations below.
type Pool struct {
	blockSize uintptr
	capacity  int
	base      uintptr
	edge      uintptr // base + blockSize*capacity

	free   atomic.Uintptr // head of the intrusive free list, 0 when empty
	uninit atomic.Uintptr // bump cursor in [base, edge]
	remain atomic.Int64   // diagnostic block count, never read by control logic
}

// New creates a pool serving capacity blocks of blockSize bytes starting at
// base. The memory at [base, base+blockSize*capacity) must stay valid and
// exclusively owned by the pool for its whole lifetime. Construction must
// finish before any concurrent access begins.
func New(base uintptr, blockSize, capacity int) *Pool {
	p := &Pool{
		blockSize: uintptr(blockSize),
		capacity:  capacity,
		base:      base,
		edge:      base + uintptr(blockSize)*uintptr(capacity),
	}
	p.uninit.Store(base)
	p.remain.Store(int64(capacity))
	return p
}

// BlockSize returns the fixed block size in bytes.
func (p *Pool) BlockSize() int { return int(p.blockSize) }

// Capacity returns the total number of blocks.
func (p *Pool) Capacity() int { return p.capacity }

// Base returns the address of the first block.
func (p *Pool) Base() uintptr { return p.base }

// Edge returns the address one past the pool's last byte.
func (p *Pool) Edge() uintptr { return p.edge }

// Statistics returns a snapshot of the pool.
func (p *Pool) Statistics() Statistics {
	return Statistics{
		BlockSize: int(p.blockSize),
		Capacity:  p.capacity,
		Remain:    int(p.remain.Load()),
	}
}

// Allocate returns the address of one block, or false when the pool is
// exhausted. Lock-free; amortized O(1).
func (p *Pool) Allocate() (uintptr, bool) {
	if addr, ok := p.allocFree(); ok {
		return addr, true
	}
	return p.allocUninit()
}

// Deallocate pushes the block at addr onto the free list. Lock-free; O(1).
//
// addr must have been returned by this pool's Allocate and must not be
// live or already freed. Violations are undefined behavior; the pool
// performs no validation.
func (p *Pool) Deallocate(addr uintptr) {
	for {
		curr := p.free.Load()
		// Link must be complete before the CAS can publish addr as head.
		*(*uintptr)(unsafe.Pointer(addr)) = curr
		if p.free.CompareAndSwap(curr, addr) {
			p.remain.Add(1)
			return
		}
	}
}

// allocFree pops the head of the free list.
func (p *Pool) allocFree() (uintptr, bool) {
	for {
		curr := p.free.Load()
		if curr == 0 {
			return 0, false
		}
		next := *(*uintptr)(unsafe.Pointer(curr))
		if p.free.CompareAndSwap(curr, next) {
			p.remain.Add(-1)
			return curr, true
		}
	}
}

// allocUninit advances the bump cursor by one block, stopping at the edge.
func (p *Pool) allocUninit() (uintptr, bool) {
	for {
		curr := p.uninit.Load()
		if curr == p.edge {
			return 0, false
		}
		if p.uninit.CompareAndSwap(curr, curr+p.blockSize) {
			p.remain.Add(-1)
			return curr, true
		}
	}
}
