package heap

import (
	"testing"
	"unsafe"

	"github.com/heapkit/heapkit/heap/pool"
)

// fixtureBlockSizes is the canonical 10-class test layout used throughout
// the dispatcher tests.
var fixtureBlockSizes = [10]int{2, 5, 8, 12, 16, 23, 38, 56, 72, 91}

// searchFixture builds the fixture pools over synthetic addresses laid out
// contiguously from offset 20 with capacity 100 each. Nothing dereferences
// these addresses; they exist only for the binary-search tests.
func searchFixture() []*pool.Pool {
	pools := make([]*pool.Pool, len(fixtureBlockSizes))
	base := uintptr(20)
	for i, bs := range fixtureBlockSizes {
		pools[i] = pool.New(base, bs, 100)
		base += uintptr(bs) * 100
	}
	return pools
}

// newTestHeap places the fixture pools contiguously over a real buffer,
// capacity 10 each, and returns the heap plus the buffer. The buffer must
// stay referenced while the heap is used. Only blocks of at least one
// machine word may be deallocated.
func newTestHeap(t *testing.T, opts ...Option) (*Heap, []byte) {
	t.Helper()
	total := 0
	for _, bs := range fixtureBlockSizes {
		total += bs * 10
	}
	buf := make([]byte, total)
	base := uintptr(unsafe.Pointer(&buf[0]))
	pools := make([]*pool.Pool, len(fixtureBlockSizes))
	offset := uintptr(0)
	for i, bs := range fixtureBlockSizes {
		pools[i] = pool.New(base+offset, bs, 10)
		offset += uintptr(bs) * 10
	}
	return FromPools(pools, opts...), buf
}
