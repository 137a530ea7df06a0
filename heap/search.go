package heap

import "github.com/heapkit/heapkit/heap/pool"

// search returns the smallest index whose pool satisfies the probe, or
// len(pools) when none does. The probe must be monotonic over the sorted
// pool slice; both pool.SizeProbe and pool.AddrProbe are. O(log N).
func search(pools []*pool.Pool, probe pool.Fits) int {
	left, right := 0, len(pools)
	for right > left {
		middle := left + (right-left)>>1
		if probe.Fits(pools[middle]) {
			right = middle
		} else {
			left = middle + 1
		}
	}
	return left
}
