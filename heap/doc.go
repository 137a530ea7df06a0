// Package heap implements a multi-pool, lock-free dynamic-memory
// allocator: a fixed array of size-class pools, sorted ascending by block
// size, dispatched by lower-bound binary search.
//
// # Dispatch
//
// Allocation binary-searches the pool array by request size and takes the
// first pool with a free block, upgrading to the next larger pool when the
// best fit is exhausted. The returned usable length is the satisfying
// pool's block size, which may exceed the request; callers may use the
// slack. Deallocation binary-searches the same array by block address.
// Both searches run over the same sorted pools, which is why configuration
// must keep block sizes and address ranges ascending in the same order.
//
// # Concurrency
//
// No locks anywhere. Any number of goroutines may allocate and deallocate
// concurrently on the same heap; calls never block and complete in a
// bounded number of steps plus optimistic CAS retries under contention.
// Calls touching different pools never contend. A block freed by one
// goroutine is safely reusable by another once the freeing CAS is
// observed; no ordering is promised across pools and no FIFO/LIFO order is
// guaranteed between competing goroutines.
//
// # Errors
//
// The only recoverable failure is ErrNoMemory, reported when no pool from
// the search position to the end of the array has a free block. There is
// no distinction between fragmentation and true exhaustion, and no
// internal retry. Deallocating a foreign or already-freed address, or
// passing a wrong old layout to Grow or Shrink, is undefined behavior by
// documented precondition; the hot path performs no validation for these.
package heap
