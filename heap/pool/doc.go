// Package pool implements a single size-class memory pool: a fixed block
// size, a fixed capacity, and a fixed address range, served by a lock-free
// free list plus a lock-free bump cursor over never-touched memory.
//
// # Block states
//
// At any instant a block is in exactly one of three states from the pool's
// perspective: never touched (beyond the bump cursor), free-listed, or
// allocated. Concurrent observers see transitions only up to the atomic
// orderings below.
//
// # Free list
//
// Freed blocks form an intrusive Treiber stack: the first machine word of a
// freed block aliases as the link to the next free block. That
// reinterpretation is sound only because nothing else reads the block
// between Deallocate and the matching pop, and it is confined to the
// push/pop in this package. Deallocate fully writes the link before the CAS
// publishes the block as the new head, so any thread that pops it observes
// a complete link.
//
// # Concurrency
//
// Allocate and Deallocate never block and never take locks. Both are
// optimistic CAS retry loops: on contention the loser reloads and retries,
// with no backoff, no fairness, and no ordering guarantee between competing
// callers. LIFO reuse of freed blocks is only observable from a single
// goroutine. The bump cursor carries no payload dependency, so it needs no
// ordering beyond the CAS itself.
//
// # Diagnostics
//
// The Remain counter is eventually consistent. It is updated with
// independent atomic adds after the state transition and may be observed
// stale relative to the true free-list and cursor state. It never
// participates in allocation decisions.
package pool
