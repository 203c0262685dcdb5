package pool

import "sync/atomic"

// Stats is a point-in-time snapshot of a pool's counters. Counters are
// updated with atomic operations and are safe to read from any goroutine,
// including for LocalPool.
type Stats struct {
	// Allocated is the total number of objects manufactured by the
	// allocator, including prefill.
	Allocated int64 `json:"allocated"`
	// Hits is the number of Gets served from the store.
	Hits int64 `json:"hits"`
	// Misses is the number of Gets that had to allocate.
	Misses int64 `json:"misses"`
	// Returned is the number of objects pushed back into the store.
	Returned int64 `json:"returned"`
	// Discarded is the number of objects dropped on release, either
	// because the store was full or because validation rejected them.
	Discarded int64 `json:"discarded"`
	// InUse is the number of objects currently held by live guards.
	InUse int64 `json:"in_use"`
}

type counters struct {
	allocated atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
	returned  atomic.Int64
	discarded atomic.Int64
	inUse     atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Allocated: c.allocated.Load(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Returned:  c.returned.Load(),
		Discarded: c.discarded.Load(),
		InUse:     c.inUse.Load(),
	}
}
