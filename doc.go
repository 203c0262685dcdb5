// Package poolkit provides bounded, allocation-free object recycling for
// hot-path Go workloads: scratch buffers, parsers, connection-like
// objects, and anything else that is expensive to manufacture and cheap
// to reuse.
//
// # Architecture
//
// poolkit is built from three layers:
//
// 1. Stores: a lock-free bounded MPMC queue (pkg/lockfree) for pools
// shared across goroutines, and a growable FIFO deque for pools confined
// to one goroutine.
//
// 2. Pools (pkg/pool): Pool[T] and LocalPool[T] own an allocator and a
// store, serve borrows from the store, and fall back to the allocator on
// a miss. Acquisition never blocks and never fails.
//
// 3. Guards: every borrowed object is wrapped in a guard whose Release
// runs the return path exactly once - reset, validate, then push back or
// discard. Shared-handle guard variants can cross goroutine or scope
// boundaries before release.
//
// # Quick Start
//
//	import "github.com/ajitpratap0/poolkit/pkg/pool"
//
//	p := pool.NewPrefilled[*bytes.Buffer](256, pool.BufferAllocator{Size: 4096})
//
//	g := p.Get()
//	defer g.Release()
//	g.Object().WriteString("payload")
//
// Pool statistics can be exported to Prometheus with pkg/metrics, and
// cmd/poolbench measures pool throughput against fresh allocation.
package poolkit
