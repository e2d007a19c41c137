// Package queue implements the three node-queue variants the dispatch
// engine's worker-selection policies draw from: a plain FIFO, a min-heap
// priority queue, and a counting wrapper that tracks a best-effort length
// around either one.
package queue

import "github.com/Swind/honeydew/graph"

const defaultCap = 16

// Queue is the contract every variant satisfies. Push is non-blocking and
// thread-safe. Pop blocks until at least one node is available, then
// returns up to maxCount nodes (maxCount <= 0 means "no cap": drain
// everything currently available). Size is best-effort: it may be stale
// relative to concurrent push/pop, and callers (the worker-selection
// policies) must tolerate that.
type Queue interface {
	Push(n *graph.Node)
	Pop(maxCount int) []*graph.Node
	Size() int
	// Close unblocks any goroutine parked in Pop, returning no nodes to
	// them, and makes subsequent Pop calls return immediately empty. Used
	// during scheduler shutdown.
	Close()
}
