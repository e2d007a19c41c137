package queue

import (
	"sync"

	"github.com/Swind/honeydew/graph"
)

const (
	compactMinCap       = 64
	compactShrinkFactor = 4
)

// FIFO is a mutex+condition-variable backed first-in-first-out queue.
// Blocking is implemented with sync.Cond rather than a channel so that Pop
// can drain an arbitrary batch atomically under one lock acquisition,
// matching the pop(max_count, out) contract.
type FIFO struct {
	mu     sync.Mutex
	cond   *sync.Cond
	nodes  []*graph.Node
	closed bool
}

// NewFIFO constructs an empty FIFO queue.
func NewFIFO() *FIFO {
	q := &FIFO{nodes: make([]*graph.Node, 0, defaultCap)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *FIFO) Push(n *graph.Node) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.nodes = append(q.nodes, n)
	q.cond.Signal()
}

func (q *FIFO) Pop(maxCount int) []*graph.Node {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.nodes) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.nodes) == 0 {
		return nil
	}

	n := len(q.nodes)
	if maxCount <= 0 || maxCount > n {
		maxCount = n
	}

	batch := make([]*graph.Node, maxCount)
	copy(batch, q.nodes[:maxCount])
	for i := range maxCount {
		q.nodes[i] = nil
	}
	q.nodes = q.nodes[maxCount:]
	q.maybeCompactLocked()

	return batch
}

func (q *FIFO) maybeCompactLocked() {
	n := len(q.nodes)
	c := cap(q.nodes)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.nodes = make([]*graph.Node, 0, defaultCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultCap), n)
	shrunk := make([]*graph.Node, n, newCap)
	copy(shrunk, q.nodes)
	q.nodes = shrunk
}

func (q *FIFO) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.nodes)
}

// Close marks the queue shut down, unblocks any parked Pop (returning it
// nil), and drops whatever was still queued, per the scheduler's shutdown
// contract, nodes not yet drained are freed rather than run.
func (q *FIFO) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.nodes = nil
	q.cond.Broadcast()
}
