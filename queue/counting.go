package queue

import (
	"sync/atomic"

	"github.com/Swind/honeydew/graph"
)

// Counting wraps another Queue and keeps an atomic length alongside it, so
// Size() is lock-free at the cost of being "not strictly atomic" relative
// to the underlying queue's own state, the same staleness tradeoff
// original_source's counting_wrapper.h documents, and one the least-busy
// policies are built to tolerate.
type Counting struct {
	inner Queue
	n     atomic.Int64
}

// NewCounting wraps inner in a Counting queue.
func NewCounting(inner Queue) *Counting {
	return &Counting{inner: inner}
}

func (q *Counting) Push(n *graph.Node) {
	q.inner.Push(n)
	q.n.Add(1)
}

func (q *Counting) Pop(maxCount int) []*graph.Node {
	nodes := q.inner.Pop(maxCount)
	if len(nodes) > 0 {
		q.n.Add(-int64(len(nodes)))
	}
	return nodes
}

func (q *Counting) Size() int {
	return int(q.n.Load())
}

func (q *Counting) Close() {
	q.inner.Close()
	q.n.Store(0)
}
