package queue

import (
	"container/heap"
	"sync"

	"github.com/Swind/honeydew/graph"
)

type priorityItem struct {
	node     *graph.Node
	sequence uint64
	index    int
}

// priorityHeap implements container/heap.Interface. Lower Node.Priority is
// higher priority (min-heap); equal-priority items are ordered by sequence
// to keep FIFO stability among ties.
type priorityHeap []*priorityItem

func (h priorityHeap) Len() int { return len(h) }

func (h priorityHeap) Less(i, j int) bool {
	if h[i].node.Priority != h[j].node.Priority {
		return h[i].node.Priority < h[j].node.Priority
	}
	return h[i].sequence < h[j].sequence
}

func (h priorityHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *priorityHeap) Push(x any) {
	item := x.(*priorityItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *priorityHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Priority is a min-heap queue keyed on Node.Priority, blocking the same
// way FIFO does.
type Priority struct {
	mu           sync.Mutex
	cond         *sync.Cond
	pq           priorityHeap
	nextSequence uint64
	closed       bool
}

// NewPriority constructs an empty priority queue.
func NewPriority() *Priority {
	q := &Priority{pq: make(priorityHeap, 0, defaultCap)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *Priority) Push(n *graph.Node) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	heap.Push(&q.pq, &priorityItem{node: n, sequence: q.nextSequence})
	q.nextSequence++
	q.cond.Signal()
}

func (q *Priority) Pop(maxCount int) []*graph.Node {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pq) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.pq) == 0 {
		return nil
	}

	n := len(q.pq)
	if maxCount <= 0 || maxCount > n {
		maxCount = n
	}

	batch := make([]*graph.Node, maxCount)
	for i := 0; i < maxCount; i++ {
		item := heap.Pop(&q.pq).(*priorityItem)
		batch[i] = item.node
	}
	return batch
}

func (q *Priority) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pq)
}

// Close marks the queue shut down, unblocks any parked Pop (returning it
// nil), and drops whatever was still queued.
func (q *Priority) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pq = nil
	q.cond.Broadcast()
}
