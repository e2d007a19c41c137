package queue

import (
	"testing"

	"github.com/Swind/honeydew/graph"
)

func TestPriorityOrdersByLowerValueFirst(t *testing.T) {
	q := NewPriority()
	low := &graph.Node{Priority: 1}
	mid := &graph.Node{Priority: 5}
	high := &graph.Node{Priority: 9}

	q.Push(high)
	q.Push(low)
	q.Push(mid)

	got := q.Pop(0)
	if len(got) != 3 || got[0] != low || got[1] != mid || got[2] != high {
		t.Fatalf("priority order violated: got %v", got)
	}
}

func TestPriorityTiesPreserveEnqueueOrder(t *testing.T) {
	q := NewPriority()
	first := &graph.Node{Priority: 3}
	second := &graph.Node{Priority: 3}
	third := &graph.Node{Priority: 3}

	q.Push(first)
	q.Push(second)
	q.Push(third)

	got := q.Pop(0)
	if got[0] != first || got[1] != second || got[2] != third {
		t.Fatalf("equal-priority FIFO order violated: got %v", got)
	}
}
