package queue

import (
	"testing"

	"github.com/Swind/honeydew/graph"
)

func TestCountingSizeTracksPushAndPop(t *testing.T) {
	q := NewCounting(NewFIFO())

	if q.Size() != 0 {
		t.Fatalf("initial size = %d, want 0", q.Size())
	}

	q.Push(&graph.Node{})
	q.Push(&graph.Node{})
	if q.Size() != 2 {
		t.Fatalf("size after two pushes = %d, want 2", q.Size())
	}

	q.Pop(1)
	if q.Size() != 1 {
		t.Fatalf("size after popping one = %d, want 1", q.Size())
	}
}
