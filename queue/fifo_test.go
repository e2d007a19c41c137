package queue

import (
	"testing"
	"time"

	"github.com/Swind/honeydew/graph"
)

func TestFIFOPreservesOrder(t *testing.T) {
	q := NewFIFO()
	a := &graph.Node{}
	b := &graph.Node{}
	q.Push(a)
	q.Push(b)

	got := q.Pop(0)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("FIFO order violated: got %v", got)
	}
}

func TestFIFOPopRespectsMaxCount(t *testing.T) {
	q := NewFIFO()
	for i := 0; i < 5; i++ {
		q.Push(&graph.Node{})
	}

	first := q.Pop(2)
	if len(first) != 2 {
		t.Fatalf("first pop len = %d, want 2", len(first))
	}
	rest := q.Pop(0)
	if len(rest) != 3 {
		t.Fatalf("remaining pop len = %d, want 3", len(rest))
	}
}

func TestFIFOPopBlocksUntilPush(t *testing.T) {
	q := NewFIFO()
	done := make(chan []*graph.Node, 1)

	go func() {
		done <- q.Pop(0)
	}()

	select {
	case <-done:
		t.Fatalf("Pop returned before any Push")
	case <-time.After(20 * time.Millisecond):
	}

	q.Push(&graph.Node{})

	select {
	case got := <-done:
		if len(got) != 1 {
			t.Fatalf("got %d nodes, want 1", len(got))
		}
	case <-time.After(time.Second):
		t.Fatalf("Pop never woke after Push")
	}
}

func TestFIFOCloseUnblocksPop(t *testing.T) {
	q := NewFIFO()
	done := make(chan []*graph.Node, 1)

	go func() {
		done <- q.Pop(0)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case got := <-done:
		if got != nil {
			t.Fatalf("expected nil batch after Close, got %v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("Pop never woke after Close")
	}
}
