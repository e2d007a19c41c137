package dispatch

import (
	"testing"

	"github.com/Swind/honeydew/queue"
)

func TestRoundRobinSelectorCyclesThroughQueues(t *testing.T) {
	sel := newSelector(RoundRobin)
	queues := []queue.Queue{queue.NewFIFO(), queue.NewFIFO(), queue.NewFIFO()}

	got := make([]int, 6)
	for i := range got {
		got[i] = sel.selectQueue(queues, nil)
	}

	want := []int{0, 1, 2, 0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("selection %d = %d, want %d (full sequence %v)", i, got[i], want[i], got)
		}
	}
}

func TestLeastBusySelectorPicksSmallestFirstMatch(t *testing.T) {
	sel := newSelector(LeastBusy)
	q0 := queue.NewCounting(queue.NewFIFO())
	q1 := queue.NewCounting(queue.NewFIFO())
	q2 := queue.NewCounting(queue.NewFIFO())
	queues := []queue.Queue{q0, q1, q2}

	q0.Push(nil)
	q1.Push(nil)

	// q2 is empty (smallest), should win.
	if got := sel.selectQueue(queues, nil); got != 2 {
		t.Fatalf("selected queue %d, want 2 (the empty one)", got)
	}
}

func TestLeastBusySelectorTieBreaksToFirstMatch(t *testing.T) {
	sel := newSelector(LeastBusy)
	queues := []queue.Queue{
		queue.NewCounting(queue.NewFIFO()),
		queue.NewCounting(queue.NewFIFO()),
	}

	// Both queues empty: index 0 must win the tie.
	if got := sel.selectQueue(queues, nil); got != 0 {
		t.Fatalf("selected queue %d, want 0 on a tie", got)
	}
}
