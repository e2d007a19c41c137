package dispatch

import (
	"sync/atomic"

	"github.com/Swind/honeydew/graph"
	"github.com/Swind/honeydew/queue"
)

// Policy selects which of the four worker-selection strategies a Scheduler
// uses for nodes with no worker affinity.
type Policy int

const (
	// RoundRobin dispatches via an atomic counter mod N, FIFO queues.
	RoundRobin Policy = iota
	// RoundRobinPriority is RoundRobin over priority-ordered queues.
	RoundRobinPriority
	// LeastBusy scans every queue's best-effort size and picks the
	// smallest, first match wins on ties. FIFO queues.
	LeastBusy
	// LeastBusyPriority is LeastBusy over priority-ordered queues.
	LeastBusyPriority
)

func (p Policy) String() string {
	switch p {
	case RoundRobin:
		return "round_robin"
	case RoundRobinPriority:
		return "round_robin_priority"
	case LeastBusy:
		return "least_busy"
	case LeastBusyPriority:
		return "least_busy_priority"
	default:
		return "unknown"
	}
}

// selector is the tagged-variant interface from the design note: its two
// methods are resolved once at Scheduler construction, never per node, so
// there is no vtable-per-node dispatch cost.
type selector interface {
	selectQueue(queues []queue.Queue, node *graph.Node) int
	makeQueue() queue.Queue
}

func newSelector(p Policy) selector {
	switch p {
	case RoundRobin:
		return &roundRobinSelector{makePlain: func() queue.Queue { return queue.NewFIFO() }}
	case RoundRobinPriority:
		return &roundRobinSelector{makePlain: func() queue.Queue { return queue.NewPriority() }}
	case LeastBusy:
		return &leastBusySelector{makePlain: func() queue.Queue { return queue.NewCounting(queue.NewFIFO()) }}
	case LeastBusyPriority:
		return &leastBusySelector{makePlain: func() queue.Queue { return queue.NewCounting(queue.NewPriority()) }}
	default:
		return &roundRobinSelector{makePlain: func() queue.Queue { return queue.NewFIFO() }}
	}
}

type roundRobinSelector struct {
	counter   atomic.Uint64
	makePlain func() queue.Queue
}

func (s *roundRobinSelector) selectQueue(queues []queue.Queue, node *graph.Node) int {
	n := s.counter.Add(1) - 1
	return int(n % uint64(len(queues)))
}

func (s *roundRobinSelector) makeQueue() queue.Queue {
	return s.makePlain()
}

type leastBusySelector struct {
	makePlain func() queue.Queue
}

func (s *leastBusySelector) selectQueue(queues []queue.Queue, node *graph.Node) int {
	chosen := 0
	smallest := queues[0].Size()
	for i := 1; i < len(queues); i++ {
		if amt := queues[i].Size(); amt < smallest {
			smallest = amt
			chosen = i
		}
	}
	return chosen
}

func (s *leastBusySelector) makeQueue() queue.Queue {
	return s.makePlain()
}
