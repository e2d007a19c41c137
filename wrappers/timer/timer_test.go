package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Swind/honeydew/graph"
)

// inlinePoster runs a posted graph's root (and any also/fork peers)
// synchronously on whatever goroutine calls Post, standing in for a
// dispatch.Scheduler without pulling in that package.
type inlinePoster struct {
	mu  sync.Mutex
	ran int
}

func (p *inlinePoster) Post(root *graph.Node) error {
	for n := root; n != nil; {
		next := n.NextPeer
		if n.Action != nil {
			n.Action(context.Background())
		}
		p.mu.Lock()
		p.ran++
		p.mu.Unlock()
		n = next
	}
	return nil
}

func TestScheduleFiresAfterDelay(t *testing.T) {
	poster := &inlinePoster{}
	tm := New(poster)
	defer tm.Stop()

	fired := make(chan struct{})
	tm.Schedule(func(ctx context.Context) bool {
		close(fired)
		return false
	}, 20*time.Millisecond)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduled function never fired")
	}
}

func TestScheduleRepeatsWhileTrue(t *testing.T) {
	poster := &inlinePoster{}
	tm := New(poster)
	defer tm.Stop()

	var count int
	var mu sync.Mutex
	done := make(chan struct{})

	tm.Schedule(func(ctx context.Context) bool {
		mu.Lock()
		count++
		n := count
		mu.Unlock()
		if n >= 3 {
			close(done)
			return false
		}
		return true
	}, 10*time.Millisecond)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("did not reach 3 repetitions, got %d", count)
	}
}

func TestStopCancelsFutureRuns(t *testing.T) {
	poster := &inlinePoster{}
	tm := New(poster)
	defer tm.Stop()

	var mu sync.Mutex
	var count int
	task := tm.Schedule(func(ctx context.Context) bool {
		mu.Lock()
		count++
		mu.Unlock()
		return true
	}, 10*time.Millisecond)

	time.Sleep(25 * time.Millisecond)
	task.Stop()

	mu.Lock()
	seenAtStop := count
	mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count > seenAtStop+1 {
		t.Fatalf("task kept running after Stop: count went from %d to %d", seenAtStop, count)
	}
}
