// Package timer schedules actions to run after a delay or repeatedly on a
// period, posting them through a Poster (normally a *dispatch.Scheduler)
// instead of running them on its own goroutine. Grounded on the
// heap-and-wakeup-channel loop in core/delay_manager.go, generalized to the
// periodic-reschedule contract of rfus/helpers/timer.hpp: a scheduled
// function returns true to be run again after the same period, false to
// stop.
package timer

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/Swind/honeydew/graph"
)

// Poster is the subset of *dispatch.Scheduler the timer needs. Accepting an
// interface instead of a concrete type keeps this package independent of
// dispatch's import graph.
type Poster interface {
	Post(root *graph.Node) error
}

// Func is a scheduled function. Returning true reschedules it for another
// period from now; returning false stops it.
type Func func(ctx context.Context) bool

type scheduledItem struct {
	nextRun time.Time
	period  time.Duration
	fn      Func
	opts    []graph.NodeOption
	stopped bool
	index   int
}

type itemHeap []*scheduledItem

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].nextRun.Before(h[j].nextRun) }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *itemHeap) Push(x any)         { item := x.(*scheduledItem); item.index = len(*h); *h = append(*h, item) }
func (h *itemHeap) Peek() *scheduledItem {
	if len(*h) == 0 {
		return nil
	}
	return (*h)[0]
}
func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Timer runs one background goroutine that wakes for the next due item,
// posts it through poster, and reschedules it if the function returns true.
type Timer struct {
	poster Poster

	mu     sync.Mutex
	pq     itemHeap
	wakeup chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// New starts a Timer posting scheduled work to poster.
func New(poster Poster) *Timer {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Timer{
		poster: poster,
		wakeup: make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	heap.Init(&t.pq)
	go t.loop()
	return t
}

// ScheduledTask is a handle to cancel a previously scheduled Func.
type ScheduledTask struct {
	t    *Timer
	item *scheduledItem
}

// Stop cancels the task. If it is currently posted and running, that
// execution still completes, but it will not be rescheduled afterward.
func (s *ScheduledTask) Stop() {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	s.item.stopped = true
	if s.item.index >= 0 {
		heap.Remove(&s.t.pq, s.item.index)
	}
}

// Schedule runs fn after period elapses, and again every period thereafter
// as long as fn returns true. opts configure the worker affinity and
// priority delta of every posted execution.
func (t *Timer) Schedule(fn Func, period time.Duration, opts ...graph.NodeOption) *ScheduledTask {
	item := &scheduledItem{
		nextRun: time.Now().Add(period),
		period:  period,
		fn:      fn,
		opts:    opts,
	}

	t.mu.Lock()
	heap.Push(&t.pq, item)
	isNext := item.index == 0
	t.mu.Unlock()

	if isNext {
		select {
		case t.wakeup <- struct{}{}:
		default:
		}
	}

	return &ScheduledTask{t: t, item: item}
}

func (t *Timer) loop() {
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		wait := t.calculateNextWait()
		timer.Reset(wait)

		select {
		case <-t.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			t.fireExpired()
		case <-t.wakeup:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
	}
}

func (t *Timer) calculateNextWait() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	item := t.pq.Peek()
	if item == nil {
		return 1000 * time.Hour
	}

	wait := time.Until(item.nextRun)
	if wait < 0 {
		return 0
	}
	return wait
}

func (t *Timer) fireExpired() {
	t.mu.Lock()
	now := time.Now()
	var due []*scheduledItem
	for {
		item := t.pq.Peek()
		if item == nil || item.nextRun.After(now) {
			break
		}
		heap.Pop(&t.pq)
		due = append(due, item)
	}
	t.mu.Unlock()

	for _, item := range due {
		t.postOne(item)
	}
}

func (t *Timer) postOne(item *scheduledItem) {
	fn := item.fn
	root := graph.NewBuilder(func(ctx context.Context) {
		if !fn(ctx) {
			return
		}

		t.mu.Lock()
		stopped := item.stopped
		if !stopped {
			item.nextRun = time.Now().Add(item.period)
			heap.Push(&t.pq, item)
			isNext := item.index == 0
			t.mu.Unlock()
			if isNext {
				select {
				case t.wakeup <- struct{}{}:
				default:
				}
			}
			return
		}
		t.mu.Unlock()
	}, item.opts...).Close()

	t.poster.Post(root)
}

// Stop cancels the background goroutine. Items already posted to the
// poster still run; no further scheduling occurs after this returns.
func (t *Timer) Stop() {
	t.cancel()

	t.mu.Lock()
	t.pq = itemHeap{}
	heap.Init(&t.pq)
	t.mu.Unlock()
}
