// Package dispatch implements the scheduling engine: a pool of per-worker
// queues, the four worker-selection policies, and the worker loop that
// drains a queue, executes actions, resolves joins, and posts
// continuations.
package dispatch

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Swind/honeydew/graph"
	"github.com/Swind/honeydew/queue"
)

// ExceptionHandler receives the recovered value of any action that panicked.
type ExceptionHandler func(ctx context.Context, recovered any)

// Scheduler owns one queue per worker and a goroutine draining each. New
// nodes with no worker affinity are routed by policy; nodes with
// Worker > 0 always go to queue (Worker mod numWorkers).
type Scheduler struct {
	policy     Policy
	sel        selector
	queues     []queue.Queue
	numWorkers int
	step       int
	cfg        *config

	wg           sync.WaitGroup
	shuttingDown atomic.Bool
	history      *executionHistory

	// exceptionHandler and its posting coordinates. Setting this is not
	// thread-safe and must happen before any Post, mirroring the core
	// contract: there is no lock protecting these fields.
	exceptionHandler  ExceptionHandler
	exceptionWorker   uint64
	exceptionPriority uint64
}

// New constructs a Scheduler with the given policy, worker count and step
// size (0 meaning "drain everything available per pop").
func New(policy Policy, numWorkers, step int, opts ...Option) *Scheduler {
	if numWorkers < 1 {
		numWorkers = 1
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	sel := newSelector(policy)
	queues := make([]queue.Queue, numWorkers)
	for i := range queues {
		queues[i] = sel.makeQueue()
	}

	s := &Scheduler{
		policy:     policy,
		sel:        sel,
		queues:     queues,
		numWorkers: numWorkers,
		step:       step,
		cfg:        cfg,
		history:    newExecutionHistory(cfg.historyCapacity),
	}

	for i := 0; i < numWorkers; i++ {
		s.wg.Add(1)
		go s.runWorker(i)
	}

	cfg.logger.Info("scheduler started", F("policy", policy.String()), F("workers", numWorkers), F("step", step))

	return s
}

// SetExceptionHandler installs the scheduler-wide uncaught-exception hook.
// Not safe to call concurrently with Post; must be set before any posts.
func (s *Scheduler) SetExceptionHandler(handler ExceptionHandler, worker, priority uint64) {
	s.exceptionHandler = handler
	s.exceptionWorker = worker
	s.exceptionPriority = priority
}

// Post schedules root and every peer on its NextPeer chain. Thread-safe.
func (s *Scheduler) Post(root *graph.Node) error {
	if root == nil {
		return nil
	}

	if s.shuttingDown.Load() {
		s.cfg.metrics.RecordNodeRejected(s.policy.String(), "shutdown")
		if s.cfg.rejectOnShutdown {
			return ErrSchedulerShutdown
		}
		s.cfg.rejectedHandler.HandleRejected("shutdown")
		return nil
	}

	node := root
	for node != nil {
		next := node.NextPeer
		node.NextPeer = nil
		s.enqueue(node)
		node = next
	}
	return nil
}

func (s *Scheduler) enqueue(n *graph.Node) {
	var idx int
	if n.Worker > 0 {
		idx = int(n.Worker % uint64(s.numWorkers))
	} else {
		idx = s.sel.selectQueue(s.queues, n)
	}
	s.queues[idx].Push(n)
}

func (s *Scheduler) runWorker(id int) {
	defer s.wg.Done()

	s.cfg.logger.Debug("worker started", F("worker", id))

	for {
		nodes := s.queues[id].Pop(s.step)
		if nodes == nil {
			s.cfg.logger.Debug("worker stopped", F("worker", id))
			return
		}

		for _, n := range nodes {
			s.execute(id, n)
		}

		runtime.Gosched()
	}
}

func (s *Scheduler) execute(workerID int, n *graph.Node) {
	start := time.Now()
	panicked := false

	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				stack := debug.Stack()
				s.cfg.panicHandler.HandlePanic(workerID, r, stack)
				s.cfg.metrics.RecordNodePanic(workerID, s.policy.String())
				s.cfg.logger.Warn("node panicked", F("worker", workerID), F("recovered", r))
				s.deliverToExceptionHandler(r)
			}
		}()
		if n.Action != nil {
			n.Action(context.Background())
		}
	}()

	finished := time.Now()
	s.cfg.metrics.RecordNodeDuration(workerID, s.policy.String(), finished.Sub(start))
	s.history.Add(NodeExecutionRecord{
		Worker:     workerID,
		Policy:     s.policy,
		Priority:   n.Priority,
		StartedAt:  start,
		FinishedAt: finished,
		Duration:   finished.Sub(start),
		Panicked:   panicked,
	})
	s.resolve(n)
}

func (s *Scheduler) resolve(n *graph.Node) {
	continuation := n.Continuation

	if n.Join != nil {
		if n.Join.Decrement() != 0 {
			return
		}
	}

	if continuation != nil {
		s.Post(continuation)
	}
}

func (s *Scheduler) deliverToExceptionHandler(recovered any) {
	if s.exceptionHandler == nil {
		return
	}

	handler := s.exceptionHandler
	root := graph.NewBuilder(
		func(ctx context.Context) { handler(ctx, recovered) },
		graph.WithWorker(s.exceptionWorker),
		graph.WithPriority(s.exceptionPriority),
	).Close()

	s.Post(root)
}

// Shutdown signals every worker to stop after draining its in-flight pop,
// unblocks any worker parked in a blocking Pop, and waits for all worker
// goroutines to exit or for ctx to be done, whichever comes first.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	if !s.shuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	s.cfg.logger.Info("scheduler shutting down")

	for _, q := range s.queues {
		q.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cfg.logger.Info("scheduler shutdown complete")
		return nil
	case <-ctx.Done():
		s.cfg.logger.Warn("scheduler shutdown deadline exceeded", F("error", ctx.Err()))
		return ctx.Err()
	}
}

// NumWorkers returns the configured worker count.
func (s *Scheduler) NumWorkers() int { return s.numWorkers }

// Policy returns the configured worker-selection policy.
func (s *Scheduler) Policy() Policy { return s.policy }

// QueueDepths returns each worker queue's current best-effort size, in
// worker-index order. Intended for observability (polling into Metrics),
// not for decisions inside the scheduler itself.
func (s *Scheduler) QueueDepths() []int {
	depths := make([]int, len(s.queues))
	for i, q := range s.queues {
		depths[i] = q.Size()
	}
	return depths
}

// History returns up to limit of the most recently completed node
// executions, most recent first. Only populated when the Scheduler was
// built with WithHistory; otherwise always empty.
func (s *Scheduler) History(limit int) []NodeExecutionRecord {
	return s.history.Recent(limit)
}
