// Package honeydew is a userspace task scheduler that dispatches
// short user-supplied actions across a fixed pool of workers. Work is
// described as task graphs: directed structures of actions linked by
// sequential continuation ("then"), synchronized concurrency with a join
// ("also"), and fire-and-forget concurrency ("fork").
//
// # Quick Start
//
//	s := honeydew.New(honeydew.LeastBusy, 4, 0)
//	defer s.Shutdown(context.Background())
//
//	root := honeydew.NewBuilder(func(ctx context.Context) {
//		// A
//	}).Also(func(ctx context.Context) {
//		// B
//	}).Then(func(ctx context.Context) {
//		// C, runs once A and B have both finished
//	}).Close()
//
//	s.Post(root)
//
// # Key Concepts
//
// Node: one schedulable action plus its priority, worker affinity,
// continuation and join-counter references.
//
// Builder: the fluent API (New/Then/Also/Fork and their Absolute and
// AlsoAbsolute/ForkAbsolute variants) that produces a graph.
//
// Scheduler: num_workers independent queues, one worker goroutine per
// queue, and a worker-selection policy (RoundRobin, RoundRobinPriority,
// LeastBusy, LeastBusyPriority) choosing a queue for every unpinned node.
//
// # Non-goals
//
// No work stealing between workers, no preemption of running actions, no
// persistence of a graph across process restarts, no guaranteed ordering
// across independently posted graphs, no strict priority: priority is
// best-effort.
package honeydew
