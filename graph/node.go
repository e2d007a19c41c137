// Package graph implements the task-graph data model: nodes linked by
// then/also/fork relationships and the join counters that gate continuations.
package graph

import (
	"context"
	"sync/atomic"
)

// Action is a user-supplied, zero-argument, no-return callable. The context
// carries only ambient values (logging correlation, deadlines set by external
// collaborators); the core scheduler never cancels it on the caller's behalf.
type Action func(ctx context.Context)

// Node is one schedulable unit in a task graph.
type Node struct {
	Action Action

	// Priority is unsigned; lower is higher priority.
	Priority uint64

	// Worker is affinity: 0 means "any worker, use policy"; >0 means
	// "worker index Worker mod N".
	Worker uint64

	// Continuation runs after this node, and all its also-peers, finish.
	Continuation *Node

	// Join is set exactly when this node is part of an also-group.
	Join *JoinCounter

	// NextPeer links to the next node in the also/fork group attached to
	// the same predecessor. Detached by the scheduler's Post before the
	// node is enqueued.
	NextPeer *Node
}

// JoinCounter gates a continuation behind every also-peer in one group
// finishing. It is shared by the peers and their common predecessor.
type JoinCounter struct {
	n atomic.Uint64
}

// NewJoinCounter creates a counter seeded with the number of participants.
func NewJoinCounter(participants uint64) *JoinCounter {
	jc := &JoinCounter{}
	jc.n.Store(participants)
	return jc
}

// Increment adds one more participant to the group. Used when a builder
// appends an additional also-peer to an already-open group.
func (j *JoinCounter) Increment() {
	j.n.Add(1)
}

// Decrement records one participant finishing and returns the remaining
// count. The caller whose decrement returns 0 owns releasing the
// continuation; the counter itself needs no explicit free in Go.
func (j *JoinCounter) Decrement() uint64 {
	return j.n.Add(^uint64(0))
}
