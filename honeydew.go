package honeydew

import (
	"github.com/Swind/honeydew/dispatch"
	"github.com/Swind/honeydew/graph"
)

// Re-exported so most callers only need to import the root package.

// Action is a user-supplied, zero-argument, no-return callable.
type Action = graph.Action

// Node is one schedulable unit in a task graph.
type Node = graph.Node

// NodeOption configures a single builder call's worker affinity and
// priority delta.
type NodeOption = graph.NodeOption

// Builder is the fluent API that produces a graph from a sequence of
// then/also/fork calls.
type Builder = graph.Builder

// Scheduler dispatches posted graphs across its worker pool.
type Scheduler = dispatch.Scheduler

// Policy selects a worker-selection strategy for unpinned nodes.
type Policy = dispatch.Policy

// Policy constants.
const (
	RoundRobin         = dispatch.RoundRobin
	RoundRobinPriority = dispatch.RoundRobinPriority
	LeastBusy          = dispatch.LeastBusy
	LeastBusyPriority  = dispatch.LeastBusyPriority
)

// Option configures a Scheduler at construction time.
type Option = dispatch.Option

var (
	WithLogger           = dispatch.WithLogger
	WithMetrics          = dispatch.WithMetrics
	WithPanicHandler     = dispatch.WithPanicHandler
	WithRejectedHandler  = dispatch.WithRejectedHandler
	WithRejectOnShutdown = dispatch.WithRejectOnShutdown
	WithHistory          = dispatch.WithHistory
)

// NodeExecutionRecord describes one completed node execution, retained by a
// Scheduler built with WithHistory.
type NodeExecutionRecord = dispatch.NodeExecutionRecord

// Logger, Field, and the handler/metrics interfaces, re-exported for
// callers that only import the root package.
type (
	Logger          = dispatch.Logger
	Field           = dispatch.Field
	PanicHandler    = dispatch.PanicHandler
	Metrics         = dispatch.Metrics
	RejectedHandler = dispatch.RejectedHandler
)

var F = dispatch.F

var (
	DefaultLogger          = func() *dispatch.DefaultLogger { return dispatch.NewDefaultLogger(nil) }
	NoOpLogger             = func() *dispatch.NoOpLogger { return &dispatch.NoOpLogger{} }
	DefaultPanicHandler    = func() *dispatch.DefaultPanicHandler { return &dispatch.DefaultPanicHandler{} }
	DefaultRejectedHandler = func() *dispatch.DefaultRejectedHandler { return &dispatch.DefaultRejectedHandler{} }
	NilMetrics             = func() *dispatch.NilMetrics { return &dispatch.NilMetrics{} }
)

// ErrSchedulerShutdown is returned by Post when WithRejectOnShutdown is set
// and the scheduler has already shut down.
var ErrSchedulerShutdown = dispatch.ErrSchedulerShutdown

// ErrAlreadyInitialised is the panic value raised when New is called on a
// Builder that already has a root.
var ErrAlreadyInitialised = graph.ErrAlreadyInitialised

// New constructs a Scheduler with policy worker-selection, numWorkers
// workers and the given step size (0 means "drain everything available per
// pop").
func New(policy Policy, numWorkers, step int, opts ...Option) *Scheduler {
	return dispatch.New(policy, numWorkers, step, opts...)
}

// NewBuilder allocates a root node from action and returns a Builder ready
// for chaining.
func NewBuilder(action Action, opts ...NodeOption) *Builder {
	return graph.NewBuilder(action, opts...)
}

// WithWorker pins a node to worker (worker mod N).
func WithWorker(worker uint64) NodeOption {
	return graph.WithWorker(worker)
}

// WithPriority sets the priority delta for a builder call.
func WithPriority(delta uint64) NodeOption {
	return graph.WithPriority(delta)
}
