// Package pipeline threads a typed result through a chain of task-graph
// stages. Grounded on two teacher sources: the happens-before closure
// capture trick from core/task_and_reply.go (PostTaskAndReplyWithResult),
// generalized from a single task/reply pair to an arbitrary-length chain,
// and the then/also/fork/join vocabulary of helpers/pipeline.hpp, adapted
// from its heap-allocated shared result pointers to ordinary Go closures
// since the underlying graph.Builder already guarantees the happens-before
// edge between a stage and what follows it.
package pipeline

import (
	"context"

	"github.com/Swind/honeydew/graph"
)

// Poster is the subset of *dispatch.Scheduler a pipeline needs to run.
type Poster interface {
	Post(root *graph.Node) error
}

// Pipeline threads a value of type T through a chain of stages built on a
// single graph.Builder. Each stage's result is captured by the next one's
// closure; by the time a later stage runs, the earlier stage has already
// completed (via Then's continuation edge or Join's join-counter), so the
// read is race-free without its own synchronization.
type Pipeline[T any] struct {
	poster Poster
	b      *graph.Builder
	result *T
	err    *error
}

// Start begins a pipeline with task as the root stage.
func Start[T any](poster Poster, task func(ctx context.Context) (T, error), opts ...graph.NodeOption) *Pipeline[T] {
	var result T
	var err error
	b := graph.NewBuilder(func(ctx context.Context) {
		result, err = task(ctx)
	}, opts...)
	return &Pipeline[T]{poster: poster, b: b, result: &result, err: &err}
}

// Then appends a stage that consumes the previous stage's result and error
// and produces a new, possibly differently-typed, result.
func Then[In, Out any](p *Pipeline[In], task func(ctx context.Context, in In, inErr error) (Out, error), opts ...graph.NodeOption) *Pipeline[Out] {
	var result Out
	var err error
	prevResult, prevErr := p.result, p.err

	p.b.Then(func(ctx context.Context) {
		result, err = task(ctx, *prevResult, *prevErr)
	}, opts...)

	return &Pipeline[Out]{poster: p.poster, b: p.b, result: &result, err: &err}
}

// Fork runs task alongside whatever comes after it in the pipeline, without
// gating the pipeline's continuation on task finishing. task observes the
// pipeline's current result but cannot feed a value back into the chain.
func Fork[T any](p *Pipeline[T], task func(ctx context.Context, in T, inErr error), opts ...graph.NodeOption) *Pipeline[T] {
	result, err := p.result, p.err
	// A pass-through stage lets the fork start only once the current stage
	// has produced its result.
	p.b.Then(func(ctx context.Context) {})
	p.b.Fork(func(ctx context.Context) {
		task(ctx, *result, *err)
	}, opts...)
	return p
}

// Branch is a side result produced by Also, captured for later combination
// with Join. A Branch that is never Joined is still executed; its result is
// simply discarded.
type Branch[T any] struct {
	result *T
	err    *error
}

// Also runs task on the pipeline's current result, once the current stage
// has finished: task is an also-peer of a pass-through stage appended after
// it, and the shared join counter holds whatever the main chain attaches
// next via Then (or Join) until both finish.
func Also[In, T any](p *Pipeline[In], task func(ctx context.Context, in In, inErr error) (T, error), opts ...graph.NodeOption) *Branch[T] {
	var result T
	var err error
	mainResult, mainErr := p.result, p.err

	p.b.Then(func(ctx context.Context) {})
	p.b.Also(func(ctx context.Context) {
		result, err = task(ctx, *mainResult, *mainErr)
	}, opts...)

	return &Branch[T]{result: &result, err: &err}
}

// Join appends a stage that combines the main chain's current result with
// a Branch produced earlier by Also. Safe to call only after the Also that
// produced branch was attached to the same Pipeline (directly or through
// intervening Then/Fork calls) and before any further Then detaches the
// join by moving the leaf past it.
func Join[In, Side, Out any](p *Pipeline[In], branch *Branch[Side], task func(ctx context.Context, main In, mainErr error, side Side, sideErr error) (Out, error), opts ...graph.NodeOption) *Pipeline[Out] {
	var result Out
	var err error
	mainResult, mainErr := p.result, p.err
	sideResult, sideErr := branch.result, branch.err

	p.b.Then(func(ctx context.Context) {
		result, err = task(ctx, *mainResult, *mainErr, *sideResult, *sideErr)
	}, opts...)

	return &Pipeline[Out]{poster: p.poster, b: p.b, result: &result, err: &err}
}

// Run appends reply as the final stage and posts the whole pipeline to its
// Poster. reply observes the last stage's result and error.
func Run[T any](p *Pipeline[T], reply func(ctx context.Context, result T, err error), opts ...graph.NodeOption) error {
	result, err := p.result, p.err
	p.b.Then(func(ctx context.Context) {
		reply(ctx, *result, *err)
	}, opts...)
	return p.poster.Post(p.b.Close())
}
