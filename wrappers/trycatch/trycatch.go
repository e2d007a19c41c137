// Package trycatch builds a single-node action around a fallible task,
// posting a success or failure graph depending on the returned error, or
// routing the error directly to a handler. Grounded on
// helpers/exception_task.hpp's ExceptionTask: close() either posts
// success/failure task pairs, or, if a handler was set, posts a task
// binding the handler to the caught exception.
package trycatch

import (
	"context"

	"github.com/Swind/honeydew/graph"
)

// Poster is the subset of *dispatch.Scheduler this package needs.
type Poster interface {
	Post(root *graph.Node) error
}

// Action returns a graph.Action that runs task and posts onSuccess if it
// returns a nil error, onFailure otherwise. Either graph may be nil.
func Action(poster Poster, task func(ctx context.Context) error, onSuccess, onFailure *graph.Node) graph.Action {
	return func(ctx context.Context) {
		if err := task(ctx); err != nil {
			if onFailure != nil {
				poster.Post(onFailure)
			}
			return
		}
		if onSuccess != nil {
			poster.Post(onSuccess)
		}
	}
}

// ActionWithHandler returns a graph.Action that runs task and, on error,
// posts a new node wrapping handler(ctx, err) through poster rather than
// posting a pre-built failure graph. opts configure that node's worker
// affinity and priority delta.
func ActionWithHandler(poster Poster, task func(ctx context.Context) error, handler func(ctx context.Context, err error), opts ...graph.NodeOption) graph.Action {
	return func(ctx context.Context) {
		err := task(ctx)
		if err == nil {
			return
		}
		root := graph.NewBuilder(func(ctx context.Context) {
			handler(ctx, err)
		}, opts...).Close()
		poster.Post(root)
	}
}
