// Package conditional builds a single-node action that evaluates a
// predicate and posts one of two pre-built graphs depending on the
// result. Grounded on helpers/conditional_task.hpp's ConditionalTask,
// whose close() evaluates a copied predicate and posts true_task or
// false_task, discarding the other.
package conditional

import (
	"context"

	"github.com/Swind/honeydew/graph"
)

// Poster is the subset of *dispatch.Scheduler this package needs.
type Poster interface {
	Post(root *graph.Node) error
}

// Action returns a graph.Action that evaluates predicate and posts
// whenTrue or whenFalse through poster. Either graph may be nil, in which
// case that branch simply posts nothing.
func Action(poster Poster, predicate func(ctx context.Context) bool, whenTrue, whenFalse *graph.Node) graph.Action {
	return func(ctx context.Context) {
		if predicate(ctx) {
			if whenTrue != nil {
				poster.Post(whenTrue)
			}
			return
		}
		if whenFalse != nil {
			poster.Post(whenFalse)
		}
	}
}
