package graph

import (
	"context"
	"testing"
)

func TestBuilderLinearChain(t *testing.T) {
	var order []string
	mark := func(name string) Action {
		return func(ctx context.Context) { order = append(order, name) }
	}

	root := NewBuilder(mark("A")).
		Then(mark("B")).
		Then(mark("C")).
		Close()

	if root.Continuation == nil || root.Continuation.Continuation == nil {
		t.Fatalf("expected a 3-node then-chain")
	}
	if root.Join != nil {
		t.Fatalf("linear chain must have no join")
	}
}

func TestBuilderAlsoGroupSharesJoinAndContinuation(t *testing.T) {
	root := NewBuilder(noopAction()).
		Also(noopAction()).
		Also(noopAction()).
		Then(noopAction()).
		Close()

	b := root.NextPeer
	c := b.NextPeer
	if b == nil || c == nil || c.NextPeer != nil {
		t.Fatalf("expected exactly two also-peers chained off root")
	}
	if root.Join == nil || root.Join != b.Join || b.Join != c.Join {
		t.Fatalf("also-group members must share one join counter")
	}
	if root.Continuation == nil || root.Continuation != b.Continuation || b.Continuation != c.Continuation {
		t.Fatalf("also-group members must share the same continuation after Then")
	}
}

func TestBuilderAlsoPriorityComputedFromGroupPredecessor(t *testing.T) {
	root := NewBuilder(noopAction(), WithPriority(10)).
		Also(noopAction(), WithPriority(1)).
		Also(noopAction(), WithPriority(2)).
		Close()

	b := root.NextPeer
	c := b.NextPeer

	if root.Priority != 10 {
		t.Fatalf("root priority = %d, want 10", root.Priority)
	}
	if b.Priority != 11 {
		t.Fatalf("first also-peer priority = %d, want 11 (predecessor 10 + delta 1)", b.Priority)
	}
	if c.Priority != 12 {
		t.Fatalf("second also-peer priority = %d, want 12 (predecessor 10 + delta 2, not chained through b)", c.Priority)
	}
}

func TestBuilderForkDoesNotMoveLeaf(t *testing.T) {
	root := NewBuilder(noopAction()).
		Fork(noopAction()).
		Then(noopAction()).
		Close()

	forkPeer := root.NextPeer
	if forkPeer == nil {
		t.Fatalf("expected fork peer attached to root")
	}
	if forkPeer.Join != nil {
		t.Fatalf("fork peer must not have a join counter")
	}
	if root.Continuation == nil {
		t.Fatalf("root must still get the continuation from Then, unaffected by Fork")
	}
	if forkPeer.Continuation != nil {
		t.Fatalf("fork peer must not share the continuation")
	}
}

func TestBuilderAbsolutePriorityIgnoresPredecessor(t *testing.T) {
	root := NewBuilder(noopAction(), WithPriority(100)).
		ThenAbsolute(noopAction(), WithPriority(3)).
		Close()

	if root.Continuation.Priority != 3 {
		t.Fatalf("absolute priority = %d, want 3", root.Continuation.Priority)
	}
}

func TestBuilderDoubleNewPanics(t *testing.T) {
	b := NewBuilder(noopAction())

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on double New")
		}
	}()
	b.New(noopAction())
}

func TestBuilderCloseIsIdempotentOnEmptyBuilder(t *testing.T) {
	b := &Builder{}
	if got := b.Close(); got != nil {
		t.Fatalf("Close on never-initialised builder: got %v, want nil", got)
	}
	if got := b.Close(); got != nil {
		t.Fatalf("Close twice: got %v, want nil", got)
	}
}

func TestBuilderWorkerAffinityPropagatesToNode(t *testing.T) {
	root := NewBuilder(noopAction(), WithWorker(3)).Close()
	if root.Worker != 3 {
		t.Fatalf("worker affinity = %d, want 3", root.Worker)
	}
}

func noopAction() Action {
	return func(ctx context.Context) {}
}
