package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Swind/honeydew/graph"
)

// inlinePoster runs a posted graph synchronously and depth-first, which is
// enough to exercise then/also/fork/join ordering deterministically for
// these tests without a real scheduler.
type inlinePoster struct{}

func (inlinePoster) Post(root *graph.Node) error {
	runAll(root)
	return nil
}

func runAll(root *graph.Node) {
	for n := root; n != nil; {
		next := n.NextPeer
		n.NextPeer = nil
		run(n)
		n = next
	}
}

func run(n *graph.Node) {
	if n.Action != nil {
		n.Action(context.Background())
	}
	if n.Join != nil {
		if n.Join.Decrement() != 0 {
			return
		}
	}
	if n.Continuation != nil {
		runAll(n.Continuation)
	}
}

func TestStartThenChainsResult(t *testing.T) {
	p := Start[int](inlinePoster{}, func(ctx context.Context) (int, error) {
		return 2, nil
	})
	p2 := Then(p, func(ctx context.Context, in int, inErr error) (int, error) {
		return in * 10, inErr
	})

	var got int
	if err := Run(p2, func(ctx context.Context, result int, err error) {
		got = result
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got != 20 {
		t.Fatalf("got %d, want 20", got)
	}
}

func TestThenPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	p := Start[int](inlinePoster{}, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	p2 := Then(p, func(ctx context.Context, in int, inErr error) (string, error) {
		if inErr != nil {
			return "", inErr
		}
		return "unreachable", nil
	})

	var gotErr error
	Run(p2, func(ctx context.Context, result string, err error) {
		gotErr = err
	})

	if gotErr != boom {
		t.Fatalf("gotErr = %v, want %v", gotErr, boom)
	}
}

func TestAlsoJoinCombinesBranchResult(t *testing.T) {
	p := Start[int](inlinePoster{}, func(ctx context.Context) (int, error) {
		return 4, nil
	})

	branch := Also(p, func(ctx context.Context, in int, inErr error) (int, error) {
		return in * 100, nil
	})

	joined := Join(p, branch, func(ctx context.Context, main int, mainErr error, side int, sideErr error) (int, error) {
		return main + side, nil
	})

	var got int
	Run(joined, func(ctx context.Context, result int, err error) {
		got = result
	})

	if got != 404 {
		t.Fatalf("got %d, want 404 (4 + 4*100)", got)
	}
}

func TestForkDoesNotAffectMainResult(t *testing.T) {
	var mu sync.Mutex
	var forkSaw int

	p := Start[int](inlinePoster{}, func(ctx context.Context) (int, error) {
		return 7, nil
	})

	p = Fork(p, func(ctx context.Context, in int, inErr error) {
		mu.Lock()
		forkSaw = in
		mu.Unlock()
	})

	p2 := Then(p, func(ctx context.Context, in int, inErr error) (int, error) {
		return in + 1, nil
	})

	var got int
	Run(p2, func(ctx context.Context, result int, err error) {
		got = result
	})

	if got != 8 {
		t.Fatalf("got %d, want 8", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if forkSaw != 7 {
		t.Fatalf("forkSaw = %d, want 7", forkSaw)
	}
}
