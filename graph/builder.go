package graph

// Builder is the fluent API producing a graph from a sequence of
// then/also/fork calls. It tracks three cursors: root (the first node),
// leaf (the current tail for chaining continuations), and peerTail (the
// tail of the current also/fork peer chain attached under the node that
// held leaf when that chain started). pendingAlsoHead marks the start of
// an unterminated also-group so a following Then can fan its continuation
// out to every member.
type Builder struct {
	root            *Node
	leaf            *Node
	peerTail        *Node
	pendingAlsoHead *Node
}

// NewBuilder allocates a root node from action and returns a Builder ready
// for chaining. Equivalent to calling New on a zero-value Builder.
func NewBuilder(action Action, opts ...NodeOption) *Builder {
	b := &Builder{}
	return b.New(action, opts...)
}

// New allocates the root node. Calling New on a Builder that already has a
// root is a caller bug and panics with ErrAlreadyInitialised.
func (b *Builder) New(action Action, opts ...NodeOption) *Builder {
	if b.root != nil {
		panic(ErrAlreadyInitialised)
	}

	cfg := resolveConfig(opts)
	n := &Node{Action: action, Priority: cfg.delta, Worker: cfg.worker}

	b.root = n
	b.leaf = n
	b.peerTail = n
	b.pendingAlsoHead = nil
	return b
}

// Then appends a sequential continuation. Its priority is leaf.Priority +
// the delta given via WithPriority.
func (b *Builder) Then(action Action, opts ...NodeOption) *Builder {
	return b.then(action, opts, false)
}

// ThenAbsolute is Then, but the priority is the raw delta rather than
// leaf.Priority + delta.
func (b *Builder) ThenAbsolute(action Action, opts ...NodeOption) *Builder {
	return b.then(action, opts, true)
}

func (b *Builder) then(action Action, opts []NodeOption, absolute bool) *Builder {
	cfg := resolveConfig(opts)
	n := &Node{
		Action:   action,
		Priority: b.priorityFor(b.leaf, cfg.delta, absolute),
		Worker:   cfg.worker,
	}

	b.leaf.Continuation = n

	if b.pendingAlsoHead != nil {
		group := b.pendingAlsoHead.Join
		for peer := b.pendingAlsoHead; peer != nil; peer = peer.NextPeer {
			if peer.Join == group {
				peer.Continuation = n
			}
		}
		b.pendingAlsoHead = nil
	}

	b.leaf = n
	b.peerTail = n
	return b
}

// Also adds a node that runs concurrently with leaf (and any earlier
// also-peers attached to the same predecessor), gated behind a shared join
// counter that releases their common continuation once every peer has
// finished. Priority for every peer in a group is computed from the
// group-opening predecessor's priority, not chained peer to peer; see
// DESIGN.md for why this diverges from the literal source behaviour.
func (b *Builder) Also(action Action, opts ...NodeOption) *Builder {
	return b.also(action, opts, false)
}

// AlsoAbsolute is Also, but the priority is the raw delta.
func (b *Builder) AlsoAbsolute(action Action, opts ...NodeOption) *Builder {
	return b.also(action, opts, true)
}

func (b *Builder) also(action Action, opts []NodeOption, absolute bool) *Builder {
	cfg := resolveConfig(opts)

	var counter *JoinCounter
	if b.leaf.Join == nil {
		counter = NewJoinCounter(2)
		b.leaf.Join = counter
		b.pendingAlsoHead = b.leaf
	} else {
		counter = b.leaf.Join
		counter.Increment()
	}

	n := &Node{
		Action:   action,
		Priority: b.priorityFor(b.pendingAlsoHead, cfg.delta, absolute),
		Worker:   cfg.worker,
		Join:     counter,
	}

	b.peerTail.NextPeer = n
	b.peerTail = n
	b.leaf = n
	return b
}

// Fork adds a fire-and-forget peer: it runs alongside leaf but never
// participates in any join, so it cannot delay the common continuation.
func (b *Builder) Fork(action Action, opts ...NodeOption) *Builder {
	return b.fork(action, opts, false)
}

// ForkAbsolute is Fork, but the priority is the raw delta.
func (b *Builder) ForkAbsolute(action Action, opts ...NodeOption) *Builder {
	return b.fork(action, opts, true)
}

func (b *Builder) fork(action Action, opts []NodeOption, absolute bool) *Builder {
	cfg := resolveConfig(opts)
	n := &Node{
		Action:   action,
		Priority: b.priorityFor(b.leaf, cfg.delta, absolute),
		Worker:   cfg.worker,
	}

	b.peerTail.NextPeer = n
	b.peerTail = n
	return b
}

func (b *Builder) priorityFor(predecessor *Node, delta uint64, absolute bool) uint64 {
	if absolute || predecessor == nil {
		return delta
	}
	return predecessor.Priority + delta
}

// Close returns the root of the built graph and resets the builder so it
// holds no further references to it. Closing an empty (never-initialised,
// or already-closed) builder returns nil, representing an empty graph.
func (b *Builder) Close() *Node {
	root := b.root
	b.root = nil
	b.leaf = nil
	b.peerTail = nil
	b.pendingAlsoHead = nil
	return root
}
