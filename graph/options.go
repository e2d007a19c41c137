package graph

// NodeOption configures the worker affinity and priority delta of a single
// builder call, using the same functional-constructor convention as
// TaskTraits, generalized to the graph's two scalar fields instead of a
// traits struct.
type NodeOption func(*nodeConfig)

type nodeConfig struct {
	worker uint64
	delta  uint64
}

// WithWorker pins the node to worker (worker mod N); 0 (the default) leaves
// selection to the scheduler's policy.
func WithWorker(worker uint64) NodeOption {
	return func(c *nodeConfig) { c.worker = worker }
}

// WithPriority sets the priority delta for the call. For relative calls
// (Then, Also, Fork) this is added to the predecessor's priority; for
// absolute calls (ThenAbsolute, AlsoAbsolute, ForkAbsolute) it is used
// directly as the node's priority.
func WithPriority(delta uint64) NodeOption {
	return func(c *nodeConfig) { c.delta = delta }
}

func resolveConfig(opts []NodeOption) nodeConfig {
	var c nodeConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
