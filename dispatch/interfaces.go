package dispatch

import "time"

// PanicHandler is invoked when a node's action panics during execution.
// Implementations must be safe for concurrent use from any worker.
type PanicHandler interface {
	HandlePanic(workerID int, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler prints to stderr.
type DefaultPanicHandler struct{}

func (h *DefaultPanicHandler) HandlePanic(workerID int, panicInfo any, stackTrace []byte) {
	println("[worker", workerID, "] panic:", toString(panicInfo), "\n", string(stackTrace))
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "unrecognized panic value"
}

// Metrics records scheduler-level observability events. All methods must be
// non-blocking and fast; implementations should tolerate being called
// concurrently from every worker.
type Metrics interface {
	RecordNodeDuration(worker int, policy string, duration time.Duration)
	RecordNodePanic(worker int, policy string)
	RecordQueueDepth(worker int, policy string, depth int)
	RecordNodeRejected(policy string, reason string)
}

// NilMetrics is the default no-op implementation.
type NilMetrics struct{}

func (m *NilMetrics) RecordNodeDuration(worker int, policy string, duration time.Duration) {}
func (m *NilMetrics) RecordNodePanic(worker int, policy string)                            {}
func (m *NilMetrics) RecordQueueDepth(worker int, policy string, depth int)                {}
func (m *NilMetrics) RecordNodeRejected(policy string, reason string)                      {}

// RejectedHandler is called when Post is rejected because the scheduler has
// already shut down and WithRejectOnShutdown was not set (so the rejection
// would otherwise be a silent drop).
type RejectedHandler interface {
	HandleRejected(reason string)
}

// DefaultRejectedHandler prints the rejection to stderr.
type DefaultRejectedHandler struct{}

func (h *DefaultRejectedHandler) HandleRejected(reason string) {
	println("node rejected:", reason)
}
