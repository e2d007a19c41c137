package prometheus

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Swind/honeydew/dispatch"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts dispatch.Metrics to Prometheus collectors, labeled
// by worker index and worker-selection policy rather than by runner name
// or type.
type MetricsExporter struct {
	nodeDurationSeconds *prom.HistogramVec
	nodePanicTotal      *prom.CounterVec
	nodeRejectedTotal   *prom.CounterVec
	queueDepth          *prom.GaugeVec
}

var _ dispatch.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for
// dispatch.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "honeydew"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "node_duration_seconds",
		Help:      "Node execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"worker", "policy"})
	panicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "node_panic_total",
		Help:      "Total number of node panics.",
	}, []string{"worker", "policy"})
	rejectedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "node_rejected_total",
		Help:      "Total number of rejected Post calls.",
	}, []string{"policy", "reason"})
	queueDepthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current per-worker queue depth.",
	}, []string{"worker", "policy"})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if panicVec, err = registerCollector(reg, panicVec); err != nil {
		return nil, err
	}
	if rejectedVec, err = registerCollector(reg, rejectedVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		nodeDurationSeconds: durationVec,
		nodePanicTotal:      panicVec,
		nodeRejectedTotal:   rejectedVec,
		queueDepth:          queueDepthVec,
	}, nil
}

// RecordNodeDuration records a node's execution duration.
func (m *MetricsExporter) RecordNodeDuration(worker int, policy string, duration time.Duration) {
	if m == nil {
		return
	}
	m.nodeDurationSeconds.WithLabelValues(workerLabel(worker), normalizeLabel(policy, "unknown")).Observe(duration.Seconds())
}

// RecordNodePanic records a node panic event.
func (m *MetricsExporter) RecordNodePanic(worker int, policy string) {
	if m == nil {
		return
	}
	m.nodePanicTotal.WithLabelValues(workerLabel(worker), normalizeLabel(policy, "unknown")).Inc()
}

// RecordQueueDepth records a point-in-time queue depth sample.
func (m *MetricsExporter) RecordQueueDepth(worker int, policy string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(workerLabel(worker), normalizeLabel(policy, "unknown")).Set(float64(depth))
}

// RecordNodeRejected records a Post rejected due to shutdown.
func (m *MetricsExporter) RecordNodeRejected(policy string, reason string) {
	if m == nil {
		return
	}
	m.nodeRejectedTotal.WithLabelValues(normalizeLabel(policy, "unknown"), normalizeLabel(reason, "unknown")).Inc()
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func workerLabel(worker int) string {
	return strconv.Itoa(worker)
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
