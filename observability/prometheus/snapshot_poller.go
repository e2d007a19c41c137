package prometheus

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Swind/honeydew/dispatch"
	prom "github.com/prometheus/client_golang/prometheus"
)

// SchedulerSnapshotProvider is satisfied by *dispatch.Scheduler. Kept as an
// interface so tests can poll a fake without spinning up real workers.
type SchedulerSnapshotProvider interface {
	QueueDepths() []int
	Policy() dispatch.Policy
	NumWorkers() int
}

// SnapshotPoller periodically exports a Scheduler's QueueDepths() into a
// Prometheus gauge on a fixed interval. The Scheduler itself never calls
// Metrics.RecordQueueDepth, so this poll is what keeps per-worker depth
// gauges current.
type SnapshotPoller struct {
	interval time.Duration

	mu         sync.RWMutex
	schedulers map[string]SchedulerSnapshotProvider

	queueDepth *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collector.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	queueDepth := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "honeydew",
		Name:      "scheduler_queue_depth",
		Help:      "Polled per-worker queue depth, by scheduler name.",
	}, []string{"scheduler", "worker", "policy"})

	queueDepth, err := registerCollector(reg, queueDepth)
	if err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:   interval,
		schedulers: make(map[string]SchedulerSnapshotProvider),
		queueDepth: queueDepth,
	}, nil
}

// AddScheduler adds or replaces a scheduler snapshot provider by name.
func (p *SnapshotPoller) AddScheduler(name string, provider SchedulerSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "scheduler")
	p.mu.Lock()
	p.schedulers[name] = provider
	p.mu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for name, provider := range p.schedulers {
		policy := provider.Policy().String()
		for worker, depth := range provider.QueueDepths() {
			p.queueDepth.WithLabelValues(name, strconv.Itoa(worker), policy).Set(float64(depth))
		}
	}
}
