package dispatch

// Option configures a Scheduler at construction time. Grounded on the
// teacher's TaskSchedulerConfig/DefaultTaskSchedulerConfig pattern
// (core/interfaces.go), translated to functional options since New already
// takes positional policy/numWorkers/step arguments.
type Option func(*config)

type config struct {
	logger            Logger
	metrics           Metrics
	panicHandler      PanicHandler
	rejectedHandler   RejectedHandler
	rejectOnShutdown  bool
	exceptionWorker   uint64
	exceptionPriority uint64
	historyCapacity   int
}

func defaultConfig() *config {
	return &config{
		logger:          &NoOpLogger{},
		metrics:         &NilMetrics{},
		panicHandler:    &DefaultPanicHandler{},
		rejectedHandler: &DefaultRejectedHandler{},
	}
}

// WithLogger plugs in a Logger. Defaults to NoOpLogger.
func WithLogger(l Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMetrics plugs in a Metrics sink. Defaults to NilMetrics.
func WithMetrics(m Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithPanicHandler overrides how a recovered panic is reported before being
// delivered to the uncaught-exception hook (if one is set).
func WithPanicHandler(h PanicHandler) Option {
	return func(c *config) { c.panicHandler = h }
}

// WithRejectedHandler overrides how a silently-dropped post is reported
// when WithRejectOnShutdown is not set.
func WithRejectedHandler(h RejectedHandler) Option {
	return func(c *config) { c.rejectedHandler = h }
}

// WithRejectOnShutdown makes Post return ErrSchedulerShutdown after
// shutdown instead of silently dropping the graph.
func WithRejectOnShutdown() Option {
	return func(c *config) { c.rejectOnShutdown = true }
}

// WithHistory retains the last capacity node executions for inspection via
// Scheduler.History. Without this option, no execution history is kept.
func WithHistory(capacity int) Option {
	return func(c *config) { c.historyCapacity = capacity }
}
