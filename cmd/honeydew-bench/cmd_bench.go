package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Swind/honeydew/dispatch"
	"github.com/Swind/honeydew/internal/bench"
	prometheusexport "github.com/Swind/honeydew/observability/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	benchPolicy      string
	benchWorkers     int
	benchStep        int
	benchConfig      string
	benchMetricsAddr string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Replay a scenario file against a scheduler and report throughput",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchPolicy, "policy", "least_busy", "round_robin|round_robin_priority|least_busy|least_busy_priority")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 4, "number of worker goroutines")
	benchCmd.Flags().IntVar(&benchStep, "step", 0, "nodes drained per Pop; 0 drains everything available")
	benchCmd.Flags().StringVar(&benchConfig, "config", "", "path to a scenario YAML file (required)")
	benchCmd.Flags().StringVar(&benchMetricsAddr, "metrics-addr", "", "if set, serve Prometheus /metrics on this address")
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchConfig == "" {
		return fmt.Errorf("--config is required")
	}

	policy, err := parsePolicy(benchPolicy)
	if err != nil {
		return err
	}

	spec, err := bench.LoadScenario(benchConfig)
	if err != nil {
		return err
	}

	opts := []dispatch.Option{dispatch.WithHistory(256)}
	var poller *prometheusexport.SnapshotPoller

	if benchMetricsAddr != "" {
		exporter, err := prometheusexport.NewMetricsExporter("honeydew_bench", prometheus.DefaultRegisterer, prometheusexport.ExporterOptions{})
		if err != nil {
			return fmt.Errorf("metrics exporter: %w", err)
		}
		opts = append(opts, dispatch.WithMetrics(exporter))

		poller, err = prometheusexport.NewSnapshotPoller(prometheus.DefaultRegisterer, time.Second)
		if err != nil {
			return fmt.Errorf("snapshot poller: %w", err)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go http.ListenAndServe(benchMetricsAddr, mux)
		fmt.Printf("serving /metrics on %s\n", benchMetricsAddr)
	}

	scheduler := dispatch.New(policy, benchWorkers, benchStep, opts...)
	defer scheduler.Shutdown(context.Background())

	if poller != nil {
		poller.AddScheduler("bench", scheduler)
		poller.Start(context.Background())
		defer poller.Stop()
	}

	totalSteps := 0
	for i := 0; i < spec.Repeat; i++ {
		for _, g := range spec.Graphs {
			totalSteps += len(g.Steps)
		}
	}

	var completed atomic.Int64
	var wg sync.WaitGroup
	wg.Add(totalSteps)

	start := time.Now()
	if err := bench.Run(scheduler, spec, func(graphName string, stepIndex int) {
		completed.Add(1)
		wg.Done()
	}); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(time.Minute):
		return fmt.Errorf("bench run timed out, %d/%d steps completed", completed.Load(), totalSteps)
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d steps in %s (%.1f steps/sec)\n", completed.Load(), elapsed, float64(completed.Load())/elapsed.Seconds())
	for i, depth := range scheduler.QueueDepths() {
		fmt.Printf("worker %d final queue depth: %d\n", i, depth)
	}

	return nil
}
