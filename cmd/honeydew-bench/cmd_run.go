package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Swind/honeydew/dispatch"
	"github.com/Swind/honeydew/graph"
	prometheusexport "github.com/Swind/honeydew/observability/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	runPolicy      string
	runWorkers     int
	runStep        int
	runMetricsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Post one demo graph (also then join) and print the order nodes ran in",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runPolicy, "policy", "least_busy", "round_robin|round_robin_priority|least_busy|least_busy_priority")
	runCmd.Flags().IntVar(&runWorkers, "workers", 4, "number of worker goroutines")
	runCmd.Flags().IntVar(&runStep, "step", 0, "nodes drained per Pop; 0 drains everything available")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "if set, serve Prometheus /metrics on this address")
}

func runRun(cmd *cobra.Command, args []string) error {
	policy, err := parsePolicy(runPolicy)
	if err != nil {
		return err
	}

	opts := []dispatch.Option{dispatch.WithHistory(32)}

	if runMetricsAddr != "" {
		exporter, err := prometheusexport.NewMetricsExporter("honeydew_bench", prometheus.DefaultRegisterer, prometheusexport.ExporterOptions{})
		if err != nil {
			return fmt.Errorf("metrics exporter: %w", err)
		}
		opts = append(opts, dispatch.WithMetrics(exporter))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go http.ListenAndServe(runMetricsAddr, mux)
		fmt.Printf("serving /metrics on %s\n", runMetricsAddr)
	}

	scheduler := dispatch.New(policy, runWorkers, runStep, opts...)
	defer scheduler.Shutdown(context.Background())

	done := make(chan struct{})
	record := func(name string) graph.Action {
		return func(ctx context.Context) {
			fmt.Printf("ran: %s\n", name)
		}
	}

	root := graph.NewBuilder(record("A")).
		Also(record("B")).
		Then(func(ctx context.Context) {
			record("C (join continuation)")(ctx)
			close(done)
		}).
		Close()

	if err := scheduler.Post(root); err != nil {
		return err
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		return fmt.Errorf("demo graph never completed")
	}

	for _, rec := range scheduler.History(0) {
		fmt.Printf("worker=%d policy=%s duration=%s panicked=%v\n", rec.Worker, rec.Policy, rec.Duration, rec.Panicked)
	}

	return nil
}
