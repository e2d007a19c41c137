// honeydew-bench is a small CLI driving the scheduler as a runnable
// load-generator/demo: a single Cobra-based command tree with a "run"
// demo subcommand and a "bench" scenario-driven load test.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "honeydew-bench",
	Short: "Drive a honeydew task-graph scheduler from the command line",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
