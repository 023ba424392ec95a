package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "monkeys-bench",
		Short: "Benchmark harness for the monkeys-go reactive engine",
		Long: `monkeys-bench drives synthetic workloads through the reactive
engine and reports throughput, delivery latency, and GC impact.

Workloads build a graph of cells, computed chains, and watchers, then
stream writes through it. Profiles scale the graph and write volume:

  • fast      - quick smoke run, small graph
  • standard  - typical application-sized graph
  • stress    - large graph, batched write storms`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
