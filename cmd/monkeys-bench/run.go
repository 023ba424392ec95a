package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/MonkeysCloud/monkeys-go/pkg/metrics"
	"github.com/MonkeysCloud/monkeys-go/pkg/reactive"
)

type profile struct {
	Name     string
	Cells    int
	Depth    int // computed chain depth per cell
	Watchers int
	Writes   int
	Batch    int // writes grouped per batch; 1 means bare writes
}

var profiles = map[string]profile{
	"fast": {
		Name:     "fast",
		Cells:    100,
		Depth:    2,
		Watchers: 100,
		Writes:   10_000,
		Batch:    1,
	},
	"standard": {
		Name:     "standard",
		Cells:    1_000,
		Depth:    3,
		Watchers: 1_000,
		Writes:   100_000,
		Batch:    10,
	},
	"stress": {
		Name:     "stress",
		Cells:    5_000,
		Depth:    4,
		Watchers: 5_000,
		Writes:   1_000_000,
		Batch:    100,
	},
}

func runCmd() *cobra.Command {
	var (
		profileName string
		cells       int
		depth       int
		watchers    int
		writes      int
		batchSize   int
		jsonOut     string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a benchmark profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := profiles[profileName]
			if !ok {
				return fmt.Errorf("unknown profile %q (want fast, standard, or stress)", profileName)
			}

			// Flag overrides
			if cells > 0 {
				p.Cells = cells
			}
			if depth > 0 {
				p.Depth = depth
			}
			if watchers >= 0 {
				p.Watchers = watchers
			}
			if writes > 0 {
				p.Writes = writes
			}
			if batchSize > 0 {
				p.Batch = batchSize
			}

			if metricsAddr != "" {
				reactive.SetInstrument(metrics.New())
				go serveMetrics(metricsAddr)
			}

			fmt.Printf("profile %s: %d cells, depth %d, %d watchers, %d writes (batch %d)\n",
				p.Name, p.Cells, p.Depth, p.Watchers, p.Writes, p.Batch)

			report := runBenchmark(p)
			report.print()

			if jsonOut != "" {
				if err := report.writeJSON(jsonOut); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				fmt.Printf("report written to %s\n", jsonOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "fast", "benchmark profile (fast, standard, stress)")
	cmd.Flags().IntVar(&cells, "cells", 0, "override cell count")
	cmd.Flags().IntVar(&depth, "depth", 0, "override computed chain depth")
	cmd.Flags().IntVar(&watchers, "watchers", -1, "override watcher count")
	cmd.Flags().IntVar(&writes, "writes", 0, "override write count")
	cmd.Flags().IntVar(&batchSize, "batch", 0, "override writes per batch")
	cmd.Flags().StringVar(&jsonOut, "json", "", "write the report as JSON to this path")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")

	return cmd
}

// runBenchmark builds the reactive graph for p, streams writes through
// it, and collects per-write latencies.
func runBenchmark(p profile) *report {
	scope := reactive.NewScope(nil)
	defer scope.Dispose()

	cells := make([]*reactive.Cell[int], p.Cells)
	tails := make([]*reactive.Computed[int], p.Cells)
	var deliveries uint64

	scope.Run(func() {
		for i := range cells {
			cell := reactive.NewCell(0)
			cells[i] = cell

			// A chain of computeds hangs off each cell; watchers observe
			// the tail so every write walks the whole depth.
			tail := reactive.NewComputed(func() int { return cell.Get() + 1 })
			for d := 1; d < p.Depth; d++ {
				prev := tail
				tail = reactive.NewComputed(func() int { return prev.Get() + 1 })
			}
			tails[i] = tail
		}

		for i := 0; i < p.Watchers; i++ {
			reactive.Watch(tails[i%len(tails)], func(_, _ any, _ func(func())) {
				deliveries++
			})
		}
	})

	latencies := make([]time.Duration, 0, p.Writes/max(p.Batch, 1)+1)
	gcBefore := readGCStats()
	start := time.Now()

	written := 0
	value := 1
	for written < p.Writes {
		n := min(p.Batch, p.Writes-written)
		target := written % len(cells)

		writeStart := time.Now()
		if n == 1 {
			cells[target].Set(value)
		} else {
			reactive.Batch(func() {
				for j := 0; j < n; j++ {
					cells[(target+j)%len(cells)].Set(value)
				}
			})
		}
		latencies = append(latencies, time.Since(writeStart))

		written += n
		value++
	}

	elapsed := time.Since(start)
	gcAfter := readGCStats()

	return newReport(p, elapsed, deliveries, latencies, gcBefore, gcAfter)
}

func serveMetrics(addr string) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())

	slog.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("metrics server failed", "error", err)
	}
}
