package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"
)

type gcStats struct {
	NumGC      uint32
	PauseTotal time.Duration
	HeapAlloc  uint64
}

func readGCStats() gcStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return gcStats{
		NumGC:      m.NumGC,
		PauseTotal: time.Duration(m.PauseTotalNs),
		HeapAlloc:  m.HeapAlloc,
	}
}

// report is the benchmark result, shaped for JSON consumption by the
// tooling that tracks runs over time.
type report struct {
	Profile   string    `json:"profile"`
	Timestamp time.Time `json:"timestamp"`

	Cells    int `json:"cells"`
	Depth    int `json:"depth"`
	Watchers int `json:"watchers"`
	Writes   int `json:"writes"`
	Batch    int `json:"batch"`

	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	WritesPerSecond float64 `json:"writes_per_second"`
	Deliveries      uint64  `json:"watcher_deliveries"`

	LatencyP50Micros float64 `json:"latency_p50_us"`
	LatencyP95Micros float64 `json:"latency_p95_us"`
	LatencyP99Micros float64 `json:"latency_p99_us"`
	LatencyMaxMicros float64 `json:"latency_max_us"`

	GCCycles        uint32  `json:"gc_cycles"`
	GCPauseMillis   float64 `json:"gc_pause_ms"`
	HeapAllocMbytes float64 `json:"heap_alloc_mb"`
}

func newReport(p profile, elapsed time.Duration, deliveries uint64,
	latencies []time.Duration, before, after gcStats) *report {

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	r := &report{
		Profile:         p.Name,
		Timestamp:       time.Now().UTC(),
		Cells:           p.Cells,
		Depth:           p.Depth,
		Watchers:        p.Watchers,
		Writes:          p.Writes,
		Batch:           p.Batch,
		ElapsedSeconds:  elapsed.Seconds(),
		WritesPerSecond: float64(p.Writes) / elapsed.Seconds(),
		Deliveries:      deliveries,
		GCCycles:        after.NumGC - before.NumGC,
		GCPauseMillis:   (after.PauseTotal - before.PauseTotal).Seconds() * 1000,
		HeapAllocMbytes: float64(after.HeapAlloc) / (1024 * 1024),
	}

	if len(latencies) > 0 {
		r.LatencyP50Micros = micros(percentile(latencies, 0.50))
		r.LatencyP95Micros = micros(percentile(latencies, 0.95))
		r.LatencyP99Micros = micros(percentile(latencies, 0.99))
		r.LatencyMaxMicros = micros(latencies[len(latencies)-1])
	}
	return r
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}

func micros(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1000
}

func (r *report) print() {
	fmt.Printf("elapsed:     %.2fs\n", r.ElapsedSeconds)
	fmt.Printf("throughput:  %.0f writes/s\n", r.WritesPerSecond)
	fmt.Printf("deliveries:  %d\n", r.Deliveries)
	fmt.Printf("latency:     p50=%.1fus p95=%.1fus p99=%.1fus max=%.1fus\n",
		r.LatencyP50Micros, r.LatencyP95Micros, r.LatencyP99Micros, r.LatencyMaxMicros)
	fmt.Printf("gc:          %d cycles, %.2fms pause, %.1fMB heap\n",
		r.GCCycles, r.GCPauseMillis, r.HeapAllocMbytes)
}

func (r *report) writeJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
