// Package metrics provides a Prometheus-backed reactive.Instrument.
// Install it once at startup:
//
//	reactive.SetInstrument(metrics.New())
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MonkeysCloud/monkeys-go/pkg/reactive"
)

// Config configures the Prometheus instrument.
type Config struct {
	// Namespace is the metrics namespace (default: "monkeys").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reactive").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// DurationBuckets are the histogram buckets for computation and
	// flush durations, in seconds. Reactive work is fast; the defaults
	// are sub-millisecond heavy.
	DurationBuckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus instrument.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithDurationBuckets sets the duration histogram buckets.
func WithDurationBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.DurationBuckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "monkeys",
		Subsystem: "reactive",
		DurationBuckets: []float64{
			.000001, .00001, .0001, .001, .01, .1, 1,
		},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Instrument is the Prometheus implementation of reactive.Instrument.
type Instrument struct {
	computationsTotal   prometheus.Counter
	computationDuration prometheus.Histogram
	triggersTotal       *prometheus.CounterVec
	listenersNotified   prometheus.Histogram
	invalidationsTotal  prometheus.Counter
	watcherDeliveries   *prometheus.CounterVec
	flushesTotal        prometheus.Counter
	flushJobs           prometheus.Histogram
	flushDuration       prometheus.Histogram
}

var _ reactive.Instrument = (*Instrument)(nil)

// New creates the instrument and registers its collectors.
// Registering two instruments on the same registry is a registration
// error; create at most one per registry.
func New(opts ...Option) *Instrument {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Instrument{
		computationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computations_total",
			Help:        "Total number of computation runs",
			ConstLabels: config.ConstLabels,
		}),

		computationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computation_duration_seconds",
			Help:        "Computation run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.DurationBuckets,
		}),

		triggersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of container and cell triggers",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		listenersNotified: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners_notified",
			Help:        "Listeners notified per trigger",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 25, 100, 1000},
		}),

		invalidationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computed_invalidations_total",
			Help:        "Total number of computed cache invalidations",
			ConstLabels: config.ConstLabels,
		}),

		watcherDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_deliveries_total",
			Help:        "Total number of watcher callback deliveries",
			ConstLabels: config.ConstLabels,
		}, []string{"flush"}),

		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of non-empty flush cycles",
			ConstLabels: config.ConstLabels,
		}),

		flushJobs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_jobs",
			Help:        "Jobs executed per flush cycle",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 5, 10, 25, 100, 1000},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush cycle duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.DurationBuckets,
		}),
	}
}

// ComputationRan implements reactive.Instrument.
func (m *Instrument) ComputationRan(id uint64, d time.Duration) {
	m.computationsTotal.Inc()
	m.computationDuration.Observe(d.Seconds())
}

// Triggered implements reactive.Instrument.
func (m *Instrument) Triggered(kind reactive.ChangeKind, key string, notified int) {
	m.triggersTotal.WithLabelValues(kind.String()).Inc()
	m.listenersNotified.Observe(float64(notified))
}

// ComputedInvalidated implements reactive.Instrument.
func (m *Instrument) ComputedInvalidated(id uint64) {
	m.invalidationsTotal.Inc()
}

// WatcherFired implements reactive.Instrument.
func (m *Instrument) WatcherFired(id uint64, mode reactive.FlushMode) {
	m.watcherDeliveries.WithLabelValues(mode.String()).Inc()
}

// FlushCompleted implements reactive.Instrument.
func (m *Instrument) FlushCompleted(jobs int, d time.Duration) {
	m.flushesTotal.Inc()
	m.flushJobs.Observe(float64(jobs))
	m.flushDuration.Observe(d.Seconds())
}
