// Package tracing provides an OpenTelemetry-backed reactive.Instrument.
// It emits a span per flush cycle and per slow computation run, so
// reactive work shows up in the host application's traces:
//
//	reactive.SetInstrument(tracing.New())
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MonkeysCloud/monkeys-go/pkg/reactive"
)

// Default tracer name for the reactive engine.
const defaultTracerName = "monkeys-go/reactive"

// Config configures the OpenTelemetry instrument.
type Config struct {
	// TracerName is the name of the tracer (default: "monkeys-go/reactive").
	TracerName string

	// MinComputationDuration is the threshold below which computation
	// runs are not recorded as spans. Reactive computations are usually
	// microsecond-scale; recording all of them would flood the trace.
	// Default: 1ms.
	MinComputationDuration time.Duration

	// RecordFlushes emits a span per non-empty flush cycle.
	// Enabled by default.
	RecordFlushes bool

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// Option configures the OpenTelemetry instrument.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithMinComputationDuration sets the slow-computation span threshold.
func WithMinComputationDuration(d time.Duration) Option {
	return func(c *Config) {
		c.MinComputationDuration = d
	}
}

// WithRecordFlushes enables or disables per-flush spans.
func WithRecordFlushes(record bool) Option {
	return func(c *Config) {
		c.RecordFlushes = record
	}
}

func defaultConfig() Config {
	return Config{
		TracerName:             defaultTracerName,
		MinComputationDuration: time.Millisecond,
		RecordFlushes:          true,
	}
}

// Instrument is the OpenTelemetry implementation of reactive.Instrument.
// Spans are emitted retrospectively: the engine reports durations after
// the fact, so each span is created with a back-dated start time.
type Instrument struct {
	config Config
}

var _ reactive.Instrument = (*Instrument)(nil)

// New creates the instrument using the global tracer provider.
func New(opts ...Option) *Instrument {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return &Instrument{config: config}
}

// ComputationRan implements reactive.Instrument. Runs faster than the
// configured threshold are not recorded.
func (t *Instrument) ComputationRan(id uint64, d time.Duration) {
	if d < t.config.MinComputationDuration {
		return
	}

	_, span := t.config.tracer.Start(context.Background(), "reactive.computation",
		trace.WithTimestamp(time.Now().Add(-d)))
	span.SetAttributes(
		attribute.Int64("reactive.computation.id", int64(id)),
		attribute.Int64("reactive.computation.duration_us", d.Microseconds()),
	)
	span.End()
}

// Triggered implements reactive.Instrument. Individual triggers are too
// fine-grained for spans; they surface through the metrics package.
func (t *Instrument) Triggered(kind reactive.ChangeKind, key string, notified int) {}

// ComputedInvalidated implements reactive.Instrument. Invalidation is a
// flag flip; not recorded.
func (t *Instrument) ComputedInvalidated(id uint64) {}

// WatcherFired implements reactive.Instrument. Delivery work is already
// covered by the computation and flush spans.
func (t *Instrument) WatcherFired(id uint64, mode reactive.FlushMode) {}

// FlushCompleted implements reactive.Instrument.
func (t *Instrument) FlushCompleted(jobs int, d time.Duration) {
	if !t.config.RecordFlushes {
		return
	}

	_, span := t.config.tracer.Start(context.Background(), "reactive.flush",
		trace.WithTimestamp(time.Now().Add(-d)))
	span.SetAttributes(
		attribute.Int("reactive.flush.jobs", jobs),
	)
	span.End()
}
