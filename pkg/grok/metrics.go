package grok

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCompile records one compile attempt and how long it took.
	RecordCompile(ctx context.Context, success bool, duration time.Duration)

	// RecordCacheHit records a Build answered from the cache.
	RecordCacheHit(ctx context.Context)

	// RecordMatch records one line matched against a compiled expression.
	RecordMatch(ctx context.Context, matched bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	compilations   metric.Int64Counter
	compileLatency metric.Float64Histogram
	cacheHits      metric.Int64Counter
	matches        metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily creates the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("github.com/logacu/acu-go/pkg/grok")

	compilations, err := meter.Int64Counter("grok.compilations",
		metric.WithDescription("Number of expression compile attempts"),
	)
	if err != nil {
		return nil, err
	}

	compileLatency, err := meter.Float64Histogram("grok.compile.latency_ms",
		metric.WithDescription("Expression compile latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter("grok.cache.hits",
		metric.WithDescription("Number of builds answered from the cache"),
	)
	if err != nil {
		return nil, err
	}

	matches, err := meter.Int64Counter("grok.matches",
		metric.WithDescription("Number of lines matched against compiled expressions"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		compilations:   compilations,
		compileLatency: compileLatency,
		cacheHits:      cacheHits,
		matches:        matches,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses the global OTel
// meter provider. If the instruments cannot be created it returns a no-op
// recorder.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCompile records a compile attempt.
func (m *otelMetrics) RecordCompile(ctx context.Context, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.compilations.Add(ctx, 1, attrs)
	m.compileLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordCacheHit records a cache hit.
func (m *otelMetrics) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1)
}

// RecordMatch records a match attempt.
func (m *otelMetrics) RecordMatch(ctx context.Context, matched bool) {
	m.matches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("matched", matched)))
}

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordCompile does nothing.
func (NoopMetrics) RecordCompile(_ context.Context, _ bool, _ time.Duration) {}

// RecordCacheHit does nothing.
func (NoopMetrics) RecordCacheHit(_ context.Context) {}

// RecordMatch does nothing.
func (NoopMetrics) RecordMatch(_ context.Context, _ bool) {}
