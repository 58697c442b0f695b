// Package observe provides toolgate's observability primitives: OpenTelemetry
// metrics with a Prometheus exporter bridge, and HTTP middleware that records
// request durations and logs request completion.
//
// A package-level default [Metrics] instance ([DefaultMetrics]) is provided
// for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all toolgate metrics.
const meterName = "github.com/arlberg/toolgate"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// ToolCalls counts tool invocations. Attributes:
	//   attribute.String("tool", ...), attribute.String("status", ...)
	ToolCalls metric.Int64Counter

	// ToolDuration tracks tool executor latency in seconds, labelled by tool.
	ToolDuration metric.Float64Histogram

	// HTTPRequestDuration tracks HTTP request processing time. Attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Tool
// calls range from sub-millisecond arithmetic to multi-second upstream
// fetches.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates all metric instruments on the given provider. Pass
// [otel.GetMeterProvider]() for the global provider.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName)

	toolCalls, err := meter.Int64Counter("toolgate.tool.calls",
		metric.WithDescription("Number of tool invocations by tool and status."))
	if err != nil {
		return nil, err
	}

	toolDuration, err := meter.Float64Histogram("toolgate.tool.duration",
		metric.WithDescription("Tool executor latency in seconds."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...))
	if err != nil {
		return nil, err
	}

	httpDuration, err := meter.Float64Histogram("toolgate.http.request.duration",
		metric.WithDescription("HTTP request processing time in seconds."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ToolCalls:           toolCalls,
		ToolDuration:        toolDuration,
		HTTPRequestDuration: httpDuration,
	}, nil
}

// RecordToolCall increments the tool call counter. status is "ok" or the
// error kind of the failure.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string) {
	m.ToolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	))
}

// RecordToolDuration records an executor latency sample for the named tool.
func (m *Metrics) RecordToolDuration(ctx context.Context, tool string, d time.Duration) {
	m.ToolDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("tool", tool),
	))
}

var (
	defaultMetrics     *Metrics
	defaultMetricsErr  error
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the process-wide [Metrics] instance built on the
// global meter provider. The first call creates the instruments; later calls
// return the same instance.
func DefaultMetrics() (*Metrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = NewMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultMetricsErr
}
