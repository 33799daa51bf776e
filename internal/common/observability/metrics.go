package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider    *metric.MeterProvider
	tracing          *Tracing
	meter            otelmetric.Meter
	queryCounter     otelmetric.Int64Counter
	queryDuration    otelmetric.Float64Histogram
	detectionCounter otelmetric.Int64Counter
}

// New wires an OTel meter provider backed by the Prometheus exporter and a
// tracer provider that exports to Jaeger when jaegerEndpoint is set.
func New(serviceName, jaegerEndpoint string) *Observability {
	o := &Observability{tracing: NewTracing(serviceName, jaegerEndpoint)}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	queryCounter, _ := meter.Int64Counter(
		"queries.processed",
		otelmetric.WithDescription("Number of queries processed"),
	)

	queryDuration, _ := meter.Float64Histogram(
		"queries.duration",
		otelmetric.WithDescription("Query processing duration"),
		otelmetric.WithUnit("ms"),
	)

	detections, _ := meter.Int64Counter(
		"columns.detected",
		otelmetric.WithDescription("Semantic columns detected per query"),
	)

	o.meterProvider = provider
	o.meter = meter
	o.queryCounter = queryCounter
	o.queryDuration = queryDuration
	o.detectionCounter = detections
	return o
}

// StartSpan opens a span on the service tracer.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracing == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracing.Start(ctx, name, attrs...)
}

func (o *Observability) RecordQueryProcessed(ctx context.Context, branch, status string) {
	if o != nil && o.queryCounter != nil {
		o.queryCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("branch", branch),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordQueryDuration(ctx context.Context, duration time.Duration, status string) {
	if o != nil && o.queryDuration != nil {
		o.queryDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

// RecordDetection counts one detector outcome.
func (o *Observability) RecordDetection(ctx context.Context, role string, found bool) {
	if o != nil && o.detectionCounter != nil {
		o.detectionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("role", role),
			attribute.Bool("found", found),
		))
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracing != nil {
		o.tracing.Shutdown(ctx)
	}
}
