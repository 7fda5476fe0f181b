// Package observability provides tracing and metrics for Airship API calls.
package observability

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/uapush/pkg/config"
	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

const instrumentationName = "github.com/kart-io/uapush"

// Provider provides observability features
type Provider struct {
	tracer        trace.Tracer
	meter         metric.Meter
	traceProvider *sdktrace.TracerProvider

	// Metrics
	requests        metric.Int64Counter
	requestFailures metric.Int64Counter
	requestDuration metric.Float64Histogram
	cacheLookups    metric.Int64Counter
}

// NewProvider creates a provider from cfg. When telemetry is disabled the
// global (no-op by default) tracer and meter are used and nothing is
// exported.
func NewProvider(ctx context.Context, cfg config.TelemetryConfig, version string) (*Provider, error) {
	if !cfg.Enabled {
		return newProvider(otel.GetTracerProvider(), otel.GetMeterProvider(), version, nil)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrInvalidConfig, "create telemetry resource")
	}

	exporter, err := otlptrace.New(ctx,
		otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(cfg.Endpoint),
			otlptracehttp.WithInsecure(),
		),
	)
	if err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrInvalidConfig, "create OTLP exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return newProvider(tp, otel.GetMeterProvider(), version, tp)
}

// NewProviderFrom wraps existing tracer and meter providers. Shutdown does
// not close them.
func NewProviderFrom(tp trace.TracerProvider, mp metric.MeterProvider) (*Provider, error) {
	return newProvider(tp, mp, "", nil)
}

// Noop returns a provider that records nothing.
func Noop() *Provider {
	p, _ := NewProviderFrom(otel.GetTracerProvider(), otel.GetMeterProvider())
	return p
}

func newProvider(tp trace.TracerProvider, mp metric.MeterProvider, version string, owned *sdktrace.TracerProvider) (*Provider, error) {
	p := &Provider{
		tracer: tp.Tracer(instrumentationName,
			trace.WithInstrumentationVersion(version),
			trace.WithSchemaURL(semconv.SchemaURL),
		),
		meter: mp.Meter(instrumentationName,
			metric.WithInstrumentationVersion(version),
			metric.WithSchemaURL(semconv.SchemaURL),
		),
		traceProvider: owned,
	}
	if err := p.initMetrics(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Provider) initMetrics() error {
	var err error

	p.requests, err = p.meter.Int64Counter(
		"uapush_api_requests_total",
		metric.WithDescription("Total number of Airship API requests"),
	)
	if err != nil {
		return uaerrors.Wrap(err, uaerrors.ErrInternal, "create api_requests counter")
	}

	p.requestFailures, err = p.meter.Int64Counter(
		"uapush_api_request_failures_total",
		metric.WithDescription("Total number of failed Airship API requests"),
	)
	if err != nil {
		return uaerrors.Wrap(err, uaerrors.ErrInternal, "create api_request_failures counter")
	}

	p.requestDuration, err = p.meter.Float64Histogram(
		"uapush_api_request_duration_seconds",
		metric.WithDescription("Duration of Airship API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return uaerrors.Wrap(err, uaerrors.ErrInternal, "create api_request_duration histogram")
	}

	p.cacheLookups, err = p.meter.Int64Counter(
		"uapush_report_cache_lookups_total",
		metric.WithDescription("Report cache lookups by result"),
	)
	if err != nil {
		return uaerrors.Wrap(err, uaerrors.ErrInternal, "create report_cache_lookups counter")
	}

	return nil
}

// TraceOperation creates a new span for an operation
func (p *Provider) TraceOperation(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, name,
		trace.WithAttributes(attributes...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// TraceRequest creates a client span for an API request
func (p *Provider) TraceRequest(ctx context.Context, method, endpoint string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "uapush.api "+method,
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("uapush.endpoint", endpoint),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// RecordRequest records the outcome of an API request. status is zero when
// no response was received.
func (p *Provider) RecordRequest(ctx context.Context, method, endpoint string, status int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("endpoint", endpoint),
		attribute.String("status", strconv.Itoa(status)),
	)
	p.requests.Add(ctx, 1, attrs)
	p.requestDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		p.requestFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("error_code", string(uaerrors.GetErrorCode(err))),
		))
	}
}

// RecordCacheLookup records a report cache hit or miss
func (p *Provider) RecordCacheLookup(ctx context.Context, backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("result", result),
	))
}

// SetSpanError sets an error on the span
func (p *Provider) SetSpanError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks the span as successful
func (p *Provider) SetSpanSuccess(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// Shutdown flushes and stops the exporter, if this provider owns one
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.traceProvider != nil {
		return p.traceProvider.Shutdown(ctx)
	}
	return nil
}

// Tracer returns the tracer instance
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}
