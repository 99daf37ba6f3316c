// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package tracing emits an OpenTelemetry span for each step of a run.
package tracing

import (
	"context"
	"time"

	"github.com/juju/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/canonical/superset-k8s-upgrade/core/logger"
	"github.com/canonical/superset-k8s-upgrade/version"
)

const serviceName = "superset-upgrade"

// Config configures the exporter.
type Config struct {
	// Endpoint is the OTLP gRPC collector. When empty spans are
	// discarded.
	Endpoint string
	Insecure bool

	// RunID identifies this run among others reporting to the same
	// collector.
	RunID string

	Logger logger.Logger
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	if c.Endpoint != "" && c.RunID == "" {
		return errors.NotValidf("empty RunID")
	}
	return nil
}

// Provider flushes and stops the span pipeline.
type Provider interface {
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Tracer creates spans.
type Tracer struct {
	provider Provider
	tracer   trace.Tracer
	logger   logger.Logger
}

// NewTracer returns a Tracer exporting to the configured endpoint, or a
// no-op Tracer when there is none.
func NewTracer(ctx context.Context, config Config) (*Tracer, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Endpoint == "" {
		return Noop(config.Logger), nil
	}

	options := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		options = append(options, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(options...))
	if err != nil {
		return nil, errors.Annotatef(err, "connecting to trace collector %q", config.Endpoint)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(newResource(config.RunID)),
	)
	config.Logger.Debugf("exporting spans to %s", config.Endpoint)
	return NewTracerWithProvider(tp, config.Logger), nil
}

// Noop returns a Tracer whose spans go nowhere.
func Noop(logger logger.Logger) *Tracer {
	return &Tracer{
		tracer: noop.NewTracerProvider().Tracer(serviceName),
		logger: logger,
	}
}

// NewTracerWithProvider returns a Tracer using an existing SDK provider.
func NewTracerWithProvider(tp *sdktrace.TracerProvider, logger logger.Logger) *Tracer {
	return &Tracer{
		provider: tp,
		tracer:   tp.Tracer(serviceName),
		logger:   logger,
	}
}

func newResource(runID string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version.Current.String()),
		semconv.ServiceInstanceID(runID),
	)
}

// Enabled reports whether spans leave the process.
func (t *Tracer) Enabled() bool {
	return t.provider != nil
}

// Start creates a span and a context containing it.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	if t.logger.IsTraceEnabled() {
		spanContext := span.SpanContext()
		t.logger.Tracef("span %q: span-id %s, trace-id %s", name, spanContext.SpanID(), spanContext.TraceID())
	}
	return ctx, &Span{span: span}
}

// Shutdown flushes pending spans and stops the exporter.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := t.provider.ForceFlush(ctx); err != nil {
		t.logger.Infof("failed to flush spans: %v", err)
	}
	return errors.Annotate(t.provider.Shutdown(ctx), "stopping tracer")
}

// Span is a single traced operation.
type Span struct {
	span trace.Span
}

// AddEvent records an event on the span.
func (s *Span) AddEvent(message string, attrs ...attribute.KeyValue) {
	if !s.span.IsRecording() {
		return
	}
	s.span.AddEvent(message, trace.WithAttributes(attrs...))
}

// End completes the span, marking it failed when err is not nil.
func (s *Span) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}
