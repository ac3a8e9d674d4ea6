package providers

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"livenotify/internal/structures"
)

const tracerName = "livenotify"

type TracingProviderInterface interface {
	Enabled() bool
	Shutdown(ctx context.Context) error
}

type TracingProvider struct {
	tp     *sdktrace.TracerProvider
	logger Logger
}

// NewTracingProvider installs a global OTLP/gRPC tracer provider. With
// tracing disabled the global no-op provider stays in place and spans cost
// nothing.
func NewTracingProvider(conf *structures.Config, logger Logger) (TracingProviderInterface, error) {
	if !conf.Tracing.Enabled {
		logger.Debugf(TypeApp, "Tracing disabled")
		return &noopTracing{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(conf.Tracing.Endpoint)}
	if conf.Tracing.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(conf.AppName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	logger.Infof(TypeApp, "Tracing initialized, exporting to %s", conf.Tracing.Endpoint)

	return &TracingProvider{tp: tp, logger: logger}, nil
}

func (t *TracingProvider) Enabled() bool { return true }

func (t *TracingProvider) Shutdown(ctx context.Context) error {
	if err := t.tp.Shutdown(ctx); err != nil {
		t.logger.Errorf(TypeApp, "Failed to shutdown tracer provider: %v", err)
		return err
	}
	return nil
}

type noopTracing struct{}

func (n *noopTracing) Enabled() bool                    { return false }
func (n *noopTracing) Shutdown(_ context.Context) error { return nil }

// StartSpan starts a span on the application tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError marks the span failed. Nil errors are ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
