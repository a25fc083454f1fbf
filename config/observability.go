package config

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ObservabilityProviders holds the OpenTelemetry providers of the process.
type ObservabilityProviders struct {
	TracerProvider *sdktrace.TracerProvider
	Resource       *resource.Resource
}

// NewObservabilityProviders creates a tracer provider for serviceName and registers it globally.
// Exporters are attached by the caller with RegisterSpanProcessor.
func NewObservabilityProviders(ctx context.Context, serviceName string) (*ObservabilityProviders, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(tracerProvider)

	return &ObservabilityProviders{TracerProvider: tracerProvider, Resource: res}, nil
}

// Shutdown flushes and stops the providers.
func (p *ObservabilityProviders) Shutdown(ctx context.Context) error {
	if p == nil || p.TracerProvider == nil {
		return nil
	}

	return p.TracerProvider.Shutdown(ctx)
}
