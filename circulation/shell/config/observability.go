package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const metricExportInterval = 15 * time.Second

var ErrObservabilitySetupFailed = errors.New("setting up observability failed")

// ObservabilityProviders holds the OpenTelemetry providers of the service.
type ObservabilityProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Resource       *resource.Resource
}

// NewObservabilityProviders creates the providers and installs them globally.
// Telemetry is exported over OTLP gRPC when OTLPEndpoint is set and stays in-process otherwise.
func NewObservabilityProviders(ctx context.Context, cfg Config, serviceVersion string) (*ObservabilityProviders, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		return nil, errors.Join(ErrObservabilitySetupFailed, err)
	}

	traceOptions := []trace.TracerProviderOption{trace.WithResource(res)}
	meterOptions := []metric.Option{metric.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		traceExporter, traceErr := otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if traceErr != nil {
			return nil, errors.Join(ErrObservabilitySetupFailed, traceErr)
		}

		metricExporter, metricErr := otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if metricErr != nil {
			return nil, errors.Join(ErrObservabilitySetupFailed, metricErr)
		}

		traceOptions = append(traceOptions, trace.WithBatcher(traceExporter))
		meterOptions = append(meterOptions, metric.WithReader(
			metric.NewPeriodicReader(metricExporter, metric.WithInterval(metricExportInterval)),
		))
	}

	tracerProvider := trace.NewTracerProvider(traceOptions...)
	meterProvider := metric.NewMeterProvider(meterOptions...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &ObservabilityProviders{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Resource:       res,
	}, nil
}

// Shutdown flushes and stops both providers.
func (p *ObservabilityProviders) Shutdown(ctx context.Context) error {
	return errors.Join(p.TracerProvider.Shutdown(ctx), p.MeterProvider.Shutdown(ctx))
}
