package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	prometheusexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"go.pavemaster.dev/integrations/log"
)

// InitMeterProvider exposes OpenTelemetry instruments (the otelhttp and otelgin
// request metrics) through the Prometheus registerer that also backs /metrics.
// The service name ends up on the target_info series.
func InitMeterProvider(ctx context.Context, serviceName string, reg prometheus.Registerer) (*metric.MeterProvider, error) {
	exporter, err := prometheusexporter.New(prometheusexporter.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		return nil, err
	}

	mp := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Shutdown flushes and stops the providers. Either may be nil.
func Shutdown(ctx context.Context, logger log.Logger, tp *sdktrace.TracerProvider, mp *metric.MeterProvider) {
	if tp != nil {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error(ctx, "Error shutting down OpenTelemetry TracerProvider", err)
		}
	}
	if mp != nil {
		if err := mp.Shutdown(ctx); err != nil {
			logger.Error(ctx, "Error shutting down OpenTelemetry MeterProvider", err)
		}
	}
}
