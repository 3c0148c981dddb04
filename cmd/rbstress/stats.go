package main

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// stressStats bundles the run counters. The stdout exporter dumps the
// final totals when the provider is shut down at the end of the run.
type stressStats struct {
	provider *sdkmetric.MeterProvider
	inserts  metric.Int64Counter
	deletes  metric.Int64Counter
	checks   metric.Int64Counter
	diverges metric.Int64Counter
}

func newStressStats() *stressStats {
	exporter := lo.Must(stdoutmetric.New())
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("rbstress"),
		)),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)
	otel.SetMeterProvider(provider)

	meter := otel.Meter("rbstress")
	return &stressStats{
		provider: provider,
		inserts:  lo.Must(meter.Int64Counter("rbstress.inserts", metric.WithDescription("Keys inserted across all workers."))),
		deletes:  lo.Must(meter.Int64Counter("rbstress.deletes", metric.WithDescription("Keys deleted across all workers."))),
		checks:   lo.Must(meter.Int64Counter("rbstress.checks", metric.WithDescription("Per operation reference checks that passed."))),
		diverges: lo.Must(meter.Int64Counter("rbstress.divergences", metric.WithDescription("Checks where the tree disagreed with a reference."))),
	}
}

func (s *stressStats) shutdown(ctx context.Context) error {
	return s.provider.Shutdown(ctx)
}
