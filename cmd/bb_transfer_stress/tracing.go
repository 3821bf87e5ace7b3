package main

import (
	"context"

	"github.com/buildbarn/bb-storage/pkg/util"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newTracerProvider creates a TracerProvider that exports spans to an
// OpenTelemetry collector over gRPC. Spans are exported in batches, so
// the TracerProvider must be shut down to flush the final batch.
func newTracerProvider(ctx context.Context, endpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, util.StatusWrapf(err, "Failed to create OTLP trace exporter for endpoint %#v", endpoint)
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter)), nil
}
