package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the package-level tracer used around analysis runs. It is a
// no-op until SetupTracing installs a provider.
var Tracer trace.Tracer = otel.Tracer("crossbind")

// SetupTracing wires an OTLP gRPC exporter at the given endpoint and returns
// a shutdown function. Callers skip this entirely when no endpoint is
// configured.
func SetupTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("crossbind")

	return provider.Shutdown, nil
}
