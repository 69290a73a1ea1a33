package telemetry

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

// spanPrefix is how the document store names its spans.
const spanPrefix = "docstore."

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Setup installs a global tracer provider exporting store spans over OTLP
// gRPC. Without an endpoint nothing is installed.
func Setup(ctx context.Context, cfg Config, log *slog.Logger) (ShutdownFunc, error) {
	if !cfg.Enabled() {
		return noopShutdown, nil
	}
	exp, err := otlptracegrpc.New(ctx, exporterOptions(cfg)...)
	if err != nil {
		return noopShutdown, errdef.Wrap(errdef.CodeConfig, err, "create otlp exporter")
	}
	tp := NewProvider(cfg, exp)
	otel.SetTracerProvider(tp)
	if log != nil {
		log.Info("tracing enabled", "endpoint", cfg.Endpoint, "operations", cfg.Only)
	}
	return tp.Shutdown, nil
}

// NewProvider batches spans to exp, dropping operations cfg.Only excludes.
func NewProvider(cfg Config, exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	attrs := []attribute.KeyValue{attribute.String("service.name", serviceName)}
	if cfg.Version != "" {
		attrs = append(attrs, attribute.String("service.version", cfg.Version))
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(operationSampler{only: cfg.Only}),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
	)
}

type operationSampler struct {
	only []string
}

func (s operationSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	if len(s.only) == 0 || slices.Contains(s.only, strings.TrimPrefix(p.Name, spanPrefix)) {
		return sdktrace.AlwaysSample().ShouldSample(p)
	}
	return sdktrace.NeverSample().ShouldSample(p)
}

func (s operationSampler) Description() string {
	return "envdesk operations"
}

func exporterOptions(cfg Config) []otlptracegrpc.Option {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	var opts []otlptracegrpc.Option
	if strings.Contains(endpoint, "://") {
		opts = append(opts, otlptracegrpc.WithEndpointURL(endpoint))
	} else {
		opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}
	return opts
}
