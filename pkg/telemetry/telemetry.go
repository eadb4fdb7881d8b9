package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.uber.org/zap"
)

const serviceName = "syncode-backend"

func newStdoutExporter() (trace.SpanExporter, error) {
	return stdouttrace.New(
		stdouttrace.WithWriter(os.Stdout),
		stdouttrace.WithoutTimestamps(),
	)
}

// newOTELCollectorExporter creates an exporter that sends traces to an OTEL collector
func newOTELCollectorExporter(endpoint string) (trace.SpanExporter, error) {
	opts := []otlptracehttp.Option{}
	if strings.HasPrefix(endpoint, "http://") {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	opts = append(opts, otlptracehttp.WithEndpoint(endpoint))

	return otlptracehttp.New(context.Background(), opts...)
}

func newResource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion("0.1.0"),
	)
}

// NewProvider installs the global trace provider used by the outbound HTTP
// clients and the gin middleware.
//
// Exporter priority:
// 1. endpoint (OTEL_EXPORTER_OTLP_ENDPOINT), e.g. "http://localhost:4318"
// 2. stdout when enabled
// 3. none, leaving the no-op provider in place
//
// Returns a teardown func
func NewProvider(endpoint string, stdout bool, log *zap.Logger) func() {
	var (
		exp trace.SpanExporter
		err error
	)
	switch {
	case endpoint != "":
		exp, err = newOTELCollectorExporter(endpoint)
	case stdout:
		exp, err = newStdoutExporter()
	default:
		return func() {}
	}
	if err != nil {
		log.Error("unable to create trace exporter", zap.Error(err))
		return func() {}
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(newResource()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("unable to shutdown trace provider", zap.Error(err))
		}
	}
}
