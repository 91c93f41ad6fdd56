package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer installs a global tracer provider exporting OTLP/HTTP to
// endpoint ("host:port"). The returned function flushes and shuts the
// provider down.
func InitTracer(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("cxemu"),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// OtelSink exports each trace event as a zero-duration span.
type OtelSink struct {
	tracer trace.Tracer
}

func NewOtelSink() *OtelSink {
	return &OtelSink{tracer: otel.Tracer("cxemu/telemetry")}
}

func (s *OtelSink) Emit(ev Event) {
	_, span := s.tracer.Start(context.Background(), EventName(ev.Code),
		trace.WithAttributes(
			attribute.Int64("hart_id", int64(ev.HartID)),
			attribute.String("register", ev.Register),
			attribute.Int64("value", int64(ev.Value)),
			attribute.Int64("old", int64(ev.Old)),
			attribute.Int64("new", int64(ev.New)),
		))
	span.End()
}
