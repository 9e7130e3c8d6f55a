// internal/telemetry/telemetry.go
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"pfmi3dsc/internal/version"
)

// Name is the instrumentation scope of every span.
const Name = "pfmi3dsc"

// Tracing bundles a tracer with the hook that flushes it.
type Tracing struct {
	Tracer   trace.Tracer
	Shutdown func(context.Context) error
}

// Disabled returns a no-op tracer.
func Disabled() Tracing {
	return Tracing{
		Tracer:   noop.NewTracerProvider().Tracer(Name),
		Shutdown: func(context.Context) error { return nil },
	}
}

// Setup exports spans as JSON lines to w. A nil w yields Disabled().
// The provider is not installed globally; callers pass Tracer down.
func Setup(w io.Writer) (Tracing, error) {
	if w == nil {
		return Disabled(), nil
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return Tracing{}, fmt.Errorf("create exporter: %w", err)
	}
	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", Name),
		attribute.String("service.version", version.Version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return Tracing{Tracer: tp.Tracer(Name), Shutdown: tp.Shutdown}, nil
}

// OrNoop returns t, or a no-op tracer when t is nil.
func OrNoop(t trace.Tracer) trace.Tracer {
	if t == nil {
		return noop.NewTracerProvider().Tracer(Name)
	}
	return t
}
