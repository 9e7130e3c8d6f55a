// internal/pipeline/env.go
package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pfmi3dsc/internal/cmdutil"
	"pfmi3dsc/internal/metrics"
	"pfmi3dsc/internal/telemetry"
)

// Env carries the ambient dependencies of a run. Zero values are usable.
type Env struct {
	Log     *slog.Logger
	Metrics *metrics.Metrics
	Tracer  trace.Tracer
	Client  *http.Client
}

func (e Env) log() *slog.Logger {
	if e.Log == nil {
		return cmdutil.Discard()
	}
	return e.Log
}

// stage runs fn inside a span and records its duration.
func (e Env) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := telemetry.OrNoop(e.Tracer).Start(ctx, name,
		trace.WithAttributes(attribute.String("pfmi3dsc.stage", name)))
	defer span.End()

	err := fn(ctx)
	e.Metrics.ObserveStage(name, start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	e.log().Debug("stage finished", "stage", name, "elapsed", time.Since(start), "ok", err == nil)
	return err
}
