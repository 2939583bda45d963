package hooks

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ib-77/pipes/pkg/pipes"
)

// Tracing opens one span per stage named "{prefix}.{stage}".
func Tracing(tracer trace.Tracer, prefix string) *TracingHooks {
	return &TracingHooks{tracer: tracer, prefix: prefix}
}

type TracingHooks struct {
	tracer trace.Tracer
	prefix string
}

func (h *TracingHooks) spanName(stage pipes.StageRef) string {
	if h.prefix == "" {
		return stage.Name
	}
	return h.prefix + "." + stage.Name
}

func (h *TracingHooks) OnStart(ctx context.Context, pc *pipes.Context, stage pipes.StageRef) context.Context {
	ctx, _ = h.tracer.Start(ctx, h.spanName(stage), trace.WithAttributes(
		attribute.String(AttrStage, stage.Name),
		attribute.String(AttrRunID, pc.ID().String()),
	))
	return ctx
}

func (h *TracingHooks) OnSuccess(ctx context.Context, pc *pipes.Context, _ pipes.StageRef) {
	span := trace.SpanFromContext(ctx)
	if pc.Failure() {
		endHalted(span, pc)
		return
	}
	span.SetStatus(codes.Ok, "")
	span.End()
}

// OnError records err on the span and never swallows it. A terminated
// stage ends its span as halted.
func (h *TracingHooks) OnError(ctx context.Context, pc *pipes.Context, _ pipes.StageRef, err error) bool {
	span := trace.SpanFromContext(ctx)
	if errors.Is(err, pipes.ErrTerminated) {
		endHalted(span, pc)
		return false
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
	return false
}

func endHalted(span trace.Span, pc *pipes.Context) {
	span.SetAttributes(attribute.Bool(AttrHalted, true))
	if err := pc.Error(); err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
