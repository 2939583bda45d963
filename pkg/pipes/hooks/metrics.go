package hooks

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ib-77/pipes/pkg/pipes"
)

// Stage outcomes reported as the status attribute.
const (
	StatusOK     = "ok"
	StatusHalted = "halted"
	StatusError  = "error"
)

// MetricsHooks counts stage runs and records their duration.
type MetricsHooks struct {
	stageTotal    metric.Int64Counter
	stageDuration metric.Float64Histogram
}

// Metrics creates stage instruments on the given meter.
func Metrics(meter metric.Meter) (*MetricsHooks, error) {
	stageTotal, err := meter.Int64Counter("pipes.stage.total",
		metric.WithDescription("Total number of stage runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipes.stage.total counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("pipes.stage.duration",
		metric.WithDescription("Duration of stage runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipes.stage.duration histogram: %w", err)
	}

	return &MetricsHooks{
		stageTotal:    stageTotal,
		stageDuration: stageDuration,
	}, nil
}

func (m *MetricsHooks) OnStart(ctx context.Context, pc *pipes.Context, stage pipes.StageRef) context.Context {
	return markStart(ctx, pc, stage)
}

func (m *MetricsHooks) OnSuccess(ctx context.Context, pc *pipes.Context, stage pipes.StageRef) {
	status := StatusOK
	if pc.Failure() {
		status = StatusHalted
	}
	m.record(ctx, stage, status)
}

// OnError counts the failed run and never swallows err. A terminated
// stage counts as halted.
func (m *MetricsHooks) OnError(ctx context.Context, _ *pipes.Context, stage pipes.StageRef, err error) bool {
	status := StatusError
	if errors.Is(err, pipes.ErrTerminated) {
		status = StatusHalted
	}
	m.record(ctx, stage, status)
	return false
}

func (m *MetricsHooks) record(ctx context.Context, stage pipes.StageRef, status string) {
	m.stageTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStage, stage.Name),
		attribute.String(AttrStatus, status),
	))
	m.stageDuration.Record(ctx, elapsed(ctx).Seconds(), metric.WithAttributes(
		attribute.String(AttrStage, stage.Name),
	))
}
