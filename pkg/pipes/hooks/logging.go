package hooks

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ib-77/pipes/pkg/pipes"
)

// Logging logs stage start, finish and errors.
// Halted stages are logged at warn level with the context state.
func Logging(log zerolog.Logger) *LoggingHooks {
	return &LoggingHooks{log: log}
}

type LoggingHooks struct {
	log zerolog.Logger
}

func (l *LoggingHooks) OnStart(ctx context.Context, pc *pipes.Context, stage pipes.StageRef) context.Context {
	l.log.Debug().
		Str(FieldRunID, pc.ID().String()).
		Str(FieldStage, stage.String()).
		Msg("stage started")
	return markStart(ctx, pc, stage)
}

func (l *LoggingHooks) OnSuccess(ctx context.Context, pc *pipes.Context, stage pipes.StageRef) {
	if pc.Failure() {
		l.halted(ctx, pc, stage)
		return
	}
	l.log.Info().
		Str(FieldRunID, pc.ID().String()).
		Str(FieldStage, stage.String()).
		Dur(FieldDuration, elapsed(ctx)).
		Msg("stage finished")
}

// OnError logs err and never swallows it. A terminated stage is logged as
// halted.
func (l *LoggingHooks) OnError(ctx context.Context, pc *pipes.Context, stage pipes.StageRef, err error) bool {
	if errors.Is(err, pipes.ErrTerminated) {
		l.halted(ctx, pc, stage)
		return false
	}
	l.log.Error().
		Err(err).
		Str(FieldRunID, pc.ID().String()).
		Str(FieldStage, stage.String()).
		Dur(FieldDuration, elapsed(ctx)).
		Msg("stage failed")
	return false
}

func (l *LoggingHooks) halted(ctx context.Context, pc *pipes.Context, stage pipes.StageRef) {
	l.log.Warn().
		Str(FieldRunID, pc.ID().String()).
		Str(FieldStage, stage.String()).
		Dur(FieldDuration, elapsed(ctx)).
		Object(FieldContext, pc).
		Msg("stage halted")
}
