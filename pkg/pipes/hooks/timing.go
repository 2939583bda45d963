package hooks

import (
	"context"
	"time"

	"github.com/ib-77/pipes/pkg/pipes"
)

type startKey struct{}

type stageStart struct {
	pc    *pipes.Context
	stage pipes.StageRef
	at    time.Time
}

// markStart stores the start time of stage unless an earlier hook already
// did for the same stage run. A nested pipeline started from a stage body
// gets its own marks.
func markStart(ctx context.Context, pc *pipes.Context, stage pipes.StageRef) context.Context {
	if s, ok := ctx.Value(startKey{}).(stageStart); ok && s.pc == pc && s.stage == stage {
		return ctx
	}
	return context.WithValue(ctx, startKey{}, stageStart{pc: pc, stage: stage, at: time.Now()})
}

func elapsed(ctx context.Context) time.Duration {
	if s, ok := ctx.Value(startKey{}).(stageStart); ok {
		return time.Since(s.at)
	}
	return 0
}
