package hooks

import (
	"context"
	"errors"
	"slices"

	"github.com/ib-77/pipes/pkg/pipes"
)

// ContinueOn swallows stage errors for which pred returns true.
func ContinueOn(pred func(stage pipes.StageRef, err error) bool) *PolicyHooks {
	return &PolicyHooks{pred: pred}
}

// Tolerate swallows body errors of the named stages. Field validation
// errors are still raised.
func Tolerate(stageNames ...string) *PolicyHooks {
	names := slices.Clone(stageNames)
	return ContinueOn(func(stage pipes.StageRef, err error) bool {
		if errors.Is(err, pipes.ErrMissingContext) || errors.Is(err, pipes.ErrInvalidType) {
			return false
		}
		return slices.Contains(names, stage.Name)
	})
}

type PolicyHooks struct {
	pipes.NopHooks
	pred func(stage pipes.StageRef, err error) bool
}

func (p *PolicyHooks) OnError(_ context.Context, _ *pipes.Context, stage pipes.StageRef, err error) bool {
	return p.pred != nil && p.pred(stage, err)
}
