package hooks

import (
	"context"

	"github.com/ib-77/pipes/pkg/pipes"
)

// Multi runs hooks in order. The context returned by each OnStart is passed
// to the next. An error is swallowed if any ErrorHook swallows it; every
// ErrorHook still sees it.
func Multi(hooks ...pipes.Hooks) *MultiHooks {
	m := &MultiHooks{}
	for _, h := range hooks {
		if pipes.IsNil(h) {
			continue
		}
		if inner, ok := h.(*MultiHooks); ok {
			m.hooks = append(m.hooks, inner.hooks...)
			continue
		}
		m.hooks = append(m.hooks, h)
	}
	return m
}

type MultiHooks struct {
	hooks []pipes.Hooks
}

func (m *MultiHooks) Len() int {
	return len(m.hooks)
}

func (m *MultiHooks) OnStart(ctx context.Context, pc *pipes.Context, stage pipes.StageRef) context.Context {
	for _, h := range m.hooks {
		ctx = h.OnStart(ctx, pc, stage)
	}
	return ctx
}

func (m *MultiHooks) OnSuccess(ctx context.Context, pc *pipes.Context, stage pipes.StageRef) {
	for _, h := range m.hooks {
		h.OnSuccess(ctx, pc, stage)
	}
}

func (m *MultiHooks) OnError(ctx context.Context, pc *pipes.Context, stage pipes.StageRef, err error) bool {
	swallow := false
	for _, h := range m.hooks {
		if eh, ok := h.(pipes.ErrorHook); ok && eh.OnError(ctx, pc, stage, err) {
			swallow = true
		}
	}
	return swallow
}
