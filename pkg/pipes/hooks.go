package pipes

import "context"

// MethodCall is the entry point name reported to hooks.
const MethodCall = "call"

// StageRef identifies a running stage for lifecycle hooks.
type StageRef struct {
	Name   string
	Method string
}

func (r StageRef) String() string {
	return r.Name + "." + r.Method
}

// Hooks brackets every stage that runs on a Context.
type Hooks interface {
	// OnStart runs before validation of required fields. The returned
	// context is passed to the stage body and to the closing hook.
	OnStart(ctx context.Context, pc *Context, stage StageRef) context.Context
	// OnSuccess runs after the stage returned without error.
	OnSuccess(ctx context.Context, pc *Context, stage StageRef)
}

// ErrorHook is implemented by Hooks that want to see stage errors.
// Returning true swallows the error and lets the pipeline continue.
// Hooks without OnError never swallow.
type ErrorHook interface {
	OnError(ctx context.Context, pc *Context, stage StageRef, err error) bool
}

// NopHooks does nothing.
type NopHooks struct{}

func (NopHooks) OnStart(ctx context.Context, _ *Context, _ StageRef) context.Context { return ctx }
func (NopHooks) OnSuccess(context.Context, *Context, StageRef)                      {}
