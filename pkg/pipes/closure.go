package pipes

import "context"

// ClosureName is the name given to stages built by Closure.
const ClosureName = "closure"

// Closure turns a function into a Stage for ad hoc pipeline steps. It has no
// declarations unless opts add some.
func Closure(fn func(ctx context.Context, pc *Context) error, opts ...StageOption) *Stage {
	if fn == nil {
		return Define(ClosureName, nil, opts...)
	}
	return Define(ClosureName, func(ctx context.Context, h *Handle) error {
		return fn(ctx, h.Context())
	}, opts...)
}
