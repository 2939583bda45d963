package pipes

import "context"

type OptionKey string

const (
	ContextOptionKey OptionKey = "context_options"
)

type ContextOptions struct {
	Options []ContextOption
}

// WithContextOptions stores options used by Run when it builds a Context.
func WithContextOptions(ctx context.Context, opts ...ContextOption) context.Context {
	prev := GetContextOptions(ctx)
	all := append(append([]ContextOption(nil), prev...), opts...)
	return context.WithValue(ctx, ContextOptionKey, ContextOptions{Options: all})
}

func GetContextOptions(ctx context.Context) []ContextOption {
	options, ok := ctx.Value(ContextOptionKey).(ContextOptions)
	if ok {
		return options.Options
	}
	return nil
}

// Run wraps fields in a new Context and calls p with it.
func Run(ctx context.Context, p Pipe, fields Fields) (*Context, error) {
	pc, err := NewContext(fields, GetContextOptions(ctx)...)
	if err != nil {
		return pc, err
	}
	return p.Call(ctx, pc)
}
