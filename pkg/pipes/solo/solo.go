package solo

import (
	"context"
	"reflect"

	"github.com/ib-77/pipes/pkg/pipes"
)

// Tee runs a side effect. It never fails the context.
func Tee(name string, sideEffect func(ctx context.Context, pc *pipes.Context),
	opts ...pipes.StageOption) *pipes.Stage {

	return pipes.Define(name, func(ctx context.Context, h *pipes.Handle) error {
		sideEffect(ctx, h.Context())
		return nil
	}, opts...)
}

// Try stores the result of onTryExecute under field. An error halts the
// context instead of aborting the pipeline. For an interface Out the field
// is only checked for presence, so a nil result is accepted.
func Try[Out any](name, field string,
	onTryExecute func(ctx context.Context, pc *pipes.Context) (Out, error),
	opts ...pipes.StageOption) *pipes.Stage {

	opts = append([]pipes.StageOption{provideOf[Out](field)}, opts...)
	return pipes.Define(name, func(ctx context.Context, h *pipes.Handle) error {
		out, err := onTryExecute(ctx, h.Context())
		if err != nil {
			h.Halt(err)
			return nil
		}
		return h.Put(field, out)
	}, opts...)
}

func provideOf[Out any](field string) pipes.StageOption {
	if reflect.TypeFor[Out]().Kind() == reflect.Interface {
		return pipes.Provide(field)
	}
	return pipes.ProvideKind(field, pipes.KindOf[Out]())
}

// Validate checks field and records errMsg under the field's label when it
// is invalid.
func Validate[T any](name, field string,
	validate func(ctx context.Context, in T) (isValid bool, errMsg string),
	opts ...pipes.StageOption) *pipes.Stage {

	return ValidateAll(name, field, true, []func(ctx context.Context, in T) (bool, string){validate}, opts...)
}

// ValidateAll runs validators in order against field. With breakOnError the
// first failure stops the rest; otherwise every failing message is recorded.
func ValidateAll[T any](name, field string,
	breakOnError bool, // exit on first error
	validators []func(ctx context.Context, in T) (isValid bool, errMsg string),
	opts ...pipes.StageOption) *pipes.Stage {

	opts = append([]pipes.StageOption{pipes.RequireKind(field, pipes.KindOf[T]())}, opts...)
	return pipes.Define(name, func(ctx context.Context, h *pipes.Handle) error {
		in, _ := pipes.Lookup[T](h.Context(), field)
		for _, validate := range validators {
			if isValid, errMsg := validate(ctx, in); !isValid {
				h.AddErrors(field, errMsg)
				if breakOnError {
					return nil
				}
			}
		}
		return nil
	}, opts...)
}

// Map reads from, applies onSuccess and stores the result under to.
func Map[In, Out any](name, from, to string,
	onSuccess func(ctx context.Context, r In) Out,
	opts ...pipes.StageOption) *pipes.Stage {

	opts = append([]pipes.StageOption{
		pipes.RequireKind(from, pipes.KindOf[In]()),
		pipes.ProvideKind(to, pipes.KindOf[Out]()),
	}, opts...)
	return pipes.Define(name, func(ctx context.Context, h *pipes.Handle) error {
		in, _ := pipes.Lookup[In](h.Context(), from)
		return h.Put(to, onSuccess(ctx, in))
	}, opts...)
}

// Finally reduces a finished context to a value.
func Finally[Out any](pc *pipes.Context,
	onSuccess func(pc *pipes.Context) Out,
	onFailure func(errs map[string][]any) Out) Out {

	if pc.Success() {
		return onSuccess(pc)
	}
	return onFailure(pc.Errors())
}
