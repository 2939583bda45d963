package pipes

import (
	"context"
	"errors"
	"fmt"
)

// Pipe is anything that can be called with a Context.
type Pipe interface {
	Name() string
	Call(ctx context.Context, pc *Context) (*Context, error)
}

// callable is implemented by pipes that may lack a body.
type callable interface {
	hasCall() bool
}

// Body is the work done by a Stage.
type Body func(ctx context.Context, h *Handle) error

// Field is a required or provided field declaration. Kind may be nil.
type Field struct {
	Name string
	Kind Kind
}

func (f Field) String() string {
	if f.Kind == nil {
		return f.Name
	}
	return fmt.Sprintf("%s:%s", f.Name, f.Kind.Name())
}

// fieldSet keeps declarations in order; redeclaring a name replaces its kind.
type fieldSet struct {
	fields []Field
	index  map[string]int
}

func (s *fieldSet) merge(fields ...Field) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	for _, f := range fields {
		if i, ok := s.index[f.Name]; ok {
			s.fields[i] = f
			continue
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
}

func (s *fieldSet) list() []Field {
	return append([]Field(nil), s.fields...)
}

// validate returns the first missing or mistyped field.
func (s *fieldSet) validate(pc *Context) error {
	for _, f := range s.fields {
		if !pc.Has(f.Name) {
			return missingContext(f.Name)
		}
		if f.Kind == nil {
			continue
		}
		v, _ := pc.Get(f.Name)
		if !f.Kind.Match(v) {
			return invalidType(f.Name, v, f.Kind)
		}
	}
	return nil
}

// Stage is a named unit of work with declared required and provided fields.
// A Stage holds no per-call state and may be reused across pipelines.
type Stage struct {
	name     string
	body     Body
	required fieldSet
	provided fieldSet
}

// StageOption adds declarations to a Stage.
type StageOption func(*Stage)

// Require declares fields that must exist before the stage runs.
func Require(names ...string) StageOption {
	return func(s *Stage) {
		for _, n := range names {
			s.required.merge(Field{Name: n})
		}
	}
}

// RequireKind declares a required field that must also match kind.
func RequireKind(name string, kind Kind) StageOption {
	return func(s *Stage) { s.required.merge(Field{Name: name, Kind: kind}) }
}

// Provide declares fields the stage must have set when it returns.
func Provide(names ...string) StageOption {
	return func(s *Stage) {
		for _, n := range names {
			s.provided.merge(Field{Name: n})
		}
	}
}

// ProvideKind declares a provided field that must also match kind.
func ProvideKind(name string, kind Kind) StageOption {
	return func(s *Stage) { s.provided.merge(Field{Name: name, Kind: kind}) }
}

// Embed copies the declarations of another stage.
func Embed(other *Stage) StageOption {
	return func(s *Stage) {
		if other == nil {
			return
		}
		s.required.merge(other.required.fields...)
		s.provided.merge(other.provided.fields...)
	}
}

// Define creates a Stage. A nil body makes the stage fail with
// MissingCallMethod when called or composed.
func Define(name string, body Body, opts ...StageOption) *Stage {
	s := &Stage{name: name, body: body}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stage) Name() string {
	return s.name
}

func (s *Stage) Required() []Field {
	return s.required.list()
}

func (s *Stage) Provided() []Field {
	return s.provided.list()
}

func (s *Stage) hasCall() bool {
	return s != nil && s.body != nil
}

// Then composes s with next.
func (s *Stage) Then(next Pipe) *Pipeline {
	return Chain(s, next)
}

// Call runs the stage on pc. A context that already failed is returned
// untouched. Otherwise required fields are checked, the body runs once and
// provided fields are checked. Validation stops at the first bad field.
func (s *Stage) Call(ctx context.Context, pc *Context) (*Context, error) {
	if !s.hasCall() {
		return pc, missingCallMethod(pipeName(s))
	}
	if pc == nil {
		return nil, errors.New("pipes: nil context")
	}
	if pc.Failure() {
		return pc, nil
	}

	ref := StageRef{Name: s.name, Method: MethodCall}
	hooks := pc.Hooks()
	ctx = hooks.OnStart(ctx, pc, ref)

	err := s.run(ctx, pc)
	if err == nil {
		hooks.OnSuccess(ctx, pc, ref)
		return pc, nil
	}

	swallow := false
	if eh, ok := hooks.(ErrorHook); ok {
		swallow = eh.OnError(ctx, pc, ref, err)
	}
	if swallow || isTerminated(err) {
		return pc, nil
	}
	return pc, err
}

func (s *Stage) run(ctx context.Context, pc *Context) error {
	if err := s.required.validate(pc); err != nil {
		return err
	}

	if err := s.body(ctx, &Handle{pc: pc, stage: s}); err != nil {
		return err
	}
	// a halted stage does not owe its provided fields
	if pc.Failure() {
		return nil
	}

	return s.provided.validate(pc)
}

func pipeName(p Pipe) string {
	if IsNil(p) {
		return "<nil>"
	}
	return p.Name()
}
