package pipes

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Kind is a runtime check attached to a required or provided field.
type Kind interface {
	// Name is used in InvalidType messages.
	Name() string
	// Match reports whether v is of this kind.
	Match(v any) bool
}

type kindFunc struct {
	name  string
	match func(v any) bool
}

func (k kindFunc) Name() string     { return k.name }
func (k kindFunc) Match(v any) bool { return k.match(v) }

// NewKind builds a Kind from a name and predicate.
func NewKind(name string, match func(v any) bool) Kind {
	return kindFunc{name: name, match: match}
}

// KindOf matches values assignable to T. For interface types this behaves
// like an "is a" check.
func KindOf[T any]() Kind {
	return kindFunc{
		name: reflect.TypeFor[T]().String(),
		match: func(v any) bool {
			_, ok := v.(T)
			return ok
		},
	}
}

var (
	// Numeric matches any integer, float or complex value.
	Numeric = reflectKind("numeric",
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128)
	String    = reflectKind("string", reflect.String)
	Bool      = reflectKind("bool", reflect.Bool)
	SliceKind = reflectKind("slice", reflect.Slice, reflect.Array)
	MapKind   = reflectKind("map", reflect.Map)
)

func reflectKind(name string, kinds ...reflect.Kind) Kind {
	return kindFunc{
		name: name,
		match: func(v any) bool {
			if v == nil {
				return false
			}
			k := reflect.TypeOf(v).Kind()
			for _, want := range kinds {
				if k == want {
					return true
				}
			}
			return false
		},
	}
}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Rule matches values accepted by a validator tag, e.g. "required,gt=0" or "email".
func Rule(tag string) Kind {
	return kindFunc{
		name: fmt.Sprintf("rule(%s)", tag),
		match: func(v any) bool {
			return getValidator().Var(v, tag) == nil
		},
	}
}
