package pipes

import (
	"reflect"
)

// BaseLabel is the label used by Halt and Terminate.
const BaseLabel = "base"

// ErrorCollector stores non-critical errors grouped by label.
// Each label keeps its entries in first-seen order without duplicates.
type ErrorCollector struct {
	labels []string
	errors map[string][]any
}

func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make(map[string][]any),
	}
}

// Add appends errs under label, dropping entries already present for that label.
func (c *ErrorCollector) Add(label string, errs ...any) {
	entries := flatten(errs)
	if len(entries) == 0 {
		return
	}

	current, ok := c.errors[label]
	if !ok {
		c.labels = append(c.labels, label)
	}

	for _, e := range entries {
		if !containsEntry(current, e) {
			current = append(current, e)
		}
	}
	c.errors[label] = current
}

// Errors returns a copy of the label to entries mapping.
func (c *ErrorCollector) Errors() map[string][]any {
	out := make(map[string][]any, len(c.errors))
	for k, v := range c.errors {
		out[k] = append([]any(nil), v...)
	}
	return out
}

// Get returns the entries recorded under label.
func (c *ErrorCollector) Get(label string) []any {
	return append([]any(nil), c.errors[label]...)
}

// Labels returns labels in the order they were first used.
func (c *ErrorCollector) Labels() []string {
	return append([]string(nil), c.labels...)
}

func (c *ErrorCollector) IsEmpty() bool {
	return len(c.errors) == 0
}

func flatten(errs []any) []any {
	out := make([]any, 0, len(errs))
	for _, e := range errs {
		switch v := e.(type) {
		case nil:
		case []any:
			out = append(out, flatten(v)...)
		case []string:
			for _, s := range v {
				out = append(out, s)
			}
		case []error:
			for _, err := range v {
				if !IsNil(err) {
					out = append(out, err)
				}
			}
		case error:
			if IsNil(v) {
				continue
			}
			for _, err := range GetErrors(v) {
				out = append(out, err)
			}
		default:
			out = append(out, v)
		}
	}
	return out
}

func containsEntry(entries []any, e any) bool {
	for _, existing := range entries {
		if sameEntry(existing, e) {
			return true
		}
	}
	return false
}

func sameEntry(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() && comparableValue(reflect.ValueOf(a)) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// comparableValue reports whether == on v is safe at runtime; interface
// fields may hold dynamic values that are not comparable.
func comparableValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return v.Elem().Type().Comparable() && comparableValue(v.Elem())
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !comparableValue(v.Field(i)) {
				return false
			}
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !comparableValue(v.Index(i)) {
				return false
			}
		}
	}
	return true
}
