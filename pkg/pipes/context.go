package pipes

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ib-77/pipes/pkg/pipes/internal/freeze"
)

// DefaultHaltMessage is recorded by Halt when no error is given.
const DefaultHaltMessage = "Execution stopped"

// Fields is a set of named values added to a Context.
type Fields map[string]any

// Context carries data between pipes. A field can be written once unless it
// was added as mutable. Frozen values are deep-copied on write and on read.
//
// A Context must not be shared by pipelines running at the same time.
type Context struct {
	id        uuid.UUID
	createdAt time.Time
	values    map[string]any
	order     []string
	mutable   map[string]struct{}
	errors    *ErrorCollector
	hooks     Hooks
}

type contextConfig struct {
	mutable Fields
	hooks   Hooks
}

// ContextOption configures NewContext.
type ContextOption func(*contextConfig)

// Mutable adds fields that later stages may overwrite.
func Mutable(fields Fields) ContextOption {
	return func(c *contextConfig) {
		if c.mutable == nil {
			c.mutable = Fields{}
		}
		for k, v := range fields {
			c.mutable[k] = v
		}
	}
}

// WithHooks sets the lifecycle hooks run around each stage.
func WithHooks(h Hooks) ContextOption {
	return func(c *contextConfig) { c.hooks = h }
}

// NewContext creates a Context holding fields as frozen values, followed by
// any Mutable fields.
func NewContext(fields Fields, opts ...ContextOption) (*Context, error) {
	var cfg contextConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	pc := &Context{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		values:    make(map[string]any),
		mutable:   make(map[string]struct{}),
		errors:    NewErrorCollector(),
		hooks:     NopHooks{},
	}
	if !IsNil(cfg.hooks) {
		pc.hooks = cfg.hooks
	}

	if err := pc.Add(fields); err != nil {
		return pc, err
	}
	if err := pc.AddMutable(cfg.mutable); err != nil {
		return pc, err
	}
	return pc, nil
}

func (c *Context) ID() uuid.UUID {
	return c.id
}

func (c *Context) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Context) Hooks() Hooks {
	return c.hooks
}

// Add stores fields as frozen values in sorted key order. It stops at the
// first field that would override a frozen one.
func (c *Context) Add(fields Fields) error {
	for _, k := range sortedKeys(fields) {
		if err := c.Put(k, fields[k]); err != nil {
			return err
		}
	}
	return nil
}

// AddMutable stores fields that may be overwritten later.
func (c *Context) AddMutable(fields Fields) error {
	for _, k := range sortedKeys(fields) {
		if err := c.PutMutable(k, fields[k]); err != nil {
			return err
		}
	}
	return nil
}

// Put stores a single frozen value.
func (c *Context) Put(name string, value any) error {
	if err := c.checkOverride(name); err != nil {
		return err
	}
	c.store(name, freeze.Copy(value))
	return nil
}

// PutMutable stores a single value that may be overwritten later.
func (c *Context) PutMutable(name string, value any) error {
	if err := c.checkOverride(name); err != nil {
		return err
	}
	c.mutable[name] = struct{}{}
	c.store(name, value)
	return nil
}

func (c *Context) checkOverride(name string) error {
	if _, exists := c.values[name]; !exists {
		return nil
	}
	if _, ok := c.mutable[name]; ok {
		return nil
	}
	return propertyOverride(name)
}

func (c *Context) store(name string, value any) {
	if _, exists := c.values[name]; !exists {
		c.order = append(c.order, name)
	}
	c.values[name] = value
}

// Has reports whether the field exists.
func (c *Context) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Get returns the field value. Frozen values are returned as a fresh copy.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.values[name]
	if !ok {
		return nil, false
	}
	if c.IsMutable(name) {
		return v, true
	}
	return freeze.Copy(v), true
}

// Lookup returns the field value as T. The second result is false if the
// field is absent or holds another type.
func Lookup[T any](c *Context, name string) (T, bool) {
	var zero T
	raw, ok := c.Get(name)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

func (c *Context) IsMutable(name string) bool {
	_, ok := c.mutable[name]
	return ok
}

// Keys returns field names in insertion order.
func (c *Context) Keys() []string {
	return slices.Clone(c.order)
}

// Halt records a soft failure under the base label. Stages after the
// current one are skipped; the current stage keeps running.
func (c *Context) Halt(errs ...any) {
	if len(flatten(errs)) == 0 {
		errs = []any{DefaultHaltMessage}
	}
	c.errors.Add(BaseLabel, errs...)
}

// Terminate halts the context and returns an error the stage body should
// return immediately. The running stage absorbs it.
func (c *Context) Terminate(errs ...any) error {
	c.Halt(errs...)
	entries := flatten(errs)
	if len(entries) == 0 {
		return terminated(errors.New(DefaultHaltMessage))
	}
	return terminated(asError(entries[0]))
}

// AddErrors records errs under label.
func (c *Context) AddErrors(label string, errs ...any) {
	c.errors.Add(label, errs...)
}

func (c *Context) Errors() map[string][]any {
	return c.errors.Errors()
}

func (c *Context) ErrorCollector() *ErrorCollector {
	return c.errors
}

// Error returns the first error recorded under the base label.
func (c *Context) Error() error {
	entries := c.errors.Get(BaseLabel)
	if len(entries) == 0 {
		return nil
	}
	return asError(entries[0])
}

func asError(entry any) error {
	switch e := entry.(type) {
	case error:
		return e
	case string:
		return errors.New(e)
	default:
		return fmt.Errorf("%v", e)
	}
}

func (c *Context) Success() bool {
	return c.errors.IsEmpty()
}

func (c *Context) Failure() bool {
	return !c.Success()
}

func (c *Context) String() string {
	var b strings.Builder
	b.WriteString("Context{")
	for _, k := range c.order {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(c.values[k]))
		b.WriteString(", ")
	}
	b.WriteString("errors={")
	for i, label := range c.errors.Labels() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%v", label, c.errors.Get(label))
	}
	b.WriteString("}}")
	return b.String()
}

// MarshalZerologObject logs the context id, fields and error state.
func (c *Context) MarshalZerologObject(e *zerolog.Event) {
	e.Str("id", c.id.String())
	fields := zerolog.Dict()
	for _, k := range c.order {
		fields.Interface(k, c.values[k])
	}
	e.Dict("fields", fields)
	if c.Failure() {
		errs := zerolog.Dict()
		for _, label := range c.errors.Labels() {
			entries := c.errors.Get(label)
			msgs := make([]string, len(entries))
			for i, entry := range entries {
				msgs[i] = fmt.Sprintf("%v", entry)
			}
			errs.Strs(label, msgs)
		}
		e.Dict("errors", errs)
	}
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys(fields Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
