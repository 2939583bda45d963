package pipetest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/pipes/pkg/pipes"
)

func newContext(t *testing.T) *pipes.Context {
	t.Helper()
	pc, err := pipes.NewContext(pipes.Fields{"foo": "foo", "bar": map[string]any{}, "baz": 1})
	require.NoError(t, err)
	return pc
}

func TestMatch(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		expected pipes.Fields
		ok       bool
		diff     string
	}{
		{"all keys match", pipes.Fields{"foo": "foo", "bar": map[string]any{}, "baz": 1}, true, ""},
		{"subset matches", pipes.Fields{"foo": "foo"}, true, ""},
		{"missing key", pipes.Fields{"foo": "foo", "bacon": map[string]any{}}, false, missing},
		{"matcher fails", pipes.Fields{"baz": OfKind(pipes.String)}, false, "kind string"},
		{"value not equal", pipes.Fields{"baz": 2}, false, "baz"},
		{"matchers", pipes.Fields{"baz": OfKind(pipes.Numeric), "bar": Anything()}, true, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ok, diff := Match(newContext(t), tc.expected)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Empty(t, diff)
				return
			}
			assert.Contains(t, diff, "to match")
			assert.Contains(t, diff, tc.diff)
		})
	}
}

func TestMatch_NotAContext(t *testing.T) {
	t.Parallel()
	ok, diff := Match("bacon", pipes.Fields{"foo": "foo"})
	assert.False(t, ok)
	assert.Equal(t, `expected "bacon" to be a *pipes.Context`, diff)

	var nilCtx *pipes.Context
	ok, _ = Match(nilCtx, nil)
	assert.False(t, ok)
}

func TestFunc(t *testing.T) {
	t.Parallel()
	positive := Func("positive", func(v any) bool {
		n, ok := v.(int)
		return ok && n > 0
	})
	ok, _ := Match(newContext(t), pipes.Fields{"baz": positive})
	assert.True(t, ok)
	assert.Equal(t, "positive", positive.String())
	assert.Equal(t, `"foo"`, Equal("foo").String())
}

type recordingT struct {
	failed  bool
	stopped bool
	msg     string
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.failed = true
	r.msg = fmt.Sprintf(format, args...)
}

func (r *recordingT) FailNow() {
	r.stopped = true
}

func TestAssertContext(t *testing.T) {
	t.Parallel()
	pc := newContext(t)

	AssertContext(t, pc, pipes.Fields{"foo": "foo"})

	rt := &recordingT{}
	assert.False(t, AssertContext(rt, pc, pipes.Fields{"foo": "bar"}))
	assert.True(t, rt.failed)
	assert.True(t, strings.Contains(rt.msg, `"bar"`), rt.msg)

	rt = &recordingT{}
	RequireContext(rt, pc, pipes.Fields{"missing": 1})
	assert.True(t, rt.stopped)
}
