package pipetest

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ib-77/pipes/pkg/pipes"
)

const missing = "<missing>"

// Match reports whether actual is a *pipes.Context holding every expected
// field. Extra fields are ignored. On mismatch the second result is a
// diff of expected against actual.
func Match(actual any, expected pipes.Fields) (bool, string) {
	pc, ok := actual.(*pipes.Context)
	if !ok || pc == nil {
		return false, fmt.Sprintf("expected %#v to be a *pipes.Context", actual)
	}

	matched := true
	want := make(map[string]string, len(expected))
	got := make(map[string]string, len(expected))
	for name, exp := range expected {
		m := asMatcher(exp)
		want[name] = m.String()

		v, ok := pc.Get(name)
		if !ok {
			got[name] = missing
			matched = false
			continue
		}
		if m.Match(v) {
			got[name] = want[name]
			continue
		}
		got[name] = fmt.Sprintf("%#v", v)
		matched = false
	}
	if matched {
		return true, ""
	}
	return false, fmt.Sprintf("expected %s to match (-want +got):\n%s", pc, cmp.Diff(want, got))
}

// AssertContext fails t unless actual matches expected.
func AssertContext(t assert.TestingT, actual any, expected pipes.Fields, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	ok, diff := Match(actual, expected)
	if !ok {
		return assert.Fail(t, diff, msgAndArgs...)
	}
	return true
}

// RequireContext is AssertContext that stops the test on failure.
func RequireContext(t interface {
	assert.TestingT
	FailNow()
}, actual any, expected pipes.Fields, msgAndArgs ...any) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if !AssertContext(t, actual, expected, msgAndArgs...) {
		t.FailNow()
	}
}
