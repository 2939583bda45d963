package pipetest

import (
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/ib-77/pipes/pkg/pipes"
)

// Matcher checks a single context field.
type Matcher interface {
	Match(actual any) bool
	String() string
}

type equalMatcher struct {
	expected any
}

// Equal matches values equal to expected. Plain values in an expected
// Fields map are wrapped with Equal.
func Equal(expected any) Matcher {
	return equalMatcher{expected: expected}
}

func (m equalMatcher) Match(actual any) bool {
	return assert.ObjectsAreEqual(m.expected, actual)
}

func (m equalMatcher) String() string {
	return fmt.Sprintf("%#v", m.expected)
}

type kindMatcher struct {
	kind pipes.Kind
}

// OfKind matches values accepted by kind.
func OfKind(kind pipes.Kind) Matcher {
	return kindMatcher{kind: kind}
}

func (m kindMatcher) Match(actual any) bool {
	return m.kind.Match(actual)
}

func (m kindMatcher) String() string {
	return "kind " + m.kind.Name()
}

type funcMatcher struct {
	desc  string
	match func(actual any) bool
}

// Func matches values for which match returns true.
func Func(desc string, match func(actual any) bool) Matcher {
	return funcMatcher{desc: desc, match: match}
}

func (m funcMatcher) Match(actual any) bool {
	return m.match(actual)
}

func (m funcMatcher) String() string {
	return m.desc
}

// Anything matches any present field.
func Anything() Matcher {
	return Func("anything", func(any) bool { return true })
}

func asMatcher(v any) Matcher {
	if m, ok := v.(Matcher); ok {
		return m
	}
	return Equal(v)
}
