// Package pipetest checks the fields of a *pipes.Context in tests.
//
// Key operations:
// - Match: compare a context against expected fields, returning a diff
// - AssertContext/RequireContext: testify-style assertions built on Match
// - Equal, OfKind, Func, Anything: per-field matchers
//
// Example:
//
//	pipetest.AssertContext(t, pc, pipes.Fields{
//		"user":  "ann",
//		"count": pipetest.OfKind(pipes.Numeric),
//		"token": pipetest.Anything(),
//	})
package pipetest
