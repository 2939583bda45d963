// Package solo contains ready-made stages built on pipes.Closure-style
// bodies. Failures they detect are soft: they halt or add errors to the
// context and let later stages short-circuit.
//
// Highlights:
// - Tee: side effect without touching the context
// - Try: call a function (Out, error) and store Out, halting on error
// - Validate/ValidateAll: check a field and record messages under its label
// - Map: transform one field into another
// - Finally: reduce a finished context via success/failure handlers
package solo
