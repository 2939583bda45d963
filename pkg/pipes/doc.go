// Package pipes composes independent stages into a linear pipeline that
// threads one shared Context through every stage.
//
// A Context is write-once by default: adding a field that already exists
// fails with ErrPropertyOverride unless the field was added as mutable.
// Frozen values are deep-copied so a stage cannot change data another stage
// already validated.
//
// Key operations:
// - NewContext/Add/AddMutable/Get/Lookup: build and read the carrier
// - Halt/Terminate/AddErrors: record soft failures in the ErrorCollector
// - Define/Require/Provide: declare a Stage and its field contract
// - Chain/Then: compose pipes into a Pipeline
// - Closure: wrap a function as an ad hoc stage
// - Run: call a pipe with a plain field map
//
// A stage whose Context already failed does nothing, so a Halt in one stage
// skips every later stage without unwinding. Errors returned by a stage
// (validation errors or the body's own) abort the pipeline unless the
// Context's Hooks implement ErrorHook and choose to swallow them.
package pipes
