package pipes

import (
	"fmt"
)

// ErrorCode is a machine-readable kind of library failure.
type ErrorCode string

const (
	// CodeMissingContext means a declared field was absent at a stage boundary.
	CodeMissingContext ErrorCode = "MISSING_CONTEXT"
	// CodeInvalidType means a declared field held a value of the wrong kind.
	CodeInvalidType ErrorCode = "INVALID_TYPE"
	// CodeMissingCallMethod means a composed pipe has no usable call entry point.
	CodeMissingCallMethod ErrorCode = "MISSING_CALL_METHOD"
	// CodePropertyOverride means a frozen field was assigned twice.
	CodePropertyOverride ErrorCode = "PROPERTY_OVERRIDE"
	// CodeTerminated means a stage stopped itself with Terminate.
	CodeTerminated ErrorCode = "TERMINATED"
)

// Sentinels for errors.Is. Any *Error with the same Code matches.
var (
	ErrMissingContext    = &Error{Code: CodeMissingContext}
	ErrInvalidType       = &Error{Code: CodeInvalidType}
	ErrMissingCallMethod = &Error{Code: CodeMissingCallMethod}
	ErrPropertyOverride  = &Error{Code: CodePropertyOverride}
	ErrTerminated        = &Error{Code: CodeTerminated}
)

// Error is the error type returned by the library.
type Error struct {
	// Code identifies the failure kind.
	Code ErrorCode
	// Field is the context field involved, if any.
	Field string
	// Message is a human-readable description.
	Message string
	// Details carries extra structured data (actual/expected kinds, stage name).
	Details map[string]any
	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func missingContext(field string) *Error {
	return &Error{
		Code:    CodeMissingContext,
		Field:   field,
		Message: fmt.Sprintf("context does not have '%s'", field),
	}
}

func invalidType(field string, value any, expected Kind) *Error {
	actual := fmt.Sprintf("%T", value)
	return (&Error{
		Code:    CodeInvalidType,
		Field:   field,
		Message: fmt.Sprintf("'%s' has invalid type %s (expected: %s)", field, actual, expected.Name()),
	}).WithDetail("actual", actual).WithDetail("expected", expected.Name())
}

func missingCallMethod(name string) *Error {
	return (&Error{
		Code:    CodeMissingCallMethod,
		Message: fmt.Sprintf("pipe %q does not implement call", name),
	}).WithDetail("pipe", name)
}

func propertyOverride(field string) *Error {
	return &Error{
		Code:    CodePropertyOverride,
		Field:   field,
		Message: fmt.Sprintf("property '%s' already present", field),
	}
}

func terminated(cause error) *Error {
	return &Error{
		Code:    CodeTerminated,
		Message: "execution terminated",
		Cause:   cause,
	}
}
