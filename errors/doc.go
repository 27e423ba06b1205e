// Package errors provides structured error types for the oak engine.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: value path, Go/script kind names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMarshal, errors.KindTypeMismatch).
//		Path("graphics", "createView").
//		GoType("*graphics.View").
//		ScriptType("text").
//		Detail("expected a View handle").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseCall, "function", "update")
//	err := errors.StaleHandle(errors.PhaseBind, "View", h)
//
// # Contract Violations
//
// Programming errors in the native integration (starting a call while one is
// in progress, destroying an unknown view, binding a Go type the marshaller
// does not know) are not returned. They panic with an *Error of kind
// KindContract:
//
//	errors.Assert(view != nil, errors.PhaseGraphics, "trying to destroy an unexisting view")
//	errors.Fatal(errors.PhaseBind, "module %q is already registered", name)
//
// AsContract recovers the error from a panic value.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
