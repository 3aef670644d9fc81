// Package diagnostics defines the closed set of error kinds carried through
// the compiler (§7): each fallible operation returns one of these as its
// error value, and the driver is the only place that catches and reports
// one to the user.
package diagnostics

import "github.com/vellum-lang/vellumc/internal/ast"

//sumtype:decl
type Error interface {
	isError()
	Span() ast.Span
	Message() string
}

func (TypeConstructionError) isError()  {}
func (ResolutionError) isError()        {}
func (SynthesisError) isError()         {}
func (BackendRestrictionError) isError() {}
func (InvariantBreachError) isError()   {}

// Each kind also satisfies the standard error interface so callers can
// return diagnostics.Error values through ordinary (..., error) signatures
// and wrap them with errors.Wrap/Wrapf.
func (e TypeConstructionError) Error() string  { return e.Message() }
func (e ResolutionError) Error() string        { return e.Message() }
func (e SynthesisError) Error() string         { return e.Message() }
func (e BackendRestrictionError) Error() string { return e.Message() }
func (e InvariantBreachError) Error() string   { return e.Message() }

var zeroSpan = ast.Span{}

// TypeConstructionError: malformed Binds/Import/Dependency shapes,
// non-string dependency fields, unresolved Infer reaching the emitter.
type TypeConstructionError struct {
	Detail string
	span   ast.Span
}

func NewTypeConstructionError(detail string, span ast.Span) TypeConstructionError {
	return TypeConstructionError{Detail: detail, span: span}
}
func (e TypeConstructionError) Span() ast.Span { return e.span }
func (e TypeConstructionError) Message() string {
	return "type construction failure: " + e.Detail
}

// ResolutionError: no overload matches, operator unknown, generic cannot
// specialize.
type ResolutionError struct {
	Name   string
	Detail string
	span   ast.Span
}

func NewResolutionError(name, detail string, span ast.Span) ResolutionError {
	return ResolutionError{Name: name, Detail: detail, span: span}
}
func (e ResolutionError) Span() ast.Span { return e.span }
func (e ResolutionError) Message() string {
	return "could not resolve `" + e.Name + "`: " + e.Detail
}

// SynthesisError: derived constructor shape mismatch (wrong arity, wrong
// element type, either-variant mismatch).
type SynthesisError struct {
	Name   string
	Detail string
	span   ast.Span
}

func NewSynthesisError(name, detail string, span ast.Span) SynthesisError {
	return SynthesisError{Name: name, Detail: detail, span: span}
}
func (e SynthesisError) Span() ast.Span { return e.span }
func (e SynthesisError) Message() string {
	return "cannot synthesize `" + e.Name + "`: " + e.Detail
}

// BackendRestrictionError: script backend encountering Own/Deref, systems
// backend emitting an unsupported script-only construct.
type BackendRestrictionError struct {
	Backend string
	Detail  string
	span    ast.Span
}

func NewBackendRestrictionError(backend, detail string, span ast.Span) BackendRestrictionError {
	return BackendRestrictionError{Backend: backend, Detail: detail, span: span}
}
func (e BackendRestrictionError) Span() ast.Span { return e.span }
func (e BackendRestrictionError) Message() string {
	return e.Backend + " backend restriction: " + e.Detail
}

// InvariantBreachError: missing main, non-unique main, main with arguments.
type InvariantBreachError struct {
	Detail string
}

func NewInvariantBreachError(detail string) InvariantBreachError {
	return InvariantBreachError{Detail: detail}
}
func (e InvariantBreachError) Span() ast.Span  { return zeroSpan }
func (e InvariantBreachError) Message() string { return "invariant breach: " + e.Detail }
