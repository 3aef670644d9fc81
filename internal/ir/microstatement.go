// Package ir defines Microstatement, the normalized per-function
// instruction form (§3.2) that the lowerer produces and both emitters
// consume. A microstatement sequence represents one function body, in
// execution order.
package ir

import "github.com/vellum-lang/vellumc/internal/typeterm"

// ArgKind drives emitter-side aliasing for a parameter binding (§4.3.4).
type ArgKind int

const (
	// ArgOwn: the value is owned by the callee (move semantics).
	ArgOwn ArgKind = iota
	// ArgMut: the callee may mutate the caller's value in place.
	ArgMut
	// ArgRef: the callee reads the caller's value (by reference, cloned
	// locally for convenience, §4.5.1).
	ArgRef
	// ArgDeref: the callee dereferences a reference supplied by the caller.
	ArgDeref
)

func (k ArgKind) String() string {
	switch k {
	case ArgOwn:
		return "own"
	case ArgMut:
		return "mut"
	case ArgRef:
		return "ref"
	case ArgDeref:
		return "deref"
	default:
		return "unknown"
	}
}

//sumtype:decl
type Microstatement interface {
	isMicrostatement()
	Type() typeterm.T
}

func (*Arg) isMicrostatement()        {}
func (*Assignment) isMicrostatement() {}
func (*Closure) isMicrostatement()    {}
func (*Value) isMicrostatement()      {}
func (*Array) isMicrostatement()      {}
func (*FnCall) isMicrostatement()     {}
func (*VarCall) isMicrostatement()    {}
func (*Return) isMicrostatement()     {}
func (*Cond) isMicrostatement()       {}

// Arg is the entry binding of a function parameter. Arg microstatements
// appear only at the head of a function body, one per parameter, in
// declaration order (§3.2 invariants).
type Arg struct {
	Name     string
	Kind     ArgKind
	ArgType  typeterm.T
}

func (a *Arg) Type() typeterm.T { return a.ArgType }

// Assignment binds Name, in the enclosing sequence, to Value.
type Assignment struct {
	Name    string
	Value   Microstatement
	Mutable bool
}

func (a *Assignment) Type() typeterm.T { return a.Value.Type() }

// Closure is an anonymous function literal; Fn is a full Function record.
// Mutable marks that the closure body reassigns a binding captured from its
// enclosing scope, so its type carries a MutT wrapper (§5).
type Closure struct {
	Fn      *Function
	Mutable bool
}

func (c *Closure) Type() typeterm.T {
	fnType := typeterm.T(&typeterm.FunctionT{In: paramsTuple(c.Fn.Params), Out: c.Fn.ReturnType})
	if c.Mutable {
		return &typeterm.MutT{Inner: fnType}
	}
	return fnType
}

func paramsTuple(params []*Arg) typeterm.T {
	children := make([]typeterm.T, len(params))
	for i, p := range params {
		children[i] = p.ArgType
	}
	return &typeterm.TupleT{Children: children}
}

// Value is a literal or name reference. Representation is a source-form
// token (number literal, quoted string, identifier), carried straight from
// ast.LitExpr/ast.IdentExpr (§3.2).
type Value struct {
	ValueType      typeterm.T
	Representation string
}

func (v *Value) Type() typeterm.T { return v.ValueType }

// Array is an array literal.
type Array struct {
	ElemType typeterm.T
	Vals     []Microstatement
}

func (a *Array) Type() typeterm.T { return &typeterm.ArrayT{Elem: a.ElemType} }

// FnCall is a call to a named/resolved Function.
type FnCall struct {
	Fn   *Function
	Args []Microstatement
}

func (c *FnCall) Type() typeterm.T { return c.Fn.ReturnType }

// VarCall is a call to a variable bound to a function value (closure or
// parameter); ResultType is carried explicitly since there is no resolved
// Function record to consult.
type VarCall struct {
	Name       string
	Args       []Microstatement
	ResultType typeterm.T
}

func (c *VarCall) Type() typeterm.T { return c.ResultType }

// Return is an explicit return, with or without a value.
type Return struct {
	Value Microstatement // nil for a bare return
}

func (r *Return) Type() typeterm.T {
	if r.Value == nil {
		return &typeterm.VoidT{}
	}
	return r.Value.Type()
}

// Cond is an if/else branch (§4.3.1). Then and Else are each a full
// microstatement sequence, lowered against the same binding environment as
// the enclosing body; Else is nil for a bodyless else. A Cond never
// produces a value - the spec has no if-expression form, only the
// statement form - so its Type is always void.
type Cond struct {
	Cond Microstatement
	Then []Microstatement
	Else []Microstatement
}

func (c *Cond) Type() typeterm.T { return &typeterm.VoidT{} }

// Function is a fully lowered function: a name, its parameter bindings (as
// Arg microstatements, §3.2), a declared return type, and its body as a
// flat microstatement sequence in execution order.
type Function struct {
	Name       string
	Params     []*Arg
	ReturnType typeterm.T
	Body       []Microstatement
	// Exported marks a function reachable from another scope's import of
	// this one (§3.3).
	Exported bool
	// Native names a backend-intrinsic operation (e.g. "add", "concat")
	// that the root scope's prelude (§6.4) wires directly to each target's
	// native operator/call instead of a lowered microstatement Body. Empty
	// for every user-declared or derived-synthesized function.
	Native string
	// Tag names the Either variant this function constructs or discriminates
	// (synthEitherConstructor, discriminatorFn), e.g. "Circle" for a Shape
	// variant. Kept separate from Name because Name must stay equal to the
	// call-site identifier for resolution-cache lookups, while Tag is purely
	// the native body's payload. Empty outside either_wrap/either_discriminator.
	Tag string
}

// CallableName is the mangled emitted symbol per §4.4: "every emitted
// function name is <original-name>_<arg1-callable>_<arg2-callable>...".
func (f *Function) CallableName() string {
	name := f.Name
	for _, p := range f.Params {
		name += "_" + typeterm.ToCallableString(p.ArgType)
	}
	return name
}
