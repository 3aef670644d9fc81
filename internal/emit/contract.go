// Package emit holds the shared emitter contract (§4.4) consumed by both
// backend packages: ordered, deduplicated function emission plus dependency
// collection. Each backend (systems, script) only supplies EmitFunction,
// EmitType and a file extension; Generate walks the call graph the same way regardless
// of target.
package emit

import (
	"strings"

	"github.com/tidwall/btree"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// Output accumulates one compilation unit's emitted source, ordered so that
// every callee appears before its first caller, plus every external
// dependency symbol referenced along the way (§4.4, §4.6), plus every
// distinct named type referenced by a function signature (§4.4's "target-
// language text for that function or type").
type Output struct {
	Out   *btree.Map[string, string]
	Deps  *btree.Map[string, typeterm.T]
	Types *btree.Map[string, typeterm.T]
}

func NewOutput() *Output {
	return &Output{
		Out:   &btree.Map[string, string]{},
		Deps:  &btree.Map[string, typeterm.T]{},
		Types: &btree.Map[string, typeterm.T]{},
	}
}

// Source concatenates Out in key order: btree.Map iterates sorted by
// callable name, not in emission order, so a callee can follow its caller
// here. The dependency-ordered slice that Generate fills in is the one that
// keeps every callee ahead of its first caller.
func (o *Output) Source() string {
	var buf []byte
	iter := o.Out.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		buf = append(buf, iter.Value()...)
		buf = append(buf, '\n')
	}
	return string(buf)
}

// Generator is implemented by each backend (§4.5).
type Generator interface {
	EmitFunction(fn *ir.Function) (string, error)
	// EmitType renders a standalone declaration for a named type the first
	// time it's referenced by a function signature (§4.4). Returning "" is
	// valid - a target with no declaration syntax for the shape (e.g. the
	// script target's plain object-literal idiom) has nothing to hoist.
	EmitType(name string, t typeterm.T) (string, error)
	FileExtension() string
}

// Generate emits fn and, first, every function fn calls, exactly once each
// (§4.4: "a function is emitted exactly once, and before any emission of a
// function that calls it"). Ordered is appended to in emission order so a
// caller needing the literal source ordering (not just Output's sorted
// map) can write it out directly.
func Generate(g Generator, fn *ir.Function, out *Output, ordered *[]string) error {
	name := fn.CallableName()
	if _, ok := out.Out.Get(name); ok {
		return nil
	}
	// Marking before recursing prevents infinite recursion on direct or
	// mutual recursion; the real source gets set once emission succeeds.
	out.Out.Set(name, "")

	for _, callee := range calledFunctions(fn.Body) {
		if err := Generate(g, callee, out, ordered); err != nil {
			return err
		}
	}

	src, err := g.EmitFunction(fn)
	if err != nil {
		return err
	}
	out.Out.Set(name, src)
	*ordered = append(*ordered, name)
	collectDeps(fn.ReturnType, out.Deps)
	collectNamedTypes(fn.ReturnType, out.Types)
	for _, p := range fn.Params {
		collectDeps(p.ArgType, out.Deps)
		collectNamedTypes(p.ArgType, out.Types)
	}
	return nil
}

// EmitTypes renders every named type Generate collected, each exactly once,
// in name-sorted order so a function referencing the name later in Output
// always compiles against an already-emitted declaration.
func EmitTypes(g Generator, out *Output) (string, error) {
	var buf strings.Builder
	iter := out.Types.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		decl, err := g.EmitType(iter.Key(), iter.Value())
		if err != nil {
			return "", err
		}
		buf.WriteString(decl)
	}
	return buf.String(), nil
}

// collectNamedTypes walks a type term and records every distinct named type
// (a TypeT with a non-nil Body - an opaque primitive has nothing to
// declare) reachable from a function's return type or parameter types, so
// each gets exactly one EmitType call (§4.4).
func collectNamedTypes(t typeterm.T, types *btree.Map[string, typeterm.T]) {
	switch v := typeterm.UnwrapGroup(t).(type) {
	case *typeterm.TypeT:
		if v.Body == nil {
			return
		}
		if _, ok := types.Get(v.Name); !ok {
			types.Set(v.Name, v)
		}
		collectNamedTypes(v.Body, types)
	case *typeterm.TupleT:
		for _, c := range v.Children {
			collectNamedTypes(c, types)
		}
	case *typeterm.EitherT:
		for _, c := range v.Children {
			collectNamedTypes(c, types)
		}
	case *typeterm.FieldT:
		collectNamedTypes(v.Body, types)
	case *typeterm.BufferT:
		collectNamedTypes(v.Elem, types)
	case *typeterm.ArrayT:
		collectNamedTypes(v.Elem, types)
	case *typeterm.MutT:
		collectNamedTypes(v.Inner, types)
	case *typeterm.FunctionT:
		collectNamedTypes(v.In, types)
		collectNamedTypes(v.Out, types)
	}
}

// collectDeps walks a type term for Dependency references reachable through
// a Binds/Import shape (§6.2's manifest source) and records each by name.
func collectDeps(t typeterm.T, deps *btree.Map[string, typeterm.T]) {
	switch v := typeterm.Degroup(t).(type) {
	case *typeterm.BindsT:
		if imp, ok := typeterm.Degroup(v.NativeName).(*typeterm.ImportT); ok {
			recordDep(imp.Dep, deps)
		}
		for _, a := range v.Args {
			collectDeps(a, deps)
		}
	case *typeterm.TupleT:
		for _, c := range v.Children {
			collectDeps(c, deps)
		}
	case *typeterm.EitherT:
		for _, c := range v.Children {
			collectDeps(c, deps)
		}
	case *typeterm.FieldT:
		collectDeps(v.Body, deps)
	case *typeterm.BufferT:
		collectDeps(v.Elem, deps)
	case *typeterm.ArrayT:
		collectDeps(v.Elem, deps)
	case *typeterm.MutT:
		collectDeps(v.Inner, deps)
	case *typeterm.FunctionT:
		collectDeps(v.In, deps)
		collectDeps(v.Out, deps)
	}
}

func recordDep(dep typeterm.T, deps *btree.Map[string, typeterm.T]) {
	var d *typeterm.DependencyT
	switch v := typeterm.Degroup(dep).(type) {
	case *typeterm.RustT:
		d, _ = typeterm.Degroup(v.Dep).(*typeterm.DependencyT)
	case *typeterm.NodeT:
		d, _ = typeterm.Degroup(v.Dep).(*typeterm.DependencyT)
	case *typeterm.DependencyT:
		d = v
	}
	if d == nil {
		return
	}
	deps.Set(d.Name.Value, dep)
}

// calledFunctions collects, once each, every Function directly invoked from
// body (recursing into nested microstatement arguments and closure bodies).
func calledFunctions(body []ir.Microstatement) []*ir.Function {
	var fns []*ir.Function
	seen := map[string]bool{}
	var walk func(m ir.Microstatement)
	walk = func(m ir.Microstatement) {
		switch v := m.(type) {
		case *ir.FnCall:
			name := v.Fn.CallableName()
			if !seen[name] {
				seen[name] = true
				fns = append(fns, v.Fn)
			}
			for _, a := range v.Args {
				walk(a)
			}
		case *ir.VarCall:
			for _, a := range v.Args {
				walk(a)
			}
		case *ir.Assignment:
			walk(v.Value)
		case *ir.Array:
			for _, e := range v.Vals {
				walk(e)
			}
		case *ir.Return:
			if v.Value != nil {
				walk(v.Value)
			}
		case *ir.Closure:
			for _, m2 := range v.Fn.Body {
				walk(m2)
			}
		case *ir.Cond:
			walk(v.Cond)
			for _, m2 := range v.Then {
				walk(m2)
			}
			for _, m2 := range v.Else {
				walk(m2)
			}
		}
	}
	for _, m := range body {
		walk(m)
	}
	return fns
}
