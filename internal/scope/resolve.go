package scope

import (
	"github.com/moznion/go-optional"
	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// Candidate is one overload that matched a call site. Exactly one of Decl
// (to be lowered) or Lowered (already lowered - a prelude native or a
// previously memoized synthesis, §4.3.3) is set.
type Candidate struct {
	Decl    *ast.FuncDecl
	Subst   map[string]typeterm.T
	Lowered *ir.Function
}

// ResolveFunction implements the cascade from §4.2 steps 1-4 (everything
// before derived-function synthesis, which the lowerer attempts itself once
// this returns None): search the current scope, then imported scopes in
// declaration order (field-selections before whole-scope imports), then the
// root scope.
func ResolveFunction(p *Program, s *Scope, name string, argTypes []typeterm.T) optional.Option[Candidate] {
	if c, ok := matchInScope(s, name, argTypes); ok {
		return optional.Some(c)
	}

	for _, imp := range s.Imports {
		if imp.Selectors != nil {
			local, isSelected := selectorFor(imp.Selectors, name)
			if !isSelected {
				continue
			}
			if found := resolveAcrossProgram(p, imp.SourcePath, local, argTypes); found.IsSome() {
				return found
			}
			continue
		}
	}
	for _, imp := range s.Imports {
		if imp.Selectors == nil {
			if found := resolveAcrossProgram(p, imp.SourcePath, name, argTypes); found.IsSome() {
				return found
			}
		}
	}

	root := p.Root()
	if root != nil && root != s {
		if c, ok := matchInScope(root, name, argTypes); ok {
			return optional.Some(c)
		}
	}

	return optional.None[Candidate]()
}

// selectorFor reports whether name is brought in by a field-selection
// import, and the name it is bound to in the source scope (the import's
// rename target read backwards).
func selectorFor(selectors map[string]string, localName string) (sourceName string, ok bool) {
	for src, alias := range selectors {
		if alias == localName {
			return src, true
		}
	}
	return "", false
}

func resolveAcrossProgram(p *Program, path, name string, argTypes []typeterm.T) optional.Option[Candidate] {
	var result optional.Option[Candidate]
	err := p.Borrow(path, func(other *Scope) error {
		if c, ok := matchInScope(other, name, argTypes); ok {
			result = optional.Some(c)
		}
		return nil
	})
	if err != nil {
		return optional.None[Candidate]()
	}
	return result
}

// matchInScope attempts every overload of name declared directly in s,
// returning the first structural match (§4.2 step 2).
func matchInScope(s *Scope, name string, argTypes []typeterm.T) (Candidate, bool) {
	callableName := name
	for _, t := range argTypes {
		callableName += "_" + typeterm.ToCallableString(t)
	}
	if fn, ok := s.GetLowered(callableName); ok {
		return Candidate{Lowered: fn}, true
	}

	for _, decl := range s.Functions[name] {
		if len(decl.Params) != len(argTypes) {
			continue
		}
		subst := map[string]typeterm.T{}
		matched := true
		for i, param := range decl.Params {
			if !unifyParam(param.Type, argTypes[i], subst) {
				matched = false
				break
			}
		}
		if matched {
			return Candidate{Decl: decl, Subst: subst}, true
		}
	}
	return Candidate{}, false
}

// unifyParam checks argType against a declared parameter type, recording
// any InferT placeholders it resolves along the way and accepting an
// AnyOfT candidate list match (§4.2, §3.1 AnyOf).
func unifyParam(paramType, argType typeterm.T, subst map[string]typeterm.T) bool {
	pt := typeterm.Degroup(paramType)
	at := typeterm.Degroup(argType)

	if infer, ok := pt.(*typeterm.InferT); ok {
		if existing, bound := subst[infer.Label]; bound {
			return typeterm.Equal(existing, at)
		}
		subst[infer.Label] = at
		return true
	}
	if anyOf, ok := pt.(*typeterm.AnyOfT); ok {
		for _, cand := range anyOf.Children {
			if unifyParam(cand, at, subst) {
				return true
			}
		}
		return false
	}
	return typeterm.Equal(pt, at)
}

// ResolveOperator implements §4.2's operator cascade: same resolution
// order, keyed by operator string + fixity + arity, returning the mapped
// function name to resolve through ResolveFunction.
func ResolveOperator(p *Program, s *Scope, op string, fixity ast.Fixity, arity int) (string, error) {
	if m, ok := matchOperator(s, op, fixity, arity); ok {
		return m.FunctionName, nil
	}
	root := p.Root()
	if root != nil && root != s {
		if m, ok := matchOperator(root, op, fixity, arity); ok {
			return m.FunctionName, nil
		}
	}
	return "", errors.Errorf("unknown operator %q (fixity=%v, arity=%d)", op, fixity, arity)
}

func matchOperator(s *Scope, op string, fixity ast.Fixity, arity int) (OperatorMapping, bool) {
	for _, m := range s.Operators[op] {
		if m.Fixity != fixity {
			continue
		}
		expectedArity := 1
		if fixity == ast.FixityInfix {
			expectedArity = 2
		}
		if expectedArity == arity {
			return m, true
		}
	}
	return OperatorMapping{}, false
}
