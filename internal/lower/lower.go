// Package lower translates a parsed function body into a Microstatement
// sequence (§4.3): expression linearization, method-syntax rewriting,
// derived-function synthesis, and closure capture all happen here,
// consulting scope.Program/scope.Scope to resolve and synthesize names
// along the way.
package lower

import (
	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/diagnostics"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/scope"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// binding is what the lowerer knows about one name visible in the function
// body being lowered: its declared type and whether `store` may reassign
// it (§4.3.3's "the first argument of store must be a mutable binding").
type binding struct {
	typ     typeterm.T
	mutable bool
}

// Lowerer holds the per-function state threaded through lowering: the
// Program/Scope used for resolution, the accumulating microstatement body,
// and the local binding environment.
type Lowerer struct {
	Program *scope.Program
	Scope   *scope.Scope

	body     []ir.Microstatement
	bindings map[string]binding
	synth    int
}

// LowerFunction lowers a declared function into its ir.Function form and
// registers it in sc.Lowered keyed by its mangled callable name (§4.3.3,
// §4.4), so later calls with a structurally equal argument tuple reuse it
// instead of re-lowering.
func LowerFunction(p *scope.Program, sc *scope.Scope, decl *ast.FuncDecl, subst map[string]typeterm.T) (*ir.Function, error) {
	l := &Lowerer{Program: p, Scope: sc, bindings: map[string]binding{}}

	params := make([]*ir.Arg, len(decl.Params))
	for i, param := range decl.Params {
		t := applySubst(param.Type, subst)
		kind := ir.ArgOwn
		params[i] = &ir.Arg{Name: param.Name, Kind: kind, ArgType: t}
		l.body = append(l.body, params[i])
		l.bindings[param.Name] = binding{typ: t, mutable: false}
	}

	returnType := applySubst(decl.ReturnType, subst)
	if returnType == nil {
		returnType = &typeterm.VoidT{}
	}

	if decl.Body.Expr != nil {
		val, err := l.lowerExpr(decl.Body.Expr)
		if err != nil {
			return nil, err
		}
		l.body = append(l.body, &ir.Return{Value: val})
	} else {
		for _, stmt := range decl.Body.Stmts {
			if err := l.lowerStmt(stmt); err != nil {
				return nil, err
			}
		}
	}

	fn := &ir.Function{
		Name:       decl.Name,
		Params:     params,
		ReturnType: returnType,
		Body:       l.body,
		Exported:   sc.IsExported(decl.Name),
	}
	sc.SetLowered(fn)
	return fn, nil
}

func applySubst(t typeterm.T, subst map[string]typeterm.T) typeterm.T {
	if t == nil || len(subst) == 0 {
		return t
	}
	if infer, ok := typeterm.Degroup(t).(*typeterm.InferT); ok {
		if repl, ok := subst[infer.Label]; ok {
			return repl
		}
	}
	return t
}

// resolveOrSynthesize is the single entry point combining §4.2's resolution
// cascade with §4.3.3's derived-function synthesis fallback (§4.2 step 5).
func (l *Lowerer) resolveOrSynthesize(name string, argTypes []typeterm.T, args []ir.Microstatement, span ast.Span) (*ir.Function, error) {
	candidate := scope.ResolveFunction(l.Program, l.Scope, name, argTypes)
	if candidate.IsSome() {
		c, _ := candidate.Take()
		if c.Lowered != nil {
			return c.Lowered, nil
		}
		return LowerFunction(l.Program, l.Scope, c.Decl, c.Subst)
	}

	fn, err := l.synthesize(name, argTypes, args, span)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving `%s`", name)
	}
	if fn == nil {
		return nil, diagnostics.NewResolutionError(name, "no matching overload and no derived form applies", span)
	}
	l.Scope.SetLowered(fn)
	return fn, nil
}
