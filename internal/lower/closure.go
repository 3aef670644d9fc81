package lower

import (
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/set"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// lowerClosure lowers an anonymous function literal into an ir.Closure. The
// enclosing binding environment is captured by value into the nested
// Lowerer so references to outer names resolve normally; a separate scan
// over the closure's body decides whether any captured binding is
// reassigned, which decides whether the closure's type needs the MutT
// wrapper (§5).
func (l *Lowerer) lowerClosure(e *ast.ClosureExpr) (ir.Microstatement, error) {
	decl := e.Func

	sub := &Lowerer{Program: l.Program, Scope: l.Scope, bindings: map[string]binding{}}
	for name, b := range l.bindings {
		sub.bindings[name] = b
	}

	params := make([]*ir.Arg, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = &ir.Arg{Name: p.Name, Kind: ir.ArgOwn, ArgType: p.Type}
		sub.body = append(sub.body, params[i])
		sub.bindings[p.Name] = binding{typ: p.Type, mutable: false}
	}

	returnType := decl.ReturnType
	if returnType == nil {
		returnType = &typeterm.VoidT{}
	}

	if decl.Body.Expr != nil {
		val, err := sub.lowerExpr(decl.Body.Expr)
		if err != nil {
			return nil, err
		}
		sub.body = append(sub.body, &ir.Return{Value: val})
	} else {
		for _, stmt := range decl.Body.Stmts {
			if err := sub.lowerStmt(stmt); err != nil {
				return nil, err
			}
		}
	}

	fn := &ir.Function{Name: decl.Name, Params: params, ReturnType: returnType, Body: sub.body}
	return &ir.Closure{Fn: fn, Mutable: mutatesCapture(decl, l.bindings)}, nil
}

// mutatesCapture reports whether decl's body reassigns (via AssignStmt) any
// name present in outer, the enclosing function's binding environment at
// the point the closure literal appears. Parameters and names declared
// inside the closure shadow outer and are not captures.
func mutatesCapture(decl *ast.FuncDecl, outer map[string]binding) bool {
	local := set.NewSet[string]()
	for _, p := range decl.Params {
		local.Add(p.Name)
	}

	v := &captureVisitor{outer: outer, local: local}
	for _, s := range decl.Body.Stmts {
		ast.WalkStmt(s, v)
		if v.found {
			return true
		}
	}
	if decl.Body.Expr != nil {
		ast.WalkExpr(decl.Body.Expr, v)
	}
	return v.found
}

type captureVisitor struct {
	ast.DefaultVisitor
	outer map[string]binding
	local set.Set[string]
	found bool
}

func (v *captureVisitor) EnterStmt(s ast.Stmt) bool {
	if v.found {
		return false
	}
	switch stmt := s.(type) {
	case *ast.DeclStmt:
		v.local.Add(stmt.Name)
	case *ast.AssignStmt:
		if ident, ok := stmt.Dest.(*ast.IdentExpr); ok {
			if !v.local.Contains(ident.Name) {
				if _, ok := v.outer[ident.Name]; ok {
					v.found = true
				}
			}
		}
	}
	return true
}

func (v *captureVisitor) EnterExpr(e ast.Expr) bool {
	return !v.found
}
