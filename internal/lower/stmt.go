package lower

import (
	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// lowerStmt lowers one of the statement forms accepted by §4.3.1.
func (l *Lowerer) lowerStmt(s ast.Stmt) error {
	switch v := s.(type) {
	case *ast.DeclStmt:
		val, err := l.lowerExpr(v.Value)
		if err != nil {
			return err
		}
		l.body = append(l.body, &ir.Assignment{Name: v.Name, Value: val, Mutable: v.Mutable})
		l.bindings[v.Name] = binding{typ: val.Type(), mutable: v.Mutable}
		return nil

	case *ast.ExprStmt:
		val, err := l.lowerExpr(v.Expr)
		if err != nil {
			return err
		}
		l.body = append(l.body, val)
		return nil

	case *ast.ReturnStmt:
		if v.Value == nil {
			l.body = append(l.body, &ir.Return{Value: nil})
			return nil
		}
		val, err := l.lowerExpr(v.Value)
		if err != nil {
			return err
		}
		l.body = append(l.body, &ir.Return{Value: val})
		return nil

	case *ast.AssignStmt:
		return l.lowerAssign(v)

	case *ast.CondStmt:
		return l.lowerCond(v)

	default:
		return errors.Errorf("cannot lower statement of type %T", s)
	}
}

// lowerCond lowers an if/else statement (§4.3.1) into an ir.Cond
// microstatement. Each branch is lowered by a nested Lowerer, following the
// same save/restore-by-value approach as lowerClosure: the outer binding
// environment is copied in so names declared before the branch resolve
// normally, but anything a branch declares locally does not leak back out.
func (l *Lowerer) lowerCond(v *ast.CondStmt) error {
	cond, err := l.lowerExpr(v.Cond)
	if err != nil {
		return err
	}

	then, err := l.lowerBranch(v.Then)
	if err != nil {
		return err
	}

	var els []ir.Microstatement
	if v.Else != nil {
		els, err = l.lowerBranch(v.Else)
		if err != nil {
			return err
		}
	}

	l.body = append(l.body, &ir.Cond{Cond: cond, Then: then, Else: els})
	return nil
}

// lowerBranch lowers one arm of an if/else into its own microstatement
// sequence, sharing the caller's bindings by value (§4.3.1).
func (l *Lowerer) lowerBranch(stmts []ast.Stmt) ([]ir.Microstatement, error) {
	sub := &Lowerer{Program: l.Program, Scope: l.Scope, bindings: map[string]binding{}, synth: l.synth}
	for name, b := range l.bindings {
		sub.bindings[name] = b
	}
	for _, stmt := range stmts {
		if err := sub.lowerStmt(stmt); err != nil {
			return nil, err
		}
	}
	l.synth = sub.synth
	return sub.body, nil
}

// lowerAssign rewrites a reassignment into a call to the synthesized
// `store` function (§4.3.1, §4.3.3): "store(dest, value). If the
// destination is an Either, synthesize the tag-replacement assignment;
// otherwise, synthesize the straight assignment. The first argument of
// store must be a mutable binding."
func (l *Lowerer) lowerAssign(v *ast.AssignStmt) error {
	destIdent, ok := v.Dest.(*ast.IdentExpr)
	if !ok {
		return errors.New("reassignment destination must be a plain binding name")
	}
	b, ok := l.bindings[destIdent.Name]
	if !ok {
		return errors.Errorf("unknown identifier `%s`", destIdent.Name)
	}
	if !b.mutable {
		return errors.Errorf("cannot mutate immutable binding `%s`", destIdent.Name)
	}

	destVal := &ir.Value{ValueType: b.typ, Representation: destIdent.Name}
	newVal, err := l.lowerExpr(v.Value)
	if err != nil {
		return err
	}

	fn, err := l.resolveOrSynthesize("store", []typeterm.T{b.typ, newVal.Type()}, []ir.Microstatement{destVal, newVal}, v.Span())
	if err != nil {
		return err
	}
	l.body = append(l.body, &ir.FnCall{Fn: fn, Args: []ir.Microstatement{destVal, newVal}})
	return nil
}
