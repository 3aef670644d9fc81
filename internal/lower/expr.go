package lower

import (
	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// lowerExpr linearizes e and recursively lowers the result into a single
// Microstatement (§4.3.2 step 6: "recurse into the resulting single
// base-assignable list to emit microstatements").
func (l *Lowerer) lowerExpr(e ast.Expr) (ir.Microstatement, error) {
	linear, err := l.linearize(e)
	if err != nil {
		return nil, err
	}
	return l.lowerBaseAssignable(linear)
}

func (l *Lowerer) lowerBaseAssignable(e ast.Expr) (ir.Microstatement, error) {
	switch v := e.(type) {
	case *ast.LitExpr:
		return &ir.Value{ValueType: v.Type, Representation: v.Representation}, nil

	case *ast.IdentExpr:
		if b, ok := l.bindings[v.Name]; ok {
			return &ir.Value{ValueType: b.typ, Representation: v.Name}, nil
		}
		// A bare identifier naming a declared function used as a value
		// (closure/parameter-style reference, §3.2's Value-of-Function-type
		// invariant).
		if fn, ok := l.Scope.GetLowered(v.Name); ok {
			return &ir.Value{ValueType: &typeterm.FunctionT{In: tupleOf(fn.Params), Out: fn.ReturnType}, Representation: v.Name}, nil
		}
		return nil, errors.Errorf("unknown identifier `%s`", v.Name)

	case *ast.ArrayExpr:
		vals := make([]ir.Microstatement, len(v.Elements))
		var elemType typeterm.T
		for i, el := range v.Elements {
			m, err := l.lowerExpr(el)
			if err != nil {
				return nil, err
			}
			vals[i] = m
			if elemType == nil {
				elemType = m.Type()
			}
		}
		if elemType == nil {
			elemType = &typeterm.VoidT{}
		}
		return &ir.Array{ElemType: elemType, Vals: vals}, nil

	case *ast.ClosureExpr:
		return l.lowerClosure(v)

	case *ast.CallExpr:
		return l.lowerCall(v)

	case *ast.ObjectExpr:
		// TODO: bare object-literal construction (without a named
		// constructor call) is not yet implemented; use Type(field, ...)
		// call syntax, which goes through derived-constructor synthesis
		// (§4.3.3) instead.
		return nil, errors.New("bare object-literal expressions are not supported; use a constructor call")

	default:
		return nil, errors.Errorf("cannot lower expression of type %T", e)
	}
}

func tupleOf(params []*ir.Arg) typeterm.T {
	children := make([]typeterm.T, len(params))
	for i, p := range params {
		children[i] = p.ArgType
	}
	return &typeterm.TupleT{Children: children}
}

// lowerCall lowers every argument, then resolves (or synthesizes) the
// callee. A callee that is itself a local binding of function type becomes
// a VarCall (§3.2) rather than an FnCall, since there is no single resolved
// Function to call.
func (l *Lowerer) lowerCall(call *ast.CallExpr) (ir.Microstatement, error) {
	args := make([]ir.Microstatement, len(call.Args))
	argTypes := make([]typeterm.T, len(call.Args))
	for i, a := range call.Args {
		m, err := l.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = m
		argTypes[i] = m.Type()
	}

	ident, ok := call.Callee.(*ast.IdentExpr)
	if !ok {
		return nil, errors.New("only direct-name call expressions are supported as callees")
	}

	if b, ok := l.bindings[ident.Name]; ok {
		if fnType, isFn := typeterm.Degroup(b.typ).(*typeterm.FunctionT); isFn {
			return &ir.VarCall{Name: ident.Name, Args: args, ResultType: fnType.Out}, nil
		}
	}

	fn, err := l.resolveOrSynthesize(ident.Name, argTypes, args, call.Span())
	if err != nil {
		return nil, err
	}
	return &ir.FnCall{Fn: fn, Args: args}, nil
}
