package lower

import (
	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/scope"
)

// linearize implements §4.3.2's largest-precedence-first rewriting: repeatedly
// find the highest-precedence operator remaining (ties broken left-to-right),
// resolve its mapping, and splice a CallExpr back into the sequence until a
// single base-assignable remains. Method syntax (x.f(args)) is rewritten to
// f(x, args) before resolution, per the same section.
func (l *Lowerer) linearize(e ast.Expr) (ast.Expr, error) {
	seq, ok := e.(*ast.OpSeqExpr)
	if !ok {
		return l.rewriteMethodSyntax(e)
	}

	items := make([]ast.OpItem, len(seq.Items))
	copy(items, seq.Items)

	for {
		if len(items) == 1 {
			operand, ok := items[0].(ast.OperandItem)
			if !ok {
				return nil, errors.New("linearization ended on a bare operator token")
			}
			return l.rewriteMethodSyntax(operand.Expr)
		}

		opIdx, fixity := highestPrecedenceOp(items)
		if opIdx < 0 {
			return nil, errors.New("operator sequence contains no resolvable operator")
		}
		opItem := items[opIdx].(ast.OperatorItem)

		span := seq.Span()
		var callExpr ast.Expr
		var consumedFrom, consumedTo int

		switch fixity {
		case ast.FixityPrefix:
			operand, ok := items[opIdx+1].(ast.OperandItem)
			if !ok {
				return nil, errors.New("prefix operator operand must be a base-assignable")
			}
			fnName, err := scope.ResolveOperator(l.Program, l.Scope, opItem.Op, ast.FixityPrefix, 1)
			if err != nil {
				return nil, err
			}
			callExpr = ast.NewCallExpr(ast.NewIdentExpr(fnName, span), []ast.Expr{operand.Expr}, span)
			consumedFrom, consumedTo = opIdx, opIdx+1

		case ast.FixityPostfix:
			operand, ok := items[opIdx-1].(ast.OperandItem)
			if !ok {
				return nil, errors.New("postfix operator operand must be a base-assignable")
			}
			fnName, err := scope.ResolveOperator(l.Program, l.Scope, opItem.Op, ast.FixityPostfix, 1)
			if err != nil {
				return nil, err
			}
			callExpr = ast.NewCallExpr(ast.NewIdentExpr(fnName, span), []ast.Expr{operand.Expr}, span)
			consumedFrom, consumedTo = opIdx-1, opIdx

		default: // infix
			left, ok1 := items[opIdx-1].(ast.OperandItem)
			right, ok2 := items[opIdx+1].(ast.OperandItem)
			if !ok1 || !ok2 {
				return nil, errors.New("infix operator operands must be base-assignables")
			}
			fnName, err := scope.ResolveOperator(l.Program, l.Scope, opItem.Op, ast.FixityInfix, 2)
			if err != nil {
				return nil, err
			}
			callExpr = ast.NewCallExpr(ast.NewIdentExpr(fnName, span), []ast.Expr{left.Expr, right.Expr}, span)
			consumedFrom, consumedTo = opIdx-1, opIdx+1
		}

		next := make([]ast.OpItem, 0, len(items)-(consumedTo-consumedFrom))
		next = append(next, items[:consumedFrom]...)
		next = append(next, ast.OperandItem{Expr: callExpr})
		next = append(next, items[consumedTo+1:]...)
		items = next
	}
}

// highestPrecedenceOp scans items for the operator token whose declared
// precedence (§3.3: 0-15) is greatest, breaking ties left-to-right, and
// reports its fixity by position: an operator with no left operand is
// prefix, one with no right operand is postfix, otherwise infix.
func highestPrecedenceOp(items []ast.OpItem) (int, ast.Fixity) {
	best := -1
	bestPrec := -1
	var bestFixity ast.Fixity
	for i, item := range items {
		opItem, ok := item.(ast.OperatorItem)
		if !ok {
			continue
		}
		fixity, prec := classifyOperatorPosition(items, i)
		if prec > bestPrec {
			bestPrec = prec
			best = i
			bestFixity = fixity
		}
		_ = opItem
	}
	return best, bestFixity
}

// classifyOperatorPosition derives fixity from adjacency (an operator with
// no operand to its left is prefix; none to its right is postfix) and reads
// the ordering key for that token and fixity from the static
// precedenceTable via precedenceOf; declared precedences in scope are not
// consulted here.
func classifyOperatorPosition(items []ast.OpItem, i int) (ast.Fixity, int) {
	_, hasLeft := operandAt(items, i-1)
	_, hasRight := operandAt(items, i+1)
	switch {
	case !hasLeft && hasRight:
		return ast.FixityPrefix, precedenceOf(items[i].(ast.OperatorItem).Op, ast.FixityPrefix)
	case hasLeft && !hasRight:
		return ast.FixityPostfix, precedenceOf(items[i].(ast.OperatorItem).Op, ast.FixityPostfix)
	default:
		return ast.FixityInfix, precedenceOf(items[i].(ast.OperatorItem).Op, ast.FixityInfix)
	}
}

func operandAt(items []ast.OpItem, i int) (ast.OperandItem, bool) {
	if i < 0 || i >= len(items) {
		return ast.OperandItem{}, false
	}
	o, ok := items[i].(ast.OperandItem)
	return o, ok
}

// precedenceTable is consulted only to order rewriting; actual function
// resolution happens through scope.ResolveOperator once an operator has
// been selected. Operators not present here (custom user operators) sort
// below every prelude operator (§3.3's per-scope operator declarations
// still carry their own declared precedence, tracked alongside the mapping
// itself; this table covers the fixed prelude set from §6.4).
var precedenceTable = map[string]int{
	"*": 12, "/": 12, "%": 12,
	"+": 11, "-": 11,
	"<<": 10, ">>": 10,
	"==": 9, "!=": 9, "<": 9, "<=": 9, ">": 9, ">=": 9,
	"&": 8, "^": 7, "|": 6,
}

func precedenceOf(op string, fixity ast.Fixity) int {
	if fixity == ast.FixityPrefix && op == "-" {
		return 14
	}
	if p, ok := precedenceTable[op]; ok {
		return p
	}
	return 5
}

// rewriteMethodSyntax turns x.f(args) into f(x, args) before resolution
// (§4.3.2), recursing into sub-expressions that may themselves contain
// method syntax or further operator sequences.
func (l *Lowerer) rewriteMethodSyntax(e ast.Expr) (ast.Expr, error) {
	switch v := e.(type) {
	case *ast.MethodExpr:
		recv, err := l.linearize(v.Receiver)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, 0, len(v.Args)+1)
		args = append(args, recv)
		for _, a := range v.Args {
			la, err := l.linearize(a)
			if err != nil {
				return nil, err
			}
			args = append(args, la)
		}
		return ast.NewCallExpr(ast.NewIdentExpr(v.Name, v.Span()), args, v.Span()), nil
	case *ast.CallExpr:
		callee, err := l.rewriteMethodSyntax(v.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, len(v.Args))
		for i, a := range v.Args {
			la, err := l.linearize(a)
			if err != nil {
				return nil, err
			}
			args[i] = la
		}
		return ast.NewCallExpr(callee, args, v.Span()), nil
	case *ast.ParenExpr:
		inner, err := l.linearize(v.Inner)
		if err != nil {
			return nil, err
		}
		return inner, nil
	case *ast.ObjectExpr:
		fields := make([]ast.ObjectField, len(v.Fields))
		for i, f := range v.Fields {
			lf, err := l.linearize(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.ObjectField{Name: f.Name, Value: lf}
		}
		return ast.NewObjectExpr(fields, v.Span()), nil
	case *ast.ArrayExpr:
		elems := make([]ast.Expr, len(v.Elements))
		for i, el := range v.Elements {
			le, err := l.linearize(el)
			if err != nil {
				return nil, err
			}
			elems[i] = le
		}
		return ast.NewArrayExpr(elems, v.Span()), nil
	default:
		return e, nil
	}
}
