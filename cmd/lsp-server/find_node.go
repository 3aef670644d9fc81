package main

import (
	"github.com/vellum-lang/vellumc/internal/ast"
)

// node holds what the cursor falls inside: Decl is the innermost enclosing
// declaration and Expr the innermost enclosing expression (nil when the
// cursor is in no expression); both can be set at once.
type node struct {
	Decl ast.Decl
	Expr ast.Expr
}

type cursorVisitor struct {
	ast.DefaultVisitor
	cursor ast.Location
	found  node
}

func (v *cursorVisitor) EnterDecl(d ast.Decl) bool {
	if !d.Span().Contains(v.cursor) {
		return false
	}
	v.found.Decl = d
	return true
}

func (v *cursorVisitor) EnterExpr(e ast.Expr) bool {
	if !e.Span().Contains(v.cursor) {
		return false
	}
	v.found.Expr = e
	return true
}

// findNodeInModule returns the innermost declaration or expression
// containing loc, walking every top-level declaration the same way the
// lowerer's closure-capture visitor does (internal/lower/closure.go).
func findNodeInModule(m *ast.Module, loc ast.Location) *node {
	v := &cursorVisitor{cursor: loc}
	ast.Walk(m, v)
	if v.found.Decl == nil && v.found.Expr == nil {
		return nil
	}
	return &v.found
}
