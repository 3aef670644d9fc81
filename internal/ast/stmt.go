package ast

import "github.com/vellum-lang/vellumc/internal/typeterm"

//sumtype:decl
type Stmt interface {
	isStmt()
	Span() Span
}

func (*DeclStmt) isStmt()     {}
func (*ExprStmt) isStmt()     {}
func (*ReturnStmt) isStmt()   {}
func (*AssignStmt) isStmt()   {}
func (*CondStmt) isStmt()     {}

// DeclStmt lifts a local binding declaration (assignment/declaration, §4.3.1)
// into statement position.
type DeclStmt struct {
	Name    string
	Mutable bool
	Type    typeterm.T // nil if unannotated
	Value   Expr
	span    Span
}

func (s *DeclStmt) Span() Span { return s.span }

func NewDeclStmt(name string, mutable bool, t typeterm.T, value Expr, span Span) *DeclStmt {
	return &DeclStmt{Name: name, Mutable: mutable, Type: t, Value: value, span: span}
}

// ExprStmt is a pure expression statement; its value is discarded.
type ExprStmt struct {
	Expr Expr
	span Span
}

func (s *ExprStmt) Span() Span { return s.span }

func NewExprStmt(e Expr, span Span) *ExprStmt { return &ExprStmt{Expr: e, span: span} }

// ReturnStmt is an explicit return, with or without a value.
type ReturnStmt struct {
	Value Expr // nil for a bare `return`
	span  Span
}

func (s *ReturnStmt) Span() Span { return s.span }

func NewReturnStmt(value Expr, span Span) *ReturnStmt { return &ReturnStmt{Value: value, span: span} }

// AssignStmt is a reassignment of an existing mutable binding; the lowerer
// rewrites this into a call to the synthesized `store` function (§4.3.3).
type AssignStmt struct {
	Dest  Expr
	Value Expr
	span  Span
}

func (s *AssignStmt) Span() Span { return s.span }

func NewAssignStmt(dest, value Expr, span Span) *AssignStmt {
	return &AssignStmt{Dest: dest, Value: value, span: span}
}

// CondStmt is a conditional; the lowerer turns it into an ir.Cond holding
// the lowered condition and both lowered branches.
type CondStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if no else branch
	span Span
}

func (s *CondStmt) Span() Span { return s.span }

func NewCondStmt(cond Expr, then, els []Stmt, span Span) *CondStmt {
	return &CondStmt{Cond: cond, Then: then, Else: els, span: span}
}
