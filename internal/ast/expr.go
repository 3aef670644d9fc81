package ast

import "github.com/vellum-lang/vellumc/internal/typeterm"

//sumtype:decl
type Expr interface {
	isExpr()
	Span() Span
}

func (*OpSeqExpr) isExpr()   {}
func (*IdentExpr) isExpr()   {}
func (*LitExpr) isExpr()     {}
func (*ParenExpr) isExpr()   {}
func (*CallExpr) isExpr()    {}
func (*MethodExpr) isExpr()  {}
func (*ObjectExpr) isExpr()  {}
func (*ArrayExpr) isExpr()   {}
func (*ClosureExpr) isExpr() {}

// OpItem is one element of an OpSeqExpr: either a base-assignable operand or
// an operator token (§4.3.2, §6.1).
//
//sumtype:decl
type OpItem interface{ isOpItem() }

func (OperandItem) isOpItem() {}
func (OperatorItem) isOpItem() {}

type OperandItem struct{ Expr Expr }
type OperatorItem struct{ Op string }

// OpSeqExpr is the raw, un-linearized expression form the parser emits: a
// sequence of base-assignables interleaved with operator tokens (§6.1). The
// lowerer's linearizer (§4.3.2) rewrites this into a single base-assignable
// before any microstatement is emitted.
type OpSeqExpr struct {
	Items []OpItem
	span  Span
}

func (e *OpSeqExpr) Span() Span { return e.span }

func NewOpSeqExpr(items []OpItem, span Span) *OpSeqExpr {
	return &OpSeqExpr{Items: items, span: span}
}

// IdentExpr references a variable, function, type, or constant by name.
type IdentExpr struct {
	Name string
	span Span
}

func (e *IdentExpr) Span() Span { return e.span }

func NewIdentExpr(name string, span Span) *IdentExpr { return &IdentExpr{Name: name, span: span} }

// LitExpr is a literal value. Representation is the source-form token
// (number literal, quoted string, identifier) carried straight through to
// the Microstatement.Value the lowerer eventually produces for it (§3.2).
type LitExpr struct {
	Type           typeterm.T
	Representation string
	span           Span
}

func (e *LitExpr) Span() Span { return e.span }

func NewLitExpr(t typeterm.T, representation string, span Span) *LitExpr {
	return &LitExpr{Type: t, Representation: representation, span: span}
}

// ParenExpr is a parenthesized sub-expression.
type ParenExpr struct {
	Inner Expr
	span  Span
}

func (e *ParenExpr) Span() Span { return e.span }

func NewParenExpr(inner Expr, span Span) *ParenExpr { return &ParenExpr{Inner: inner, span: span} }

// CallExpr is a function-call suffix applied to Callee.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	span   Span
}

func (e *CallExpr) Span() Span { return e.span }

func NewCallExpr(callee Expr, args []Expr, span Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}

// MethodExpr is method-syntax `x.f(args)`. The linearizer rewrites this into
// a CallExpr{Callee: f, Args: [x, args...]} before resolution (§4.3.2).
type MethodExpr struct {
	Receiver Expr
	Name     string
	Args     []Expr
	span     Span
}

func (e *MethodExpr) Span() Span { return e.span }

func NewMethodExpr(receiver Expr, name string, args []Expr, span Span) *MethodExpr {
	return &MethodExpr{Receiver: receiver, Name: name, Args: args, span: span}
}

// ObjectField is one field: value pair in an object literal.
type ObjectField struct {
	Name  string
	Value Expr
}

// ObjectExpr is an object/tuple literal. The linearizer linearizes its field
// values, but the lowerer rejects a bare ObjectExpr with an error; values of
// a declared tuple type are built through a constructor call instead.
type ObjectExpr struct {
	Fields []ObjectField
	span   Span
}

func (e *ObjectExpr) Span() Span { return e.span }

func NewObjectExpr(fields []ObjectField, span Span) *ObjectExpr {
	return &ObjectExpr{Fields: fields, span: span}
}

// ArrayExpr is an array/buffer literal.
type ArrayExpr struct {
	Elements []Expr
	span     Span
}

func (e *ArrayExpr) Span() Span { return e.span }

func NewArrayExpr(elements []Expr, span Span) *ArrayExpr {
	return &ArrayExpr{Elements: elements, span: span}
}

// ClosureExpr is an anonymous function literal.
type ClosureExpr struct {
	Func *FuncDecl
	span Span
}

func (e *ClosureExpr) Span() Span { return e.span }

func NewClosureExpr(fn *FuncDecl, span Span) *ClosureExpr {
	return &ClosureExpr{Func: fn, span: span}
}
