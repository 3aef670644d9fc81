package ast

import "github.com/vellum-lang/vellumc/internal/typeterm"

//sumtype:decl
type Decl interface {
	isDecl()
	Span() Span
}

func (*TypeDecl) isDecl()     {}
func (*FuncDecl) isDecl()     {}
func (*ConstDecl) isDecl()    {}
func (*OperatorDecl) isDecl() {}
func (*ExportDecl) isDecl()   {}
func (*ImportDecl) isDecl()   {}

// TypeDecl names a type alias/generic template.
type TypeDecl struct {
	Name string
	Type typeterm.T
	span Span
}

func (d *TypeDecl) Span() Span { return d.span }

func NewTypeDecl(name string, t typeterm.T, span Span) *TypeDecl {
	return &TypeDecl{Name: name, Type: t, span: span}
}

// Param is one function parameter: a name plus its declared type term.
type Param struct {
	Name string
	Type typeterm.T
}

// FuncDecl is a named or anonymous (closure) function declaration.
type FuncDecl struct {
	// Name is empty for an anonymous closure literal.
	Name       string
	Params     []Param
	ReturnType typeterm.T // nil means unannotated / inferred Void
	Body       Body
	span       Span
}

func (d *FuncDecl) Span() Span { return d.span }

func NewFuncDecl(name string, params []Param, returnType typeterm.T, body Body, span Span) *FuncDecl {
	return &FuncDecl{Name: name, Params: params, ReturnType: returnType, Body: body, span: span}
}

// Body is either a statement list or a single expression (an
// expression-bodied function desugars to a single Return statement by the
// lowerer).
type Body struct {
	Stmts []Stmt
	Expr  Expr // set instead of Stmts for an expression body
}

// ConstDecl is a named constant: an optional declared type plus its
// initializing expression.
type ConstDecl struct {
	Name         string
	DeclaredType typeterm.T // nil if not explicitly annotated
	Value        Expr
	span         Span
}

func (d *ConstDecl) Span() Span { return d.span }

func NewConstDecl(name string, declaredType typeterm.T, value Expr, span Span) *ConstDecl {
	return &ConstDecl{Name: name, DeclaredType: declaredType, Value: value, span: span}
}

type Fixity int

const (
	FixityPrefix Fixity = iota
	FixityInfix
	FixityPostfix
)

// OperatorDecl maps an operator token to a function name at a given fixity
// and precedence level (0-15, §3.3).
type OperatorDecl struct {
	Operator     string
	Fixity       Fixity
	Precedence   int
	FunctionName string
	span         Span
}

func (d *OperatorDecl) Span() Span { return d.span }

func NewOperatorDecl(operator string, fixity Fixity, precedence int, functionName string, span Span) *OperatorDecl {
	return &OperatorDecl{Operator: operator, Fixity: fixity, Precedence: precedence, FunctionName: functionName, span: span}
}

// ExportDecl marks names in the enclosing scope visible to importers.
type ExportDecl struct {
	Names []string
	span  Span
}

func (d *ExportDecl) Span() Span { return d.span }

func NewExportDecl(names []string, span Span) *ExportDecl {
	return &ExportDecl{Names: names, span: span}
}

// ImportSelector is one imported name, with an optional local rename.
type ImportSelector struct {
	Name  string
	Alias string // empty means no rename
}

// ImportDecl brings names (or the whole scope) from another source path
// into scope.
type ImportDecl struct {
	SourcePath string
	// Selectors is nil for a whole-scope import.
	Selectors []ImportSelector
	span      Span
}

func (d *ImportDecl) Span() Span { return d.span }

func NewImportDecl(sourcePath string, selectors []ImportSelector, span Span) *ImportDecl {
	return &ImportDecl{SourcePath: sourcePath, Selectors: selectors, span: span}
}
