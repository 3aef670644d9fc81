package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/scope"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

func newTestProgram() (*scope.Program, *scope.Scope) {
	p := scope.NewProgram()
	root := scope.NewRoot()
	p.SetRoot(root)
	s := scope.NewScope("main.vl")
	p.AddScope(s)
	return p, s
}

func intT() typeterm.T { return &typeterm.TypeT{Name: "i32"} }

func boolT() typeterm.T { return &typeterm.TypeT{Name: "bool"} }

func TestLowerFunction_IdentityOfParam(t *testing.T) {
	p, s := newTestProgram()
	decl := &ast.FuncDecl{
		Name:       "identity",
		Params:     []ast.Param{{Name: "x", Type: intT()}},
		ReturnType: intT(),
		Body:       ast.Body{Expr: ast.NewIdentExpr("x", ast.Span{})},
	}

	fn, err := LowerFunction(p, s, decl, nil)
	require.NoError(t, err)
	assert.Equal(t, "identity", fn.Name)
	require.Len(t, fn.Body, 2, "one Arg microstatement followed by the Return")
	assert.Equal(t, "x", fn.Params[0].Name)

	cached, ok := s.GetLowered(fn.CallableName())
	require.True(t, ok, "LowerFunction must register the result in the scope's Lowered cache")
	assert.Same(t, fn, cached)
}

func TestLowerFunction_ExportedFollowsScope(t *testing.T) {
	p, s := newTestProgram()
	s.Export("pub_fn")
	decl := &ast.FuncDecl{
		Name: "pub_fn",
		Body: ast.Body{Expr: ast.NewLitExpr(intT(), "1", ast.Span{})},
	}

	fn, err := LowerFunction(p, s, decl, nil)
	require.NoError(t, err)
	assert.True(t, fn.Exported)
}

func TestLowerFunction_VoidReturnWhenUndeclared(t *testing.T) {
	p, s := newTestProgram()
	decl := &ast.FuncDecl{
		Name: "noop",
		Body: ast.Body{Stmts: []ast.Stmt{ast.NewReturnStmt(nil, ast.Span{})}},
	}

	fn, err := LowerFunction(p, s, decl, nil)
	require.NoError(t, err)
	_, isVoid := fn.ReturnType.(*typeterm.VoidT)
	assert.True(t, isVoid)
}

func TestLowerFunction_InferSubstitutionAppliesToParams(t *testing.T) {
	p, s := newTestProgram()
	decl := &ast.FuncDecl{
		Name:       "identity",
		Params:     []ast.Param{{Name: "x", Type: &typeterm.InferT{Label: "T"}}},
		ReturnType: &typeterm.InferT{Label: "T"},
		Body:       ast.Body{Expr: ast.NewIdentExpr("x", ast.Span{})},
	}

	fn, err := LowerFunction(p, s, decl, map[string]typeterm.T{"T": intT()})
	require.NoError(t, err)
	assert.True(t, typeterm.Equal(intT(), fn.Params[0].ArgType))
	assert.True(t, typeterm.Equal(intT(), fn.ReturnType))
}

func TestLowerFunction_CallToUnknownNameFails(t *testing.T) {
	p, s := newTestProgram()
	decl := &ast.FuncDecl{
		Name: "bad",
		Body: ast.Body{Expr: ast.NewCallExpr(ast.NewIdentExpr("nonexistent", ast.Span{}), nil, ast.Span{})},
	}

	_, err := LowerFunction(p, s, decl, nil)
	assert.Error(t, err)
}
