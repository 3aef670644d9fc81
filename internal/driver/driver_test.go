package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/diagnostics"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

type fakeLoader struct {
	modules map[string]*ast.Module
}

func (f *fakeLoader) Load(path string) (*ast.Module, error) {
	mod, ok := f.modules[path]
	if !ok {
		return nil, assert.AnError
	}
	return mod, nil
}

func voidSpan() ast.Span { return ast.Span{} }

func mainDecl(exported bool, params []ast.Param) *ast.Module {
	decls := []ast.Decl{ast.NewFuncDecl("main", params, &typeterm.TypeT{Name: "ExitCode"}, ast.Body{}, voidSpan())}
	if exported {
		decls = append(decls, ast.NewExportDecl([]string{"main"}, voidSpan()))
	}
	return &ast.Module{Path: "entry.vl", Decls: decls}
}

func TestLoadEntry_FollowsImportsTransitively(t *testing.T) {
	entry := &ast.Module{
		Path: "entry.vl",
		Decls: []ast.Decl{
			&ast.ImportDecl{SourcePath: "lib.vl"},
		},
	}
	lib := &ast.Module{
		Path: "lib.vl",
		Decls: []ast.Decl{
			ast.NewTypeDecl("Thing", &typeterm.TypeT{Name: "i32"}, voidSpan()),
		},
	}

	d := New(&fakeLoader{modules: map[string]*ast.Module{"entry.vl": entry, "lib.vl": lib}})
	require.NoError(t, d.LoadEntry("entry.vl"))

	assert.Len(t, d.Program.Scopes(), 3) // root + entry + lib
}

func TestLoadEntry_CycleGuardStopsReentry(t *testing.T) {
	a := &ast.Module{Path: "a.vl", Decls: []ast.Decl{&ast.ImportDecl{SourcePath: "b.vl"}}}
	b := &ast.Module{Path: "b.vl", Decls: []ast.Decl{&ast.ImportDecl{SourcePath: "a.vl"}}}

	d := New(&fakeLoader{modules: map[string]*ast.Module{"a.vl": a, "b.vl": b}})
	require.NoError(t, d.LoadEntry("a.vl"))
	assert.Len(t, d.Program.Scopes(), 3)
}

func TestLoadEntry_UnloadableImportFails(t *testing.T) {
	entry := &ast.Module{Path: "entry.vl", Decls: []ast.Decl{&ast.ImportDecl{SourcePath: "missing.vl"}}}
	d := New(&fakeLoader{modules: map[string]*ast.Module{"entry.vl": entry}})
	assert.Error(t, d.LoadEntry("entry.vl"))
}

func TestToScopeImport_WholeScope(t *testing.T) {
	imp := toScopeImport(&ast.ImportDecl{SourcePath: "lib.vl"})
	assert.Equal(t, "lib.vl", imp.SourcePath)
	assert.Nil(t, imp.Selectors)
}

func TestToScopeImport_SelectorDefaultsAliasToName(t *testing.T) {
	imp := toScopeImport(&ast.ImportDecl{
		SourcePath: "lib.vl",
		Selectors:  []ast.ImportSelector{{Name: "foo"}},
	})
	require.NotNil(t, imp.Selectors)
	assert.Equal(t, "foo", imp.Selectors["foo"])
}

func TestToScopeImport_SelectorExplicitAlias(t *testing.T) {
	imp := toScopeImport(&ast.ImportDecl{
		SourcePath: "lib.vl",
		Selectors:  []ast.ImportSelector{{Name: "foo", Alias: "bar"}},
	})
	assert.Equal(t, "bar", imp.Selectors["foo"])
}

func TestFindMain_NoMainDeclared(t *testing.T) {
	mod := &ast.Module{Path: "entry.vl"}
	d := New(&fakeLoader{modules: map[string]*ast.Module{"entry.vl": mod}})
	require.NoError(t, d.LoadEntry("entry.vl"))

	_, _, err := d.findMain("entry.vl")
	require.Error(t, err)
	var breach diagnostics.InvariantBreachError
	require.ErrorAs(t, err, &breach)
}

func TestFindMain_MultipleOverloadsRejected(t *testing.T) {
	mod := &ast.Module{
		Path: "entry.vl",
		Decls: []ast.Decl{
			ast.NewFuncDecl("main", nil, &typeterm.TypeT{Name: "ExitCode"}, ast.Body{}, voidSpan()),
			ast.NewFuncDecl("main", []ast.Param{{Name: "x", Type: &typeterm.TypeT{Name: "i32"}}}, &typeterm.TypeT{Name: "ExitCode"}, ast.Body{}, voidSpan()),
			ast.NewExportDecl([]string{"main"}, voidSpan()),
		},
	}
	d := New(&fakeLoader{modules: map[string]*ast.Module{"entry.vl": mod}})
	require.NoError(t, d.LoadEntry("entry.vl"))

	_, _, err := d.findMain("entry.vl")
	assert.Error(t, err)
}

func TestFindMain_RejectsParameterizedMain(t *testing.T) {
	mod := mainDecl(true, []ast.Param{{Name: "argc", Type: &typeterm.TypeT{Name: "i32"}}})
	d := New(&fakeLoader{modules: map[string]*ast.Module{"entry.vl": mod}})
	require.NoError(t, d.LoadEntry("entry.vl"))

	_, _, err := d.findMain("entry.vl")
	assert.Error(t, err)
}

func TestFindMain_RejectsUnexportedMain(t *testing.T) {
	mod := mainDecl(false, nil)
	d := New(&fakeLoader{modules: map[string]*ast.Module{"entry.vl": mod}})
	require.NoError(t, d.LoadEntry("entry.vl"))

	_, _, err := d.findMain("entry.vl")
	assert.Error(t, err)
}

func TestFindMain_Success(t *testing.T) {
	mod := mainDecl(true, nil)
	d := New(&fakeLoader{modules: map[string]*ast.Module{"entry.vl": mod}})
	require.NoError(t, d.LoadEntry("entry.vl"))

	sc, decl, err := d.findMain("entry.vl")
	require.NoError(t, err)
	assert.Equal(t, "entry.vl", sc.Path)
	assert.Equal(t, "main", decl.Name)
}
