// Package driver implements §4.6's outer loop: load the entry file and its
// import closure, validate the `main` invariant, invoke the selected
// emitter, and write the resulting project layout plus manifest. None of
// this is part of the semantic core; it is summarized there for
// completeness and built out fully here.
package driver

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/diagnostics"
	"github.com/vellum-lang/vellumc/internal/emit/script"
	"github.com/vellum-lang/vellumc/internal/emit/systems"
	"github.com/vellum-lang/vellumc/internal/lower"
	"github.com/vellum-lang/vellumc/internal/scope"
	"github.com/vellum-lang/vellumc/internal/set"
)

// compileBudget bounds lowering+emission, grounded on the teacher's own
// 1-second context.WithTimeout around Compile.
const compileBudget = 1 * time.Second

// Loader is the parser/loader collaborator (§6.1, out of scope for this
// repository): given a source path, it returns the parsed module. A real
// implementation resolves the path against the filesystem or an import
// map; this package only consumes its result.
type Loader interface {
	Load(path string) (*ast.Module, error)
}

// BuildProfile selects the external toolchain's invocation mode (§6.3);
// the core never consults it.
type BuildProfile int

const (
	ProfileRelease BuildProfile = iota
	ProfileTest
)

// Driver owns the Program being built and the collaborators needed to
// load source and invoke the target toolchain.
type Driver struct {
	Program *scope.Program
	Loader  Loader
	Profile BuildProfile

	log *diagnostics.Logger
}

// New creates a Driver with a freshly rooted Program (§6.4: "a built-in
// root scope is always loaded first").
func New(loader Loader) *Driver {
	p := scope.NewProgram()
	p.SetRoot(scope.NewRoot())
	return &Driver{Program: p, Loader: loader, log: diagnostics.NewLogger("driver")}
}

// SetTarget sets the target-language flag (§4.6 step 1, §6.3).
func (d *Driver) SetTarget(t scope.Target) {
	d.Program.SetTargetLang(t)
}

// LoadEntry loads path and every file it imports, transitively, recursing
// through import declarations (§4.6 step 2).
func (d *Driver) LoadEntry(path string) error {
	return d.loadRecursive(path, set.NewSet[string]())
}

func (d *Driver) loadRecursive(path string, visited set.Set[string]) error {
	if visited.Contains(path) {
		return nil
	}
	visited.Add(path)

	mod, err := d.Loader.Load(path)
	if err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}

	sc := scope.NewScope(path)
	var imports []*ast.ImportDecl
	for _, decl := range mod.Decls {
		switch v := decl.(type) {
		case *ast.TypeDecl:
			sc.AddType(v.Name, v.Type)
		case *ast.FuncDecl:
			sc.AddFunction(v)
		case *ast.ConstDecl:
			sc.AddConst(&scope.Const{Name: v.Name, DeclaredType: v.DeclaredType, Value: v.Value})
		case *ast.OperatorDecl:
			sc.AddOperator(scope.OperatorMapping{
				Operator: v.Operator, Fixity: v.Fixity, Precedence: v.Precedence, FunctionName: v.FunctionName,
			})
		case *ast.ExportDecl:
			for _, name := range v.Names {
				sc.Export(name)
			}
		case *ast.ImportDecl:
			sc.Imports = append(sc.Imports, toScopeImport(v))
			imports = append(imports, v)
		}
	}
	d.Program.AddScope(sc)

	for _, imp := range imports {
		if err := d.loadRecursive(imp.SourcePath, visited); err != nil {
			return err
		}
	}
	return nil
}

func toScopeImport(v *ast.ImportDecl) scope.Import {
	imp := scope.Import{SourcePath: v.SourcePath}
	if v.Selectors != nil {
		sel := make(map[string]string, len(v.Selectors))
		for _, s := range v.Selectors {
			alias := s.Alias
			if alias == "" {
				alias = s.Name
			}
			sel[s.Name] = alias
		}
		imp.Selectors = sel
	}
	return imp
}

// findMain validates the entry scope's `main` invariant (§4.6 step 3,
// §7's Invariant breach kind): exactly one overload, exported, no
// parameters.
func (d *Driver) findMain(entryPath string) (*scope.Scope, *ast.FuncDecl, error) {
	var entryScope *scope.Scope
	err := d.Program.Borrow(entryPath, func(s *scope.Scope) error {
		entryScope = s
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	decls := entryScope.Functions["main"]
	if len(decls) == 0 {
		return nil, nil, diagnostics.NewInvariantBreachError("no `main` function declared in the entry file")
	}
	if len(decls) > 1 {
		return nil, nil, diagnostics.NewInvariantBreachError("more than one `main` overload declared")
	}
	mainDecl := decls[0]
	if len(mainDecl.Params) != 0 {
		return nil, nil, diagnostics.NewInvariantBreachError("`main` must take no arguments")
	}
	if !entryScope.IsExported("main") {
		return nil, nil, diagnostics.NewInvariantBreachError("`main` must be exported")
	}
	return entryScope, mainDecl, nil
}

// Build runs the full pipeline (§4.6): load, validate, lower, emit, write
// the project layout, and invoke the external toolchain.
func (d *Driver) Build(ctx context.Context, entryPath, outDir string) error {
	compileCtx, cancel := context.WithTimeout(ctx, compileBudget)
	defer cancel()

	if err := d.LoadEntry(entryPath); err != nil {
		return err
	}

	entryScope, mainDecl, err := d.findMain(entryPath)
	if err != nil {
		return err
	}

	mainFn, err := lower.LowerFunction(d.Program, entryScope, mainDecl, nil)
	if err != nil {
		return err
	}

	select {
	case <-compileCtx.Done():
		return errors.New("compilation exceeded its wall-clock budget")
	default:
	}

	stem := strings.TrimSuffix(filepath.Base(entryPath), filepath.Ext(entryPath))

	switch d.Program.TargetLang() {
	case scope.TargetSystems:
		src, out, err := systems.Generate(mainFn)
		if err != nil {
			return err
		}
		if err := writeSystemsProject(outDir, stem, src, out); err != nil {
			return err
		}
	default:
		src, out, err := script.Generate(mainFn)
		if err != nil {
			return err
		}
		if err := writeScriptProject(outDir, stem, src, out); err != nil {
			return err
		}
	}

	d.log.Info("wrote project for %s to %s", stem, outDir)
	return invokeToolchain(ctx, outDir, d.Program.TargetLang(), d.Profile)
}
