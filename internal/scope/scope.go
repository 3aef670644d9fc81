// Package scope implements Scope and Program (§3.3, §3.4, §5): the
// file-level namespace of types/functions/constants/operators/exports/
// imports, and the process-wide registry of loaded scopes.
package scope

import (
	"github.com/tidwall/btree"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// Import records either a whole-scope import or a field-selection import
// (§3.3).
type Import struct {
	SourcePath string
	// Selectors is nil for a whole-scope import; otherwise name -> local
	// alias (alias equals name when no rename was requested).
	Selectors map[string]string
}

// Const is a named constant: an optional declared type plus the expression
// AST that produces it.
type Const struct {
	Name         string
	DeclaredType typeterm.T
	Value        ast.Expr
}

// OperatorMapping records one operator -> function-name binding at a given
// fixity and precedence (§3.3).
type OperatorMapping struct {
	Operator     string
	Fixity       ast.Fixity
	Precedence   int
	FunctionName string
}

// Scope holds, all keyed by identifier, the names visible in one source
// file (§3.3).
type Scope struct {
	Path string

	Imports   []Import
	Types     map[string]typeterm.T
	Consts    map[string]*Const
	Functions map[string][]*ast.FuncDecl // overloaded, declaration order
	Operators map[string][]OperatorMapping
	Exports   map[string]bool

	// Lowered caches already-lowered functions (user-declared and
	// synthesized) keyed by callable name, so repeated resolution of the
	// same call shape doesn't re-lower or re-synthesize (§4.3.3
	// deduplication, §8 "two call sites with structurally equal argument
	// tuples produce the same callable name and thus appear exactly once").
	Lowered btree.Map[string, *ir.Function]
}

func NewScope(path string) *Scope {
	return &Scope{
		Path:      path,
		Types:     map[string]typeterm.T{},
		Consts:    map[string]*Const{},
		Functions: map[string][]*ast.FuncDecl{},
		Operators: map[string][]OperatorMapping{},
		Exports:   map[string]bool{},
	}
}

func (s *Scope) AddType(name string, t typeterm.T) {
	s.Types[name] = t
}

func (s *Scope) AddConst(c *Const) {
	s.Consts[c.Name] = c
}

func (s *Scope) AddFunction(fn *ast.FuncDecl) {
	s.Functions[fn.Name] = append(s.Functions[fn.Name], fn)
}

func (s *Scope) AddOperator(m OperatorMapping) {
	s.Operators[m.Operator] = append(s.Operators[m.Operator], m)
}

func (s *Scope) Export(name string) {
	s.Exports[name] = true
}

// IsExported reports whether name is visible to importers of s; the root
// scope has everything visible regardless of export lists (§3.3).
func (s *Scope) IsExported(name string) bool {
	if s.Path == RootPath {
		return true
	}
	return s.Exports[name]
}

// GetLowered looks up an already-lowered function by its callable name.
func (s *Scope) GetLowered(callableName string) (*ir.Function, bool) {
	return s.Lowered.Get(callableName)
}

func (s *Scope) SetLowered(fn *ir.Function) {
	s.Lowered.Set(fn.CallableName(), fn)
}
