package scope

import (
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// RootPath is the pseudo-path of the always-loaded built-in scope (§6.4).
const RootPath = "@root"

var integerTypes = []string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64"}
var floatTypes = []string{"f32", "f64"}
var numericTypes = append(append([]string{}, integerTypes...), floatTypes...)

// NewRoot builds the `@root` scope (§6.4): intrinsic generics, primitive
// types, and operator mappings for arithmetic, bitwise, comparison, and
// string operations. Every primitive operator is wired straight to a
// native ir.Function (no source body to lower) so the resolver's Lowered
// cache, not ordinary overload matching, is what satisfies these calls
// (§4.3.3's dedup path, reused here for the prelude rather than only for
// synthesis).
func NewRoot() *Scope {
	root := NewScope(RootPath)

	for _, name := range numericTypes {
		root.AddType(name, primType(name))
	}
	root.AddType("bool", primType("bool"))
	root.AddType("string", primType("string"))
	root.AddType("ExitCode", primType("ExitCode"))

	for _, name := range []string{"Array", "Buffer", "Either", "Tuple", "Field", "Group", "Mut"} {
		root.AddType(name, &typeterm.IntrinsicGenericT{Name: name, Arity: intrinsicArity(name)})
	}
	root.AddType("Rust", &typeterm.IntrinsicGenericT{Name: "Rust", Arity: 1})
	root.AddType("Node", &typeterm.IntrinsicGenericT{Name: "Node", Arity: 1})
	root.AddType("Dependency", &typeterm.IntrinsicGenericT{Name: "Dependency", Arity: 2})
	root.AddType("Import", &typeterm.IntrinsicGenericT{Name: "Import", Arity: 2})
	root.AddType("Error", primType("Error"))

	wireArithmetic(root)
	wireBitwise(root)
	wireComparison(root)
	wireStringOps(root)

	return root
}

func intrinsicArity(name string) int {
	switch name {
	case "Array", "Group", "Mut":
		return 1
	case "Field", "Dependency", "Import":
		return 2
	default: // Buffer, Either (variadic-arity "either" modeled as >=2), Tuple
		return 2
	}
}

func primType(name string) typeterm.T {
	return &typeterm.TypeT{Name: name}
}

func addNative(root *Scope, exported string, native string, params []typeterm.T, ret typeterm.T) {
	args := make([]*ir.Arg, len(params))
	for i, p := range params {
		args[i] = &ir.Arg{Name: argName(i), Kind: ir.ArgOwn, ArgType: p}
	}
	fn := &ir.Function{Name: exported, Params: args, ReturnType: ret, Native: native}
	root.SetLowered(fn)
}

func argName(i int) string {
	names := []string{"lhs", "rhs"}
	if i < len(names) {
		return names[i]
	}
	return "arg"
}

// wireArithmetic registers +, -, *, /, % at the usual C-family precedence
// for every numeric type (§6.4).
func wireArithmetic(root *Scope) {
	ops := []struct {
		token, fn   string
		precedence  int
	}{
		{"*", "mul", 12}, {"/", "div", 12}, {"%", "mod", 12},
		{"+", "add", 11}, {"-", "sub", 11},
	}
	for _, op := range ops {
		root.AddOperator(OperatorMapping{Operator: op.token, Fixity: ast.FixityInfix, Precedence: op.precedence, FunctionName: op.fn})
		for _, t := range numericTypes {
			addNative(root, op.fn, op.fn, []typeterm.T{primType(t), primType(t)}, primType(t))
		}
	}
	root.AddOperator(OperatorMapping{Operator: "-", Fixity: ast.FixityPrefix, Precedence: 14, FunctionName: "neg"})
	for _, t := range numericTypes {
		addNative(root, "neg", "neg", []typeterm.T{primType(t)}, primType(t))
	}
}

// wireBitwise registers &, |, ^, <<, >> for integer types only (§6.4).
func wireBitwise(root *Scope) {
	ops := []struct {
		token, fn  string
		precedence int
	}{
		{"&", "bitand", 8}, {"|", "bitor", 6}, {"^", "bitxor", 7},
		{"<<", "shl", 10}, {">>", "shr", 10},
	}
	for _, op := range ops {
		root.AddOperator(OperatorMapping{Operator: op.token, Fixity: ast.FixityInfix, Precedence: op.precedence, FunctionName: op.fn})
		for _, t := range integerTypes {
			addNative(root, op.fn, op.fn, []typeterm.T{primType(t), primType(t)}, primType(t))
		}
	}
}

// wireComparison registers ==, !=, <, <=, >, >= for every numeric type,
// bool and string (§6.4), always returning bool.
func wireComparison(root *Scope) {
	ops := []struct {
		token, fn string
	}{
		{"==", "eq"}, {"!=", "neq"}, {"<", "lt"}, {"<=", "lte"}, {">", "gt"}, {">=", "gte"},
	}
	comparable := append(append([]string{}, numericTypes...), "bool", "string")
	for _, op := range ops {
		root.AddOperator(OperatorMapping{Operator: op.token, Fixity: ast.FixityInfix, Precedence: 9, FunctionName: op.fn})
		for _, t := range comparable {
			addNative(root, op.fn, op.fn, []typeterm.T{primType(t), primType(t)}, primType("bool"))
		}
	}
}

// wireStringOps registers string concatenation via `+` (§6.4).
func wireStringOps(root *Scope) {
	addNative(root, "add", "concat", []typeterm.T{primType("string"), primType("string")}, primType("string"))
}
