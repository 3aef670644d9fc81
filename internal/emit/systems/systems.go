// Package systems implements the systems-target backend (§4.5.1): one
// source file per compilation unit, parameter-kind-driven argument passing,
// and the Optional/Result/Either/Tuple value-type idioms the Rust-like
// target expects.
package systems

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/emit"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// Backend implements emit.Generator for the systems target.
type Backend struct{}

func (Backend) FileExtension() string { return ".rs" }

// Generate emits every function reachable from entry into a single
// compilation unit, returning its source text plus the external
// dependencies it touched (§4.6 step: "invoke the emitter for the
// resolved main").
func Generate(entry *ir.Function) (string, *emit.Output, error) {
	b := Backend{}
	out := emit.NewOutput()
	var ordered []string
	if err := emit.Generate(b, entry, out, &ordered); err != nil {
		return "", nil, err
	}
	typeDecls, err := emit.EmitTypes(b, out)
	if err != nil {
		return "", nil, err
	}
	var buf strings.Builder
	if typeDecls != "" {
		buf.WriteString(typeDecls)
		buf.WriteString("\n")
	}
	for _, name := range ordered {
		src, _ := out.Out.Get(name)
		buf.WriteString(src)
		buf.WriteString("\n\n")
	}
	return buf.String(), out, nil
}

// EmitType renders a standalone Rust declaration for a named type the first
// time it's referenced by a signature (§4.4): a struct for a Tuple-bodied
// product, an enum for a non-Optional/Result Either-bodied sum, and a type
// alias for anything else (including a plain primitive alias). Named types
// whose structural shape is already the Optional/Result idiom get no
// declaration - rustType renders those by shape, never by name.
func (b Backend) EmitType(name string, t typeterm.T) (string, error) {
	if kind, _ := typeterm.Shape(t); kind != typeterm.ShapePlain {
		return "", nil
	}

	named, ok := t.(*typeterm.TypeT)
	if !ok || named.Body == nil {
		return "", nil
	}
	underlying := typeterm.Degroup(named.Body)

	switch v := underlying.(type) {
	case *typeterm.TupleT:
		return emitStructDecl(name, v), nil
	case *typeterm.EitherT:
		return emitEnumDecl(name, v), nil
	case *typeterm.FieldT:
		return fmt.Sprintf("pub struct %s {\n    pub %s: %s,\n}\n", name, v.Name, rustType(v.Body)), nil
	default:
		return fmt.Sprintf("pub type %s = %s;\n", name, rustType(underlying)), nil
	}
}

func emitStructDecl(name string, v *typeterm.TupleT) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("pub struct %s {\n", name))
	for i, c := range v.Children {
		fname, body := fieldNameAndBody(c)
		if fname == "" {
			fname = "arg" + strconv.Itoa(i)
		}
		buf.WriteString(fmt.Sprintf("    pub %s: %s,\n", fname, rustType(body)))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func emitEnumDecl(name string, v *typeterm.EitherT) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("pub enum %s {\n", name))
	for i, c := range v.Children {
		fname, body := fieldNameAndBody(c)
		if fname == "" {
			fname = "Variant" + strconv.Itoa(i)
		}
		buf.WriteString(fmt.Sprintf("    %s(%s),\n", fname, rustType(body)))
	}
	buf.WriteString("}\n")
	return buf.String()
}

// fieldNameAndBody splits a Tuple/Either child into its optional field name
// and its carried type, unwrapping one FieldT layer if present. Mirrors
// internal/lower's helper of the same name, kept private to each layer
// rather than exported across the lowerer/emitter boundary.
func fieldNameAndBody(t typeterm.T) (name string, body typeterm.T) {
	if f, ok := typeterm.Degroup(t).(*typeterm.FieldT); ok {
		return f.Name, f.Body
	}
	return "", t
}

// isExitCodeType reports whether t is the primitive ExitCode type (§6.5).
func isExitCodeType(t typeterm.T) bool {
	v, ok := typeterm.Degroup(t).(*typeterm.TypeT)
	return ok && v.Name == "ExitCode"
}

// EmitFunction renders one function's signature and body. Native functions
// (prelude operators, derived constructors/accessors) emit their backend
// intrinsic directly instead of a microstatement body (§4.3.3, §6.4). An
// exported `main` returning ExitCode is emitted as a bare `fn main()` whose
// returns become `std::process::exit` calls instead (§6.5), rather than
// wiring up Rust's Termination trait for a single type.
func (b Backend) EmitFunction(fn *ir.Function) (string, error) {
	if fn.Name == "main" && len(fn.Params) == 0 && isExitCodeType(fn.ReturnType) {
		return b.emitExitCodeMain(fn)
	}

	var buf strings.Builder

	buf.WriteString(signature(fn))
	buf.WriteString(" {\n")

	if fn.Native != "" {
		body, err := nativeBody(fn)
		if err != nil {
			return "", err
		}
		buf.WriteString(body)
	} else {
		for _, p := range fn.Params {
			if p.Kind == ir.ArgRef || p.Kind == ir.ArgDeref {
				buf.WriteString(fmt.Sprintf("    let %s = %s.clone();\n", p.Name, p.Name))
			}
		}
		for _, m := range fn.Body {
			line, err := b.emitStatement(m, "    ")
			if err != nil {
				return "", err
			}
			buf.WriteString(line)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// emitStatement renders one top-level body statement at the given
// indentation. Every microstatement except Cond is a single expression
// terminated with a semicolon; Cond renders as a brace-delimited if/else
// block whose branches recurse through emitStatement at one more indent
// level (§4.3.1).
func (b Backend) emitStatement(m ir.Microstatement, indent string) (string, error) {
	if cond, ok := m.(*ir.Cond); ok {
		return b.emitCond(cond, indent)
	}
	line, err := b.emitMicrostatement(m)
	if err != nil || line == "" {
		return "", err
	}
	return indent + line + ";\n", nil
}

func (b Backend) emitCond(c *ir.Cond, indent string) (string, error) {
	condExpr, err := b.emitValue(c.Cond)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	buf.WriteString(indent + "if " + condExpr + " {\n")
	for _, s := range c.Then {
		line, err := b.emitStatement(s, indent+"    ")
		if err != nil {
			return "", err
		}
		buf.WriteString(line)
	}
	if c.Else != nil {
		buf.WriteString(indent + "} else {\n")
		for _, s := range c.Else {
			line, err := b.emitStatement(s, indent+"    ")
			if err != nil {
				return "", err
			}
			buf.WriteString(line)
		}
	}
	buf.WriteString(indent + "}\n")
	return buf.String(), nil
}

// emitExitCodeMain renders main's body with its ExitCode-typed returns
// translated to std::process::exit, mirroring the runtime's exitop
// (original_source runtime/src/vm/opcode.rs: "std::process::exit(...)").
func (b Backend) emitExitCodeMain(fn *ir.Function) (string, error) {
	var buf strings.Builder

	visibility := ""
	if fn.Exported {
		visibility = "pub "
	}
	buf.WriteString(fmt.Sprintf("%sfn main() {\n", visibility))

	for _, m := range fn.Body {
		line, err := b.emitExitCodeStatement(m, "    ")
		if err != nil {
			return "", err
		}
		buf.WriteString(line)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func (b Backend) emitExitCodeStatement(m ir.Microstatement, indent string) (string, error) {
	if cond, ok := m.(*ir.Cond); ok {
		return b.emitExitCodeCond(cond, indent)
	}
	ret, ok := m.(*ir.Return)
	if !ok {
		line, err := b.emitMicrostatement(m)
		if err != nil || line == "" {
			return "", err
		}
		return indent + line + ";\n", nil
	}
	if ret.Value == nil {
		return indent + "std::process::exit(0);\n", nil
	}
	val, err := b.emitValue(ret.Value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%sstd::process::exit((%s) as i32);\n", indent, val), nil
}

func (b Backend) emitExitCodeCond(c *ir.Cond, indent string) (string, error) {
	condExpr, err := b.emitValue(c.Cond)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	buf.WriteString(indent + "if " + condExpr + " {\n")
	for _, s := range c.Then {
		line, err := b.emitExitCodeStatement(s, indent+"    ")
		if err != nil {
			return "", err
		}
		buf.WriteString(line)
	}
	if c.Else != nil {
		buf.WriteString(indent + "} else {\n")
		for _, s := range c.Else {
			line, err := b.emitExitCodeStatement(s, indent+"    ")
			if err != nil {
				return "", err
			}
			buf.WriteString(line)
		}
	}
	buf.WriteString(indent + "}\n")
	return buf.String(), nil
}

func signature(fn *ir.Function) string {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s: %s", p.Name, paramType(p)))
	}
	visibility := ""
	if fn.Exported {
		visibility = "pub "
	}
	return fmt.Sprintf("%sfn %s(%s) -> %s", visibility, fn.CallableName(), strings.Join(params, ", "), rustType(fn.ReturnType))
}

// paramType maps an Arg's Kind to the systems target's calling convention
// (§4.3.4): Own passes by value, Mut by mutable reference, Ref/Deref by
// shared reference (a callee with a microstatement body clones each such
// parameter into a local at entry, per the preserved blanket `.clone()`
// idiom; native bodies read through the reference).
func paramType(p *ir.Arg) string {
	switch p.Kind {
	case ir.ArgMut:
		return "&mut " + rustType(p.ArgType)
	case ir.ArgRef, ir.ArgDeref:
		return "&" + rustType(p.ArgType)
	default:
		return rustType(p.ArgType)
	}
}

// rustType renders t in the systems target's surface syntax, applying the
// Optional/Result idiom mapping from §4.5.1 ahead of the general Either
// fallback.
func rustType(t typeterm.T) string {
	if kind, elem := typeterm.Shape(t); kind != typeterm.ShapePlain {
		switch kind {
		case typeterm.ShapeOptional:
			return fmt.Sprintf("Option<%s>", rustType(elem))
		case typeterm.ShapeResult:
			return fmt.Sprintf("Result<%s, Error>", rustType(elem))
		}
	}

	// A named type - alias, product, or sum - renders by its own name
	// (§4.4): Degroup is a shape-reasoning helper, not a naming one, so it
	// is never consulted before this check.
	if named, ok := typeterm.UnwrapGroup(t).(*typeterm.TypeT); ok && named.Name != "" {
		return named.Name
	}

	switch v := typeterm.Degroup(t).(type) {
	case nil:
		return "()"
	case *typeterm.VoidT:
		return "()"
	case *typeterm.TupleT:
		parts := make([]string, len(v.Children))
		for i, c := range v.Children {
			parts[i] = rustType(c)
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *typeterm.EitherT:
		parts := make([]string, len(v.Children))
		for i, c := range v.Children {
			parts[i] = rustType(c)
		}
		return "Either<" + strings.Join(parts, ", ") + ">"
	case *typeterm.ArrayT:
		return fmt.Sprintf("Vec<%s>", rustType(v.Elem))
	case *typeterm.BufferT:
		return fmt.Sprintf("[%s; %s]", rustType(v.Elem), typeterm.ToFunctionalString(v.Size))
	case *typeterm.FunctionT:
		return fmt.Sprintf("impl Fn(%s) -> %s", rustType(v.In), rustType(v.Out))
	case *typeterm.MutT:
		return fmt.Sprintf("impl FnMut(%s)", rustType(v.Inner))
	case *typeterm.FieldT:
		return rustType(v.Body)
	case *typeterm.BindsT:
		return bindsName(v)
	default:
		return typeterm.ToFunctionalString(t)
	}
}

func bindsName(v *typeterm.BindsT) string {
	switch n := typeterm.Degroup(v.NativeName).(type) {
	case *typeterm.StringT:
		return n.Value
	case *typeterm.ImportT:
		if s, ok := typeterm.Degroup(n.Symbol).(*typeterm.StringT); ok {
			return s.Value
		}
	}
	return "_"
}

func (b Backend) emitMicrostatement(m ir.Microstatement) (string, error) {
	switch v := m.(type) {
	case *ir.Arg:
		return "", nil // parameter bindings are part of the signature, not the body
	case *ir.Assignment:
		rhs, err := b.emitValue(v.Value)
		if err != nil {
			return "", err
		}
		mut := ""
		if v.Mutable {
			mut = "mut "
		}
		return fmt.Sprintf("let %s%s = %s", mut, v.Name, rhs), nil
	case *ir.Return:
		if v.Value == nil {
			return "return", nil
		}
		val, err := b.emitValue(v.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("return %s", val), nil
	default:
		return b.emitValue(m)
	}
}

func (b Backend) emitValue(m ir.Microstatement) (string, error) {
	switch v := m.(type) {
	case *ir.Value:
		return v.Representation, nil
	case *ir.Array:
		parts := make([]string, len(v.Vals))
		for i, e := range v.Vals {
			s, err := b.emitValue(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "vec![" + strings.Join(parts, ", ") + "]", nil
	case *ir.FnCall:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			s, err := b.emitValue(a)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return fmt.Sprintf("%s(%s)", v.Fn.CallableName(), strings.Join(parts, ", ")), nil
	case *ir.VarCall:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			s, err := b.emitValue(a)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return fmt.Sprintf("(%s)(%s)", v.Name, strings.Join(parts, ", ")), nil
	case *ir.Closure:
		params := make([]string, len(v.Fn.Params))
		for i, p := range v.Fn.Params {
			params[i] = p.Name
		}
		body, err := Backend{}.EmitFunction(v.Fn)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("move |%s| %s", strings.Join(params, ", "), body), nil
	case *ir.Assignment:
		return b.emitValue(v.Value)
	case *ir.Return:
		if v.Value == nil {
			return "()", nil
		}
		return b.emitValue(v.Value)
	default:
		return "", errors.Errorf("systems backend: unsupported microstatement %T", m)
	}
}

// nativeBody renders a prelude/derived intrinsic's implementation body
// directly, keyed by the Native tag set in internal/scope/prelude.go and
// internal/lower/synth.go.
func nativeBody(fn *ir.Function) (string, error) {
	a := "lhs"
	bb := "rhs"
	switch fn.Native {
	case "add":
		return fmt.Sprintf("    return %s + %s;\n", a, bb), nil
	case "sub":
		return fmt.Sprintf("    return %s - %s;\n", a, bb), nil
	case "mul":
		return fmt.Sprintf("    return %s * %s;\n", a, bb), nil
	case "div":
		return fmt.Sprintf("    return %s / %s;\n", a, bb), nil
	case "mod":
		return fmt.Sprintf("    return %s %% %s;\n", a, bb), nil
	case "neg":
		return "    return -lhs;\n", nil
	case "bitand":
		return fmt.Sprintf("    return %s & %s;\n", a, bb), nil
	case "bitor":
		return fmt.Sprintf("    return %s | %s;\n", a, bb), nil
	case "bitxor":
		return fmt.Sprintf("    return %s ^ %s;\n", a, bb), nil
	case "shl":
		return fmt.Sprintf("    return %s << %s;\n", a, bb), nil
	case "shr":
		return fmt.Sprintf("    return %s >> %s;\n", a, bb), nil
	case "eq":
		return fmt.Sprintf("    return %s == %s;\n", a, bb), nil
	case "neq":
		return fmt.Sprintf("    return %s != %s;\n", a, bb), nil
	case "lt":
		return fmt.Sprintf("    return %s < %s;\n", a, bb), nil
	case "lte":
		return fmt.Sprintf("    return %s <= %s;\n", a, bb), nil
	case "gt":
		return fmt.Sprintf("    return %s > %s;\n", a, bb), nil
	case "gte":
		return fmt.Sprintf("    return %s >= %s;\n", a, bb), nil
	case "concat":
		return fmt.Sprintf("    return format!(\"{}{}\", %s, %s);\n", a, bb), nil
	case "identity":
		return "    return value;\n", nil
	case "tuple_new", "field_new":
		return structLiteralBody(fn), nil
	case "buffer_new", "binds_new", "array_new":
		return constructorBody(fn), nil
	case "buffer_fill":
		return "    return [fill; " + typeterm.ToFunctionalString(bufferSize(fn.ReturnType)) + "];\n", nil
	case "either_wrap":
		return fmt.Sprintf("    return %s::%s(value);\n", rustType(fn.ReturnType), tagOf(fn)), nil
	case "optional_some":
		return "    return Some(value);\n", nil
	case "optional_none":
		return "    return None;\n", nil
	case "result_ok":
		return "    return Ok(value);\n", nil
	case "result_err":
		return "    return Err(error);\n", nil
	case "getOr":
		return "    return source.unwrap_or(fallback);\n", nil
	case "isOk":
		return "    return result.is_ok();\n", nil
	case "isErr":
		return "    return result.is_err();\n", nil
	case "tuple_accessor":
		return "    return self." + fn.Name + ";\n", nil
	case "either_discriminator":
		owner := rustType(fn.Params[0].ArgType)
		tag := tagOf(fn)
		return fmt.Sprintf("    if let %s::%s(value) = self {\n        return Some(value.clone());\n    }\n    return None;\n", owner, tag), nil
	case "store_plain":
		return "    *dest = value;\n", nil
	case "store_either":
		return "    *dest = value;\n", nil
	default:
		return "", errors.Errorf("systems backend: unknown native form %q", fn.Native)
	}
}

func constructorBody(fn *ir.Function) string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("    return %s(%s);\n", fn.Name, strings.Join(names, ", "))
}

// tagOf returns the Either variant name either_wrap/either_discriminator
// should reference, falling back to Name for any caller that predates Tag.
func tagOf(fn *ir.Function) string {
	if fn.Tag != "" {
		return fn.Tag
	}
	return fn.Name
}

// structLiteralBody builds a Rust struct-literal constructor for a Tuple or
// single-field product (§4.3.3): named fields use the caller-supplied
// params, and any literal-typed field skipped at synthesis time is filled
// in from its fixed value, matching emitStructDecl's declaration.
func structLiteralBody(fn *ir.Function) string {
	name := rustType(fn.ReturnType)
	owner := typeterm.Degroup(fn.ReturnType)
	if alias, ok := owner.(*typeterm.TypeT); ok {
		owner = typeterm.Degroup(alias.Body)
	}

	var fields []string
	switch v := owner.(type) {
	case *typeterm.TupleT:
		for i, c := range v.Children {
			fname, body := fieldNameAndBody(c)
			if fname == "" {
				fname = "arg" + strconv.Itoa(i)
			}
			if isLiteralType(body) {
				fields = append(fields, fmt.Sprintf("%s: %s", fname, literalValue(body)))
				continue
			}
			fields = append(fields, fname)
		}
	case *typeterm.FieldT:
		fields = append(fields, v.Name)
	default:
		for _, p := range fn.Params {
			fields = append(fields, p.Name)
		}
	}
	return fmt.Sprintf("    return %s { %s };\n", name, strings.Join(fields, ", "))
}

func isLiteralType(t typeterm.T) bool {
	switch typeterm.Degroup(t).(type) {
	case *typeterm.IntT, *typeterm.FloatT, *typeterm.BoolT, *typeterm.StringT:
		return true
	default:
		return false
	}
}

func literalValue(t typeterm.T) string {
	switch v := typeterm.Degroup(t).(type) {
	case *typeterm.IntT:
		return strconv.FormatInt(v.Value, 10)
	case *typeterm.FloatT:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *typeterm.BoolT:
		return strconv.FormatBool(v.Value)
	case *typeterm.StringT:
		return strconv.Quote(v.Value)
	default:
		return typeterm.ToFunctionalString(t)
	}
}

func bufferSize(ret typeterm.T) typeterm.T {
	if b, ok := typeterm.Degroup(ret).(*typeterm.BufferT); ok {
		return b.Size
	}
	return &typeterm.IntT{}
}
