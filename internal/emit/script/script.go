// Package script implements the script-target backend (§4.5.2): one
// bundled module, all-async/all-await call discipline, and the
// Optional/Result/Either idiom mapped onto null, a plain `{ ok, value }` /
// `{ ok: false, error }` object, and a plain `{ tag, value }` object tested
// by its tag respectively. No error class is emitted and no union is
// discriminated with instanceof.
package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/emit"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// Backend implements emit.Generator for the script target.
type Backend struct{}

func (Backend) FileExtension() string { return ".js" }

// EmitType is a no-op for the script target: the bundled module idiom uses
// plain object literals (tag-discriminated for sums) for every product/sum
// shape (§4.5.2), so there is no standalone declaration to hoist
// ahead of a function body the way the systems target hoists a struct/enum.
func (Backend) EmitType(name string, t typeterm.T) (string, error) {
	return "", nil
}

// Generate emits every function reachable from entry into one bundled
// module (§4.5.2: "a single bundled module, unlike the systems target's one
// source file per compilation unit plus package manifest").
func Generate(entry *ir.Function) (string, *emit.Output, error) {
	b := Backend{}
	out := emit.NewOutput()
	var ordered []string
	if err := emit.Generate(b, entry, out, &ordered); err != nil {
		return "", nil, err
	}
	types, err := emit.EmitTypes(b, out)
	if err != nil {
		return "", nil, err
	}
	var buf strings.Builder
	buf.WriteString(types)
	for _, name := range ordered {
		src, _ := out.Out.Get(name)
		buf.WriteString(src)
		buf.WriteString("\n")
	}
	buf.WriteString(mainInvocation(entry))
	return buf.String(), out, nil
}

// isExitCodeType reports whether t is the primitive ExitCode type (§6.5).
func isExitCodeType(t typeterm.T) bool {
	v, ok := typeterm.Degroup(t).(*typeterm.TypeT)
	return ok && v.Name == "ExitCode"
}

// mainInvocation appends the top-level call that actually runs the bundled
// module's entry point: unlike the systems target, Node.js never calls a
// function just because it is named "main". If main returns ExitCode, its
// resolved value is handed to process.exit (§6.5), the way the original
// script backend chains `main().then(process.exit)` rather than `main()`
// alone (original_source alan/src/lntojs/mod.rs).
func mainInvocation(entry *ir.Function) string {
	name := reserveRename(entry.CallableName())
	if isExitCodeType(entry.ReturnType) {
		return fmt.Sprintf("%s().then(process.exit);\n", name)
	}
	return fmt.Sprintf("%s();\n", name)
}

// EmitFunction renders one function declaration. Every emitted function is
// async (§4.5.2's "all-async/all-await" discipline), regardless of whether
// its body actually awaits anything.
func (b Backend) EmitFunction(fn *ir.Function) (string, error) {
	var buf strings.Builder

	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = reserveRename(p.Name)
	}
	buf.WriteString(fmt.Sprintf("async function %s(%s) {\n", reserveRename(fn.CallableName()), strings.Join(names, ", ")))

	if fn.Native != "" {
		body, err := nativeBody(fn)
		if err != nil {
			return "", err
		}
		buf.WriteString(body)
	} else {
		for _, m := range fn.Body {
			stmt, err := b.emitStatement("  ", m)
			if err != nil {
				return "", err
			}
			buf.WriteString(stmt)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// emitStatement renders one top-level statement at the given indent,
// recursing into emitCond for *ir.Cond so an if/else branch gets real
// brace-delimited block syntax instead of the single-line-expression
// contract every other microstatement uses.
func (b Backend) emitStatement(indent string, m ir.Microstatement) (string, error) {
	if c, ok := m.(*ir.Cond); ok {
		return b.emitCond(indent, c)
	}
	line, err := b.emitMicrostatement(m)
	if err != nil {
		return "", err
	}
	if line == "" {
		return "", nil
	}
	return indent + line + ";\n", nil
}

func (b Backend) emitCond(indent string, c *ir.Cond) (string, error) {
	cond, err := b.emitValue(c.Cond)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	buf.WriteString(indent + "if (" + cond + ") {\n")
	for _, stmt := range c.Then {
		s, err := b.emitStatement(indent+"  ", stmt)
		if err != nil {
			return "", err
		}
		buf.WriteString(s)
	}
	if c.Else != nil {
		buf.WriteString(indent + "} else {\n")
		for _, stmt := range c.Else {
			s, err := b.emitStatement(indent+"  ", stmt)
			if err != nil {
				return "", err
			}
			buf.WriteString(s)
		}
	}
	buf.WriteString(indent + "}\n")
	return buf.String(), nil
}

func (b Backend) emitMicrostatement(m ir.Microstatement) (string, error) {
	switch v := m.(type) {
	case *ir.Arg:
		return "", nil
	case *ir.Assignment:
		rhs, err := b.emitValue(v.Value)
		if err != nil {
			return "", err
		}
		kw := "const"
		if v.Mutable {
			kw = "let"
		}
		return fmt.Sprintf("%s %s = %s", kw, reserveRename(v.Name), rhs), nil
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
		return literalFor(v), nil
	case *ir.Array:
		parts := make([]string, len(v.Vals))
		for i, e := range v.Vals {
			s, err := b.emitValue(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *ir.FnCall:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			s, err := b.emitValue(a)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return fmt.Sprintf("(await %s(%s))", reserveRename(v.Fn.CallableName()), strings.Join(parts, ", ")), nil
	case *ir.VarCall:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			s, err := b.emitValue(a)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return fmt.Sprintf("(await %s(%s))", reserveRename(v.Name), strings.Join(parts, ", ")), nil
	case *ir.Closure:
		params := make([]string, len(v.Fn.Params))
		for i, p := range v.Fn.Params {
			params[i] = reserveRename(p.Name)
		}
		var body strings.Builder
		for _, stmt := range v.Fn.Body {
			s, err := b.emitStatement("    ", stmt)
			if err != nil {
				return "", err
			}
			body.WriteString(s)
		}
		return fmt.Sprintf("async (%s) => {\n%s  }", strings.Join(params, ", "), body.String()), nil
	case *ir.Assignment:
		return b.emitValue(v.Value)
	case *ir.Return:
		if v.Value == nil {
			return "undefined", nil
		}
		return b.emitValue(v.Value)
	default:
		return "", errors.Errorf("script backend: unsupported microstatement %T", m)
	}
}

// literalFor renders a Value microstatement, boxing 64-bit integer literals
// as BigInt (§4.5.2: "big-integer boxing for i64/u64") and escaping string
// literals for embedding in the bundled module.
func literalFor(v *ir.Value) string {
	if t, ok := typeterm.Degroup(v.ValueType).(*typeterm.TypeT); ok && (t.Name == "i64" || t.Name == "u64") {
		if _, err := strconv.ParseInt(v.Representation, 10, 64); err == nil {
			return v.Representation + "n"
		}
	}
	return v.Representation
}

// nativeBody mirrors the systems backend's intrinsic dispatch, rendering
// the JS-idiom form of each prelude operator and derived form.
func nativeBody(fn *ir.Function) (string, error) {
	a, bb := reserveRename("lhs"), reserveRename("rhs")
	switch fn.Native {
	case "add":
		return fmt.Sprintf("  return %s + %s;\n", a, bb), nil
	case "sub":
		return fmt.Sprintf("  return %s - %s;\n", a, bb), nil
	case "mul":
		return fmt.Sprintf("  return %s * %s;\n", a, bb), nil
	case "div":
		return fmt.Sprintf("  return %s / %s;\n", a, bb), nil
	case "mod":
		return fmt.Sprintf("  return %s %% %s;\n", a, bb), nil
	case "neg":
		return "  return -lhs;\n", nil
	case "bitand":
		return fmt.Sprintf("  return %s & %s;\n", a, bb), nil
	case "bitor":
		return fmt.Sprintf("  return %s | %s;\n", a, bb), nil
	case "bitxor":
		return fmt.Sprintf("  return %s ^ %s;\n", a, bb), nil
	case "shl":
		return fmt.Sprintf("  return %s << %s;\n", a, bb), nil
	case "shr":
		return fmt.Sprintf("  return %s >> %s;\n", a, bb), nil
	case "eq":
		return fmt.Sprintf("  return %s === %s;\n", a, bb), nil
	case "neq":
		return fmt.Sprintf("  return %s !== %s;\n", a, bb), nil
	case "lt":
		return fmt.Sprintf("  return %s < %s;\n", a, bb), nil
	case "lte":
		return fmt.Sprintf("  return %s <= %s;\n", a, bb), nil
	case "gt":
		return fmt.Sprintf("  return %s > %s;\n", a, bb), nil
	case "gte":
		return fmt.Sprintf("  return %s >= %s;\n", a, bb), nil
	case "concat":
		return fmt.Sprintf("  return `${%s}${%s}`;\n", a, bb), nil
	case "identity":
		return "  return value;\n", nil
	case "tuple_new":
		return tupleConstructorBody(fn), nil
	case "field_new", "buffer_new", "binds_new", "array_new":
		return tupleConstructorBody(fn), nil
	case "buffer_fill":
		return "  return new Array(SIZE).fill(fill);\n", nil
	case "either_wrap":
		return fmt.Sprintf("  return { tag: %s, value };\n", strconv.Quote(tagOf(fn))), nil
	case "optional_some":
		return "  return value;\n", nil
	case "optional_none":
		return "  return null;\n", nil
	case "result_ok":
		return "  return { ok: true, value };\n", nil
	case "result_err":
		return "  return { ok: false, error };\n", nil
	case "getOr":
		return "  return source === null || source === undefined ? fallback : (source.ok === false ? fallback : (source.ok === true ? source.value : source));\n", nil
	case "isOk":
		return "  return result.ok === true;\n", nil
	case "isErr":
		return "  return result.ok === false;\n", nil
	case "tuple_accessor":
		return "  return self." + fn.Name + ";\n", nil
	case "either_discriminator":
		return "  return self.tag === " + strconv.Quote(tagOf(fn)) + " ? self.value : null;\n", nil
	case "store_plain", "store_either":
		return "  Object.assign(dest, value);\n", nil
	default:
		return "", errors.Errorf("script backend: unknown native form %q", fn.Native)
	}
}

// tagOf returns the Either variant name a synthesized either_wrap or
// either_discriminator native carries, falling back to fn.Name for any
// native predating Tag (none remain, but this keeps the two in sync the
// way the systems backend's tagOf does).
func tagOf(fn *ir.Function) string {
	if fn.Tag != "" {
		return fn.Tag
	}
	return fn.Name
}

func tupleConstructorBody(fn *ir.Function) string {
	fields := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		fields[i] = fmt.Sprintf("%s", reserveRename(p.Name))
	}
	return fmt.Sprintf("  return { %s };\n", strings.Join(fields, ", "))
}

