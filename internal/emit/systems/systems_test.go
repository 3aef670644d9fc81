package systems

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

func i32T() typeterm.T { return &typeterm.TypeT{Name: "i32"} }

func TestEmitFunction_SignatureAndBody(t *testing.T) {
	fn := &ir.Function{
		Name:       "double",
		Params:     []*ir.Arg{{Name: "x", Kind: ir.ArgOwn, ArgType: i32T()}},
		ReturnType: i32T(),
		Body: []ir.Microstatement{
			&ir.Arg{Name: "x", Kind: ir.ArgOwn, ArgType: i32T()},
			&ir.Return{Value: &ir.Value{ValueType: i32T(), Representation: "x"}},
		},
		Exported: true,
	}

	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.Contains(t, src, "pub fn double_i32(x: i32) -> i32")
	assert.Contains(t, src, "return x;")
}

func TestEmitFunction_MutRefParam(t *testing.T) {
	fn := &ir.Function{
		Name:       "bump",
		Params:     []*ir.Arg{{Name: "dest", Kind: ir.ArgMut, ArgType: i32T()}},
		ReturnType: &typeterm.VoidT{},
	}
	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.Contains(t, src, "&mut i32")
}

func TestEmitFunction_NativeBody(t *testing.T) {
	fn := &ir.Function{
		Name:       "add",
		Params:     []*ir.Arg{{Name: "lhs", ArgType: i32T()}, {Name: "rhs", ArgType: i32T()}},
		ReturnType: i32T(),
		Native:     "add",
	}
	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.Contains(t, src, "return lhs + rhs;")
}

func TestEmitFunction_UnknownNativeErrors(t *testing.T) {
	fn := &ir.Function{Name: "mystery", Native: "nonexistent-intrinsic"}
	_, err := Backend{}.EmitFunction(fn)
	assert.Error(t, err)
}

func TestEmitFunction_ExitCodeMain(t *testing.T) {
	exitCode := &typeterm.TypeT{Name: "ExitCode"}
	fn := &ir.Function{
		Name:       "main",
		ReturnType: exitCode,
		Exported:   true,
		Body: []ir.Microstatement{
			&ir.Return{Value: &ir.Value{ValueType: exitCode, Representation: "0"}},
		},
	}

	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.Contains(t, src, "pub fn main() {")
	assert.Contains(t, src, "std::process::exit((0) as i32);")
	assert.NotContains(t, src, "-> ExitCode", "the bare main() form takes no return-type annotation")
}

func TestEmitFunction_ExitCodeMain_BareReturnExitsZero(t *testing.T) {
	exitCode := &typeterm.TypeT{Name: "ExitCode"}
	fn := &ir.Function{
		Name:       "main",
		ReturnType: exitCode,
		Body:       []ir.Microstatement{&ir.Return{Value: nil}},
	}
	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.Contains(t, src, "std::process::exit(0);")
}

func TestEmitFunction_NonExitCodeMainIsOrdinary(t *testing.T) {
	fn := &ir.Function{Name: "main", ReturnType: i32T()}
	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.True(t, strings.Contains(src, "-> i32"))
	assert.NotContains(t, src, "std::process::exit")
}

func TestRustType_OptionalAndResultIdiom(t *testing.T) {
	optional := &typeterm.EitherT{Children: []typeterm.T{i32T(), &typeterm.VoidT{}}}
	assert.Equal(t, "Option<i32>", rustType(optional))

	result := &typeterm.EitherT{Children: []typeterm.T{i32T(), &typeterm.BindsT{NativeName: &typeterm.StringT{Value: "Error"}}}}
	assert.Equal(t, "Result<i32, Error>", rustType(result))
}

func TestRustType_OpaquePrimitive(t *testing.T) {
	// Regression guard: a primitive TypeT with a nil Body must render as
	// its own name, not "()" (Degroup must not collapse an opaque TypeT).
	assert.Equal(t, "i32", rustType(i32T()))
	assert.Equal(t, "ExitCode", rustType(&typeterm.TypeT{Name: "ExitCode"}))
}

func TestRustType_NamedAliasRendersByOwnName(t *testing.T) {
	// A named type - even a plain alias of a primitive - renders as its own
	// name, not its degrouped structural body (§4.4): Degroup is for shape
	// reasoning, not for deciding what to print in a signature.
	aliased := &typeterm.TypeT{Name: "MyInt", Body: i32T()}
	assert.Equal(t, "MyInt", rustType(aliased))
}

func TestRustType_CompositeShapes(t *testing.T) {
	assert.Equal(t, "Vec<i32>", rustType(&typeterm.ArrayT{Elem: i32T()}))
	assert.Equal(t, "(i32, i32)", rustType(&typeterm.TupleT{Children: []typeterm.T{i32T(), i32T()}}))
}

func TestRustType_SingleElementTupleGetsTrailingComma(t *testing.T) {
	assert.Equal(t, "(i32,)", rustType(&typeterm.TupleT{Children: []typeterm.T{i32T()}}))
}

func TestRustType_NamedProductIgnoresOptionalResultIdiom(t *testing.T) {
	// A genuinely user-named Tuple/Either type still renders by name even
	// though its structural shape is unrelated to Option/Result.
	named := &typeterm.TypeT{Name: "Point", Body: &typeterm.TupleT{Children: []typeterm.T{i32T(), i32T()}}}
	assert.Equal(t, "Point", rustType(named))
}

func TestEmitType_TupleBodiedTypeEmitsStruct(t *testing.T) {
	named := &typeterm.TypeT{Name: "Pair", Body: &typeterm.TupleT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "left", Body: i32T()},
		&typeterm.FieldT{Name: "right", Body: i32T()},
	}}}
	decl, err := Backend{}.EmitType("Pair", named)
	require.NoError(t, err)
	assert.Contains(t, decl, "pub struct Pair {")
	assert.Contains(t, decl, "pub left: i32,")
	assert.Contains(t, decl, "pub right: i32,")
}

func TestEmitType_EitherBodiedTypeEmitsEnum(t *testing.T) {
	named := &typeterm.TypeT{Name: "Shape", Body: &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "Circle", Body: i32T()},
		&typeterm.FieldT{Name: "Square", Body: i32T()},
	}}}
	decl, err := Backend{}.EmitType("Shape", named)
	require.NoError(t, err)
	assert.Contains(t, decl, "pub enum Shape {")
	assert.Contains(t, decl, "Circle(i32),")
	assert.Contains(t, decl, "Square(i32),")
}

func TestEmitType_OptionalShapedEitherEmitsNoDeclaration(t *testing.T) {
	named := &typeterm.TypeT{Name: "MaybeInt", Body: &typeterm.EitherT{Children: []typeterm.T{i32T(), &typeterm.VoidT{}}}}
	decl, err := Backend{}.EmitType("MaybeInt", named)
	require.NoError(t, err)
	assert.Empty(t, decl)
}

func TestEmitType_PlainAliasEmitsTypeAlias(t *testing.T) {
	named := &typeterm.TypeT{Name: "MyInt", Body: i32T()}
	decl, err := Backend{}.EmitType("MyInt", named)
	require.NoError(t, err)
	assert.Equal(t, "pub type MyInt = i32;\n", decl)
}

func TestEmitFunction_EitherWrapConstructsTaggedVariant(t *testing.T) {
	shape := &typeterm.TypeT{Name: "Shape", Body: &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "Circle", Body: i32T()},
		&typeterm.FieldT{Name: "Square", Body: i32T()},
	}}}
	fn := &ir.Function{
		Name:       "Circle",
		Params:     []*ir.Arg{{Name: "value", Kind: ir.ArgOwn, ArgType: i32T()}},
		ReturnType: shape,
		Native:     "either_wrap",
		Tag:        "Circle",
	}
	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.Contains(t, src, "return Shape::Circle(value);")
}

func TestEmitFunction_EitherDiscriminatorMatchesTag(t *testing.T) {
	shape := &typeterm.TypeT{Name: "Shape", Body: &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "Circle", Body: i32T()},
		&typeterm.FieldT{Name: "Square", Body: i32T()},
	}}}
	fn := &ir.Function{
		Name:       "Circle",
		Params:     []*ir.Arg{{Name: "self", Kind: ir.ArgRef, ArgType: shape}},
		ReturnType: &typeterm.EitherT{Children: []typeterm.T{i32T(), &typeterm.VoidT{}}},
		Native:     "either_discriminator",
		Tag:        "Circle",
	}
	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.Contains(t, src, "if let Shape::Circle(value) = self {")
	assert.Contains(t, src, "return Some(value.clone());")
	assert.Contains(t, src, "return None;")
}

func TestEmitFunction_CondEmitsIfElseBlock(t *testing.T) {
	boolT := &typeterm.TypeT{Name: "bool"}
	optInt := &typeterm.EitherT{Children: []typeterm.T{i32T(), &typeterm.VoidT{}}}
	fn := &ir.Function{
		Name:       "maybeFive",
		Params:     []*ir.Arg{{Name: "x", Kind: ir.ArgOwn, ArgType: i32T()}},
		ReturnType: optInt,
		Body: []ir.Microstatement{
			&ir.Arg{Name: "x", Kind: ir.ArgOwn, ArgType: i32T()},
			&ir.Cond{
				Cond: &ir.Value{ValueType: boolT, Representation: "x == 5"},
				Then: []ir.Microstatement{
					&ir.Return{Value: &ir.Value{ValueType: optInt, Representation: "Some(5)"}},
				},
				Else: []ir.Microstatement{
					&ir.Return{Value: &ir.Value{ValueType: optInt, Representation: "None"}},
				},
			},
		},
	}
	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.Contains(t, src, "if x == 5 {")
	assert.Contains(t, src, "return Some(5);")
	assert.Contains(t, src, "} else {")
	assert.Contains(t, src, "return None;")
}

func TestEmitFunction_CondWithNoElseOmitsElseBlock(t *testing.T) {
	fn := &ir.Function{
		Name:       "guard",
		ReturnType: &typeterm.VoidT{},
		Body: []ir.Microstatement{
			&ir.Cond{
				Cond: &ir.Value{ValueType: &typeterm.TypeT{Name: "bool"}, Representation: "ok"},
				Then: []ir.Microstatement{&ir.Return{Value: nil}},
			},
		},
	}
	src, err := Backend{}.EmitFunction(fn)
	require.NoError(t, err)
	assert.Contains(t, src, "if ok {")
	assert.NotContains(t, src, "} else {")
}
