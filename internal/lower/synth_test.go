package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

func noSpan() ast.Span { return ast.Span{} }

func TestSynthesize_Some(t *testing.T) {
	l := newLowerer()
	fn, err := l.synthesize("some", []typeterm.T{intT()}, nil, noSpan())
	require.NoError(t, err)
	either, ok := fn.ReturnType.(*typeterm.EitherT)
	require.True(t, ok)
	assert.True(t, typeterm.Equal(intT(), either.Children[0]))
	assert.Equal(t, "optional_some", fn.Native)
}

func TestSynthesize_None(t *testing.T) {
	l := newLowerer()
	fn, err := l.synthesize("none", nil, nil, noSpan())
	require.NoError(t, err)
	either := fn.ReturnType.(*typeterm.EitherT)
	_, isInfer := either.Children[0].(*typeterm.InferT)
	assert.True(t, isInfer)
}

func TestSynthesize_OkErr(t *testing.T) {
	l := newLowerer()

	ok, err := l.synthesize("ok", []typeterm.T{intT()}, nil, noSpan())
	require.NoError(t, err)
	kind, _ := typeterm.Shape(ok.ReturnType)
	assert.Equal(t, typeterm.ShapeResult, kind)

	errFn, err := l.synthesize("err", []typeterm.T{errorType()}, nil, noSpan())
	require.NoError(t, err)
	kind, _ = typeterm.Shape(errFn.ReturnType)
	assert.Equal(t, typeterm.ShapeResult, kind)
}

func TestSynthesize_GetOr_RequiresOptionalOrResultSource(t *testing.T) {
	l := newLowerer()
	_, err := l.synthesize("getOr", []typeterm.T{intT(), intT()}, nil, noSpan())
	assert.Error(t, err)
}

func TestSynthesize_GetOr_MatchesDefaultToElementType(t *testing.T) {
	l := newLowerer()
	optional := &typeterm.EitherT{Children: []typeterm.T{intT(), &typeterm.VoidT{}}}

	fn, err := l.synthesize("getOr", []typeterm.T{optional, intT()}, nil, noSpan())
	require.NoError(t, err)
	assert.True(t, typeterm.Equal(intT(), fn.ReturnType))
}

func TestSynthesize_GetOr_RejectsMismatchedDefault(t *testing.T) {
	l := newLowerer()
	optional := &typeterm.EitherT{Children: []typeterm.T{intT(), &typeterm.VoidT{}}}
	_, err := l.synthesize("getOr", []typeterm.T{optional, &typeterm.TypeT{Name: "string"}}, nil, noSpan())
	assert.Error(t, err)
}

func TestSynthesize_IsOkRequiresResultShape(t *testing.T) {
	l := newLowerer()
	optional := &typeterm.EitherT{Children: []typeterm.T{intT(), &typeterm.VoidT{}}}
	_, err := l.synthesize("isOk", []typeterm.T{optional}, nil, noSpan())
	assert.Error(t, err, "isOk requires a Result (Either{T, Error}) shape, not a plain Optional")

	result := &typeterm.EitherT{Children: []typeterm.T{intT(), errorType()}}
	fn, err := l.synthesize("isOk", []typeterm.T{result}, nil, noSpan())
	require.NoError(t, err)
	assert.True(t, typeterm.Equal(&typeterm.TypeT{Name: "bool"}, fn.ReturnType))
}

func TestSynthesize_Store_PlainVsEither(t *testing.T) {
	l := newLowerer()

	plain, err := l.synthesize("store", []typeterm.T{intT(), intT()}, nil, noSpan())
	require.NoError(t, err)
	assert.Equal(t, "store_plain", plain.Native)

	eitherDest := &typeterm.EitherT{Children: []typeterm.T{intT(), &typeterm.VoidT{}}}
	viaEither, err := l.synthesize("store", []typeterm.T{eitherDest, intT()}, nil, noSpan())
	require.NoError(t, err)
	assert.Equal(t, "store_either", viaEither.Native)
}

func TestSynthesize_TupleConstructor(t *testing.T) {
	l := newLowerer()
	l.Scope.AddType("Point", &typeterm.TypeT{Name: "Point", Body: &typeterm.TupleT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "x", Body: intT()},
		&typeterm.FieldT{Name: "y", Body: intT()},
	}}})

	fn, err := l.synthesize("Point", []typeterm.T{intT(), intT()}, nil, noSpan())
	require.NoError(t, err)
	assert.Equal(t, "tuple_new", fn.Native)
	assert.Equal(t, "x", fn.Params[0].Name)
	assert.Equal(t, "y", fn.Params[1].Name)
}

func TestSynthesize_TupleConstructor_SkipsLiteralFields(t *testing.T) {
	l := newLowerer()
	l.Scope.AddType("Tagged", &typeterm.TypeT{Name: "Tagged", Body: &typeterm.TupleT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "tag", Body: &typeterm.StringT{Value: "fixed"}},
		&typeterm.FieldT{Name: "value", Body: intT()},
	}}})

	fn, err := l.synthesize("Tagged", []typeterm.T{intT()}, nil, noSpan())
	require.NoError(t, err)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "value", fn.Params[0].Name)
}

func TestSynthesize_EitherConstructor(t *testing.T) {
	l := newLowerer()
	named := &typeterm.TypeT{Name: "Shape", Body: &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "Circle", Body: intT()},
		&typeterm.FieldT{Name: "Square", Body: intT()},
	}}}
	l.Scope.AddType("Shape", named)

	fn, err := l.synthesize("Circle", []typeterm.T{intT()}, nil, noSpan())
	require.NoError(t, err)
	assert.Equal(t, "either_wrap", fn.Native)
	assert.True(t, typeterm.Equal(named, fn.ReturnType))
	assert.Equal(t, "Circle", fn.Tag, "the matched variant name must survive as the native body's tag")
}

func TestSynthesize_EitherConstructor_DisambiguatesSharedPayloadType(t *testing.T) {
	l := newLowerer()
	named := &typeterm.TypeT{Name: "Shape", Body: &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "Circle", Body: intT()},
		&typeterm.FieldT{Name: "Square", Body: intT()},
	}}}
	l.Scope.AddType("Shape", named)

	fn, err := l.synthesize("Square", []typeterm.T{intT()}, nil, noSpan())
	require.NoError(t, err)
	assert.Equal(t, "either_wrap", fn.Native)
	assert.Equal(t, "Square", fn.Tag, "dispatch by variant name, not just by a shared payload type")
}

func TestSynthesize_VariantConstructor_DispatchesByVariantNameNotTypeName(t *testing.T) {
	l := newLowerer()
	named := &typeterm.TypeT{Name: "Shape", Body: &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "Circle", Body: intT()},
		&typeterm.FieldT{Name: "Square", Body: intT()},
	}}}
	l.Scope.AddType("Shape", named)

	// "Circle" is never itself a registered type name - only "Shape" is - so
	// this must be reached via the variant-name scan, not lookupType.
	_, isType := l.lookupType("Circle")
	require.False(t, isType)

	fn, err := l.synthesize("Circle", []typeterm.T{intT()}, nil, noSpan())
	require.NoError(t, err)
	require.NotNil(t, fn)
	assert.True(t, typeterm.Equal(named, fn.ReturnType), "the owner type, not the payload type, is returned")
}

func TestSynthesize_VariantConstructor_NoMatchReturnsNilNil(t *testing.T) {
	l := newLowerer()
	l.Scope.AddType("Shape", &typeterm.TypeT{Name: "Shape", Body: &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "Circle", Body: intT()},
	}}})

	fn, err := l.synthesize("Triangle", []typeterm.T{intT()}, nil, noSpan())
	require.NoError(t, err)
	assert.Nil(t, fn)
}

func TestSynthesize_AccessorForTupleField(t *testing.T) {
	l := newLowerer()
	named := &typeterm.TypeT{Name: "Point", Body: &typeterm.TupleT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "x", Body: intT()},
		&typeterm.FieldT{Name: "y", Body: intT()},
	}}}
	l.Scope.AddType("Point", named)

	fn, err := l.synthesize("x", []typeterm.T{named}, nil, noSpan())
	require.NoError(t, err)
	require.NotNil(t, fn)
	assert.Equal(t, "tuple_accessor", fn.Native)
	assert.True(t, typeterm.Equal(intT(), fn.ReturnType))
}

func TestSynthesize_DiscriminatorForEitherVariant(t *testing.T) {
	l := newLowerer()
	named := &typeterm.TypeT{Name: "Shape", Body: &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.FieldT{Name: "Circle", Body: intT()},
		&typeterm.FieldT{Name: "Square", Body: intT()},
	}}}
	l.Scope.AddType("Shape", named)

	fn, err := l.synthesize("Circle", []typeterm.T{named}, nil, noSpan())
	require.NoError(t, err)
	require.NotNil(t, fn)
	assert.Equal(t, "either_discriminator", fn.Native)
	assert.Equal(t, "Circle", fn.Tag)
	kind, _ := typeterm.Shape(fn.ReturnType)
	assert.Equal(t, typeterm.ShapeOptional, kind)
}

func TestSynthesize_NoMatchReturnsNil(t *testing.T) {
	l := newLowerer()
	fn, err := l.synthesize("totallyUnknown", []typeterm.T{intT()}, nil, noSpan())
	require.NoError(t, err)
	assert.Nil(t, fn)
}
