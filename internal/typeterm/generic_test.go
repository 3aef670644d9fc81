package typeterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstantiate(t *testing.T) {
	// Box<T> = Tuple{T}
	box := &GenericT{
		Name:   "Box",
		Params: []string{"T"},
		Body:   &TupleT{Children: []T{&TypeT{Name: "T"}}},
	}

	out, err := Instantiate(box, []T{&TypeT{Name: "i32"}})
	require.NoError(t, err)
	assert.True(t, Equal(&TupleT{Children: []T{&TypeT{Name: "i32"}}}, out))
}

func TestInstantiate_ArityMismatch(t *testing.T) {
	box := &GenericT{Name: "Box", Params: []string{"T"}, Body: &TypeT{Name: "T"}}
	_, err := Instantiate(box, []T{})
	assert.Error(t, err)
}

func TestInstantiate_HygieneAcrossNestedGenerics(t *testing.T) {
	// Outer<T> = Tuple{T, Inner<T>} where Inner<T> = T — an inner generic
	// that re-declares "T" must not leak the outer substitution into its own
	// body before its own instantiation happens (§4.1 hygiene).
	inner := &GenericT{Name: "Inner", Params: []string{"T"}, Body: &TypeT{Name: "T"}}
	outer := &GenericT{
		Name:   "Outer",
		Params: []string{"T"},
		Body:   &TupleT{Children: []T{&TypeT{Name: "T"}, inner}},
	}

	out, err := Instantiate(outer, []T{&TypeT{Name: "string"}})
	require.NoError(t, err)

	tuple, ok := out.(*TupleT)
	require.True(t, ok)
	assert.True(t, Equal(&TypeT{Name: "string"}, tuple.Children[0]))

	// The nested Inner generic keeps its own "T" parameter unsubstituted —
	// it still declares Params: []string{"T"} ready for its own instantiation.
	nestedGeneric, ok := tuple.Children[1].(*GenericT)
	require.True(t, ok)
	assert.Equal(t, []string{"T"}, nestedGeneric.Params)
	assert.True(t, Equal(&TypeT{Name: "T"}, nestedGeneric.Body))
}
