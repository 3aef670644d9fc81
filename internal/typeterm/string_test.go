package typeterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFunctionalString(t *testing.T) {
	tests := map[string]struct {
		input    T
		expected string
	}{
		"Void":      {&VoidT{}, "Void"},
		"Int":       {&IntT{Value: 4}, "4"},
		"Bool":      {&BoolT{Value: true}, "true"},
		"String":    {&StringT{Value: "x"}, `"x"`},
		"Type":      {&TypeT{Name: "i32"}, "i32"},
		"Array":     {&ArrayT{Elem: &TypeT{Name: "i32"}}, "Array{i32}"},
		"Tuple":     {&TupleT{Children: []T{&TypeT{Name: "i32"}, &TypeT{Name: "bool"}}}, "{i32, bool}"},
		"Either":    {&EitherT{Children: []T{&TypeT{Name: "i32"}, &VoidT{}}}, "Either{i32, Void}"},
		"Buffer":    {&BufferT{Elem: &TypeT{Name: "u8"}, Size: &IntT{Value: 4}}, "Buffer{u8, 4}"},
		"Group":     {&GroupT{Inner: &TypeT{Name: "i32"}}, "(i32)"},
		"Mut":       {&MutT{Inner: &TypeT{Name: "i32"}}, "mut i32"},
		"Function":  {&FunctionT{In: &TypeT{Name: "i32"}, Out: &TypeT{Name: "bool"}}, "i32 -> bool"},
		"Field":     {&FieldT{Name: "x", Body: &TypeT{Name: "i32"}}, "x: i32"},
		"Nil":       {nil, "<nil>"},
		"Fail":      {&FailT{Msg: "boom"}, "<fail: boom>"},
		"Dependency": {
			&DependencyT{Name: StringT{Value: "serde"}, VersionOrURL: StringT{Value: "1.0"}},
			"serde@1.0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToFunctionalString(tt.input))
		})
	}
}

func TestToCallableString(t *testing.T) {
	tests := map[string]struct {
		input    T
		expected string
	}{
		"Void": {&VoidT{}, "void"},
		"Int":  {&IntT{Value: 4}, "i4"},
		"Bool": {&BoolT{Value: true}, "btrue"},
		"Type": {&TypeT{Name: "MyType"}, "my_type"},
		"Array": {
			&ArrayT{Elem: &TypeT{Name: "Int"}},
			"array_int",
		},
		"Tuple_Empty": {
			&TupleT{},
			"tup",
		},
		"Tuple_WithChildren": {
			&TupleT{Children: []T{&TypeT{Name: "Int"}, &TypeT{Name: "Bool"}}},
			"tup_int_bool",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToCallableString(tt.input))
		})
	}
}

func TestSanitizeCallable(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected string
	}{
		"AlreadyClean":       {"hello_world", "hello_world"},
		"SpacesAndPunct":     {"hello world!", "hello_world_"},
		"LeadingDigitsOkay":  {"123abc", "123abc"},
		"MixedSymbols":       {"a-b.c", "a_b_c"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeCallable(tt.input))
		})
	}
}
