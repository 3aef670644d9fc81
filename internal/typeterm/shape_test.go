package typeterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShape(t *testing.T) {
	errorType := &TypeT{Name: "Error"}
	intType := &TypeT{Name: "i32"}

	tests := map[string]struct {
		input        T
		expectedKind ShapeKind
		expectedElem T
	}{
		"Plain_NonEither": {
			input:        intType,
			expectedKind: ShapePlain,
		},
		"Optional_EitherWithVoid": {
			input:        &EitherT{Children: []T{intType, &VoidT{}}},
			expectedKind: ShapeOptional,
			expectedElem: intType,
		},
		"Result_EitherWithErrorType": {
			input:        &EitherT{Children: []T{intType, errorType}},
			expectedKind: ShapeResult,
			expectedElem: intType,
		},
		"Result_EitherWithBindsError": {
			input: &EitherT{Children: []T{intType, &BindsT{
				NativeName: &StringT{Value: "Error"},
			}}},
			expectedKind: ShapeResult,
			expectedElem: intType,
		},
		"Plain_EitherOfTwoOrdinaryTypes": {
			input:        &EitherT{Children: []T{intType, &TypeT{Name: "string"}}},
			expectedKind: ShapePlain,
		},
		"Plain_EitherWithThreeChildren": {
			input:        &EitherT{Children: []T{intType, &VoidT{}, errorType}},
			expectedKind: ShapePlain,
		},
		"UnwrapsGroup": {
			input:        &GroupT{Inner: &EitherT{Children: []T{intType, &VoidT{}}}},
			expectedKind: ShapeOptional,
			expectedElem: intType,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			kind, elem := Shape(tt.input)
			assert.Equal(t, tt.expectedKind, kind)
			if tt.expectedElem != nil {
				assert.True(t, Equal(tt.expectedElem, elem))
			}
		})
	}
}

func TestIsOptionalIsResult(t *testing.T) {
	intType := &TypeT{Name: "i32"}
	errorType := &TypeT{Name: "Error"}

	optional := &EitherT{Children: []T{intType, &VoidT{}}}
	elem, ok := IsOptional(optional)
	assert.True(t, ok)
	assert.True(t, Equal(intType, elem))
	_, ok = IsResult(optional)
	assert.False(t, ok)

	result := &EitherT{Children: []T{intType, errorType}}
	elem, ok = IsResult(result)
	assert.True(t, ok)
	assert.True(t, Equal(intType, elem))
	_, ok = IsOptional(result)
	assert.False(t, ok)
}
