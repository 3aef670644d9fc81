package typeterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectRecursiveTypes(t *testing.T) {
	tests := map[string]struct {
		named    map[string]T
		expected []string
	}{
		"NoNamedTypeReferences_NoCycle": {
			named: map[string]T{
				"A": &TupleT{Children: []T{&TypeT{Name: "i32"}}},
			},
			expected: nil,
		},
		"SelfReference_Direct": {
			named: map[string]T{
				"A": &TypeT{Name: "A"},
			},
			expected: []string{"A"},
		},
		"MutualReference_Cycle": {
			named: map[string]T{
				"A": &TupleT{Children: []T{&TypeT{Name: "B"}}},
				"B": &TupleT{Children: []T{&TypeT{Name: "A"}}},
			},
			expected: []string{"A", "B"},
		},
		"ArrayEscapesRecursion": {
			named: map[string]T{
				"List": &TupleT{Children: []T{&ArrayT{Elem: &TypeT{Name: "List"}}}},
			},
			expected: nil,
		},
		"NonCyclicChain": {
			named: map[string]T{
				"A": &TypeT{Name: "B"},
				"B": &TypeT{Name: "i32"},
			},
			expected: nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := DetectRecursiveTypes(tt.named)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.ElementsMatch(t, tt.expected, got)
		})
	}
}
