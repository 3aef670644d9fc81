package typeterm

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var cmpOpts = []cmp.Option{cmpopts.EquateEmpty()}

// Equal reports whether a and b denote the same type, modulo GroupT
// flattening and one level of TypeT aliasing (§3.1.2, §8). Both sides are
// canonicalized first so cmp.Equal never has to special-case GroupT itself.
func Equal(a, b T) bool {
	return cmp.Equal(canonicalize(a), canonicalize(b), cmpOpts...)
}

// canonicalize recursively degroups a type tree so structural comparison
// never trips over parenthesization differences.
func canonicalize(t T) T {
	switch v := Degroup(t).(type) {
	case nil:
		return nil
	case *TypeT:
		return &TypeT{Name: v.Name, Body: canonicalize(v.Body)}
	case *GenericT:
		return &GenericT{Name: v.Name, Params: v.Params, Body: canonicalize(v.Body)}
	case *BindsT:
		return &BindsT{NativeName: canonicalize(v.NativeName), Args: canonicalizeAll(v.Args)}
	case *ImportT:
		return &ImportT{Symbol: canonicalize(v.Symbol), Dep: canonicalize(v.Dep)}
	case *RustT:
		return &RustT{Dep: canonicalize(v.Dep)}
	case *NodeT:
		return &NodeT{Dep: canonicalize(v.Dep)}
	case *FunctionT:
		return &FunctionT{In: canonicalize(v.In), Out: canonicalize(v.Out)}
	case *TupleT:
		return &TupleT{Children: canonicalizeAll(v.Children)}
	case *FieldT:
		return &FieldT{Name: v.Name, Body: canonicalize(v.Body)}
	case *EitherT:
		return &EitherT{Children: canonicalizeAll(v.Children)}
	case *AnyOfT:
		return &AnyOfT{Children: canonicalizeAll(v.Children)}
	case *BufferT:
		return &BufferT{Elem: canonicalize(v.Elem), Size: canonicalize(v.Size)}
	case *ArrayT:
		return &ArrayT{Elem: canonicalize(v.Elem)}
	case *MutT:
		return &MutT{Inner: canonicalize(v.Inner)}
	default:
		return v
	}
}

func canonicalizeAll(ts []T) []T {
	if ts == nil {
		return nil
	}
	out := make([]T, len(ts))
	for i, t := range ts {
		out[i] = canonicalize(t)
	}
	return out
}
