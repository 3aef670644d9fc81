package typeterm

// Degroup returns the innermost type ignoring GroupT wrappers and one level
// of TypeT aliasing, per §4.1. It is what the lowerer and both emitters call
// whenever they need to reason about the *shape* of a type rather than its
// *name*.
func Degroup(t T) T {
	switch v := t.(type) {
	case *GroupT:
		return Degroup(v.Inner)
	case *TypeT:
		// An opaque named type (no Body, e.g. a primitive or an intrinsic
		// like ExitCode/Error) has nothing to alias to, so it degroups to
		// itself rather than to a nil Body.
		if v.Body == nil {
			return v
		}
		return stripOneGroup(v.Body)
	default:
		return t
	}
}

// stripOneGroup removes GroupT wrappers but does not recurse into a further
// TypeT, matching "one level of Type aliasing" in §3.1.2.
func stripOneGroup(t T) T {
	if g, ok := t.(*GroupT); ok {
		return stripOneGroup(g.Inner)
	}
	return t
}

// UnwrapGroup strips GroupT wrappers only, preserving a named TypeT's
// identity instead of collapsing it to its Body the way Degroup does.
// Callers that need to render or record a type by its own name - rather
// than reason about its structural shape - use this instead of Degroup.
func UnwrapGroup(t T) T {
	if g, ok := t.(*GroupT); ok {
		return UnwrapGroup(g.Inner)
	}
	return t
}

// ReduceMut strips an outer MutT that does not wrap a FunctionT; MutT around
// anything else is transparent (§4.1).
func ReduceMut(t T) T {
	if m, ok := Degroup(t).(*MutT); ok {
		if _, isFn := Degroup(m.Inner).(*FunctionT); !isFn {
			return ReduceMut(m.Inner)
		}
	}
	return t
}
