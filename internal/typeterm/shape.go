package typeterm

// ShapeKind classifies the recognized either-shapes from §3.1.2/§4.5.3. The
// spec's open question #1 (§9) asks that this recognition be centralized in
// exactly one place; every lowerer and emitter call site goes through Shape
// instead of re-deriving the check.
type ShapeKind int

const (
	// ShapePlain is any Either that is neither Optional nor Result, and any
	// non-Either type.
	ShapePlain ShapeKind = iota
	// ShapeOptional is Either{T, Void}.
	ShapeOptional
	// ShapeResult is Either{T, Binds(<canonical error>)} or Either{T, Type("Error", _)}.
	ShapeResult
)

// CanonicalErrorName is the native name BindsT must carry for the second
// Either branch to be recognized as the language's Error type (§3.1.2).
const CanonicalErrorName = "Error"

// Shape classifies t and, for ShapeOptional/ShapeResult, returns the success
// branch's element type.
func Shape(t T) (ShapeKind, T) {
	e, ok := Degroup(t).(*EitherT)
	if !ok || len(e.Children) != 2 {
		return ShapePlain, nil
	}
	head, tail := e.Children[0], Degroup(e.Children[1])
	if _, isVoid := tail.(*VoidT); isVoid {
		return ShapeOptional, head
	}
	if isCanonicalError(tail) {
		return ShapeResult, head
	}
	return ShapePlain, nil
}

func isCanonicalError(t T) bool {
	switch v := t.(type) {
	case *TypeT:
		return v.Name == CanonicalErrorName
	case *BindsT:
		return bindsNativeName(v.NativeName) == CanonicalErrorName
	default:
		return false
	}
}

func bindsNativeName(nativeName T) string {
	switch v := Degroup(nativeName).(type) {
	case *StringT:
		return v.Value
	case *ImportT:
		if s, ok := Degroup(v.Symbol).(*StringT); ok {
			return s.Value
		}
	}
	return ""
}

// IsOptional and IsResult are convenience wrappers over Shape.
func IsOptional(t T) (elem T, ok bool) {
	kind, elem := Shape(t)
	return elem, kind == ShapeOptional
}

func IsResult(t T) (elem T, ok bool) {
	kind, elem := Shape(t)
	return elem, kind == ShapeResult
}
