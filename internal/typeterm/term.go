// Package typeterm implements T, the algebraic type term shared by every
// other subsystem: the resolver, the lowerer, and both emitters reason about
// programs entirely in terms of these trees.
package typeterm

//sumtype:decl
type T interface {
	isT()
	String() string
}

func (*VoidT) isT()             {}
func (*InferT) isT()            {}
func (*IntT) isT()               {}
func (*FloatT) isT()             {}
func (*BoolT) isT()              {}
func (*StringT) isT()            {}
func (*TypeT) isT()              {}
func (*GenericT) isT()           {}
func (*IntrinsicGenericT) isT()  {}
func (*BindsT) isT()             {}
func (*ImportT) isT()            {}
func (*RustT) isT()              {}
func (*NodeT) isT()              {}
func (*DependencyT) isT()        {}
func (*GroupT) isT()             {}
func (*FunctionT) isT()          {}
func (*TupleT) isT()             {}
func (*FieldT) isT()             {}
func (*EitherT) isT()            {}
func (*AnyOfT) isT()             {}
func (*BufferT) isT()            {}
func (*ArrayT) isT()             {}
func (*MutT) isT()               {}
func (*FailT) isT()              {}

// VoidT is the unit / absence type.
type VoidT struct{}

// InferT is an unresolved generic placeholder carrying a diagnostic label
// and the context it was inferred from (e.g. "return type of foo").
type InferT struct {
	Label   string
	Context string
}

// IntT, FloatT, BoolT and StringT are type-level literal values, used as
// generic arguments (e.g. Buffer{i32, 4} instantiates BufferT with an IntT
// size).
type IntT struct{ Value int64 }
type FloatT struct{ Value float64 }
type BoolT struct{ Value bool }
type StringT struct{ Value string }

// TypeT names an alias/wrapper around Body.
type TypeT struct {
	Name string
	Body T
}

// GenericT is a generic type template; Params are hygienic, freshly scoped
// per instantiation (see Instantiate).
type GenericT struct {
	Name   string
	Params []string
	Body   T
}

// IntrinsicGenericT is a built-in generic head such as Array, Buffer, Either.
type IntrinsicGenericT struct {
	Name  string
	Arity int
}

// BindsT references a type defined in the target ecosystem. NativeName is
// either a StringT (bare symbol) or an ImportT (symbol sourced from Dep).
type BindsT struct {
	NativeName T
	Args       []T
}

// ImportT names a target-ecosystem symbol and where to import it from.
type ImportT struct {
	Symbol T
	Dep    T
}

// RustT and NodeT tag a DependencyT with the backend that consumes it.
type RustT struct{ Dep T }
type NodeT struct{ Dep T }

// DependencyT is an external package declaration.
type DependencyT struct {
	Name          StringT
	VersionOrURL  StringT
}

// GroupT is parenthesization; semantically transparent (see Degroup).
type GroupT struct{ Inner T }

// FunctionT is a callable signature.
type FunctionT struct {
	In  T
	Out T
}

// TupleT is a product type.
type TupleT struct{ Children []T }

// FieldT is a named member inside a tuple or either.
type FieldT struct {
	Name string
	Body T
}

// EitherT is a sum type.
type EitherT struct{ Children []T }

// AnyOfT is a union of candidates used only during resolution; it must never
// survive to emission.
type AnyOfT struct{ Children []T }

// BufferT is a fixed-length array; Size must reduce to an IntT.
type BufferT struct {
	Elem T
	Size T
}

// ArrayT is a dynamic array.
type ArrayT struct{ Elem T }

// MutT wraps a FunctionT to allow mutable capture (see §5 of the spec);
// every other position is transparent and reduces to Inner.
type MutT struct{ Inner T }

// FailT carries a compile-time error surfaced during type construction. It
// is not a runtime error but a compiler diagnostic carrier (§3.1.2).
type FailT struct{ Msg string }
