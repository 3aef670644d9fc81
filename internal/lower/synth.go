package lower

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/ir"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// synthesize implements §4.3.3's derived-function cascade: a handful of
// universal Optional/Result helpers, named-type constructors, field/variant
// accessors and discriminators, and the `store` reassignment helper. A nil,
// nil return means no derived form applies, and the caller turns that into a
// ResolutionError.
func (l *Lowerer) synthesize(name string, argTypes []typeterm.T, args []ir.Microstatement, span ast.Span) (*ir.Function, error) {
	switch name {
	case "some":
		return l.synthSome(argTypes)
	case "none":
		return l.synthNone(argTypes)
	case "ok":
		return l.synthOk(argTypes)
	case "err":
		return l.synthErr(argTypes)
	case "getOr":
		return l.synthGetOr(argTypes)
	case "isOk":
		return l.synthIsOkErr(argTypes, true)
	case "isErr":
		return l.synthIsOkErr(argTypes, false)
	case "store":
		return l.synthStore(argTypes)
	}

	if t, ok := l.lookupType(name); ok {
		return l.synthConstructor(name, t, argTypes)
	}

	if fn := l.synthVariantConstructor(name, argTypes); fn != nil {
		return fn, nil
	}

	if len(argTypes) == 1 {
		if fn := l.synthAccessorOrDiscriminator(name, argTypes[0]); fn != nil {
			return fn, nil
		}
	}

	return nil, nil
}

// synthVariantConstructor dispatches a constructor call by variant name
// (e.g. `Circle(5)` against `type Shape = Either{Circle: i64, Square: i64}`):
// unlike synthConstructor, which only fires when `name` is itself a
// registered type name, this scans every named Either type's variants for
// one whose field name is `name` and whose payload type matches argTypes[0]
// (§4.3.3). The matched field name becomes the synthesized function's Tag,
// so either_wrap's native body has a variant to construct.
func (l *Lowerer) synthVariantConstructor(name string, argTypes []typeterm.T) *ir.Function {
	if len(argTypes) != 1 {
		return nil
	}
	for _, owner := range l.allNamedTypes() {
		alias, ok := typeterm.Degroup(owner).(*typeterm.TypeT)
		if !ok {
			continue
		}
		either, ok := typeterm.Degroup(alias.Body).(*typeterm.EitherT)
		if !ok {
			continue
		}
		for _, c := range either.Children {
			fname, body := fieldNameAndBody(c)
			if fname != name {
				continue
			}
			if !typeterm.Equal(typeterm.Degroup(body), typeterm.Degroup(argTypes[0])) {
				continue
			}
			return &ir.Function{
				Name:       name,
				Params:     []*ir.Arg{{Name: "value", Kind: ir.ArgOwn, ArgType: argTypes[0]}},
				ReturnType: owner,
				Native:     "either_wrap",
				Tag:        name,
			}
		}
	}
	return nil
}

func (l *Lowerer) lookupType(name string) (typeterm.T, bool) {
	if t, ok := l.Scope.Types[name]; ok {
		return t, true
	}
	if root := l.Program.Root(); root != nil && root != l.Scope {
		if t, ok := root.Types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (l *Lowerer) allNamedTypes() map[string]typeterm.T {
	all := map[string]typeterm.T{}
	if root := l.Program.Root(); root != nil {
		for name, t := range root.Types {
			all[name] = t
		}
	}
	for name, t := range l.Scope.Types {
		all[name] = t
	}
	return all
}

func boolType() typeterm.T { return &typeterm.TypeT{Name: "bool"} }

func errorType() typeterm.T { return &typeterm.BindsT{NativeName: &typeterm.StringT{Value: typeterm.CanonicalErrorName}} }

// synthSome builds the Optional constructor `some(value) -> Either{T, Void}`.
func (l *Lowerer) synthSome(argTypes []typeterm.T) (*ir.Function, error) {
	if len(argTypes) != 1 {
		return nil, errors.New("some() takes exactly one argument")
	}
	elem := argTypes[0]
	ret := &typeterm.EitherT{Children: []typeterm.T{elem, &typeterm.VoidT{}}}
	return &ir.Function{
		Name:       "some",
		Params:     []*ir.Arg{{Name: "value", Kind: ir.ArgOwn, ArgType: elem}},
		ReturnType: ret,
		Native:     "optional_some",
	}, nil
}

// synthNone builds the empty Optional constructor. The element type is left
// as an unresolved placeholder; the call site's expected type (a return
// type or declared binding annotation) is what ultimately pins it down, same
// as the original Rust compiler's `None` inference.
func (l *Lowerer) synthNone(argTypes []typeterm.T) (*ir.Function, error) {
	if len(argTypes) != 0 {
		return nil, errors.New("none() takes no arguments")
	}
	ret := &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.InferT{Label: "T", Context: "none()"},
		&typeterm.VoidT{},
	}}
	return &ir.Function{Name: "none", ReturnType: ret, Native: "optional_none"}, nil
}

func (l *Lowerer) synthOk(argTypes []typeterm.T) (*ir.Function, error) {
	if len(argTypes) != 1 {
		return nil, errors.New("ok() takes exactly one argument")
	}
	elem := argTypes[0]
	ret := &typeterm.EitherT{Children: []typeterm.T{elem, errorType()}}
	return &ir.Function{
		Name:       "ok",
		Params:     []*ir.Arg{{Name: "value", Kind: ir.ArgOwn, ArgType: elem}},
		ReturnType: ret,
		Native:     "result_ok",
	}, nil
}

func (l *Lowerer) synthErr(argTypes []typeterm.T) (*ir.Function, error) {
	if len(argTypes) != 1 {
		return nil, errors.New("err() takes exactly one argument")
	}
	errVal := argTypes[0]
	ret := &typeterm.EitherT{Children: []typeterm.T{
		&typeterm.InferT{Label: "T", Context: "err()"},
		errVal,
	}}
	return &ir.Function{
		Name:       "err",
		Params:     []*ir.Arg{{Name: "error", Kind: ir.ArgOwn, ArgType: errVal}},
		ReturnType: ret,
		Native:     "result_err",
	}, nil
}

// synthGetOr implements the Optional/Result universal `getOr(source, default)`
// (§4.5.3): unwrap on Some/Ok, fall back to default on None/Err.
func (l *Lowerer) synthGetOr(argTypes []typeterm.T) (*ir.Function, error) {
	if len(argTypes) != 2 {
		return nil, errors.New("getOr() takes exactly two arguments")
	}
	kind, elem := typeterm.Shape(argTypes[0])
	if kind == typeterm.ShapePlain {
		return nil, errors.New("getOr() requires an Optional or Result value as its first argument")
	}
	if !typeterm.Equal(typeterm.Degroup(elem), typeterm.Degroup(argTypes[1])) {
		return nil, errors.New("getOr() default value type does not match the success type")
	}
	return &ir.Function{
		Name: "getOr",
		Params: []*ir.Arg{
			{Name: "source", Kind: ir.ArgOwn, ArgType: argTypes[0]},
			{Name: "fallback", Kind: ir.ArgOwn, ArgType: argTypes[1]},
		},
		ReturnType: elem,
		Native:     "getOr",
	}, nil
}

func (l *Lowerer) synthIsOkErr(argTypes []typeterm.T, isOk bool) (*ir.Function, error) {
	name, native := "isOk", "isOk"
	if !isOk {
		name, native = "isErr", "isErr"
	}
	if len(argTypes) != 1 {
		return nil, errors.Errorf("%s() takes exactly one argument", name)
	}
	kind, _ := typeterm.Shape(argTypes[0])
	if kind != typeterm.ShapeResult {
		return nil, errors.Errorf("%s() requires a Result value", name)
	}
	return &ir.Function{
		Name:       name,
		Params:     []*ir.Arg{{Name: "result", Kind: ir.ArgRef, ArgType: argTypes[0]}},
		ReturnType: boolType(),
		Native:     native,
	}, nil
}

// synthStore backs a reassignment: "if the destination is an Either,
// synthesize the tag-replacement assignment; otherwise the straight
// assignment" (§4.3.3).
func (l *Lowerer) synthStore(argTypes []typeterm.T) (*ir.Function, error) {
	if len(argTypes) != 2 {
		return nil, errors.New("store requires exactly a destination and a value")
	}
	native := "store_plain"
	if _, ok := typeterm.Degroup(argTypes[0]).(*typeterm.EitherT); ok {
		native = "store_either"
	}
	return &ir.Function{
		Name: "store",
		Params: []*ir.Arg{
			{Name: "dest", Kind: ir.ArgMut, ArgType: argTypes[0]},
			{Name: "value", Kind: ir.ArgOwn, ArgType: argTypes[1]},
		},
		ReturnType: &typeterm.VoidT{},
		Native:     native,
	}, nil
}

// synthConstructor dispatches on the named type's underlying shape (after
// unwrapping one TypeT alias layer, so the synthesized function's return
// type is still the named alias, not the bare structural shape).
func (l *Lowerer) synthConstructor(name string, named typeterm.T, argTypes []typeterm.T) (*ir.Function, error) {
	resultType := named
	underlying := typeterm.Degroup(named)
	if alias, ok := underlying.(*typeterm.TypeT); ok {
		underlying = typeterm.Degroup(alias.Body)
	}

	switch v := underlying.(type) {
	case *typeterm.TupleT:
		return l.synthTupleConstructor(name, resultType, v, argTypes)
	case *typeterm.EitherT:
		return l.synthEitherConstructor(name, resultType, v, argTypes)
	case *typeterm.BufferT:
		return l.synthBufferConstructor(name, resultType, v, argTypes)
	case *typeterm.ArrayT:
		return l.synthArrayConstructor(name, resultType, v, argTypes)
	case *typeterm.FieldT:
		return l.synthFieldConstructor(name, resultType, v, argTypes)
	case *typeterm.BindsT:
		return l.synthBindsConstructor(name, resultType, argTypes)
	default:
		// A plain alias of a primitive (e.g. `type ExitCode = i32`): a
		// single-argument identity constructor that relabels the value.
		if len(argTypes) == 1 {
			return &ir.Function{
				Name:       name,
				Params:     []*ir.Arg{{Name: "value", Kind: ir.ArgOwn, ArgType: argTypes[0]}},
				ReturnType: resultType,
				Native:     "identity",
			}, nil
		}
		return nil, errors.Errorf("type `%s` has no constructor form for %d argument(s)", name, len(argTypes))
	}
}

func isLiteralType(t typeterm.T) bool {
	switch typeterm.Degroup(t).(type) {
	case *typeterm.IntT, *typeterm.FloatT, *typeterm.BoolT, *typeterm.StringT:
		return true
	default:
		return false
	}
}

// fieldNameAndBody splits a Tuple/Either child into its optional field name
// and its carried type, unwrapping one FieldT layer if present.
func fieldNameAndBody(t typeterm.T) (name string, body typeterm.T) {
	if f, ok := typeterm.Degroup(t).(*typeterm.FieldT); ok {
		return f.Name, f.Body
	}
	return "", t
}

// synthTupleConstructor builds `Name(a, b, ...)`: one argument per
// non-literal field, skipping fields whose type is itself a compile-time
// literal (those are fixed by the type, not supplied by the caller).
func (l *Lowerer) synthTupleConstructor(name string, resultType typeterm.T, v *typeterm.TupleT, argTypes []typeterm.T) (*ir.Function, error) {
	var consumed []typeterm.T
	var consumedNames []string
	for i, c := range v.Children {
		fname, body := fieldNameAndBody(c)
		if isLiteralType(body) {
			continue
		}
		if fname == "" {
			fname = "arg" + strconv.Itoa(i)
		}
		consumed = append(consumed, body)
		consumedNames = append(consumedNames, fname)
	}
	if len(consumed) != len(argTypes) {
		return nil, errors.Errorf("`%s` takes %d argument(s), got %d", name, len(consumed), len(argTypes))
	}
	params := make([]*ir.Arg, len(consumed))
	for i, body := range consumed {
		if !typeterm.Equal(typeterm.Degroup(body), typeterm.Degroup(argTypes[i])) {
			return nil, errors.Errorf("`%s` argument %d: expected %s, got %s", name, i, body.String(), argTypes[i].String())
		}
		params[i] = &ir.Arg{Name: consumedNames[i], Kind: ir.ArgOwn, ArgType: argTypes[i]}
	}
	return &ir.Function{Name: name, Params: params, ReturnType: resultType, Native: "tuple_new"}, nil
}

// synthEitherConstructor builds `Name(value)`: a single argument matching
// exactly one variant's carried type (§4.3.3, Optional/Result are special
// cases of this same shape handled above via some/none/ok/err instead).
func (l *Lowerer) synthEitherConstructor(name string, resultType typeterm.T, v *typeterm.EitherT, argTypes []typeterm.T) (*ir.Function, error) {
	if len(argTypes) != 1 {
		return nil, errors.Errorf("`%s` takes exactly one argument", name)
	}
	for _, c := range v.Children {
		fname, body := fieldNameAndBody(c)
		if typeterm.Equal(typeterm.Degroup(body), typeterm.Degroup(argTypes[0])) {
			return &ir.Function{
				Name:       name,
				Params:     []*ir.Arg{{Name: "value", Kind: ir.ArgOwn, ArgType: argTypes[0]}},
				ReturnType: resultType,
				Native:     "either_wrap",
				Tag:        fname,
			}, nil
		}
	}
	return nil, errors.Errorf("no variant of `%s` accepts an argument of type %s", name, argTypes[0].String())
}

// synthBufferConstructor implements both Buffer forms: a single argument
// repeat-fills every slot, Size arguments fill positionally (§4.3.3).
func (l *Lowerer) synthBufferConstructor(name string, resultType typeterm.T, v *typeterm.BufferT, argTypes []typeterm.T) (*ir.Function, error) {
	size, ok := typeterm.Degroup(v.Size).(*typeterm.IntT)
	if !ok {
		return nil, errors.Errorf("`%s` has a non-literal Buffer size", name)
	}
	switch {
	case len(argTypes) == 1:
		if !typeterm.Equal(typeterm.Degroup(v.Elem), typeterm.Degroup(argTypes[0])) {
			return nil, errors.Errorf("`%s` fill value does not match element type", name)
		}
		return &ir.Function{
			Name:       name,
			Params:     []*ir.Arg{{Name: "fill", Kind: ir.ArgOwn, ArgType: argTypes[0]}},
			ReturnType: resultType,
			Native:     "buffer_fill",
		}, nil
	case int64(len(argTypes)) == size.Value:
		params := make([]*ir.Arg, len(argTypes))
		for i, t := range argTypes {
			if !typeterm.Equal(typeterm.Degroup(v.Elem), typeterm.Degroup(t)) {
				return nil, errors.Errorf("`%s` argument %d does not match element type", name, i)
			}
			params[i] = &ir.Arg{Name: "elem" + strconv.Itoa(i), Kind: ir.ArgOwn, ArgType: t}
		}
		return &ir.Function{Name: name, Params: params, ReturnType: resultType, Native: "buffer_new"}, nil
	default:
		return nil, errors.Errorf("`%s` takes either 1 or %d argument(s), got %d", name, size.Value, len(argTypes))
	}
}

// synthArrayConstructor builds a variadic `Name(a, b, ...)` where every
// argument matches the array's element type.
func (l *Lowerer) synthArrayConstructor(name string, resultType typeterm.T, v *typeterm.ArrayT, argTypes []typeterm.T) (*ir.Function, error) {
	params := make([]*ir.Arg, len(argTypes))
	for i, t := range argTypes {
		if !typeterm.Equal(typeterm.Degroup(v.Elem), typeterm.Degroup(t)) {
			return nil, errors.Errorf("`%s` argument %d does not match element type", name, i)
		}
		params[i] = &ir.Arg{Name: "elem" + strconv.Itoa(i), Kind: ir.ArgOwn, ArgType: t}
	}
	return &ir.Function{Name: name, Params: params, ReturnType: resultType, Native: "array_new"}, nil
}

// synthFieldConstructor builds a single-field product's constructor: one
// argument of the field's body type.
func (l *Lowerer) synthFieldConstructor(name string, resultType typeterm.T, v *typeterm.FieldT, argTypes []typeterm.T) (*ir.Function, error) {
	if len(argTypes) != 1 {
		return nil, errors.Errorf("`%s` takes exactly one argument", name)
	}
	if !typeterm.Equal(typeterm.Degroup(v.Body), typeterm.Degroup(argTypes[0])) {
		return nil, errors.Errorf("`%s` argument does not match field type", name)
	}
	return &ir.Function{
		Name:       name,
		Params:     []*ir.Arg{{Name: v.Name, Kind: ir.ArgOwn, ArgType: argTypes[0]}},
		ReturnType: resultType,
		Native:     "field_new",
	}, nil
}

// synthBindsConstructor builds a positional pass-through constructor for a
// native/ecosystem type (§4.3.3): arguments are forwarded verbatim to the
// target-native constructor named by the Binds term at emission time.
func (l *Lowerer) synthBindsConstructor(name string, resultType typeterm.T, argTypes []typeterm.T) (*ir.Function, error) {
	params := make([]*ir.Arg, len(argTypes))
	for i, t := range argTypes {
		params[i] = &ir.Arg{Name: "arg" + strconv.Itoa(i), Kind: ir.ArgOwn, ArgType: t}
	}
	return &ir.Function{Name: name, Params: params, ReturnType: resultType, Native: "binds_new"}, nil
}

// synthAccessorOrDiscriminator searches every named type visible from the
// scope (a local name shadows a root one; the search order among names is
// not defined) for a Tuple field or Either variant called name whose owning type
// structurally matches argType, producing a field accessor or a guarded
// discriminator respectively (§4.3.3).
func (l *Lowerer) synthAccessorOrDiscriminator(name string, argType typeterm.T) *ir.Function {
	for _, t := range l.allNamedTypes() {
		underlying := typeterm.Degroup(t)
		checkType := t
		if alias, ok := underlying.(*typeterm.TypeT); ok {
			if !typeterm.Equal(typeterm.Degroup(checkType), typeterm.Degroup(argType)) {
				continue
			}
			underlying = typeterm.Degroup(alias.Body)
		} else if !typeterm.Equal(typeterm.Degroup(underlying), typeterm.Degroup(argType)) {
			continue
		}

		switch v := underlying.(type) {
		case *typeterm.TupleT:
			for i, c := range v.Children {
				fname, body := fieldNameAndBody(c)
				if fname == name {
					return l.accessorFn(name, argType, body)
				}
				if idx, ok := positionalIndex(name); ok && idx == i {
					return l.accessorFn(name, argType, body)
				}
			}
		case *typeterm.EitherT:
			for _, c := range v.Children {
				fname, body := fieldNameAndBody(c)
				if fname == name {
					return l.discriminatorFn(name, argType, body)
				}
			}
		}
	}
	return nil
}

func positionalIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, "arg") {
		return 0, false
	}
	idx, err := strconv.Atoi(name[3:])
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

func (l *Lowerer) accessorFn(name string, ownerType, fieldType typeterm.T) *ir.Function {
	return &ir.Function{
		Name:       name,
		Params:     []*ir.Arg{{Name: "self", Kind: ir.ArgRef, ArgType: ownerType}},
		ReturnType: fieldType,
		Native:     "tuple_accessor",
	}
}

// discriminatorFn returns a "guarded optional-of-variant" accessor: calling
// it on a value of a non-matching variant yields None rather than erroring
// (§4.3.3, §4.5.3).
func (l *Lowerer) discriminatorFn(name string, ownerType, variantType typeterm.T) *ir.Function {
	ret := &typeterm.EitherT{Children: []typeterm.T{variantType, &typeterm.VoidT{}}}
	return &ir.Function{
		Name:       name,
		Params:     []*ir.Arg{{Name: "self", Kind: ir.ArgRef, ArgType: ownerType}},
		ReturnType: ret,
		Native:     "either_discriminator",
		Tag:        name,
	}
}
