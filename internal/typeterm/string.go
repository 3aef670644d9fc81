package typeterm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/unicode/norm"
)

// sanitizeRe implements the "[A-Za-z0-9_]" alphabet from §3.1.2.
var sanitizeRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeCallable normalizes s (running it through NFKD so multi-byte
// literal type parameters decompose into ASCII-adjacent runes where
// possible) and then replaces every character outside the sanitized
// alphabet with '_', per §3.1.2's TString callable-form rule.
func SanitizeCallable(s string) string {
	normalized := norm.NFKD.String(s)
	return sanitizeRe.ReplaceAllString(normalized, "_")
}

// ToFunctionalString produces the stable, human-readable form of t used in
// diagnostics (§4.1); structural equality (Equal) does not go through it.
func ToFunctionalString(t T) string {
	switch v := t.(type) {
	case nil:
		return "<nil>"
	case *VoidT:
		return "Void"
	case *InferT:
		return fmt.Sprintf("Infer(%s)", v.Label)
	case *IntT:
		return fmt.Sprintf("%d", v.Value)
	case *FloatT:
		return fmt.Sprintf("%g", v.Value)
	case *BoolT:
		return fmt.Sprintf("%t", v.Value)
	case *StringT:
		return fmt.Sprintf("%q", v.Value)
	case *TypeT:
		return v.Name
	case *GenericT:
		return fmt.Sprintf("%s<%s>", v.Name, strings.Join(v.Params, ", "))
	case *IntrinsicGenericT:
		return v.Name
	case *BindsT:
		return fmt.Sprintf("%s%s", ToFunctionalString(v.NativeName), childrenFunctional(v.Args))
	case *ImportT:
		return fmt.Sprintf("%s from %s", ToFunctionalString(v.Symbol), ToFunctionalString(v.Dep))
	case *RustT:
		return fmt.Sprintf("Rust(%s)", ToFunctionalString(v.Dep))
	case *NodeT:
		return fmt.Sprintf("Node(%s)", ToFunctionalString(v.Dep))
	case *DependencyT:
		return fmt.Sprintf("%s@%s", v.Name.Value, v.VersionOrURL.Value)
	case *GroupT:
		return fmt.Sprintf("(%s)", ToFunctionalString(v.Inner))
	case *FunctionT:
		return fmt.Sprintf("%s -> %s", ToFunctionalString(v.In), ToFunctionalString(v.Out))
	case *TupleT:
		return childrenFunctional(v.Children)
	case *FieldT:
		return fmt.Sprintf("%s: %s", v.Name, ToFunctionalString(v.Body))
	case *EitherT:
		return fmt.Sprintf("Either%s", childrenFunctional(v.Children))
	case *AnyOfT:
		return fmt.Sprintf("AnyOf%s", childrenFunctional(v.Children))
	case *BufferT:
		return fmt.Sprintf("Buffer{%s, %s}", ToFunctionalString(v.Elem), ToFunctionalString(v.Size))
	case *ArrayT:
		return fmt.Sprintf("Array{%s}", ToFunctionalString(v.Elem))
	case *MutT:
		return fmt.Sprintf("mut %s", ToFunctionalString(v.Inner))
	case *FailT:
		return fmt.Sprintf("<fail: %s>", v.Msg)
	default:
		return "<unknown>"
	}
}

func childrenFunctional(ts []T) string {
	parts := make([]string, len(ts))
	for i, c := range ts {
		parts[i] = ToFunctionalString(c)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ToCallableString produces the sanitized identifier form used as a map key
// and as the disambiguating suffix on emitted/synthesized function names
// (§4.1, §4.3.3, §4.4).
func ToCallableString(t T) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case *VoidT:
		return "void"
	case *InferT:
		return "infer_" + SanitizeCallable(v.Label)
	case *IntT:
		return SanitizeCallable(fmt.Sprintf("i%d", v.Value))
	case *FloatT:
		return SanitizeCallable(fmt.Sprintf("f%g", v.Value))
	case *BoolT:
		return fmt.Sprintf("b%t", v.Value)
	case *StringT:
		return "s_" + SanitizeCallable(v.Value)
	case *TypeT:
		return strcase.ToSnake(v.Name)
	case *GenericT:
		return strcase.ToSnake(v.Name)
	case *IntrinsicGenericT:
		return strcase.ToSnake(v.Name)
	case *BindsT:
		return strcase.ToSnake(ToCallableString(v.NativeName)) + childrenCallable(v.Args)
	case *ImportT:
		return ToCallableString(v.Symbol)
	case *RustT:
		return "rust_" + ToCallableString(v.Dep)
	case *NodeT:
		return "node_" + ToCallableString(v.Dep)
	case *DependencyT:
		return SanitizeCallable(v.Name.Value)
	case *GroupT:
		return ToCallableString(v.Inner)
	case *FunctionT:
		return "fn_" + ToCallableString(v.In) + "_to_" + ToCallableString(v.Out)
	case *TupleT:
		return "tup" + childrenCallable(v.Children)
	case *FieldT:
		return SanitizeCallable(v.Name) + "_" + ToCallableString(v.Body)
	case *EitherT:
		return "either" + childrenCallable(v.Children)
	case *AnyOfT:
		return "anyof" + childrenCallable(v.Children)
	case *BufferT:
		return "buffer_" + ToCallableString(v.Elem) + "_" + ToCallableString(v.Size)
	case *ArrayT:
		return "array_" + ToCallableString(v.Elem)
	case *MutT:
		return "mut_" + ToCallableString(v.Inner)
	case *FailT:
		return "fail"
	default:
		return "unknown"
	}
}

func childrenCallable(ts []T) string {
	var b strings.Builder
	for _, c := range ts {
		b.WriteString("_")
		b.WriteString(ToCallableString(c))
	}
	return b.String()
}

// String implementations delegate to the functional form so every T is
// directly usable in fmt verbs and error messages.
func (t *VoidT) String() string             { return ToFunctionalString(t) }
func (t *InferT) String() string            { return ToFunctionalString(t) }
func (t *IntT) String() string              { return ToFunctionalString(t) }
func (t *FloatT) String() string            { return ToFunctionalString(t) }
func (t *BoolT) String() string             { return ToFunctionalString(t) }
func (t *StringT) String() string           { return ToFunctionalString(t) }
func (t *TypeT) String() string             { return ToFunctionalString(t) }
func (t *GenericT) String() string          { return ToFunctionalString(t) }
func (t *IntrinsicGenericT) String() string { return ToFunctionalString(t) }
func (t *BindsT) String() string            { return ToFunctionalString(t) }
func (t *ImportT) String() string           { return ToFunctionalString(t) }
func (t *RustT) String() string             { return ToFunctionalString(t) }
func (t *NodeT) String() string             { return ToFunctionalString(t) }
func (t *DependencyT) String() string       { return ToFunctionalString(t) }
func (t *GroupT) String() string            { return ToFunctionalString(t) }
func (t *FunctionT) String() string         { return ToFunctionalString(t) }
func (t *TupleT) String() string            { return ToFunctionalString(t) }
func (t *FieldT) String() string            { return ToFunctionalString(t) }
func (t *EitherT) String() string           { return ToFunctionalString(t) }
func (t *AnyOfT) String() string            { return ToFunctionalString(t) }
func (t *BufferT) String() string           { return ToFunctionalString(t) }
func (t *ArrayT) String() string            { return ToFunctionalString(t) }
func (t *MutT) String() string              { return ToFunctionalString(t) }
func (t *FailT) String() string             { return ToFunctionalString(t) }
