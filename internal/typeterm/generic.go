package typeterm

import "github.com/pkg/errors"

// Instantiate substitutes g's Params with args, producing a fresh T tree.
// Substitution is hygienic: each call gets its own substitution frame, so
// nested generics never capture an outer generic's parameter names (§4.1).
func Instantiate(g *GenericT, args []T) (T, error) {
	if len(args) != len(g.Params) {
		return nil, errors.Errorf(
			"generic %s expects %d type argument(s), got %d",
			g.Name, len(g.Params), len(args),
		)
	}
	frame := make(map[string]T, len(args))
	for i, p := range g.Params {
		frame[p] = args[i]
	}
	return substitute(g.Body, frame), nil
}

// substitute walks t replacing any TypeT whose Name matches a key in frame.
// A nested GenericT re-declaring one of frame's names shadows it for its own
// body, preserving hygiene.
func substitute(t T, frame map[string]T) T {
	switch v := t.(type) {
	case nil:
		return nil
	case *TypeT:
		if repl, ok := frame[v.Name]; ok && v.Body == nil {
			return repl
		}
		return &TypeT{Name: v.Name, Body: substitute(v.Body, frame)}
	case *GenericT:
		inner := frame
		for _, p := range v.Params {
			if _, shadowed := frame[p]; shadowed {
				inner = withoutKey(frame, p)
			}
		}
		return &GenericT{Name: v.Name, Params: v.Params, Body: substitute(v.Body, inner)}
	case *BindsT:
		args := make([]T, len(v.Args))
		for i, a := range v.Args {
			args[i] = substitute(a, frame)
		}
		return &BindsT{NativeName: substitute(v.NativeName, frame), Args: args}
	case *ImportT:
		return &ImportT{Symbol: substitute(v.Symbol, frame), Dep: substitute(v.Dep, frame)}
	case *RustT:
		return &RustT{Dep: substitute(v.Dep, frame)}
	case *NodeT:
		return &NodeT{Dep: substitute(v.Dep, frame)}
	case *GroupT:
		return &GroupT{Inner: substitute(v.Inner, frame)}
	case *FunctionT:
		return &FunctionT{In: substitute(v.In, frame), Out: substitute(v.Out, frame)}
	case *TupleT:
		return &TupleT{Children: substituteAll(v.Children, frame)}
	case *FieldT:
		return &FieldT{Name: v.Name, Body: substitute(v.Body, frame)}
	case *EitherT:
		return &EitherT{Children: substituteAll(v.Children, frame)}
	case *AnyOfT:
		return &AnyOfT{Children: substituteAll(v.Children, frame)}
	case *BufferT:
		return &BufferT{Elem: substitute(v.Elem, frame), Size: substitute(v.Size, frame)}
	case *ArrayT:
		return &ArrayT{Elem: substitute(v.Elem, frame)}
	case *MutT:
		return &MutT{Inner: substitute(v.Inner, frame)}
	default:
		return t
	}
}

func substituteAll(ts []T, frame map[string]T) []T {
	out := make([]T, len(ts))
	for i, t := range ts {
		out[i] = substitute(t, frame)
	}
	return out
}

func withoutKey(frame map[string]T, key string) map[string]T {
	out := make(map[string]T, len(frame))
	for k, v := range frame {
		if k != key {
			out[k] = v
		}
	}
	return out
}
