package typeterm

import "github.com/tidwall/btree"

// §3.1.4: "cyclic references are not permitted (the language disallows
// recursive type definitions at this layer - recursion happens only through
// explicit named collaborators or the Array container)."
//
// DetectRecursiveTypes runs Tarjan's strongly-connected-components
// algorithm over the named-type reference graph, adapted from the teacher's
// dep_graph cycle detector (internal/dep_graph/cycles.go), to find any named
// type that (transitively, through TypeT/GenericT bodies) refers back to
// itself without passing through an ArrayT indirection.
func DetectRecursiveTypes(named map[string]T) []string {
	refs := buildReferenceGraph(named)

	indices := map[string]int{}
	lowlinks := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	index := 0
	var cyclic []string

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		var deps btree.Set[string]
		if d, ok := refs[v]; ok {
			deps = d
		}
		iter := deps.Iter()
		for ok := iter.First(); ok; ok = iter.Next() {
			w := iter.Key()
			if _, visited := indices[w]; !visited {
				if _, known := named[w]; !known {
					continue
				}
				strongConnect(w)
				if lowlinks[w] < lowlinks[v] {
					lowlinks[v] = lowlinks[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlinks[v] {
					lowlinks[v] = indices[w]
				}
			}
		}

		if lowlinks[v] == indices[v] {
			var component []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			if len(component) > 1 {
				cyclic = append(cyclic, component...)
			} else if component[0] == v {
				if d, ok := refs[v]; ok && d.Contains(v) {
					cyclic = append(cyclic, v)
				}
			}
		}
	}

	for name := range named {
		if _, visited := indices[name]; !visited {
			strongConnect(name)
		}
	}
	return cyclic
}

func buildReferenceGraph(named map[string]T) map[string]btree.Set[string] {
	refs := make(map[string]btree.Set[string], len(named))
	for name, t := range named {
		var deps btree.Set[string]
		collectTypeRefs(t, &deps)
		refs[name] = deps
	}
	return refs
}

// collectTypeRefs records every TypeT name reachable from t without passing
// through an ArrayT, which is the language's one sanctioned recursion
// escape hatch (§3.1.4).
func collectTypeRefs(t T, out *btree.Set[string]) {
	switch v := t.(type) {
	case nil, *ArrayT:
		return
	case *TypeT:
		out.Insert(v.Name)
		collectTypeRefs(v.Body, out)
	case *GenericT:
		collectTypeRefs(v.Body, out)
	case *GroupT:
		collectTypeRefs(v.Inner, out)
	case *FunctionT:
		collectTypeRefs(v.In, out)
		collectTypeRefs(v.Out, out)
	case *TupleT:
		for _, c := range v.Children {
			collectTypeRefs(c, out)
		}
	case *FieldT:
		collectTypeRefs(v.Body, out)
	case *EitherT:
		for _, c := range v.Children {
			collectTypeRefs(c, out)
		}
	case *AnyOfT:
		for _, c := range v.Children {
			collectTypeRefs(c, out)
		}
	case *BufferT:
		collectTypeRefs(v.Elem, out)
	case *MutT:
		collectTypeRefs(v.Inner, out)
	}
}
