package value

// Unwrap traverses v once, replacing internal-only value kinds with
// their external form (spec.md §4.7):
//
//   - Statement  -> unwrap(Args)
//   - Tag        -> [Name, unwrap(Arg)]
//   - KeyPath    -> its serialized string
//   - Collection -> unwrap(Last)
//   - Array/Object recurse element-wise
//   - everything else passes through unchanged
//
// The result uses plain Go types: nil, bool, int64, float64, string,
// []interface{}, map[string]interface{}.
func Unwrap(v Value) interface{} {
	switch t := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case Str:
		return string(t)
	case *Array:
		out := make([]interface{}, len(t.Items))
		for i, item := range t.Items {
			out[i] = Unwrap(item)
		}
		return out
	case *Object:
		out := make(map[string]interface{}, t.Len())
		for _, k := range t.Keys() {
			fv, _ := t.Get(k)
			out[k] = Unwrap(fv)
		}
		return out
	case *Tag:
		return []interface{}{t.Name, Unwrap(t.Arg)}
	case *Statement:
		return unwrapArgs(t.Args)
	case KeyPathValue:
		return t.Path.String()
	case *Collection:
		return Unwrap(t.Last())
	default:
		return v
	}
}

func unwrapArgs(args [][]Value) interface{} {
	out := make([]interface{}, len(args))
	for i, group := range args {
		g := make([]interface{}, len(group))
		for j, v := range group {
			g[j] = Unwrap(v)
		}
		out[i] = g
	}
	return out
}

// UnwrapObject is a convenience for the entry point: unwraps an
// *Object directly into a map[string]interface{} (never nil).
func UnwrapObject(o *Object) map[string]interface{} {
	if o == nil {
		return map[string]interface{}{}
	}
	m, _ := Unwrap(o).(map[string]interface{})
	if m == nil {
		m = map[string]interface{}{}
	}
	return m
}

// Merge deep-merges src underneath dst per spec.md §4.6's
// StatementAction rule and §8's order-preserving invariant: a key dst
// doesn't already hold is filled in from src; object-object pairs
// recurse so nested prior content also wins; any other collision
// (dst already holds a non-object, or an object colliding with a
// non-object) leaves dst's existing value untouched — prior content
// always wins over what a later `extends` merges in. Merge mutates
// dst in place.
func Merge(dst *Object, src *Object) {
	for _, k := range src.Keys() {
		sv, _ := src.Get(k)
		dv, ok := dst.Get(k)
		if !ok {
			dst.Set(k, sv)
			continue
		}
		dstObj, dstIsObj := dv.(*Object)
		srcObj, srcIsObj := sv.(*Object)
		if dstIsObj && srcIsObj {
			Merge(dstObj, srcObj)
		}
		// Otherwise dst already has a value for k; prior content wins.
	}
}
