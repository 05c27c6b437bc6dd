package resolver

import (
	"fmt"
	"strconv"

	"github.com/bconf-lang/bconf/keypath"
	"github.com/bconf-lang/bconf/value"
)

// Builtins returns the default tag and statement tables (spec.md §6).
// Callers merge their own resolvers over this; conflicts favor the
// caller.
func Builtins() (map[string]TagResolver, map[string]StatementResolver) {
	return builtinTags(), builtinStatements()
}

func builtinTags() map[string]TagResolver {
	return map[string]TagResolver{
		"ref": refTag,
		"env": envTag,
		"string": coerceTag(func(v value.Value) (value.Value, error) {
			s, err := value.ToText(v)
			if err != nil {
				return nil, err
			}
			return value.Str(s), nil
		}),
		"number": coerceTag(value.ToNumber),
		"int":    coerceTag(value.ToInt),
		"float":  coerceTag(value.ToFloat),
		"bool":   coerceTag(value.ToBool),
	}
}

// refTag resolves a key-path argument against the already-materialized
// result tree. A bare numeric literal is also accepted and treated as
// the stringified root key — `ref(0)` reaches the root's "0" field,
// not an array index (spec.md §6, §9 Open Questions).
func refTag(ctx Context) (value.Value, error) {
	arg, ok := ctx.Next(nil)
	if !ok {
		return nil, fmt.Errorf("ref: expected a key path argument")
	}
	var path keypath.KeyPath
	switch a := arg.(type) {
	case value.KeyPathValue:
		path = a.Path
	case value.Int:
		path = keypath.New(keypath.Alpha(strconv.FormatInt(int64(a), 10)))
	default:
		return nil, fmt.Errorf("ref: argument must be a key path or number, got %s", arg.Kind())
	}
	v, found := ctx.Lookup(path)
	if !found {
		return nil, fmt.Errorf("no value exists at key '%s'", path)
	}
	return v, nil
}

// envTag reads an environment variable, erroring when it's unset
// (spec.md §6, §7: "unset environment variable for env").
func envTag(ctx Context) (value.Value, error) {
	opts := NextOptions{IdentifiersAsValue: IdentLiteral}
	arg, ok := ctx.Next(&opts)
	if !ok {
		return nil, fmt.Errorf("env: expected a variable name argument")
	}
	name, ok := arg.(value.Str)
	if !ok {
		return nil, fmt.Errorf("env: argument must be a name, got %s", arg.Kind())
	}
	v, found := ctx.Env()[string(name)]
	if !found {
		return nil, fmt.Errorf("env: %q is not set", string(name))
	}
	return value.Str(v), nil
}

func coerceTag(fn func(value.Value) (value.Value, error)) TagResolver {
	return func(ctx Context) (value.Value, error) {
		arg, ok := ctx.Next(nil)
		if !ok {
			return nil, fmt.Errorf("expected one argument")
		}
		return fn(arg)
	}
}
