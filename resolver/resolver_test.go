package resolver_test

import (
	"fmt"
	"testing"

	"github.com/bconf-lang/bconf/keypath"
	"github.com/bconf-lang/bconf/resolver"
	"github.com/bconf-lang/bconf/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContext is a scriptable resolver.Context for exercising built-in
// tags and statements without a real parser behind them.
type fakeContext struct {
	values        []value.Value
	varNames      []string
	env           map[string]string
	vars          map[string]value.Value
	varSets       map[string]value.Value
	lookupTable   map[string]value.Value
	keywordQueues map[string][]bool
	blockEndQueue []bool
	commaQueue    []bool
	loadFileFn    func(string) (string, error)
	parseFn       func(string, *resolver.Options) (*resolver.Result, error)
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		env:           map[string]string{},
		vars:          map[string]value.Value{},
		varSets:       map[string]value.Value{},
		lookupTable:   map[string]value.Value{},
		keywordQueues: map[string][]bool{},
	}
}

func (f *fakeContext) Env() map[string]string { return f.env }
func (f *fakeContext) ScopeKind() string      { return "root" }
func (f *fakeContext) File() string           { return "test.bconf" }
func (f *fakeContext) NextArgs() resolver.NextOptions {
	return resolver.NextOptions{IdentifiersAsValue: resolver.IdentKeyPath}
}

func (f *fakeContext) Next(override *resolver.NextOptions) (value.Value, bool) {
	if len(f.values) == 0 {
		return nil, false
	}
	v := f.values[0]
	f.values = f.values[1:]
	return v, true
}

func (f *fakeContext) NextVariableName() (string, bool) {
	if len(f.varNames) == 0 {
		return "", false
	}
	name := f.varNames[0]
	f.varNames = f.varNames[1:]
	return name, true
}

func (f *fakeContext) Lookup(path keypath.KeyPath) (value.Value, bool) {
	v, ok := f.lookupTable[path.String()]
	return v, ok
}

func (f *fakeContext) VarGet(name string) (value.Value, bool) {
	v, ok := f.vars[name]
	return v, ok
}

func (f *fakeContext) VarSet(name string, v value.Value, opts resolver.SetOptions) bool {
	if _, exists := f.varSets[name]; exists {
		return false
	}
	f.varSets[name] = v
	return true
}

func (f *fakeContext) LoadFile(path string) (string, error) {
	if f.loadFileFn == nil {
		return "", fmt.Errorf("no file configured")
	}
	return f.loadFileFn(path)
}

func (f *fakeContext) Parse(input string, overrides *resolver.Options) (*resolver.Result, error) {
	if f.parseFn == nil {
		return nil, fmt.Errorf("no parse configured")
	}
	return f.parseFn(input, overrides)
}

func (f *fakeContext) Keyword(word string) bool {
	q := f.keywordQueues[word]
	if len(q) == 0 {
		return false
	}
	v := q[0]
	f.keywordQueues[word] = q[1:]
	return v
}

func (f *fakeContext) EnterBlock() bool { return true }

func (f *fakeContext) AtBlockEnd() bool {
	if len(f.blockEndQueue) == 0 {
		return true
	}
	v := f.blockEndQueue[0]
	f.blockEndQueue = f.blockEndQueue[1:]
	return v
}

func (f *fakeContext) ExitBlock() bool { return true }

func (f *fakeContext) Comma() bool {
	if len(f.commaQueue) == 0 {
		return false
	}
	v := f.commaQueue[0]
	f.commaQueue = f.commaQueue[1:]
	return v
}

func TestRefTagLooksUpKeyPath(t *testing.T) {
	tags, _ := resolver.Builtins()
	ctx := newFakeContext()
	path := keypath.New(keypath.Alpha("server"), keypath.Alpha("port"))
	ctx.values = []value.Value{value.KeyPathValue{Path: path}}
	ctx.lookupTable[path.String()] = value.Int(8080)

	v, err := tags["ref"](ctx)
	require.NoError(t, err)
	assert.Equal(t, value.Int(8080), v)
}

func TestRefTagAcceptsBareNumberAsStringifiedRootKey(t *testing.T) {
	tags, _ := resolver.Builtins()
	ctx := newFakeContext()
	ctx.values = []value.Value{value.Int(0)}
	ctx.lookupTable[keypath.New(keypath.Alpha("0")).String()] = value.Str("first")

	v, err := tags["ref"](ctx)
	require.NoError(t, err)
	assert.Equal(t, value.Str("first"), v)
}

func TestRefTagMissingValueErrors(t *testing.T) {
	tags, _ := resolver.Builtins()
	ctx := newFakeContext()
	ctx.values = []value.Value{value.KeyPathValue{Path: keypath.New(keypath.Alpha("missing"))}}

	_, err := tags["ref"](ctx)
	assert.Error(t, err)
}

func TestEnvTagFound(t *testing.T) {
	tags, _ := resolver.Builtins()
	ctx := newFakeContext()
	ctx.env["HOME"] = "/root"
	ctx.values = []value.Value{value.Str("HOME")}

	v, err := tags["env"](ctx)
	require.NoError(t, err)
	assert.Equal(t, value.Str("/root"), v)
}

func TestEnvTagMissingErrors(t *testing.T) {
	tags, _ := resolver.Builtins()
	ctx := newFakeContext()
	ctx.values = []value.Value{value.Str("NOPE")}

	_, err := tags["env"](ctx)
	assert.Error(t, err)
}

func TestCoerceTags(t *testing.T) {
	tags, _ := resolver.Builtins()

	v, err := tags["string"](&fakeContext{values: []value.Value{value.Int(5)}})
	require.NoError(t, err)
	assert.Equal(t, value.Str("5"), v)

	v, err = tags["int"](&fakeContext{values: []value.Value{value.Str("42")}})
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), v)

	v, err = tags["bool"](&fakeContext{values: []value.Value{value.Str("x")}})
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), v)
}

func TestImportStatementBindsAliases(t *testing.T) {
	_, statements := resolver.Builtins()
	ctx := newFakeContext()
	ctx.keywordQueues["from"] = []bool{true}
	ctx.keywordQueues["as"] = []bool{false, true}
	ctx.blockEndQueue = []bool{false, false}
	ctx.commaQueue = []bool{true, false}
	ctx.values = []value.Value{value.Str("base.bconf")}
	ctx.varNames = []string{"$x", "$y", "$z"}
	ctx.loadFileFn = func(path string) (string, error) {
		assert.Equal(t, "base.bconf", path)
		return "$x = 1\n$y = 2\n", nil
	}
	ctx.parseFn = func(input string, overrides *resolver.Options) (*resolver.Result, error) {
		return &resolver.Result{
			Data: value.NewObject(),
			Variables: map[string]value.Value{
				"$x": value.Int(1),
				"$y": value.Int(2),
			},
		}, nil
	}

	action, err := statements["import"](ctx)
	require.NoError(t, err)
	assert.Equal(t, resolver.ActionDiscard, action.Kind)
	assert.Equal(t, value.Int(1), ctx.varSets["$x"])
	assert.Equal(t, value.Int(2), ctx.varSets["$z"])
}

func TestImportStatementErrorsOnUnexportedVariable(t *testing.T) {
	_, statements := resolver.Builtins()
	ctx := newFakeContext()
	ctx.keywordQueues["from"] = []bool{true}
	ctx.blockEndQueue = []bool{false}
	ctx.commaQueue = []bool{false}
	ctx.values = []value.Value{value.Str("base.bconf")}
	ctx.varNames = []string{"$missing"}
	ctx.loadFileFn = func(string) (string, error) { return "", nil }
	ctx.parseFn = func(string, *resolver.Options) (*resolver.Result, error) {
		return &resolver.Result{Data: value.NewObject(), Variables: map[string]value.Value{}}, nil
	}

	_, err := statements["import"](ctx)
	assert.Error(t, err)
}

func TestExportStatementMarksExported(t *testing.T) {
	_, statements := resolver.Builtins()
	ctx := newFakeContext()
	ctx.keywordQueues["vars"] = []bool{true}
	ctx.keywordQueues["as"] = []bool{false}
	ctx.blockEndQueue = []bool{false}
	ctx.commaQueue = []bool{false}
	ctx.vars["$port"] = value.Int(8080)
	ctx.varNames = []string{"$port"}

	action, err := statements["export"](ctx)
	require.NoError(t, err)
	assert.Equal(t, resolver.ActionDiscard, action.Kind)
	assert.Equal(t, value.Int(8080), ctx.varSets["$port"])
}

func TestExtendsStatementReturnsMergeAction(t *testing.T) {
	_, statements := resolver.Builtins()
	ctx := newFakeContext()
	ctx.values = []value.Value{value.Str("base.bconf")}
	base := value.NewObject()
	base.Set("a", value.Int(1))
	ctx.loadFileFn = func(string) (string, error) { return "a = 1", nil }
	ctx.parseFn = func(string, *resolver.Options) (*resolver.Result, error) {
		return &resolver.Result{Data: base, Variables: map[string]value.Value{}}, nil
	}

	action, err := statements["extends"](ctx)
	require.NoError(t, err)
	assert.Equal(t, resolver.ActionMerge, action.Kind)
	assert.Same(t, base, action.MergeValue)
}
