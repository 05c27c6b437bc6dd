package resolver

import (
	"fmt"

	"github.com/bconf-lang/bconf/value"
)

func builtinStatements() map[string]StatementResolver {
	return map[string]StatementResolver{
		"import":  importStatement,
		"export":  exportStatement,
		"extends": extendsStatement,
	}
}

type varSpec struct{ name, alias string }

// readVarList reads the `{ $name [as $alias][, ...] }` block shared by
// `import` and `export vars`.
func readVarList(ctx Context) ([]varSpec, error) {
	if !ctx.EnterBlock() {
		return nil, fmt.Errorf("expected '{'")
	}
	var specs []varSpec
	for !ctx.AtBlockEnd() {
		name, ok := ctx.NextVariableName()
		if !ok {
			return nil, fmt.Errorf("expected a variable name")
		}
		alias := name
		if ctx.Keyword("as") {
			alias, ok = ctx.NextVariableName()
			if !ok {
				return nil, fmt.Errorf("expected an alias after 'as'")
			}
		}
		specs = append(specs, varSpec{name: name, alias: alias})
		if !ctx.Comma() {
			break
		}
	}
	if !ctx.ExitBlock() {
		return nil, fmt.Errorf("expected '}'")
	}
	return specs, nil
}

// importStatement implements `import from "path" { $a [as $b], ... }`
// (spec.md §6): loads path, parses it, and binds each listed exported
// variable (or its alias) in the current scope.
func importStatement(ctx Context) (StatementAction, error) {
	if !ctx.Keyword("from") {
		return StatementAction{}, fmt.Errorf("import: expected 'from'")
	}
	pathVal, ok := ctx.Next(&NextOptions{IdentifiersAsValue: IdentLiteral})
	if !ok {
		return StatementAction{}, fmt.Errorf("import: expected a path string")
	}
	path, ok := pathVal.(value.Str)
	if !ok || path == "" {
		return StatementAction{}, fmt.Errorf("import: path must be a non-empty string")
	}

	specs, err := readVarList(ctx)
	if err != nil {
		return StatementAction{}, fmt.Errorf("import: %w", err)
	}

	text, err := ctx.LoadFile(string(path))
	if err != nil {
		return StatementAction{}, fmt.Errorf("import: %w", err)
	}
	result, err := ctx.Parse(text, nil)
	if err != nil {
		return StatementAction{}, fmt.Errorf("import %q: %w", path, err)
	}

	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if seen[spec.alias] {
			return StatementAction{}, fmt.Errorf("import: alias %s already declared", spec.alias)
		}
		seen[spec.alias] = true

		v, found := result.Variables[spec.name]
		if !found {
			return StatementAction{}, fmt.Errorf("import: %s is not exported by %q", spec.name, path)
		}
		if !ctx.VarSet(spec.alias, v, SetOptions{}) {
			return StatementAction{}, fmt.Errorf("import: alias %s already declared", spec.alias)
		}
	}
	return Discard(), nil
}

// exportStatement implements `export vars { $a [as $b], ... }`
// (spec.md §6): marks already-bound variables (or their aliases) as
// part of this document's exported-variables map. A name with no
// prior binding is declared true inline rather than rejected.
func exportStatement(ctx Context) (StatementAction, error) {
	if !ctx.Keyword("vars") {
		return StatementAction{}, fmt.Errorf("export: expected 'vars'")
	}
	specs, err := readVarList(ctx)
	if err != nil {
		return StatementAction{}, fmt.Errorf("export: %w", err)
	}
	for _, spec := range specs {
		v, found := ctx.VarGet(spec.name)
		if !found {
			v = value.Bool(true)
			if !ctx.VarSet(spec.name, v, SetOptions{}) {
				return StatementAction{}, fmt.Errorf("export: %s already declared", spec.name)
			}
		}
		if !ctx.VarSet(spec.alias, v, SetOptions{ExportOnly: true}) {
			return StatementAction{}, fmt.Errorf("export: alias %s already exported", spec.alias)
		}
	}
	return Discard(), nil
}

// extendsStatement implements `extends "path"` (spec.md §6): loads and
// parses path, and deep-merges its document underneath the current
// one: value.Merge keeps every key the current document already
// holds, and assignments after the `extends` line override merged
// keys as usual.
func extendsStatement(ctx Context) (StatementAction, error) {
	pathVal, ok := ctx.Next(&NextOptions{IdentifiersAsValue: IdentLiteral})
	if !ok {
		return StatementAction{}, fmt.Errorf("extends: expected a path string")
	}
	path, ok := pathVal.(value.Str)
	if !ok || path == "" {
		return StatementAction{}, fmt.Errorf("extends: path must be a non-empty string")
	}
	text, err := ctx.LoadFile(string(path))
	if err != nil {
		return StatementAction{}, fmt.Errorf("extends: %w", err)
	}
	result, err := ctx.Parse(text, nil)
	if err != nil {
		return StatementAction{}, fmt.Errorf("extends %q: %w", path, err)
	}
	return Merge(result.Data), nil
}
