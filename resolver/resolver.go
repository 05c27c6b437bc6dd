// Package resolver defines the protocol (spec.md §4.6) by which tag
// and statement callbacks mediate between the parser and
// user-provided code: the ResolverContext-equivalent Context
// interface, the Options/Result shape a parse call is configured and
// reported with, and the built-in tags and statements.
//
// The concrete Context implementation lives in package parser (it
// wraps a live *parser.Parser); this package only defines the
// interface and the resolver functions written against it, the way
// the teacher's std package registers builtin functions against an
// interpreter-facing interface rather than a concrete struct.
package resolver

import (
	"github.com/bconf-lang/bconf/keypath"
	"github.com/bconf-lang/bconf/value"
)

// IdentMode controls how a bare IDENTIFIER is interpreted during
// value parsing (spec.md §4.4).
type IdentMode int

const (
	// IdentKeyPath returns a KeyPath value — used for tag arguments.
	IdentKeyPath IdentMode = iota
	// IdentLiteral returns the identifier's literal text as a string,
	// rejecting dotted/indexed continuations — used for statement
	// arguments.
	IdentLiteral
	// IdentDisallow is an error — used for ordinary value positions
	// (assignment right-hand sides, array/object elements, embedded
	// expressions) where a bare identifier is not a legal value.
	IdentDisallow
)

// NextOptions configures one call to Context.Next.
type NextOptions struct {
	IdentifiersAsValue IdentMode
}

// DuplicatePolicy controls what happens when a non-index key is
// assigned more than once in the same block (spec.md §4.2).
type DuplicatePolicy int

const (
	Override DuplicatePolicy = iota
	Collect
	Disallow
)

// SetOptions configures a Context.VarSet call (spec.md §4.6).
type SetOptions struct {
	// ScopeRoot, when true, binds in the root scope instead of the
	// current scope.
	ScopeRoot bool
	// Override permits replacing an existing binding in the target
	// scope; without it, VarSet fails if the name already exists.
	Override bool
	// Export additionally writes the binding into the exported
	// variables map.
	Export bool
	// ExportOnly writes only to the exported-variables map, skipping
	// the scope entirely.
	ExportOnly bool
}

// Options configures one parse call (spec.md §6). It's the
// lower-level counterpart of the friendly functional-option API in
// package bconf; package parser operates directly on it, including
// for the recursive parses a resolver's Context.Parse makes.
type Options struct {
	Tags               map[string]TagResolver
	Statements         map[string]StatementResolver
	Variables          map[string]value.Value // keyed with leading '$'
	Env                map[string]string
	RootDir            string
	File               string
	Loader             func(rootDir, path string) (string, error)
	DuplicateKeyPolicy DuplicatePolicy
}

// Result is what a successful parse call returns: the materialized
// document and the variables it exported, both still in bconf's
// internal value representation. Package bconf's public Parse applies
// the final Unwrap pass; internal resolvers (ref, import, extends)
// work with these raw values directly.
type Result struct {
	Data      *value.Object
	Variables map[string]value.Value
}

// Context is the resolver-facing interface a tag or statement
// callback receives (spec.md §4.6's ResolverContext). The concrete
// implementation (package parser) is scoped to the tag body or
// statement argument list currently being parsed.
type Context interface {
	// Env is the configured environment map.
	Env() map[string]string
	// ScopeKind is "root" when parsing at the top level, "object"
	// when inside an object block.
	ScopeKind() string
	// File is the informational source URL/path of the document
	// currently being parsed.
	File() string
	// NextArgs is the current parsing options (tag-mode or
	// statement-mode identifier handling).
	NextArgs() NextOptions
	// Next pulls the next value using the current (or overridden)
	// parsing options. ok is false at a newline, EOF, the enclosing
	// stop token, or a comma — whichever applies to this context.
	Next(override *NextOptions) (v value.Value, ok bool)
	// Lookup reads from the already-materialized result tree (not
	// from variables).
	Lookup(path keypath.KeyPath) (value.Value, bool)
	// NextVariableName consumes the next token if it's a bare
	// `$name`, returning its literal name (with the '$' prefix)
	// without resolving it against the scope chain — used by
	// statements like `import`/`export vars` that name variables
	// rather than read them.
	NextVariableName() (string, bool)
	// VarGet reads a variable (with its '$' prefix) from the scope
	// chain.
	VarGet(name string) (value.Value, bool)
	// VarSet declares or overrides a variable per opts, returning
	// whether it succeeded.
	VarSet(name string, v value.Value, opts SetOptions) bool
	// LoadFile forwards to the configured loader with the parser's
	// root directory.
	LoadFile(path string) (string, error)
	// Parse invokes a fresh parser with the outer options (plus
	// overrides); the inner parse defaults to Unwrap: false.
	Parse(input string, overrides *Options) (*Result, error)

	// Keyword consumes the next value-position identifier if its
	// literal text equals word, reporting whether it matched. It
	// does not consume anything on a mismatch. Used by statements
	// with their own little keyword grammar (`from`, `as`, `vars`).
	Keyword(word string) bool
	// EnterBlock consumes a '{' if that's the next token, reporting
	// whether it did.
	EnterBlock() bool
	// AtBlockEnd reports whether the next token is '}', without
	// consuming it.
	AtBlockEnd() bool
	// ExitBlock consumes a '}', reporting whether it was present.
	ExitBlock() bool
	// Comma consumes a ',' if that's the next token, reporting
	// whether it did.
	Comma() bool
}

// TagResolver computes the value a tag invocation resolves to
// (spec.md §4.6).
type TagResolver func(ctx Context) (value.Value, error)

// ActionKind discriminates StatementAction's variants.
type ActionKind int

const (
	ActionDiscard ActionKind = iota
	ActionMerge
	ActionCollect
)

// StatementAction is what a StatementResolver returns, telling the
// parser what to do with the statement line (spec.md §4.6).
type StatementAction struct {
	Kind ActionKind

	// MergeValue is required when Kind == ActionMerge; it must be an
	// object, deep-merged into the current document/block root.
	MergeValue *value.Object

	// CollectValue, when HasCollectValue is true, is the single value
	// appended as one call-group for ActionCollect; otherwise the
	// parser's own parsed "remaining values" for the line are used.
	CollectValue    value.Value
	HasCollectValue bool
}

// Discard builds a StatementAction that drops the statement.
func Discard() StatementAction { return StatementAction{Kind: ActionDiscard} }

// Merge builds a StatementAction that deep-merges obj into the
// current block.
func Merge(obj *value.Object) StatementAction {
	return StatementAction{Kind: ActionMerge, MergeValue: obj}
}

// CollectRemaining builds a StatementAction that appends whatever
// remaining values the parser reads for this line.
func CollectRemaining() StatementAction {
	return StatementAction{Kind: ActionCollect}
}

// CollectValueAction builds a StatementAction that appends v as the sole
// element of one call-group.
func CollectValueAction(v value.Value) StatementAction {
	return StatementAction{Kind: ActionCollect, CollectValue: v, HasCollectValue: true}
}

// StatementResolver computes the action the parser takes for one
// statement line (spec.md §4.6).
type StatementResolver func(ctx Context) (StatementAction, error)
