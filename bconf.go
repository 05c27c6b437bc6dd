// Package bconf implements the bconf configuration language: a
// human-authored format with hierarchical keys, typed scalars, scoped
// variables, cross-file import/export, `extends` composition, and an
// extensible tag/statement system (spec.md §1-§2). This file is the
// public entry point; the lexer, parser, and resolver runtime live in
// their own packages under this module.
package bconf

import (
	"os"
	"strings"

	"github.com/bconf-lang/bconf/parser"
	"github.com/bconf-lang/bconf/resolver"
	"github.com/bconf-lang/bconf/value"
)

// Result is what a successful Parse returns (spec.md §6): the
// document and the variables it exported. With the default unwrap
// behavior both fields hold plain Go values (nil, bool, int64,
// float64, string, []interface{}, map[string]interface{}); with
// WithUnwrap(false) they instead hold bconf's internal *value.Object /
// map[string]value.Value representation, for callers (principally
// resolver.Context.Parse implementations) that need the unresolved
// tree.
type Result struct {
	Data      interface{}
	Variables interface{}
}

// Error is a parse failure carrying the source position it occurred
// at (spec.md §7). It is the same type parser.Parse returns; exposed
// here so callers don't need to import package parser just to do a
// type assertion.
type Error = parser.Error

// Option configures one Parse call (spec.md §6's options table).
type Option func(*config)

type config struct {
	opts   resolver.Options
	unwrap bool
}

// WithTags merges tags over the built-in tag table (ref, env, string,
// number, int, float, bool); callers win on name conflicts.
func WithTags(tags map[string]resolver.TagResolver) Option {
	return func(c *config) { c.opts.Tags = tags }
}

// WithStatements merges statements over the built-in statement table
// (import, export, extends); callers win on name conflicts.
func WithStatements(statements map[string]resolver.StatementResolver) Option {
	return func(c *config) { c.opts.Statements = statements }
}

// WithVariables seeds variables in the root scope before parsing
// begins. Names must be `$`-prefixed to be usable.
func WithVariables(vars map[string]value.Value) Option {
	return func(c *config) { c.opts.Variables = vars }
}

// WithEnv overrides the environment map the `env()` tag and
// Context.Env read from. Without this option, Parse seeds it from the
// process environment.
func WithEnv(env map[string]string) Option {
	return func(c *config) { c.opts.Env = env }
}

// WithRootDir sets the base directory the default filesystem loader
// resolves relative paths against. Without this option, Parse uses
// the process working directory.
func WithRootDir(dir string) Option {
	return func(c *config) { c.opts.RootDir = dir }
}

// WithFile sets the informational source path/URL passed through to
// resolvers via Context.File.
func WithFile(file string) Option {
	return func(c *config) { c.opts.File = file }
}

// WithLoader overrides the function `import`/`extends` and
// Context.LoadFile use to read a referenced file's contents. Without
// this option, Parse uses the default filesystem loader.
func WithLoader(l func(rootDir, path string) (string, error)) Option {
	return func(c *config) { c.opts.Loader = l }
}

// WithDuplicateKeyPolicy sets how a repeated non-index key assignment
// is handled within one block (spec.md §4.2): override (default),
// collect, or disallow.
func WithDuplicateKeyPolicy(p resolver.DuplicatePolicy) Option {
	return func(c *config) { c.opts.DuplicateKeyPolicy = p }
}

// WithUnwrap controls whether the result tree's internal value kinds
// (Tag, Statement, KeyPath, Collection) are replaced with their
// external form before being returned. Default true.
func WithUnwrap(unwrap bool) Option {
	return func(c *config) { c.unwrap = unwrap }
}

// Parse runs bconf's full pipeline over input and returns the
// resolved document plus whatever variables it exported (spec.md §6).
func Parse(input string, options ...Option) (Result, error) {
	cfg := config{unwrap: true}
	cfg.opts.Env = processEnv()
	cfg.opts.RootDir = workingDir()
	for _, opt := range options {
		opt(&cfg)
	}
	// A nil cfg.opts.Loader falls through to parser's own default
	// filesystem loader (10s timeout, spec.md §5), so WithLoader is
	// only needed to override it.

	result, err := parser.Parse(input, cfg.opts)
	if err != nil {
		return Result{}, err
	}
	if !cfg.unwrap {
		return Result{Data: result.Data, Variables: result.Variables}, nil
	}

	vars := make(map[string]interface{}, len(result.Variables))
	for name, v := range result.Variables {
		vars[name] = value.Unwrap(v)
	}
	return Result{Data: value.UnwrapObject(result.Data), Variables: vars}, nil
}

func processEnv() map[string]string {
	raw := os.Environ()
	m := make(map[string]string, len(raw))
	for _, kv := range raw {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			m[kv[:i]] = kv[i+1:]
		}
	}
	return m
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "/"
	}
	return wd
}
