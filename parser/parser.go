// Package parser implements bconf's recursive-descent parser
// (spec.md §4.2–§4.6): the block loop, key-path materialization,
// value grammar, string/embedded-expression decoding, and the
// tag/statement resolver dispatch.
package parser

import (
	"context"

	"github.com/bconf-lang/bconf/keypath"
	"github.com/bconf-lang/bconf/lexer"
	"github.com/bconf-lang/bconf/loader"
	"github.com/bconf-lang/bconf/resolver"
	"github.com/bconf-lang/bconf/scope"
	"github.com/bconf-lang/bconf/token"
	"github.com/bconf-lang/bconf/value"
)

// Parser turns bconf source text into a materialized document,
// threading a single lexical scope chain and the tag/statement
// resolver tables through the recursive descent.
type Parser struct {
	lx       *lexer.Lexer
	cur, pk  token.Token
	scope    *scope.Scope
	root     *value.Object
	exported map[string]value.Value

	tags       map[string]resolver.TagResolver
	statements map[string]resolver.StatementResolver
	loadFn     func(rootDir, path string) (string, error)

	rootDir     string
	file        string
	env         map[string]string
	dupPolicy   resolver.DuplicatePolicy
	objectDepth int

	// fatalErr carries a value-parse error raised from inside a
	// resolver.Context.Next call, whose (value, bool) signature has no
	// room for one (see resolver_context.go).
	fatalErr error
}

func defaultLoad(rootDir, path string) (string, error) {
	return loader.WithDefaultTimeout(loader.Filesystem)(context.Background(), rootDir, path)
}

func newParser(input string, opts resolver.Options) *Parser {
	tags, statements := resolver.Builtins()
	for name, r := range opts.Tags {
		tags[name] = r
	}
	for name, r := range opts.Statements {
		statements[name] = r
	}

	root := scope.New(nil)
	for name, v := range opts.Variables {
		root.Bind(name, v)
	}

	loadFn := opts.Loader
	if loadFn == nil {
		loadFn = defaultLoad
	}

	p := &Parser{
		scope:      root,
		root:       value.NewObject(),
		exported:   map[string]value.Value{},
		tags:       tags,
		statements: statements,
		loadFn:     loadFn,
		rootDir:    opts.RootDir,
		file:       opts.File,
		env:        opts.Env,
		dupPolicy:  opts.DuplicateKeyPolicy,
	}
	p.lx = lexer.New(input)
	p.cur = p.nextFiltered()
	p.pk = p.nextFiltered()
	return p
}

// Parse runs bconf's full pipeline over input and returns the
// materialized document plus whatever variables it exported
// (spec.md §6). It is package-level rather than a Parser method
// because each recursive `import`/`extends` call needs a fresh
// Parser with its own scope chain and token stream.
func Parse(input string, opts resolver.Options) (*resolver.Result, error) {
	p := newParser(input, opts)
	if err := p.parseBlock(p.root, token.EOF); err != nil {
		return nil, err
	}
	if !p.cur.Is(token.EOF) {
		return nil, p.errf("unexpected trailing input")
	}
	return &resolver.Result{Data: p.root, Variables: p.exported}, nil
}

func (p *Parser) nextFiltered() token.Token {
	for {
		t := p.lx.NextToken()
		if t.Kind == token.WHITESPACE || t.Kind == token.COMMENT {
			continue
		}
		return t
	}
}

func (p *Parser) advance() {
	p.cur = p.pk
	p.pk = p.nextFiltered()
}

// childOptions reconstructs the configuration a nested `import` or
// `extends` parse should start from: the same tag/statement tables,
// environment, root directory, and loader, but a fresh, empty
// variable scope — variables cross a file boundary only through an
// explicit `export`/`import` pair, never ambiently (spec.md §4.6,
// §8 invariants).
func (p *Parser) childOptions() resolver.Options {
	return resolver.Options{
		Tags:               p.tags,
		Statements:         p.statements,
		Env:                p.env,
		RootDir:            p.rootDir,
		File:               p.file,
		Loader:             p.loadFn,
		DuplicateKeyPolicy: p.dupPolicy,
	}
}

// parseBlock consumes entries until it sees stop (which it does not
// consume) or EOF (spec.md §4.2). container is the object the current
// nesting level materializes into — the document root, or an object
// literal's own Object.
func (p *Parser) parseBlock(container *value.Object, stop token.Kind) error {
	for {
		for p.cur.Is(token.NEWLINE) || p.cur.Is(token.COMMA) {
			p.advance()
		}
		if p.cur.Is(stop) || p.cur.Is(token.EOF) {
			return nil
		}
		if err := p.parseEntry(container); err != nil {
			return err
		}
	}
}

// parseEntry parses one key and classifies the operator that follows
// it (spec.md §4.2): assignment, append, object shorthand, true
// shorthand, or a statement.
func (p *Parser) parseEntry(container *value.Object) error {
	key, err := p.parseKeyPath()
	if err != nil {
		return err
	}

	switch {
	case p.cur.Is(token.ASSIGN):
		p.advance()
		v, err := p.parseValue(resolver.IdentDisallow)
		if err != nil {
			return err
		}
		return p.assign(container, key, v)

	case p.cur.Is(token.APPEND):
		p.advance()
		v, err := p.parseValue(resolver.IdentDisallow)
		if err != nil {
			return err
		}
		return p.appendTo(container, key, v)

	case p.cur.Is(token.LBRACE):
		v, err := p.parseValue(resolver.IdentDisallow)
		if err != nil {
			return err
		}
		return p.assign(container, key, v)

	case p.atEntryEnd():
		return p.assign(container, key, value.Bool(true))

	default:
		return p.parseStatement(container, key)
	}
}

func (p *Parser) atEntryEnd() bool {
	return p.cur.Is(token.NEWLINE) || p.cur.Is(token.EOF) ||
		p.cur.Is(token.COMMA) || p.cur.Is(token.RBRACE)
}

// assign writes v to key inside container, honoring the configured
// duplicate-key policy for a named final part; an index final part
// always overwrites (spec.md §4.2).
func (p *Parser) assign(container *value.Object, key keypath.KeyPath, v value.Value) error {
	if key.IsVariable() {
		return p.bindVariable(key, v)
	}
	s, err := p.materialize(container, key)
	if err != nil {
		return err
	}
	if s.kind == slotArray {
		s.set(v)
		return nil
	}
	existing, existed := s.get()
	switch p.dupPolicy {
	case resolver.Disallow:
		if existed {
			return p.errf("duplicate key %q", key)
		}
		s.set(v)
	case resolver.Collect:
		if !existed {
			s.set(v)
			return nil
		}
		if coll, ok := existing.(*value.Collection); ok {
			coll.Add(v)
			return nil
		}
		coll := &value.Collection{}
		coll.Add(existing)
		coll.Add(v)
		s.set(coll)
	default: // Override
		s.set(v)
	}
	return nil
}

// appendTo pushes v onto the array at key, creating it if the slot is
// absent or holds something other than an array, regardless of the
// duplicate-key policy (spec.md §4.2).
func (p *Parser) appendTo(container *value.Object, key keypath.KeyPath, v value.Value) error {
	if key.IsVariable() {
		return p.errf("cannot append to a variable")
	}
	s, err := p.materialize(container, key)
	if err != nil {
		return err
	}
	existing, _ := s.get()
	arr, ok := existing.(*value.Array)
	if !ok {
		arr = value.NewArray()
	}
	arr.Items = append(arr.Items, v)
	s.set(arr)
	return nil
}

func (p *Parser) bindVariable(key keypath.KeyPath, v value.Value) error {
	name := "$" + key.Head().Name
	if existed := p.scope.Bind(name, v); existed {
		return p.errf("variable %s already declared", name)
	}
	return nil
}
