package parser

import (
	"github.com/bconf-lang/bconf/keypath"
	"github.com/bconf-lang/bconf/resolver"
	"github.com/bconf-lang/bconf/token"
	"github.com/bconf-lang/bconf/value"
)

// resolverCtx is the concrete resolver.Context (spec.md §4.6's
// ResolverContext) a tag or statement callback receives. It wraps a
// live *Parser, scoped to the body currently being read: stop is
// RPAREN for a tag invocation, or the enclosing block's own stop
// token (RBRACE for an object, EOF for the root) for a statement
// line, matching the "newline/EOF/stop/comma" failure conditions the
// interface documents.
//
// A value-parsing failure inside Next has nowhere to go through that
// method's (value, bool) signature, so it's stashed on the Parser and
// re-surfaced by the caller (parseTagInvocation/parseStatement) once
// the resolver returns — the parser still stops at the first error,
// per spec.md §7, it just can't report it through Next itself.
type resolverCtx struct {
	p        *Parser
	stop     token.Kind
	nextArgs resolver.NextOptions
}

var _ resolver.Context = (*resolverCtx)(nil)

func (c *resolverCtx) Env() map[string]string { return c.p.env }

func (c *resolverCtx) ScopeKind() string {
	if c.p.objectDepth > 0 {
		return "object"
	}
	return "root"
}

func (c *resolverCtx) File() string { return c.p.file }

func (c *resolverCtx) NextArgs() resolver.NextOptions { return c.nextArgs }

// Next reads one value using opts (or the override, if given),
// reporting failure at a newline, EOF, this context's stop token, or
// a comma — whichever the caller hits first.
func (c *resolverCtx) Next(override *resolver.NextOptions) (value.Value, bool) {
	p := c.p
	if c.atStop() {
		return nil, false
	}
	opts := c.nextArgs
	if override != nil {
		opts = *override
	}
	v, err := p.parseValue(opts.IdentifiersAsValue)
	if err != nil {
		if p.fatalErr == nil {
			p.fatalErr = err
		}
		return nil, false
	}
	return v, true
}

func (c *resolverCtx) atStop() bool {
	p := c.p
	return p.cur.Is(token.NEWLINE) || p.cur.Is(token.EOF) ||
		p.cur.Is(c.stop) || p.cur.Is(token.COMMA)
}

func (c *resolverCtx) Lookup(path keypath.KeyPath) (value.Value, bool) {
	return lookupPath(c.p.root, path)
}

// lookupPath reads path against the already-materialized result tree
// (spec.md §4.6's Context.lookup), never creating containers.
func lookupPath(root *value.Object, path keypath.KeyPath) (value.Value, bool) {
	var cur value.Value = root
	for _, part := range path {
		switch part.Kind {
		case keypath.Index:
			arr, ok := cur.(*value.Array)
			if !ok || part.Index < 0 || part.Index >= len(arr.Items) {
				return nil, false
			}
			cur = arr.Items[part.Index]
		default:
			obj, ok := cur.(*value.Object)
			if !ok {
				return nil, false
			}
			v, found := obj.Get(part.Name)
			if !found {
				return nil, false
			}
			cur = v
		}
	}
	return cur, true
}

// NextVariableName consumes the current token if it's a bare
// `$name`, without resolving it against the scope chain.
func (c *resolverCtx) NextVariableName() (string, bool) {
	p := c.p
	if !p.cur.Is(token.VARIABLE) {
		return "", false
	}
	name := p.cur.Literal
	p.advance()
	return name, true
}

func (c *resolverCtx) VarGet(name string) (value.Value, bool) {
	return c.p.scope.Lookup(name)
}

func (c *resolverCtx) VarSet(name string, v value.Value, opts resolver.SetOptions) bool {
	p := c.p
	if !opts.ExportOnly {
		target := p.scope
		if opts.ScopeRoot {
			target = p.scope.Root()
		}
		if _, existed := target.Variables[name]; existed && !opts.Override {
			return false
		}
		target.Variables[name] = v
	}
	if opts.Export || opts.ExportOnly {
		if _, existed := p.exported[name]; existed && !opts.Override {
			return false
		}
		p.exported[name] = v
	}
	return true
}

func (c *resolverCtx) LoadFile(path string) (string, error) {
	return c.p.loadFn(c.p.rootDir, path)
}

func (c *resolverCtx) Parse(input string, overrides *resolver.Options) (*resolver.Result, error) {
	opts := c.p.childOptions()
	if overrides != nil {
		if overrides.Tags != nil {
			opts.Tags = overrides.Tags
		}
		if overrides.Statements != nil {
			opts.Statements = overrides.Statements
		}
		if overrides.Variables != nil {
			opts.Variables = overrides.Variables
		}
		if overrides.Env != nil {
			opts.Env = overrides.Env
		}
		if overrides.RootDir != "" {
			opts.RootDir = overrides.RootDir
		}
		if overrides.File != "" {
			opts.File = overrides.File
		}
		if overrides.Loader != nil {
			opts.Loader = overrides.Loader
		}
	}
	return Parse(input, opts)
}

// Keyword consumes the next value-position identifier if its literal
// equals word, leaving the cursor untouched on a mismatch.
func (c *resolverCtx) Keyword(word string) bool {
	p := c.p
	if p.cur.Is(token.IDENTIFIER) && p.cur.Literal == word {
		p.advance()
		return true
	}
	return false
}

func (c *resolverCtx) EnterBlock() bool {
	p := c.p
	p.skipNewlines()
	if p.cur.Is(token.LBRACE) {
		p.advance()
		return true
	}
	return false
}

func (c *resolverCtx) AtBlockEnd() bool {
	p := c.p
	p.skipNewlines()
	return p.cur.Is(token.RBRACE)
}

func (c *resolverCtx) ExitBlock() bool {
	p := c.p
	p.skipNewlines()
	if p.cur.Is(token.RBRACE) {
		p.advance()
		return true
	}
	return false
}

func (c *resolverCtx) Comma() bool {
	p := c.p
	p.skipNewlines()
	if p.cur.Is(token.COMMA) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) skipNewlines() {
	for p.cur.Is(token.NEWLINE) {
		p.advance()
	}
}
