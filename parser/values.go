package parser

import (
	"github.com/bconf-lang/bconf/keypath"
	"github.com/bconf-lang/bconf/resolver"
	"github.com/bconf-lang/bconf/scope"
	"github.com/bconf-lang/bconf/token"
	"github.com/bconf-lang/bconf/value"
)

// parseValue dispatches on the current token's kind per spec.md §4.4.
// mode governs what a bare IDENTIFIER that isn't a number or a tag
// invocation means here.
func (p *Parser) parseValue(mode resolver.IdentMode) (value.Value, error) {
	switch {
	case p.cur.Is(token.BOOLEAN):
		v := value.Bool(p.cur.Literal == "true")
		p.advance()
		return v, nil

	case p.cur.Is(token.NULL):
		p.advance()
		return value.Null{}, nil

	case p.cur.Is(token.DOUBLE_QUOTE), p.cur.Is(token.TRIPLE_QUOTE):
		return p.parseString()

	case p.cur.Is(token.VARIABLE):
		name := p.cur.Literal
		p.advance()
		v, ok := p.scope.Lookup(name)
		if !ok {
			return nil, p.errf("could not resolve variable %s", name)
		}
		return v, nil

	case p.cur.Is(token.LBRACKET):
		return p.parseArray()

	case p.cur.Is(token.LBRACE):
		return p.parseObject()

	case p.cur.Is(token.IDENTIFIER):
		return p.parseIdentifierValue(mode)

	default:
		return nil, p.errf("unexpected token %s for a value", p.cur.Kind)
	}
}

func isNumericStart(lit string) bool {
	if lit == "" {
		return false
	}
	c := lit[0]
	return c == '+' || c == '-' || (c >= '0' && c <= '9')
}

// parseIdentifierValue handles the three things a bare IDENTIFIER can
// mean in value position (spec.md §4.4): a number, a tag invocation,
// or — depending on mode — a key path, a literal string, or an error.
func (p *Parser) parseIdentifierValue(mode resolver.IdentMode) (value.Value, error) {
	lit := p.cur.Literal
	if isNumericStart(lit) {
		return p.parseNumber()
	}
	if p.pk.Is(token.LPAREN) {
		return p.parseTagInvocation()
	}

	switch mode {
	case resolver.IdentKeyPath:
		first, err := p.parseKeyPart()
		if err != nil {
			return nil, err
		}
		path, err := p.parseKeyPathTail([]keypath.Part{first})
		if err != nil {
			return nil, err
		}
		return value.KeyPathValue{Path: path}, nil

	case resolver.IdentLiteral:
		p.advance()
		if p.cur.Is(token.DOT) || p.cur.Is(token.INDEX_LBRACKET) {
			return nil, p.errf("a dotted or indexed identifier is not allowed here")
		}
		return value.Str(lit), nil

	default:
		return nil, p.errf("identifier %q is not allowed as a value here", lit)
	}
}

// parseNumber reads an IDENTIFIER that starts with a digit or a
// sign, optionally followed by a '.' fraction continuation, and
// classifies it as Int or Float (spec.md §4.4).
func (p *Parser) parseNumber() (value.Value, error) {
	lit := p.cur.Literal
	p.advance()
	if p.cur.Is(token.DOT) && p.pk.Is(token.IDENTIFIER) {
		p.advance() // consume '.'
		lit = lit + "." + p.cur.Literal
		p.advance()
	}
	v, err := value.ParseNumberText(lit)
	if err != nil {
		return nil, p.errf("%s", err)
	}
	return v, nil
}

// parseArray reads a '[' ... ']' value list (spec.md §4.2): elements
// are values separated by commas and/or newlines, with an optional
// trailing separator.
func (p *Parser) parseArray() (value.Value, error) {
	p.advance() // consume '['
	arr := value.NewArray()
	for {
		for p.cur.Is(token.NEWLINE) || p.cur.Is(token.COMMA) {
			p.advance()
		}
		if p.cur.Is(token.RBRACKET) {
			p.advance()
			return arr, nil
		}
		if p.cur.Is(token.EOF) {
			return nil, p.errf("unterminated array")
		}
		v, err := p.parseValue(resolver.IdentDisallow)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, v)
	}
}

// parseObject reads a '{' ... '}' block as a value: a fresh scope
// nests under the current one, a fresh Object collects its entries,
// and parseBlock runs the ordinary entry loop within it
// (spec.md §4.2).
func (p *Parser) parseObject() (value.Value, error) {
	p.advance() // consume '{'
	obj := value.NewObject()

	parentScope := p.scope
	p.scope = scope.New(parentScope)
	p.objectDepth++
	err := p.parseBlock(obj, token.RBRACE)
	p.objectDepth--
	p.scope = parentScope
	if err != nil {
		return nil, err
	}
	if !p.cur.Is(token.RBRACE) {
		return nil, p.errf("expected '}'")
	}
	p.advance()
	return obj, nil
}

// parseTagInvocation reads `name(arg)` once the caller has already
// confirmed the next token is '(' (spec.md §4.6). With a registered
// resolver, the parenthesized body becomes that resolver's argument
// stream and its return value replaces the tag outright; with none,
// the body is parsed as a single value and wrapped in a Tag record.
func (p *Parser) parseTagInvocation() (value.Value, error) {
	name := p.cur.Literal
	p.advance() // consume the identifier
	p.advance() // consume '('

	fn, ok := p.tags[name]
	if !ok {
		arg, err := p.parseValue(resolver.IdentKeyPath)
		if err != nil {
			return nil, err
		}
		if !p.cur.Is(token.RPAREN) {
			return nil, p.errf("expected ')'")
		}
		p.advance()
		return &value.Tag{Name: name, Arg: arg}, nil
	}

	ctx := &resolverCtx{p: p, stop: token.RPAREN, nextArgs: resolver.NextOptions{IdentifiersAsValue: resolver.IdentKeyPath}}
	result, resErr := fn(ctx)
	if p.fatalErr != nil {
		err := p.fatalErr
		p.fatalErr = nil
		return nil, err
	}
	if resErr != nil {
		return nil, p.wrapResolverErr(name, resErr)
	}

	// Discard whatever the resolver didn't consume (spec.md §4.6).
	for {
		if _, ok := ctx.Next(nil); !ok {
			break
		}
	}
	if p.fatalErr != nil {
		err := p.fatalErr
		p.fatalErr = nil
		return nil, err
	}
	if !p.cur.Is(token.RPAREN) {
		return nil, p.errf("expected ')'")
	}
	p.advance()
	return result, nil
}
