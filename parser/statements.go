package parser

import (
	"github.com/bconf-lang/bconf/keypath"
	"github.com/bconf-lang/bconf/resolver"
	"github.com/bconf-lang/bconf/token"
	"github.com/bconf-lang/bconf/value"
)

// statementStop is the token that ends the current block, so a
// statement line's trailing-value reads know where the enclosing
// container itself terminates (RBRACE for an object, EOF for the
// root, per spec.md §4.2).
func (p *Parser) statementStop() token.Kind {
	if p.objectDepth > 0 {
		return token.RBRACE
	}
	return token.EOF
}

// parseStatement reads one statement line (spec.md §4.2, §4.6): key
// drives a resolver lookup by its first named part; the resolver (if
// any) pulls its own arguments via Context.Next, then whatever it
// leaves unconsumed is read as the line's "remaining values" and
// either discarded or folded into the StatementAction.
func (p *Parser) parseStatement(container *value.Object, key keypath.KeyPath) error {
	if key.IsVariable() {
		return p.errf("a statement key may not start with a variable")
	}

	name := key.Head().Name
	stop := p.statementStop()
	fn, hasResolver := p.statements[name]

	var action resolver.StatementAction
	if hasResolver {
		ctx := &resolverCtx{p: p, stop: stop, nextArgs: resolver.NextOptions{IdentifiersAsValue: resolver.IdentLiteral}}
		result, resErr := fn(ctx)
		if p.fatalErr != nil {
			err := p.fatalErr
			p.fatalErr = nil
			return err
		}
		if resErr != nil {
			return p.wrapResolverErr(name, resErr)
		}
		action = result
	}

	remaining, err := p.parseRemainingStatementValues(stop)
	if err != nil {
		return err
	}

	if !hasResolver {
		// An unregistered statement collects its own line verbatim
		// (spec.md §8 scenario 5: `allow from localhost` with no
		// registered "allow" resolver still produces a Statement).
		return p.appendStatementArgs(container, key, remaining)
	}

	switch action.Kind {
	case resolver.ActionDiscard:
		return nil
	case resolver.ActionMerge:
		if action.MergeValue == nil {
			return p.errf("%s: merge action requires an object value", name)
		}
		value.Merge(container, action.MergeValue)
		return nil
	case resolver.ActionCollect:
		if action.HasCollectValue {
			return p.appendStatementArgs(container, key, []value.Value{action.CollectValue})
		}
		return p.appendStatementArgs(container, key, remaining)
	default:
		return nil
	}
}

// parseRemainingStatementValues reads statement-mode values (bare
// identifiers as literal strings, per spec.md §4.4) until a newline,
// EOF, the enclosing stop token, or a comma.
func (p *Parser) parseRemainingStatementValues(stop token.Kind) ([]value.Value, error) {
	var out []value.Value
	for {
		if p.cur.Is(token.NEWLINE) || p.cur.Is(token.EOF) || p.cur.Is(stop) || p.cur.Is(token.COMMA) {
			return out, nil
		}
		v, err := p.parseValue(resolver.IdentLiteral)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// appendStatementArgs appends one call-group of args to the Statement
// record at key, creating it lazily on first use (spec.md §3, §4.6).
func (p *Parser) appendStatementArgs(container *value.Object, key keypath.KeyPath, args []value.Value) error {
	s, err := p.materialize(container, key)
	if err != nil {
		return err
	}
	existing, ok := s.get()
	var stmt *value.Statement
	if ok {
		st, isStmt := existing.(*value.Statement)
		if !isStmt {
			return p.errf("key %q already holds a non-statement value", key)
		}
		stmt = st
	} else {
		stmt = &value.Statement{Name: key}
	}
	stmt.Append(args)
	s.set(stmt)
	return nil
}
