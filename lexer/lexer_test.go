package lexer

import (
	"testing"

	"github.com/bconf-lang/bconf/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTokens(src string) []token.Token {
	lx := New(src)
	var toks []token.Token
	for {
		tok := lx.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerBasicAssignment(t *testing.T) {
	toks := allTokens(`foo = 1`)
	require.GreaterOrEqual(t, len(toks), 4)
	assert.Equal(t, token.IDENTIFIER, toks[0].Kind)
	assert.Equal(t, "foo", toks[0].Literal)
	assert.Equal(t, token.WHITESPACE, toks[1].Kind)
	assert.Equal(t, token.ASSIGN, toks[2].Kind)
}

func TestLexerBooleanAndNull(t *testing.T) {
	toks := allTokens(`true false null truex`)
	var significant []token.Token
	for _, tok := range toks {
		if tok.Kind != token.WHITESPACE {
			significant = append(significant, tok)
		}
	}
	assert.Equal(t, token.BOOLEAN, significant[0].Kind)
	assert.Equal(t, token.BOOLEAN, significant[1].Kind)
	assert.Equal(t, token.NULL, significant[2].Kind)
	assert.Equal(t, token.IDENTIFIER, significant[3].Kind)
	assert.Equal(t, "truex", significant[3].Literal)
}

func TestLexerVariable(t *testing.T) {
	toks := allTokens(`$foo-bar`)
	assert.Equal(t, token.VARIABLE, toks[0].Kind)
	assert.Equal(t, "$foo-bar", toks[0].Literal)
}

func TestLexerBareDollarIsIllegal(t *testing.T) {
	toks := allTokens(`$ `)
	assert.Equal(t, token.ILLEGAL, toks[0].Kind)
}

func TestLexerIndexBracketDisambiguation(t *testing.T) {
	toks := allTokens(`arr[2]`)
	assert.Equal(t, token.IDENTIFIER, toks[0].Kind)
	assert.Equal(t, token.INDEX_LBRACKET, toks[1].Kind)

	toks2 := allTokens(`[1, 2]`)
	assert.Equal(t, token.LBRACKET, toks2[0].Kind)

	toks3 := allTokens(`arr [2]`)
	assert.Equal(t, token.LBRACKET, toks3[2].Kind)
}

func TestLexerAppendOperator(t *testing.T) {
	toks := allTokens(`list << "a"`)
	assert.Equal(t, token.IDENTIFIER, toks[0].Kind)
	assert.Equal(t, token.APPEND, toks[2].Kind)
}

func TestLexerSimpleString(t *testing.T) {
	toks := allTokens(`"hello"`)
	assert.Equal(t, []token.Kind{
		token.DOUBLE_QUOTE, token.STRING_CONTENT, token.DOUBLE_QUOTE, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "hello", toks[1].Literal)
}

func TestLexerTripleString(t *testing.T) {
	toks := allTokens("\"\"\"line1\nline2\"\"\"")
	assert.Equal(t, token.TRIPLE_QUOTE, toks[0].Kind)
	assert.Equal(t, token.STRING_CONTENT, toks[1].Kind)
	assert.Equal(t, token.TRIPLE_QUOTE, toks[2].Kind)
}

func TestLexerStringWithEscape(t *testing.T) {
	toks := allTokens(`"a\nb"`)
	assert.Equal(t, []token.Kind{
		token.DOUBLE_QUOTE, token.STRING_CONTENT, token.ESCAPE_SEQUENCE,
		token.STRING_CONTENT, token.DOUBLE_QUOTE, token.EOF,
	}, kinds(toks))
	assert.Equal(t, `\n`, toks[2].Literal)
}

func TestLexerEmbeddedExpression(t *testing.T) {
	toks := allTokens(`"hello ${$v}!"`)
	assert.Equal(t, token.DOUBLE_QUOTE, toks[0].Kind)
	assert.Equal(t, token.STRING_CONTENT, toks[1].Kind)
	assert.Equal(t, token.EMBEDDED_VALUE_START, toks[2].Kind)
	assert.Equal(t, token.VARIABLE, toks[3].Kind)
	assert.Equal(t, token.RBRACE, toks[4].Kind)
	assert.Equal(t, token.STRING_CONTENT, toks[5].Kind)
	assert.Equal(t, token.DOUBLE_QUOTE, toks[6].Kind)
}

func TestLexerTagInsideEmbeddedExpressionWithObjectArg(t *testing.T) {
	// The '}' that closes the object argument must not close the
	// embedded expression; only the final '}' does.
	toks := allTokens(`"${foo({a=1})}"`)
	var sig []token.Kind
	for _, tok := range toks {
		sig = append(sig, tok.Kind)
	}
	assert.Contains(t, sig, token.EMBEDDED_VALUE_START)
	// Exactly two RBRACE: one for the object literal, one closing the
	// embedded expression.
	count := 0
	for _, k := range sig {
		if k == token.RBRACE {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestLexerIllegalControlCharInString(t *testing.T) {
	toks := allTokens("\"hello\nworld\"")
	// content up to the raw newline, then the newline itself is illegal
	assert.Equal(t, token.DOUBLE_QUOTE, toks[0].Kind)
	assert.Equal(t, token.STRING_CONTENT, toks[1].Kind)
	assert.Equal(t, "hello", toks[1].Literal)
	assert.Equal(t, token.ILLEGAL, toks[2].Kind)
	assert.Equal(t, 1, toks[2].Row)
	assert.Equal(t, 7, toks[2].Column)
}

func TestLexerComment(t *testing.T) {
	toks := allTokens("# a comment\nfoo = 1")
	assert.Equal(t, token.COMMENT, toks[0].Kind)
	assert.Equal(t, token.NEWLINE, toks[1].Kind)
	assert.Equal(t, token.IDENTIFIER, toks[2].Kind)
}

func TestLexerRowColumn(t *testing.T) {
	toks := allTokens("foo\nbar")
	assert.Equal(t, 1, toks[0].Row)
	assert.Equal(t, 1, toks[0].Column)
	// toks[1] is NEWLINE at row 1
	barTok := toks[2]
	assert.Equal(t, "bar", barTok.Literal)
	assert.Equal(t, 2, barTok.Row)
	assert.Equal(t, 1, barTok.Column)
}
