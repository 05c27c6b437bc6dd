// Package lexer implements the stateful tokenizer for bconf source
// text. The lexer keeps a context stack so that the same closing
// brace can mean "end this object" or "end this embedded expression"
// depending on what the lexer is currently inside.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/bconf-lang/bconf/token"
)

// frameKind discriminates the entries on the lexer's context stack.
type frameKind int

const (
	frameDefault frameKind = iota
	frameStringDouble
	frameStringTriple
	frameEmbedded
	frameTagged
)

// isIdentChar reports whether b is permitted inside an IDENTIFIER run:
// [A-Za-z0-9_+-]+.
func isIdentChar(b byte) bool {
	return b == '_' || b == '+' || b == '-' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// isVariableChar reports whether b is permitted after the leading '$' of a
// VARIABLE token: [A-Za-z0-9_-]+ (no '+').
func isVariableChar(b byte) bool {
	return b == '_' || b == '-' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Lexer converts bconf source text into a linear token sequence. It
// is stateful: strings and embedded expressions require a context
// stack to disambiguate the closing '}' (spec.md §4.1).
type Lexer struct {
	src    string
	pos    int // byte offset of the next unread byte
	line   int
	column int

	stack   []frameKind
	lastKnd token.Kind // kind of the most recently emitted token, used for [/( disambiguation
}

// New creates a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{
		src:    src,
		pos:    0,
		line:   1,
		column: 1,
		stack:  []frameKind{frameDefault},
	}
}

func (l *Lexer) top() frameKind {
	return l.stack[len(l.stack)-1]
}

func (l *Lexer) push(f frameKind) {
	l.stack = append(l.stack, f)
}

func (l *Lexer) pop() {
	if len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

// byteAt returns the byte at src[pos+offset], or 0 past the end.
func (l *Lexer) byteAt(offset int) byte {
	i := l.pos + offset
	if i < 0 || i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.src)
}

// advance consumes one byte, tracking line/column. Newlines reset
// column and bump line; bconf source is not expected to embed raw
// CR without LF, so \r is treated as ordinary content.
func (l *Lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return b
}

func (l *Lexer) emit(kind token.Kind, literal string, row, col int) token.Token {
	t := token.New(kind, literal, row, col)
	l.lastKnd = kind
	return t
}

// NextToken returns the next token in the stream, advancing the
// lexer's position. Once EOF is reached, subsequent calls keep
// returning an EOF token.
func (l *Lexer) NextToken() token.Token {
	switch l.top() {
	case frameStringDouble, frameStringTriple:
		return l.scanStringBody()
	default:
		return l.scanDefault()
	}
}

// scanDefault tokenizes in the default/embedded/tagged contexts,
// which all share the same surface grammar of symbols, identifiers,
// and variables.
func (l *Lexer) scanDefault() token.Token {
	if l.atEOF() {
		return l.emit(token.EOF, "", l.line, l.column)
	}

	row, col := l.line, l.column
	c := l.byteAt(0)

	switch {
	case c == ' ' || c == '\t' || c == '\r':
		return l.scanWhitespace()
	case c == '\n':
		l.advance()
		return l.emit(token.NEWLINE, "\n", row, col)
	case c == '#':
		return l.scanComment()
	case c == '"':
		return l.scanQuoteOpen()
	case c == '$':
		return l.scanVariable()
	case c == '.':
		l.advance()
		return l.emit(token.DOT, ".", row, col)
	case c == ',':
		l.advance()
		return l.emit(token.COMMA, ",", row, col)
	case c == '{':
		l.advance()
		return l.emit(token.LBRACE, "{", row, col)
	case c == '}':
		return l.scanCloseBrace(row, col)
	case c == '[':
		return l.scanLBracket(row, col)
	case c == ']':
		l.advance()
		return l.emit(token.RBRACKET, "]", row, col)
	case c == '(':
		return l.scanLParen(row, col)
	case c == ')':
		return l.scanRParen(row, col)
	case c == '=':
		l.advance()
		return l.emit(token.ASSIGN, "=", row, col)
	case c == '<':
		if l.byteAt(1) == '<' {
			l.advance()
			l.advance()
			return l.emit(token.APPEND, "<<", row, col)
		}
		l.advance()
		return l.emit(token.ILLEGAL, "<", row, col)
	case isIdentChar(c):
		return l.scanIdentifier(row, col)
	default:
		// Advance past an arbitrary rune so the lexer makes progress
		// on unexpected input instead of looping.
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if size == 0 {
			size = 1
		}
		lit := l.src[l.pos : l.pos+size]
		for i := 0; i < size; i++ {
			l.advance()
		}
		return l.emit(token.ILLEGAL, lit, row, col)
	}
}

func (l *Lexer) scanWhitespace() token.Token {
	row, col := l.line, l.column
	start := l.pos
	for !l.atEOF() {
		c := l.byteAt(0)
		if c == ' ' || c == '\t' || c == '\r' {
			l.advance()
			continue
		}
		break
	}
	return l.emit(token.WHITESPACE, l.src[start:l.pos], row, col)
}

func (l *Lexer) scanComment() token.Token {
	row, col := l.line, l.column
	start := l.pos
	for !l.atEOF() && l.byteAt(0) != '\n' {
		l.advance()
	}
	return l.emit(token.COMMENT, l.src[start:l.pos], row, col)
}

func (l *Lexer) scanVariable() token.Token {
	row, col := l.line, l.column
	l.advance() // consume '$'
	start := l.pos
	for !l.atEOF() && isVariableChar(l.byteAt(0)) {
		l.advance()
	}
	if l.pos == start {
		return l.emit(token.ILLEGAL, "$", row, col)
	}
	return l.emit(token.VARIABLE, "$"+l.src[start:l.pos], row, col)
}

func (l *Lexer) scanIdentifier(row, col int) token.Token {
	start := l.pos
	for !l.atEOF() && isIdentChar(l.byteAt(0)) {
		l.advance()
	}
	lit := l.src[start:l.pos]
	switch lit {
	case "true", "false":
		return l.emit(token.BOOLEAN, lit, row, col)
	case "null":
		return l.emit(token.NULL, lit, row, col)
	default:
		return l.emit(token.IDENTIFIER, lit, row, col)
	}
}

// scanLBracket decides INDEX_LBRACKET vs LBRACKET based on the kind
// of the immediately preceding emitted token (spec.md §4.1).
func (l *Lexer) scanLBracket(row, col int) token.Token {
	l.advance()
	switch l.lastKnd {
	case token.IDENTIFIER, token.VARIABLE, token.RBRACKET:
		return l.emit(token.INDEX_LBRACKET, "[", row, col)
	default:
		return l.emit(token.LBRACKET, "[", row, col)
	}
}

// scanLParen pushes a tagged-value marker frame when '(' immediately
// follows an IDENTIFIER, so a '}' inside the call's argument (e.g. an
// object literal) cannot pop an enclosing embedded-expression frame.
func (l *Lexer) scanLParen(row, col int) token.Token {
	l.advance()
	if l.lastKnd == token.IDENTIFIER {
		l.push(frameTagged)
	}
	return l.emit(token.LPAREN, "(", row, col)
}

func (l *Lexer) scanRParen(row, col int) token.Token {
	l.advance()
	if l.top() == frameTagged {
		l.pop()
	}
	return l.emit(token.RPAREN, ")", row, col)
}

// scanCloseBrace pops an embedded-expression frame if that's what's
// on top; otherwise '}' is an ordinary object terminator and leaves
// the stack untouched (this also shields a tagged-value marker's
// inner braces, since the marker sits above the embedded frame).
func (l *Lexer) scanCloseBrace(row, col int) token.Token {
	l.advance()
	if l.top() == frameEmbedded {
		l.pop()
	}
	return l.emit(token.RBRACE, "}", row, col)
}

// scanQuoteOpen distinguishes a triple-quote from a single quote and
// pushes the matching string frame.
func (l *Lexer) scanQuoteOpen() token.Token {
	row, col := l.line, l.column
	if l.byteAt(1) == '"' && l.byteAt(2) == '"' {
		l.advance()
		l.advance()
		l.advance()
		l.push(frameStringTriple)
		return l.emit(token.TRIPLE_QUOTE, `"""`, row, col)
	}
	l.advance()
	l.push(frameStringDouble)
	return l.emit(token.DOUBLE_QUOTE, `"`, row, col)
}

// scanStringBody scans the interior of a string: literal content
// runs, escape sequences, embedded-expression starts, and the
// closing quote.
func (l *Lexer) scanStringBody() token.Token {
	row, col := l.line, l.column
	triple := l.top() == frameStringTriple

	if l.atEOF() {
		// Unterminated string; surfaced as an error by the parser
		// when it expects a closing quote and finds EOF instead.
		return l.emit(token.EOF, "", row, col)
	}

	// Closing quote.
	if triple {
		if l.byteAt(0) == '"' && l.byteAt(1) == '"' && l.byteAt(2) == '"' {
			l.advance()
			l.advance()
			l.advance()
			l.pop()
			return l.emit(token.TRIPLE_QUOTE, `"""`, row, col)
		}
	} else if l.byteAt(0) == '"' {
		l.advance()
		l.pop()
		return l.emit(token.DOUBLE_QUOTE, `"`, row, col)
	}

	// Embedded expression start.
	if l.byteAt(0) == '$' && l.byteAt(1) == '{' {
		l.advance()
		l.advance()
		l.push(frameEmbedded)
		return l.emit(token.EMBEDDED_VALUE_START, "${", row, col)
	}

	// Escape sequence.
	if l.byteAt(0) == '\\' {
		return l.scanEscape(row, col)
	}

	// Disallowed raw bytes.
	if !triple && isDisallowedRawByte(l.byteAt(0)) {
		b := l.byteAt(0)
		l.advance()
		return l.emit(token.ILLEGAL, string(b), row, col)
	}
	if triple && isDisallowedTripleRawByte(l.byteAt(0)) {
		b := l.byteAt(0)
		l.advance()
		return l.emit(token.ILLEGAL, string(b), row, col)
	}

	// Literal content run, up to the next special byte.
	var sb strings.Builder
	for !l.atEOF() {
		c := l.byteAt(0)
		if c == '\\' || c == '$' {
			break
		}
		if triple {
			if c == '"' && l.byteAt(1) == '"' && l.byteAt(2) == '"' {
				break
			}
			if isDisallowedTripleRawByte(c) {
				break
			}
		} else {
			if c == '"' {
				break
			}
			if isDisallowedRawByte(c) {
				break
			}
		}
		sb.WriteByte(l.advance())
	}
	// A lone '$' not starting "${" is not allowed as raw content in a
	// string; it is consumed and emitted as ILLEGAL so the parser
	// reports a lexical error at its position.
	if sb.Len() == 0 && !l.atEOF() && l.byteAt(0) == '$' {
		l.advance()
		return l.emit(token.ILLEGAL, "$", row, col)
	}
	return l.emit(token.STRING_CONTENT, sb.String(), row, col)
}

func isDisallowedRawByte(b byte) bool {
	if b < 0x20 {
		return true
	}
	if b == 0x7f {
		return true
	}
	if b >= 0x80 && b <= 0x9f {
		return true
	}
	return false
}

func isDisallowedTripleRawByte(b byte) bool {
	if b == '\n' || b == '\t' {
		return false
	}
	return isDisallowedRawByte(b)
}

// scanEscape consumes a single escape sequence, emitting the raw
// text (including the backslash) as an ESCAPE_SEQUENCE token; the
// parser performs decoding per spec.md §4.5. An escape left
// unterminated at EOF is still emitted with whatever was consumed.
func (l *Lexer) scanEscape(row, col int) token.Token {
	start := l.pos
	l.advance() // consume '\'
	if l.atEOF() {
		return l.emit(token.ESCAPE_SEQUENCE, l.src[start:l.pos], row, col)
	}
	c := l.advance()
	switch c {
	case '"', '\\', '$', 'b', 'f', 'n', 'r', 't':
		// single-character escape, nothing more to consume
	case 'u':
		l.consumeHex(4)
	case 'U':
		l.consumeHex(8)
	default:
		// Unrecognised escape letter; the parser's decode table will
		// reject it, but the lexer still returns whatever was scanned.
	}
	return l.emit(token.ESCAPE_SEQUENCE, l.src[start:l.pos], row, col)
}

func (l *Lexer) consumeHex(n int) {
	for i := 0; i < n && !l.atEOF(); i++ {
		c := l.byteAt(0)
		if isHexDigit(c) {
			l.advance()
		} else {
			return
		}
	}
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
