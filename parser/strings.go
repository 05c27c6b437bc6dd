package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bconf-lang/bconf/resolver"
	"github.com/bconf-lang/bconf/token"
	"github.com/bconf-lang/bconf/value"
)

// parseString reads a double- or triple-quoted string, decoding
// escape sequences and substituting embedded expressions
// (spec.md §4.5). The opening quote kind (DOUBLE_QUOTE or
// TRIPLE_QUOTE) must match the closing one the lexer emits, since the
// lexer's context stack never lets the two interleave.
func (p *Parser) parseString() (value.Value, error) {
	quoteKind := p.cur.Kind
	p.advance() // consume opening quote

	var sb strings.Builder
	for {
		switch {
		case p.cur.Is(token.STRING_CONTENT):
			sb.WriteString(p.cur.Literal)
			p.advance()

		case p.cur.Is(token.ESCAPE_SEQUENCE):
			decoded, err := decodeEscape(p.cur.Literal)
			if err != nil {
				return nil, p.errf("%s", err)
			}
			sb.WriteString(decoded)
			p.advance()

		case p.cur.Is(token.EMBEDDED_VALUE_START):
			p.advance() // consume '${'
			v, err := p.parseValue(resolver.IdentDisallow)
			if err != nil {
				return nil, err
			}
			text, err := value.ToText(v)
			if err != nil {
				return nil, p.errf("embedded expression: %s", err)
			}
			sb.WriteString(text)
			if !p.cur.Is(token.RBRACE) {
				return nil, p.errf("expected '}' to close embedded expression")
			}
			p.advance()

		case p.cur.Is(quoteKind):
			p.advance()
			return value.Str(sb.String()), nil

		case p.cur.Is(token.EOF):
			return nil, p.errf("unterminated string")

		default:
			return nil, p.errf("unexpected token %s in string", p.cur.Kind)
		}
	}
}

// decodeEscape decodes one ESCAPE_SEQUENCE token's literal text
// (including its leading backslash) per spec.md §4.5's table.
func decodeEscape(lit string) (string, error) {
	if len(lit) < 2 {
		return "", fmt.Errorf("unterminated escape sequence")
	}
	switch lit[1] {
	case '"':
		return `"`, nil
	case '\\':
		return `\`, nil
	case '$':
		return "$", nil
	case 'b':
		return "\b", nil
	case 'f':
		return "\f", nil
	case 'n':
		return "\n", nil
	case 'r':
		return "\r", nil
	case 't':
		return "\t", nil
	case 'u':
		return decodeUnicodeEscape(lit[2:], 4)
	case 'U':
		return decodeUnicodeEscape(lit[2:], 8)
	default:
		return "", fmt.Errorf("unknown escape sequence %q", lit)
	}
}

func decodeUnicodeEscape(hex string, width int) (string, error) {
	if len(hex) != width {
		return "", fmt.Errorf("invalid \\u escape: expected %d hex digits", width)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", fmt.Errorf("invalid \\u escape %q", hex)
	}
	return string(rune(n)), nil
}
