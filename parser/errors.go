package parser

import "fmt"

// Error is a parse failure with the source position it occurred at
// (spec.md §8's error scenarios all name a row/column).
type Error struct {
	Row     int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Row, e.Column, e.Message)
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return &Error{Row: p.cur.Row, Column: p.cur.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) wrapResolverErr(name string, err error) error {
	return &Error{Row: p.cur.Row, Column: p.cur.Column, Message: fmt.Sprintf("%s: %s", name, err)}
}
