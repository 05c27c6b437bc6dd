// Package keypath implements the key-path addressing model: the
// dotted, indexable expressions used to name a position in a bconf
// document (spec.md §3, §4.3).
package keypath

import (
	"fmt"
	"strconv"
	"strings"
)

// PartKind discriminates the variants of a KeyPart.
type PartKind int

const (
	// Alphanumeric is a bare identifier key part, e.g. `server`.
	Alphanumeric PartKind = iota
	// String is a key part that came from a quoted key, e.g. `"a.b"`.
	String
	// Variable is a `$name` part; only valid at index 0 of a KeyPath.
	Variable
	// Index is a non-negative integer array index, e.g. `[3]`.
	Index
)

// Part is one segment of a KeyPath.
type Part struct {
	Kind  PartKind
	Name  string // set for Alphanumeric, String, Variable
	Index int    // set for Index
}

// Alpha builds an alphanumeric key part.
func Alpha(name string) Part { return Part{Kind: Alphanumeric, Name: name} }

// Str builds a quoted-string key part.
func Str(name string) Part { return Part{Kind: String, Name: name} }

// Var builds a variable key part. The caller supplies the name
// without the leading '$'.
func Var(name string) Part { return Part{Kind: Variable, Name: name} }

// Idx builds an index key part.
func Idx(i int) Part { return Part{Kind: Index, Index: i} }

// KeyPath is an ordered, non-empty sequence of key parts. A Variable
// part may only occur at index 0.
type KeyPath []Part

// New builds a KeyPath, panicking if a Variable part appears anywhere
// but the first position — this is a programmer error in the parser,
// not a user-facing parse failure, since the parser itself enforces
// the placement before constructing a KeyPath.
func New(parts ...Part) KeyPath {
	for i, p := range parts {
		if p.Kind == Variable && i != 0 {
			panic("keypath: variable part must be first")
		}
	}
	return KeyPath(parts)
}

// Head returns the first part.
func (k KeyPath) Head() Part { return k[0] }

// IsVariable reports whether the path starts with a variable part.
func (k KeyPath) IsVariable() bool {
	return len(k) > 0 && k[0].Kind == Variable
}

// String serializes the path: named parts joined by '.', index parts
// rendered as "[N]" immediately following the preceding part with no
// dot (spec.md §3). A quoted-string part is written without its
// quotes, so a path containing one whose text holds '.', '[', ']' or
// whitespace does not parse back to the same parts.
func (k KeyPath) String() string {
	var sb strings.Builder
	for i, p := range k {
		switch p.Kind {
		case Index:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(p.Index))
			sb.WriteByte(']')
		default:
			if i > 0 {
				sb.WriteByte('.')
			}
			if p.Kind == Variable {
				sb.WriteByte('$')
			}
			sb.WriteString(p.Name)
		}
	}
	return sb.String()
}

// Part.String is convenient for error messages naming one segment.
func (p Part) String() string {
	switch p.Kind {
	case Index:
		return fmt.Sprintf("[%d]", p.Index)
	case Variable:
		return "$" + p.Name
	default:
		return p.Name
	}
}
