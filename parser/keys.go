package parser

import (
	"strconv"

	"github.com/bconf-lang/bconf/keypath"
	"github.com/bconf-lang/bconf/token"
	"github.com/bconf-lang/bconf/value"
)

// parseKeyPath reads the key on the left of an entry (spec.md §4.3):
// a bare `$name` is atomic (no dotted/indexed continuation — a
// variable binding names exactly one scope slot), anything else is a
// dotted/indexed chain of alphanumeric or quoted-string parts.
func (p *Parser) parseKeyPath() (keypath.KeyPath, error) {
	if p.cur.Is(token.VARIABLE) {
		name := p.cur.Literal[1:]
		p.advance()
		return keypath.New(keypath.Var(name)), nil
	}

	first, err := p.parseKeyPart()
	if err != nil {
		return nil, err
	}
	return p.parseKeyPathTail([]keypath.Part{first})
}

// parseKeyPathTail consumes zero or more '.name' / '[index]'
// continuations following an already-parsed first part.
func (p *Parser) parseKeyPathTail(parts []keypath.Part) (keypath.KeyPath, error) {
	for {
		switch {
		case p.cur.Is(token.DOT):
			p.advance()
			part, err := p.parseNamedKeyPart()
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		case p.cur.Is(token.INDEX_LBRACKET):
			p.advance()
			idx, err := p.parseIndexLiteral()
			if err != nil {
				return nil, err
			}
			if !p.cur.Is(token.RBRACKET) {
				return nil, p.errf("expected ']'")
			}
			p.advance()
			parts = append(parts, keypath.Idx(idx))
		default:
			return keypath.New(parts...), nil
		}
	}
}

func (p *Parser) parseKeyPart() (keypath.Part, error) {
	switch {
	case p.cur.Is(token.IDENTIFIER):
		name := p.cur.Literal
		p.advance()
		return keypath.Alpha(name), nil
	case p.cur.Is(token.DOUBLE_QUOTE) || p.cur.Is(token.TRIPLE_QUOTE):
		v, err := p.parseString()
		if err != nil {
			return keypath.Part{}, err
		}
		s, ok := v.(value.Str)
		if !ok {
			return keypath.Part{}, p.errf("a key string must be a plain string")
		}
		return keypath.Str(string(s)), nil
	default:
		return keypath.Part{}, p.errf("expected a key")
	}
}

// parseNamedKeyPart is parseKeyPart minus the variable case, used
// after a '.' — a key path may contain a variable only as its first
// part (spec.md §3).
func (p *Parser) parseNamedKeyPart() (keypath.Part, error) {
	if p.cur.Is(token.VARIABLE) {
		return keypath.Part{}, p.errf("a key path may only start with a variable")
	}
	return p.parseKeyPart()
}

func (p *Parser) parseIndexLiteral() (int, error) {
	if !p.cur.Is(token.IDENTIFIER) {
		return 0, p.errf("expected an array index")
	}
	n, err := strconv.Atoi(p.cur.Literal)
	if err != nil || n < 0 {
		return 0, p.errf("invalid array index %q", p.cur.Literal)
	}
	p.advance()
	return n, nil
}

type slotKind int

const (
	slotObject slotKind = iota
	slotArray
)

// slot is the writable location a key path resolves to once its
// parent containers are materialized.
type slot struct {
	kind slotKind
	obj  *value.Object
	key  string
	arr  *value.Array
	idx  int
}

func (s slot) get() (value.Value, bool) {
	if s.kind == slotObject {
		return s.obj.Get(s.key)
	}
	if s.idx < len(s.arr.Items) {
		return s.arr.Items[s.idx], true
	}
	return nil, false
}

func (s slot) set(v value.Value) {
	if s.kind == slotObject {
		s.obj.Set(s.key, v)
		return
	}
	s.arr.Grow(s.idx)
	s.arr.Items[s.idx] = v
}

// materialize walks all but the last part of key starting at
// container, creating or replacing intermediate containers as the
// next hop demands (spec.md §4.3): a part whose next hop is an index
// must itself resolve to an array; otherwise to an object.
func (p *Parser) materialize(container *value.Object, key keypath.KeyPath) (slot, error) {
	parts := []keypath.Part(key)
	curObj := container
	var curArr *value.Array

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		nextIsIndex := parts[i+1].Kind == keypath.Index

		if part.Kind == keypath.Index {
			if curArr == nil {
				return slot{}, p.errf("index part without an enclosing array")
			}
			curArr.Grow(part.Index)
			if nextIsIndex {
				arr, ok := curArr.Items[part.Index].(*value.Array)
				if !ok {
					arr = value.NewArray()
					curArr.Items[part.Index] = arr
				}
				curArr, curObj = arr, nil
			} else {
				obj, ok := curArr.Items[part.Index].(*value.Object)
				if !ok {
					obj = value.NewObject()
					curArr.Items[part.Index] = obj
				}
				curObj, curArr = obj, nil
			}
			continue
		}

		if curObj == nil {
			return slot{}, p.errf("named part without an enclosing object")
		}
		existing, _ := curObj.Get(part.Name)
		if nextIsIndex {
			arr, ok := existing.(*value.Array)
			if !ok {
				arr = value.NewArray()
				curObj.Set(part.Name, arr)
			}
			curArr, curObj = arr, nil
		} else {
			obj, ok := existing.(*value.Object)
			if !ok {
				obj = value.NewObject()
				curObj.Set(part.Name, obj)
			}
			curObj, curArr = obj, nil
		}
	}

	last := parts[len(parts)-1]
	if last.Kind == keypath.Index {
		if curArr == nil {
			return slot{}, p.errf("index part without an enclosing array")
		}
		curArr.Grow(last.Index)
		return slot{kind: slotArray, arr: curArr, idx: last.Index}, nil
	}
	if curObj == nil {
		return slot{}, p.errf("named part without an enclosing object")
	}
	return slot{kind: slotObject, obj: curObj, key: last.Name}, nil
}
