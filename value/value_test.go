package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectOrderPreserved(t *testing.T) {
	o := NewObject()
	o.Set("b", Int(1))
	o.Set("a", Int(2))
	o.Set("b", Int(3)) // re-set shouldn't move it in key order
	assert.Equal(t, []string{"b", "a"}, o.Keys())
	v, ok := o.Get("b")
	require.True(t, ok)
	assert.Equal(t, Int(3), v)
}

func TestArrayGrowPadsWithNull(t *testing.T) {
	a := NewArray()
	a.Grow(2)
	require.Len(t, a.Items, 3)
	assert.Equal(t, Null{}, a.Items[0])
	assert.Equal(t, Null{}, a.Items[1])
	assert.Equal(t, Null{}, a.Items[2])
}

func TestUnwrapPrimitives(t *testing.T) {
	assert.Nil(t, Unwrap(Null{}))
	assert.Equal(t, true, Unwrap(Bool(true)))
	assert.Equal(t, int64(5), Unwrap(Int(5)))
	assert.Equal(t, "hi", Unwrap(Str("hi")))
}

func TestUnwrapObjectAndArray(t *testing.T) {
	o := NewObject()
	o.Set("list", NewArray(Int(1), Int(2)))
	got := Unwrap(o).(map[string]interface{})
	assert.Equal(t, []interface{}{int64(1), int64(2)}, got["list"])
}

func TestUnwrapTag(t *testing.T) {
	tag := &Tag{Name: "from", Arg: Str("localhost")}
	assert.Equal(t, []interface{}{"from", "localhost"}, Unwrap(tag))
}

func TestUnwrapStatement(t *testing.T) {
	stmt := &Statement{Args: [][]Value{{Str("from"), Str("localhost")}}}
	got := Unwrap(stmt)
	assert.Equal(t, []interface{}{[]interface{}{"from", "localhost"}}, got)
}

func TestUnwrapCollectionUsesLast(t *testing.T) {
	c := &Collection{}
	c.Add(Int(1))
	c.Add(Int(2))
	assert.Equal(t, int64(2), Unwrap(c))
}

func TestMergeDeepObjectObject(t *testing.T) {
	dst := NewObject()
	inner := NewObject()
	inner.Set("x", Int(1))
	dst.Set("a", inner)
	dst.Set("k", Int(1))

	src := NewObject()
	innerSrc := NewObject()
	innerSrc.Set("y", Int(2))
	src.Set("a", innerSrc)
	src.Set("other", Int(3))

	Merge(dst, src)

	a, _ := dst.Get("a")
	ao := a.(*Object)
	_, hasX := ao.Get("x")
	_, hasY := ao.Get("y")
	assert.True(t, hasX)
	assert.True(t, hasY)
	other, ok := dst.Get("other")
	assert.True(t, ok)
	assert.Equal(t, Int(3), other)
}

func TestMergePriorContentWinsOnNonObjectCollision(t *testing.T) {
	dst := NewObject()
	dst.Set("k", NewArray(Int(1)))
	src := NewObject()
	src.Set("k", Int(5))
	Merge(dst, src)
	v, _ := dst.Get("k")
	assert.Equal(t, NewArray(Int(1)), v)
}

func TestMergeFillsMissingKeyFromSrc(t *testing.T) {
	dst := NewObject()
	src := NewObject()
	src.Set("k", Int(5))
	Merge(dst, src)
	v, ok := dst.Get("k")
	assert.True(t, ok)
	assert.Equal(t, Int(5), v)
}

func TestParseNumberTextInteger(t *testing.T) {
	v, err := ParseNumberText("1_000")
	require.NoError(t, err)
	assert.Equal(t, Int(1000), v)
}

func TestParseNumberTextConsecutiveUnderscoresError(t *testing.T) {
	_, err := ParseNumberText("1__000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consecutive underscores")
}

func TestParseNumberTextFloatWithExponent(t *testing.T) {
	v, err := ParseNumberText("1e3")
	require.NoError(t, err)
	assert.Equal(t, Float(1000), v)
}

func TestToBoolCoercions(t *testing.T) {
	b, err := ToBool(Null{})
	require.NoError(t, err)
	assert.Equal(t, Bool(false), b)

	b, err = ToBool(Str(""))
	require.NoError(t, err)
	assert.Equal(t, Bool(false), b)

	b, err = ToBool(Int(0))
	require.NoError(t, err)
	assert.Equal(t, Bool(false), b)

	b, err = ToBool(Str("x"))
	require.NoError(t, err)
	assert.Equal(t, Bool(true), b)
}
