package scope

import (
	"testing"

	"github.com/bconf-lang/bconf/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFindsNearestBinding(t *testing.T) {
	root := New(nil)
	root.Bind("$x", value.Int(1))

	child := New(root)
	child.Bind("$x", value.Int(2))

	grandchild := New(child)

	v, ok := grandchild.Lookup("$x")
	require.True(t, ok)
	assert.Equal(t, value.Int(2), v)

	v, ok = child.Lookup("$x")
	require.True(t, ok)
	assert.Equal(t, value.Int(2), v)

	v, ok = root.Lookup("$x")
	require.True(t, ok)
	assert.Equal(t, value.Int(1), v)
}

func TestLookupDoesNotSeeSiblingOrChildBindings(t *testing.T) {
	root := New(nil)
	childA := New(root)
	childA.Bind("$y", value.Int(1))
	childB := New(root)

	_, ok := childB.Lookup("$y")
	assert.False(t, ok)

	_, ok = root.Lookup("$y")
	assert.False(t, ok)
}

func TestBindReportsExisted(t *testing.T) {
	s := New(nil)
	assert.False(t, s.Bind("$x", value.Int(1)))
	assert.True(t, s.Bind("$x", value.Int(2)))
}

func TestRootWalksToOutermost(t *testing.T) {
	root := New(nil)
	child := New(root)
	grandchild := New(child)
	assert.Same(t, root, grandchild.Root())
}
