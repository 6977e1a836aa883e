package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoKeyMap_PutAndLookup(t *testing.T) {
	m := NewTwoKeyMap[int, string, string]()
	m.Put(1, "one", "first")
	m.Put(2, "two", "second")

	v, ok := m.ByFirst(1)
	require.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = m.BySecond("two")
	require.True(t, ok)
	assert.Equal(t, "second", v)

	k, ok := m.FirstKeyOf("one")
	require.True(t, ok)
	assert.Equal(t, 1, k)

	assert.Equal(t, 2, m.Len())
}

func TestTwoKeyMap_Miss(t *testing.T) {
	m := NewTwoKeyMap[int, string, string]()

	_, ok := m.ByFirst(7)
	assert.False(t, ok)

	_, ok = m.BySecond("nope")
	assert.False(t, ok)

	_, ok = m.FirstKeyOf("nope")
	assert.False(t, ok)
}

func TestTwoKeyMap_PutReplaces(t *testing.T) {
	m := NewTwoKeyMap[int, string, string]()
	m.Put(1, "one", "first")
	m.Put(1, "one", "updated")

	v, ok := m.ByFirst(1)
	require.True(t, ok)
	assert.Equal(t, "updated", v)
	assert.Equal(t, 1, m.Len())
}

func TestTwoKeyMap_RekeySecondEvictsStaleName(t *testing.T) {
	m := NewTwoKeyMap[int, string, string]()
	m.Put(1, "one", "first")
	m.Put(1, "uno", "renamed")

	// The old second key no longer resolves.
	_, ok := m.BySecond("one")
	assert.False(t, ok)
	_, ok = m.FirstKeyOf("one")
	assert.False(t, ok)

	v, ok := m.BySecond("uno")
	require.True(t, ok)
	assert.Equal(t, "renamed", v)
	assert.Equal(t, 1, m.Len())
}

func TestTwoKeyMap_RekeyFirstEvictsStaleEntry(t *testing.T) {
	m := NewTwoKeyMap[int, string, string]()
	m.Put(1, "one", "first")
	m.Put(2, "one", "moved")

	// The old first key no longer resolves; "one" points at the new entry.
	_, ok := m.ByFirst(1)
	assert.False(t, ok)

	k, ok := m.FirstKeyOf("one")
	require.True(t, ok)
	assert.Equal(t, 2, k)
	assert.Equal(t, 1, m.Len())
}

func TestTwoKeyMap_CloneIndependence(t *testing.T) {
	m := NewTwoKeyMap[int, string, string]()
	m.Put(1, "one", "first")

	clone := m.Clone()
	clone.Put(1, "one", "mutated")
	clone.Put(2, "two", "added")

	v, ok := m.ByFirst(1)
	require.True(t, ok)
	assert.Equal(t, "first", v)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestTwoKeyMap_Values(t *testing.T) {
	m := NewTwoKeyMap[int, string, string]()
	m.Put(1, "one", "first")
	m.Put(2, "two", "second")

	values := m.Values()
	assert.ElementsMatch(t, []string{"first", "second"}, values)
}
