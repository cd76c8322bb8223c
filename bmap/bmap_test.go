package bmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/svlang/svkit/bmap"
)

// TestInsert_Collision is scenario S2.
func TestInsert_Collision(t *testing.T) {
	m := bmap.New[string, int]()

	assert.True(t, m.Insert("a", 1))
	assert.Equal(t, 1, m.Size())

	assert.False(t, m.Insert("a", 2), "key already present")
	assert.Equal(t, 1, m.Size())

	assert.False(t, m.Insert("b", 1), "value already present")
	assert.Equal(t, 1, m.Size())

	assert.True(t, m.Insert("b", 2))
	assert.Equal(t, 2, m.Size())
}

// TestBijection_ForwardAndReverseLookupsAgree asserts forward and
// reverse lookups stay consistent, and that neither side of an
// existing pair can be remapped, across several distinct keys.
func TestBijection_ForwardAndReverseLookupsAgree(t *testing.T) {
	m := bmap.New[string, string]()

	pairs := map[string]string{"cat": "png", "dog": "xyz", "foo": "bar"}
	for k, v := range pairs {
		assert.True(t, m.Insert(k, v))
	}

	for k, v := range pairs {
		gotV, ok := m.FindForward(k)
		assert.True(t, ok)
		assert.Equal(t, v, gotV)

		gotK, ok := m.FindReverse(v)
		assert.True(t, ok)
		assert.Equal(t, k, gotK)

		assert.False(t, m.Insert(k, "something-else"))
		assert.False(t, m.Insert("something-else", v))
	}
}

func TestInsertUsingValueGenerator(t *testing.T) {
	m := bmap.New[string, int]()
	calls := 0
	gen := func() int {
		calls++
		return calls // 1, 2, 3, ...
	}

	v1 := m.InsertUsingValueGenerator("a", gen)
	assert.Equal(t, 1, v1)

	// Same key returns the existing mapping without calling gen again.
	v1Again := m.InsertUsingValueGenerator("a", gen)
	assert.Equal(t, v1, v1Again)
	assert.Equal(t, 1, calls)

	v2 := m.InsertUsingValueGenerator("b", gen)
	assert.Equal(t, 2, v2)
}

func TestInsertUsingValueGenerator_RetriesOnCollision(t *testing.T) {
	m := bmap.New[string, int]()
	m.Insert("x", 1)
	m.Insert("y", 2)

	seq := []int{1, 2, 3}
	i := 0
	gen := func() int {
		v := seq[i]
		i++
		return v
	}

	v := m.InsertUsingValueGenerator("z", gen)
	assert.Equal(t, 3, v)
	assert.Equal(t, 3, i, "generator should be called once per collision plus once for the winning value")
}

func TestRemove_RestoresBijection(t *testing.T) {
	m := bmap.New[string, int]()
	m.Insert("a", 1)
	assert.True(t, m.Remove("a"))
	assert.Equal(t, 0, m.Size())
	_, ok := m.FindReverse(1)
	assert.False(t, ok)

	assert.True(t, m.Insert("a", 2))
}

func TestEmpty(t *testing.T) {
	m := bmap.New[string, int]()
	assert.True(t, m.Empty())
	m.Insert("a", 1)
	assert.False(t, m.Empty())
}
