package blacklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsCaseInsensitive(t *testing.T) {
	s := New([]string{"example.com"})

	for _, name := range []string{"example.com", "EXAMPLE.com", "Example.Com"} {
		assert.True(t, s.Contains(name), "expected %q to be blocked", name)
	}
	for _, name := range []string{"notexample.com", "sub.example.com", "example.co"} {
		assert.False(t, s.Contains(name), "expected %q to be allowed", name)
	}
}

func TestContainsEmptySet(t *testing.T) {
	s := New(nil)
	assert.False(t, s.Contains("anything.test"))
	assert.Equal(t, 0, s.Len())
}

func TestMerge(t *testing.T) {
	a := New([]string{"a.test"})
	b := New([]string{"b.test", "a.test"})
	m := Merge(a, b)
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Contains("a.test"))
	assert.True(t, m.Contains("b.test"))
}

func TestNilSetIsSafe(t *testing.T) {
	var s *Set
	assert.False(t, s.Contains("x.test"))
	assert.Equal(t, 0, s.Len())
}
