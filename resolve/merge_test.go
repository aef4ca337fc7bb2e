package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhole(t *testing.T) {
	assert.Equal(t, "base", Whole("base", nil))
	assert.Equal(t, "patch", Whole("base", ptr("patch")))
	assert.Equal(t, "", Whole("base", ptr("")), "an explicit zero value is still present")
}

func TestLeaf(t *testing.T) {
	set := func(s *shipping, v string) { s.Carrier = v }
	parent := shipping{Weight: 1, Carrier: "UPS"}

	assert.Equal(t, parent, Leaf(parent, nil, set))
	assert.Equal(t, shipping{Weight: 1, Carrier: "DHL"}, Leaf(parent, ptr("DHL"), set))
	assert.Equal(t, "UPS", parent.Carrier)
}

func TestLeafPtr(t *testing.T) {
	set := func(s *shipping, v string) { s.Carrier = v }
	parent := &shipping{Weight: 1, Carrier: "UPS"}

	assert.Same(t, parent, LeafPtr(parent, nil, set))

	got := LeafPtr(parent, ptr("DHL"), set)
	assert.NotSame(t, parent, got)
	assert.Equal(t, "DHL", got.Carrier)
	assert.Equal(t, "UPS", parent.Carrier, "parent must be copied before patching")

	assert.Nil(t, LeafPtr[shipping](nil, ptr("DHL"), set))
}

func TestClone(t *testing.T) {
	parent := &shipping{Weight: 1, Carrier: "UPS"}

	got := Clone(parent)
	assert.NotSame(t, parent, got)
	assert.Equal(t, *parent, *got)

	got.Carrier = "DHL"
	assert.Equal(t, "UPS", parent.Carrier)
	assert.Nil(t, Clone[shipping](nil))
}

func TestCloneSlice(t *testing.T) {
	tags := []string{"a", "b"}

	got := CloneSlice(tags)
	got[0] = "z"
	assert.Equal(t, []string{"a", "b"}, tags)
	assert.Nil(t, CloneSlice[[]string](nil))
}

func TestCloneMap(t *testing.T) {
	attrs := map[string]int{"a": 1}

	got := CloneMap(attrs)
	got["a"] = 2
	assert.Equal(t, map[string]int{"a": 1}, attrs)
	assert.Nil(t, CloneMap[map[string]int](nil))
}

func TestSource(t *testing.T) {
	assert.Equal(t, "definition(A)", FromDefinition("A").String())
	assert.Equal(t, "instance(B)", FromInstance("B").String())
	assert.True(t, FromDefinition("A").IsDefinition())
	assert.False(t, FromDefinition("A").IsInstance())
	assert.Equal(t, "unknown", SourceKind(7).String())
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
