package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/navtree/pkg/item"
)

func TestBuildTree(t *testing.T) {
	in := []*item.Item{
		{ID: "c2", ParentID: "g", SortOrder: 2},
		{ID: "g", SortOrder: 1},
		{ID: "c1", ParentID: "g", SortOrder: 0},
		{ID: "gc", ParentID: "c1", SortOrder: 0},
		{ID: "first", SortOrder: 0},
		{ID: "stray", ParentID: "not-in-result", SortOrder: 9},
		{ID: "self", ParentID: "self", SortOrder: 10},
		{ID: "g", SortOrder: 99},
		nil,
	}

	roots := BuildTree(in)
	assert.Equal(t, []item.ID{"first", "g", "stray", "self"}, ids(roots))

	g := roots[1]
	assert.Equal(t, 1, g.SortOrder, "first occurrence of a duplicate id wins")
	assert.Equal(t, []item.ID{"c1", "c2"}, ids(g.Childs))
	require.Len(t, g.Childs[0].Childs, 1)
	assert.Equal(t, item.ID("gc"), g.Childs[0].Childs[0].ID)
	assert.NotNil(t, roots[0].Childs)
	assert.Empty(t, roots[0].Childs)

	// The input is not modified.
	assert.Nil(t, in[1].Childs)
}

func TestBuildTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
}
