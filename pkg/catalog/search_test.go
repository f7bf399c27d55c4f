package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"tableflip.dev/navtree/pkg/item"
)

func TestSearchReconstructsAncestors(t *testing.T) {
	ctx := context.Background()
	r, groups, links := newRegistry(t)
	groups.items["g1"] = &item.Item{ID: "g1", Name: "Fruit", SortOrder: 0}
	links.items["i1"] = &item.Item{ID: "i1", Name: "Apple", ParentID: "g1", SortOrder: 0}

	got, err := r.Search(ctx, "main", "app", false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, item.ID("i1"), got[0].ID)
	assert.True(t, got[0].Marked)
	assert.Equal(t, item.ID("g1"), got[1].ID)
	assert.False(t, got[1].Marked)

	tree := BuildTree(got)
	require.Len(t, tree, 1)
	assert.Equal(t, item.ID("g1"), tree[0].ID)
	require.Len(t, tree[0].Childs, 1)
	assert.Equal(t, item.ID("i1"), tree[0].Childs[0].ID)
}

func TestSearchWithExtrasAddsSiblings(t *testing.T) {
	ctx := context.Background()
	r, groups, links := newRegistry(t)
	groups.items["top"] = &item.Item{ID: "top", Name: "Top"}
	groups.items["sub"] = &item.Item{ID: "sub", Name: "Sub", ParentID: "top"}
	links.items["hit"] = &item.Item{ID: "hit", Name: "Pricing", ParentID: "sub", SortOrder: 1}
	links.items["sib"] = &item.Item{ID: "sib", Name: "About", ParentID: "sub", SortOrder: 0}
	links.items["cousin"] = &item.Item{ID: "cousin", Name: "Blog", ParentID: "top", SortOrder: 5}
	links.items["far"] = &item.Item{ID: "far", Name: "Elsewhere"}

	plain, err := r.Search(ctx, "main", "pricing", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []item.ID{"hit", "sub", "top"}, ids(plain))

	extra, err := r.Search(ctx, "main", "pricing", true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []item.ID{"hit", "sub", "top", "sib", "cousin"}, ids(extra))
	for _, it := range extra {
		assert.Equal(t, it.ID == "hit", it.Marked, it.ID)
	}

	tree := BuildTree(extra)
	require.Len(t, tree, 1)
	top := tree[0]
	assert.Equal(t, []item.ID{"sub", "cousin"}, ids(top.Childs))
	assert.Equal(t, []item.ID{"sib", "hit"}, ids(top.Childs[0].Childs))
}

func TestSearchSharesAncestorsBetweenHits(t *testing.T) {
	ctx := context.Background()
	r, groups, links := newRegistry(t)
	groups.items["g"] = &item.Item{ID: "g", Name: "Docs"}
	links.items["a"] = &item.Item{ID: "a", Name: "Guide one", ParentID: "g"}
	links.items["b"] = &item.Item{ID: "b", Name: "Guide two", ParentID: "g"}

	got, err := r.Search(ctx, "main", "guide", false)
	require.NoError(t, err)
	assert.Equal(t, []item.ID{"a", "b", "g"}, ids(got))
}

func TestSearchStopsAtUnresolvableParent(t *testing.T) {
	r, _, links := newRegistry(t, WithLogger(zaptest.NewLogger(t)))
	links.items["lost"] = &item.Item{ID: "lost", Name: "Lost link", ParentID: "ghost"}

	got, err := r.Search(context.Background(), "main", "lost", true)
	require.NoError(t, err)
	assert.Equal(t, []item.ID{"lost"}, ids(got))
}

func TestSearchMatchedGroupIsMarked(t *testing.T) {
	r, groups, _ := newRegistry(t)
	groups.items["g"] = &item.Item{ID: "g", Name: "Apples"}
	groups.items["h"] = &item.Item{ID: "h", Name: "Apple pie", ParentID: "g"}

	got, err := r.Search(context.Background(), "main", "apple", false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, it := range got {
		assert.True(t, it.Marked, it.ID)
	}
}

func TestSearchFailsClosedOnCorruptTree(t *testing.T) {
	tests := map[string]struct {
		groups   []*item.Item
		maxDepth int
	}{
		"self reference": {
			groups: []*item.Item{{ID: "x", Name: "X", ParentID: "x"}},
		},
		"two node loop": {
			groups: []*item.Item{
				{ID: "a", Name: "A", ParentID: "b"},
				{ID: "b", Name: "B", ParentID: "a"},
			},
		},
		"too deep": {
			groups: []*item.Item{
				{ID: "d1", Name: "D1"},
				{ID: "d2", Name: "D2", ParentID: "d1"},
				{ID: "d3", Name: "D3", ParentID: "d2"},
			},
			maxDepth: 2,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			groups := newMemHandler("group", true, tc.groups...)
			start := tc.groups[len(tc.groups)-1].ID
			links := newMemHandler("link", false, &item.Item{ID: "leaf", Name: "needle", ParentID: start})
			opts := []Option{WithHandlers(groups, links), WithLogger(zaptest.NewLogger(t))}
			if tc.maxDepth > 0 {
				opts = append(opts, WithMaxDepth(tc.maxDepth))
			}
			r, err := New("navigation", opts...)
			require.NoError(t, err)

			_, err = r.Search(context.Background(), "main", "needle", false)
			var corrupt CorruptTreeError
			assert.ErrorAs(t, err, &corrupt)
		})
	}
}

func TestSearchWithoutGroupTypeReturnsMatches(t *testing.T) {
	links := newMemHandler("link", false, &item.Item{ID: "l", Name: "Home", ParentID: "nowhere"})
	r, err := New("flat", WithHandlers(links))
	require.NoError(t, err)

	got, err := r.Search(context.Background(), "main", "home", true)
	require.NoError(t, err)
	assert.Equal(t, []item.ID{"l"}, ids(got))
}
