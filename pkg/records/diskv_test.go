package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskvCreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewDiskv(t.TempDir())

	page, err := s.Create(ctx, "Page", Record{"title": "Pricing", "published": true})
	require.NoError(t, err)
	require.NotEmpty(t, page.ID())

	_, err = s.Create(ctx, "page", Record{"id": "about", "title": "About", "published": false})
	require.NoError(t, err)
	_, err = s.Create(ctx, "page", Record{"id": "about", "title": "Again"})
	assert.Error(t, err)

	got, err := s.FindOne(ctx, "PAGE", ByID(page.ID()))
	require.NoError(t, err)
	assert.Equal(t, "Pricing", got.String("title"))

	all, err := s.Find(ctx, "page", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := s.Find(ctx, "page", Criteria{"published": true})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, page.ID(), published[0].ID())

	none, err := s.FindOne(ctx, "page", ByID("missing"))
	require.NoError(t, err)
	assert.Nil(t, none)

	other, err := s.Find(ctx, "post", nil)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDiskvUpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	s := NewDiskv(t.TempDir())
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, "page", Record{"id": id, "title": id, "section": "docs"})
		require.NoError(t, err)
	}

	updated, err := s.Update(ctx, "page", Criteria{"section": "docs"}, Record{"id": "hijack", "title": "Docs"})
	require.NoError(t, err)
	require.Len(t, updated, 3)

	b, err := s.FindOne(ctx, "page", ByID("b"))
	require.NoError(t, err)
	assert.Equal(t, "Docs", b.String("title"))
	assert.Equal(t, "b", b.ID())
}

func TestDiskvRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	s := NewDiskv(t.TempDir())

	_, err := s.Create(ctx, "", Record{})
	assert.Error(t, err)
	_, err = s.Create(ctx, "blog-post", Record{})
	assert.Error(t, err)
	_, err = s.Create(ctx, "page", Record{"id": "../escape"})
	assert.Error(t, err)
}

func TestDiskvIDLookupStaysInsideBase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "outside"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "outside", "s.json"), []byte(`{"id":"s","title":"Outside"}`), 0o644))
	s := NewDiskv(filepath.Join(dir, "records"))

	for _, id := range []string{"../../outside/s", "..", `..\outside\s`} {
		got, err := s.FindOne(ctx, "page", ByID(id))
		require.NoError(t, err, id)
		assert.Nil(t, got, id)

		updated, err := s.Update(ctx, "page", ByID(id), Record{"title": "x"})
		require.NoError(t, err, id)
		assert.Empty(t, updated, id)

		_, err = s.Create(ctx, "page", Record{"id": id})
		assert.Error(t, err, id)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "outside", "s.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Outside")

	assert.True(t, ValidID("about-us"))
	assert.False(t, ValidID(""))
}

func TestCriteriaMatch(t *testing.T) {
	r := Record{"id": "7", "n": 7.0, "name": "x"}
	assert.True(t, Criteria{}.Match(r))
	assert.True(t, Criteria{"id": 7}.Match(r))
	assert.True(t, Criteria{"n": 7.0, "name": "x"}.Match(r))
	assert.False(t, Criteria{"name": "y"}.Match(r))
	assert.False(t, Criteria{"missing": ""}.Match(r))
}
