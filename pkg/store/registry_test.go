package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/item"
)

func TestRegistryOpenAll(t *testing.T) {
	ctx := context.Background()
	b := newMemoryBackend()
	r := NewRegistry()
	t.Cleanup(func() { _ = r.Close(ctx) })

	require.NoError(t, r.OpenAll(ctx, b, []string{"main", "footer", "sidebar"}))
	assert.Equal(t, []string{"footer", "main", "sidebar"}, r.IDs())

	s, err := r.Get("footer")
	require.NoError(t, err)
	assert.Equal(t, "footer", s.ID())

	_, err = r.Get("header")
	assert.True(t, catalog.IsNotFound(err))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	b := newMemoryBackend()
	r := NewRegistry()
	t.Cleanup(func() { _ = r.Close(ctx) })

	s, err := Open(ctx, b, "main")
	require.NoError(t, err)
	require.NoError(t, r.Register(s))
	assert.Error(t, r.Register(s))
	assert.Error(t, r.Register(nil))

	assert.Error(t, r.OpenAll(ctx, b, []string{"main"}))
}

func TestRegistryDrainAll(t *testing.T) {
	ctx := context.Background()
	b := newMemoryBackend()
	r := NewRegistry()
	t.Cleanup(func() { _ = r.Close(ctx) })
	require.NoError(t, r.OpenAll(ctx, b, []string{"main", "footer"}, WithFlushDebounce(time.Hour)))

	for _, s := range r.All() {
		_, err := s.SetElement(ctx, "a", &item.Item{Name: "a"})
		require.NoError(t, err)
		s.RemoveElementByID("a")
	}
	require.NoError(t, r.DrainAll(ctx))

	for _, id := range r.IDs() {
		doc, err := b.Load(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, doc.Tree, id)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("NAVTREE_CONFIG_PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "navigation", cfg.Kind())
	assert.Equal(t, []string{"main"}, cfg.Sections())
	assert.Equal(t, DefaultFlushDebounce, cfg.FlushDebounce())
	assert.Equal(t, DefaultWriteTimeout, cfg.WriteTimeout())
	assert.Equal(t, DefaultWriteRetries, cfg.WriteRetries())
	assert.Equal(t, "page", cfg.Model())
	assert.Equal(t, filepath.Join(cfg.BasePath(), "records"), cfg.RecordsPath())
	assert.True(t, filepath.IsAbs(cfg.BasePath()))
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	data := []byte("path: " + filepath.Join(dir, "db") + "\nsections: [main, footer]\nflush_debounce: 1s\nwrite_retries: 7\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".navtree.yaml"), data, 0o644))
	t.Setenv("NAVTREE_CONFIG_PATH", dir)
	t.Setenv("NAVTREE_KIND", "menus")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db"), cfg.BasePath())
	assert.Equal(t, []string{"main", "footer"}, cfg.Sections())
	assert.Equal(t, time.Second, cfg.FlushDebounce())
	assert.Equal(t, 7, cfg.WriteRetries())
	assert.Equal(t, "menus", cfg.Kind())
	assert.Len(t, OptionsFromConfig(cfg), 3)
}
