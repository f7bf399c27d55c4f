// Package runnertest opens throwaway catalogs for runner tests.
package runnertest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/navigation"
)

// Config is a store.Config rooted in a test directory.
type Config struct {
	Base string
}

func (c Config) BasePath() string             { return c.Base }
func (c Config) RecordsPath() string          { return filepath.Join(c.Base, "records") }
func (c Config) Kind() string                 { return "navigation" }
func (c Config) Sections() []string           { return []string{"main"} }
func (c Config) FlushDebounce() time.Duration { return time.Millisecond }
func (c Config) WriteTimeout() time.Duration  { return time.Second }
func (c Config) WriteRetries() int            { return 0 }
func (c Config) Model() string                { return "page" }

// Open returns a service over a fresh directory, closed with the test.
// Colors are disabled so output can be compared.
func Open(t *testing.T) *navigation.Service {
	t.Helper()
	color.NoColor = true
	svc, err := navigation.Open(context.Background(), Config{Base: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close(context.Background()) })
	return svc
}

// Main returns the sync of the "main" catalog of svc.
func Main(t *testing.T, svc *navigation.Service) *frontend.Sync {
	t.Helper()
	s, err := svc.Sync("main")
	require.NoError(t, err)
	return s
}

// Seed creates items in order.
func Seed(t *testing.T, s *frontend.Sync, items ...*item.Item) {
	t.Helper()
	for _, it := range items {
		_, err := s.CreateItem(context.Background(), it)
		require.NoError(t, err)
	}
}

// Group is a group item.
func Group(id, name string, parent item.ID) *item.Item {
	return &item.Item{ID: item.ID(id), Name: name, Type: "group", ParentID: parent}
}

// Link is a link item pointing at "/"+id.
func Link(id, name string, parent item.ID) *item.Item {
	return &item.Item{ID: item.ID(id), Name: name, Type: "link", URLPath: "/" + id, ParentID: parent}
}
