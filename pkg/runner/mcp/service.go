// Package mcp provides the Model Context Protocol server integration for navtree.
package mcp

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
)

// Catalogs resolves catalog ids to their request surface.
type Catalogs interface {
	Sync(catalogID string) (*frontend.Sync, error)
	Catalogs() []string
}

// Service routes MCP requests to the sync of the addressed catalog.
type Service struct {
	Catalogs Catalogs
	// Default is used when a request names no catalog.
	Default string
}

// NewService builds a service over catalogs. An empty def falls back to the
// first catalog.
func NewService(c Catalogs, def string) *Service {
	return &Service{Catalogs: c, Default: def}
}

// CatalogSummary describes one catalog instance.
type CatalogSummary struct {
	ID      string `json:"id"`
	Default bool   `json:"default"`
}

// ListCatalogs returns every served catalog.
func (s *Service) ListCatalogs(ctx context.Context) ([]CatalogSummary, error) {
	if s.Catalogs == nil {
		return nil, errors.New("catalogs are not configured")
	}
	def := s.defaultID()
	ids := s.Catalogs.Catalogs()
	out := make([]CatalogSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, CatalogSummary{ID: id, Default: id == def})
	}
	return out, nil
}

func (s *Service) defaultID() string {
	if s.Default != "" {
		return s.Default
	}
	if s.Catalogs == nil {
		return ""
	}
	if ids := s.Catalogs.Catalogs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// Sync returns the sync of catalogID, or of the default catalog.
func (s *Service) Sync(catalogID string) (*frontend.Sync, error) {
	if s.Catalogs == nil {
		return nil, errors.New("catalogs are not configured")
	}
	id := strings.TrimSpace(catalogID)
	if id == "" {
		id = s.defaultID()
	}
	return s.Catalogs.Sync(id)
}

// GetCatalog describes a catalog and its root level.
func (s *Service) GetCatalog(ctx context.Context, catalogID string) (*frontend.Catalog, error) {
	sync, err := s.Sync(catalogID)
	if err != nil {
		return nil, err
	}
	return sync.GetCatalog(ctx)
}

// Tree returns the nested tree of catalogID.
func (s *Service) Tree(ctx context.Context, catalogID string) ([]*frontend.Node, error) {
	sync, err := s.Sync(catalogID)
	if err != nil {
		return nil, err
	}
	return sync.GetTree(ctx)
}

// GetChilds lists the children of parent, the root level when parent is empty.
func (s *Service) GetChilds(ctx context.Context, catalogID string, parent item.ID) ([]*frontend.Node, error) {
	sync, err := s.Sync(catalogID)
	if err != nil {
		return nil, err
	}
	var data *item.Item
	if !parent.IsRoot() {
		data = &item.Item{ID: parent}
	}
	return sync.GetChilds(ctx, data)
}

// Lookup finds the item with id regardless of its type.
func (s *Service) Lookup(ctx context.Context, catalogID string, id item.ID) (*item.Item, error) {
	sync, err := s.Sync(catalogID)
	if err != nil {
		return nil, err
	}
	return sync.Lookup(ctx, id)
}

// Resolve completes items that carry only an id with their stored state.
func (s *Service) Resolve(ctx context.Context, catalogID string, items []*item.Item) ([]*item.Item, error) {
	out := make([]*item.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Type != "" {
			out = append(out, it)
			continue
		}
		found, err := s.Lookup(ctx, catalogID, it.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, found)
	}
	return out, nil
}
