package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry maps catalog ids to their stores. Build one at startup and hand
// it to every consumer; stores live until the process exits.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*TreeStore
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*TreeStore)}
}

// Register adds s; registering the same catalog id twice is an error.
func (r *Registry) Register(s *TreeStore) error {
	if s == nil {
		return errors.New("store: nil tree store")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.stores[s.ID()]; dup {
		return fmt.Errorf("store: catalog %q already registered", s.ID())
	}
	r.stores[s.ID()] = s
	return nil
}

// Get returns the store of catalogID or a catalog.NotFoundError.
func (r *Registry) Get(catalogID string) (*TreeStore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[catalogID]
	if !ok {
		return nil, unknownCatalog(catalogID)
	}
	return s, nil
}

// IDs returns the registered catalog ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.stores))
	for id := range r.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns the registered stores ordered by catalog id.
func (r *Registry) All() []*TreeStore {
	ids := r.IDs()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*TreeStore, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.stores[id])
	}
	return out
}

// OpenAll hydrates one store per catalog id concurrently and registers them.
func (r *Registry) OpenAll(ctx context.Context, backend Backend, catalogIDs []string, opts ...Option) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range catalogIDs {
		id := id
		g.Go(func() error {
			s, err := Open(gctx, backend, id, opts...)
			if err != nil {
				return fmt.Errorf("open catalog %q: %w", id, err)
			}
			return r.Register(s)
		})
	}
	return g.Wait()
}

// DrainAll waits for every store's pending writes and returns the first
// error seen.
func (r *Registry) DrainAll(ctx context.Context) error {
	var first error
	for _, s := range r.All() {
		if err := s.Drain(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every store.
func (r *Registry) Close(ctx context.Context) error {
	var first error
	for _, s := range r.All() {
		if err := s.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
