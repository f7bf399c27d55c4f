// Package navigation assembles a ready to serve catalog engine from a
// store.Config: tree stores, record store, node kinds and one
// frontend.Sync per catalog. CLIs and servers share it.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/handlers"
	"tableflip.dev/navtree/pkg/records"
	"tableflip.dev/navtree/pkg/store"
)

// Service owns the stores of every catalog and the syncs serving them.
type Service struct {
	backend  *store.DiskvBackend
	stores   *store.Registry
	records  records.Store
	registry *catalog.Registry
	syncs    map[string]*frontend.Sync
	logger   *zap.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	records records.Store
}

// WithLogger sets the logger handed to every component.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecords replaces the diskv record store.
func WithRecords(r records.Store) Option {
	return func(o *options) { o.records = r }
}

// Open hydrates every catalog named by cfg, plus the ones already on disk.
func Open(ctx context.Context, cfg store.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("navigation: no config")
	}
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.records == nil {
		o.records = records.NewDiskv(cfg.RecordsPath())
	}

	backend := store.NewDiskvBackend(cfg.BasePath())
	existing, err := backend.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	ids := union(cfg.Sections(), existing)
	if len(ids) == 0 {
		return nil, errors.New("navigation: no catalog sections configured")
	}

	stores := store.NewRegistry()
	storeOpts := append(store.OptionsFromConfig(cfg), store.WithLogger(o.logger.Named("store")))
	if err := stores.OpenAll(ctx, backend, ids, storeOpts...); err != nil {
		_ = stores.Close(context.Background())
		return nil, err
	}

	reg, err := catalog.New(cfg.Kind(),
		catalog.WithHandlers(
			handlers.NewGroup(stores),
			handlers.NewLink(stores),
			handlers.NewModel(stores, o.records, cfg.Model(), handlers.WithModelLogger(o.logger.Named("model"))),
		),
		catalog.WithActions(handlers.SortAlphabetically(stores)),
		catalog.WithLogger(o.logger.Named("catalog")),
	)
	if err != nil {
		_ = stores.Close(context.Background())
		return nil, err
	}

	s := &Service{
		backend:  backend,
		stores:   stores,
		records:  o.records,
		registry: reg,
		syncs:    make(map[string]*frontend.Sync, len(ids)),
		logger:   o.logger,
	}
	for _, id := range stores.IDs() {
		sync, err := frontend.New(reg, id, frontend.WithLogger(o.logger.Named("frontend")))
		if err != nil {
			_ = stores.Close(context.Background())
			return nil, err
		}
		s.syncs[id] = sync
	}
	o.logger.Info("catalogs ready", zap.Strings("catalogs", stores.IDs()), zap.String("path", cfg.BasePath()))
	return s, nil
}

// Sync returns the request surface of catalogID.
func (s *Service) Sync(catalogID string) (*frontend.Sync, error) {
	sync, ok := s.syncs[catalogID]
	if !ok {
		return nil, catalog.NotFoundError{Kind: "catalog", ID: catalogID}
	}
	return sync, nil
}

// Catalogs returns the served catalog ids, sorted.
func (s *Service) Catalogs() []string {
	return s.stores.IDs()
}

// Stores exposes the tree stores, mostly for diagnostics.
func (s *Service) Stores() *store.Registry { return s.stores }

// Registry returns the node kind registry.
func (s *Service) Registry() *catalog.Registry { return s.registry }

// Records returns the record store behind model-backed items.
func (s *Service) Records() records.Store { return s.records }

// Watch subscribes to document changes on disk.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	return s.backend.Watch(ctx)
}

// Close writes pending changes of every catalog and stops the stores.
func (s *Service) Close(ctx context.Context) error {
	err := s.stores.Close(ctx)
	if err != nil {
		s.logger.Error("closing catalogs", zap.Error(err))
	}
	return err
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, id := range list {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
