// Package store keeps catalog trees in memory and mirrors each one to a
// single persisted document.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"tableflip.dev/navtree/pkg/item"
)

const (
	DefaultFlushDebounce = 150 * time.Millisecond
	DefaultWriteTimeout  = 5 * time.Second
	DefaultWriteRetries  = 3
	DefaultRetryInterval = 200 * time.Millisecond
)

type options struct {
	logger        *zap.Logger
	debounce      time.Duration
	writeTimeout  time.Duration
	writeRetries  int
	retryInterval time.Duration
}

// Option configures a TreeStore.
type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFlushDebounce sets how long deletions are batched before a write. Zero
// writes after every deletion.
func WithFlushDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithWriteTimeout bounds each write attempt.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

// WithWriteRetries sets how often a failed write is retried.
func WithWriteRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.writeRetries = n
		}
	}
}

// WithRetryInterval sets the first backoff interval between write attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.retryInterval = d
		}
	}
}

// TreeStore holds one catalog instance as a flat id-keyed map and writes it
// back as a nested document after every change.
type TreeStore struct {
	id      string
	backend Backend
	opts    options

	mu       sync.RWMutex
	elements map[item.ID]*item.Item
	byModel  map[string]map[item.ID]struct{}

	queue *flushQueue
}

// Open hydrates the store for catalogID from backend, writing an empty
// document first when none exists.
func Open(ctx context.Context, backend Backend, catalogID string, opts ...Option) (*TreeStore, error) {
	if strings.TrimSpace(catalogID) == "" {
		return nil, errors.New("store: catalog id required")
	}
	if backend == nil {
		return nil, errors.New("store: backend required")
	}
	o := options{
		logger:        zap.NewNop(),
		debounce:      DefaultFlushDebounce,
		writeTimeout:  DefaultWriteTimeout,
		writeRetries:  DefaultWriteRetries,
		retryInterval: DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With(zap.String("catalog", catalogID))

	s := &TreeStore{
		id:       catalogID,
		backend:  backend,
		opts:     o,
		elements: make(map[item.ID]*item.Item),
		byModel:  make(map[string]map[item.ID]struct{}),
	}
	s.queue = newFlushQueue(o.debounce, s.persist)

	doc, err := backend.Load(ctx, catalogID)
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		o.logger.Info("bootstrapping empty catalog document")
		if err := s.Flush(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, &PersistenceError{CatalogID: catalogID, Op: "load", Err: err}
	default:
		s.hydrate(doc)
		o.logger.Info("hydrated catalog", zap.Int("items", len(s.elements)))
	}
	return s, nil
}

func (s *TreeStore) hydrate(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.Walk(doc.Tree, item.Root, func(n *item.Node, parent item.ID) bool {
		it := n.Item.Strip()
		it.ParentID = parent
		if _, dup := s.elements[it.ID]; dup {
			s.opts.logger.Warn("duplicate item id in document", zap.String("id", string(it.ID)))
		}
		s.putLocked(it)
		return true
	})
}

// ID returns the catalog id of the store.
func (s *TreeStore) ID() string { return s.id }

// Len returns the number of items held.
func (s *TreeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// SetElement upserts a copy of it under id and waits until the write that
// includes it has finished. The write is not abandoned when ctx ends.
func (s *TreeStore) SetElement(ctx context.Context, id item.ID, it *item.Item) (*item.Item, error) {
	if it == nil {
		return nil, errors.New("store: nil item")
	}
	if id.IsRoot() {
		return nil, errors.New("store: item id required")
	}
	cp := it.Strip()
	cp.ID = id

	s.mu.Lock()
	s.putLocked(cp)
	committed := cp.Clone()
	s.mu.Unlock()

	if err := s.queue.flush(ctx); err != nil {
		return nil, err
	}
	return committed, nil
}

// RemoveElementByID deletes id and schedules a debounced write so that a
// burst of deletions produces a single write. It reports whether id existed.
func (s *TreeStore) RemoveElementByID(id item.ID) bool {
	s.mu.Lock()
	_, ok := s.elements[id]
	if ok {
		s.deleteLocked(id)
	}
	s.mu.Unlock()
	if ok {
		s.queue.schedule()
	}
	return ok
}

// Flush writes the current state and waits for the result.
func (s *TreeStore) Flush(ctx context.Context) error {
	return s.queue.flush(ctx)
}

// Drain waits until all queued and debounced writes have finished.
func (s *TreeStore) Drain(ctx context.Context) error {
	return s.queue.drain(ctx)
}

// Close drains the store; later deletions are written without debounce.
func (s *TreeStore) Close(ctx context.Context) error {
	return s.queue.close(ctx)
}

func (s *TreeStore) putLocked(it *item.Item) {
	if old, ok := s.elements[it.ID]; ok && old.ModelID != it.ModelID {
		s.unindexModelLocked(old)
	}
	s.elements[it.ID] = it
	if it.ModelID != "" {
		ids := s.byModel[it.ModelID]
		if ids == nil {
			ids = make(map[item.ID]struct{})
			s.byModel[it.ModelID] = ids
		}
		ids[it.ID] = struct{}{}
	}
}

func (s *TreeStore) deleteLocked(id item.ID) {
	if old, ok := s.elements[id]; ok {
		s.unindexModelLocked(old)
	}
	delete(s.elements, id)
}

func (s *TreeStore) unindexModelLocked(it *item.Item) {
	if it.ModelID == "" {
		return
	}
	ids := s.byModel[it.ModelID]
	delete(ids, it.ID)
	if len(ids) == 0 {
		delete(s.byModel, it.ModelID)
	}
}

func (s *TreeStore) persist() error {
	doc := &Document{Label: s.id, Tree: s.BuildTree()}
	op := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.writeTimeout)
		defer cancel()
		return s.backend.Save(ctx, doc)
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.opts.retryInterval
	policy := backoff.WithMaxRetries(bo, uint64(s.opts.writeRetries))

	start := time.Now()
	err := backoff.RetryNotify(op, policy, func(err error, next time.Duration) {
		s.opts.logger.Warn("catalog write failed, retrying", zap.Error(err), zap.Duration("backoff", next))
	})
	if err != nil {
		s.opts.logger.Error("catalog write failed; memory and disk have diverged", zap.Error(err))
		return &PersistenceError{CatalogID: s.id, Op: "save", Err: err}
	}
	s.opts.logger.Debug("catalog written", zap.Duration("took", time.Since(start)))
	return nil
}

// FindElementByID returns a copy of the item, or nil.
func (s *TreeStore) FindElementByID(id item.ID) *item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elements[id].Clone()
}

// FindElementsByParentID returns the children of parentID sorted by
// SortOrder. typ filters by item type; "" matches any type.
func (s *TreeStore) FindElementsByParentID(parentID item.ID, typ string) []*item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*item.Item, 0)
	for _, it := range s.elements {
		if it.ParentID != parentID {
			continue
		}
		if typ != "" && it.Type != typ {
			continue
		}
		out = append(out, it.Clone())
	}
	item.Sort(out)
	return out
}

// FindElementsByModelID returns every item that references the external
// record modelID.
func (s *TreeStore) FindElementsByModelID(modelID string) []*item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byModel[modelID]
	out := make([]*item.Item, 0, len(ids))
	for id := range ids {
		out = append(out, s.elements[id].Clone())
	}
	sortByID(out)
	return out
}

// GetAllElements returns every item ordered by id.
func (s *TreeStore) GetAllElements() []*item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*item.Item, 0, len(s.elements))
	for _, it := range s.elements {
		out = append(out, it.Clone())
	}
	sortByID(out)
	return out
}

// Search returns items of typ whose name contains substr, ignoring case.
// typ "" matches any type.
func (s *TreeStore) Search(substr, typ string) []*item.Item {
	needle := strings.ToLower(substr)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*item.Item, 0)
	for _, it := range s.elements {
		if typ != "" && it.Type != typ {
			continue
		}
		if strings.Contains(strings.ToLower(it.Name), needle) {
			out = append(out, it.Clone())
		}
	}
	item.Sort(out)
	return out
}

// BuildTree nests the flat map starting at the root, every level sorted by
// SortOrder. Items whose parent chain does not reach the root are left out;
// see Orphans.
func (s *TreeStore) BuildTree() []*item.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	children := make(map[item.ID][]*item.Item, len(s.elements))
	for _, it := range s.elements {
		children[it.ParentID] = append(children[it.ParentID], it)
	}
	return nest(children, item.Root)
}

func nest(children map[item.ID][]*item.Item, parent item.ID) []*item.Node {
	level := children[parent]
	nodes := make([]*item.Node, 0, len(level))
	for _, it := range level {
		n := item.NewNode(it)
		n.Children = nest(children, it.ID)
		nodes = append(nodes, n)
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return item.Less(&nodes[i].Item, &nodes[j].Item)
	})
	return nodes
}

// Orphans returns items that BuildTree cannot reach from the root.
func (s *TreeStore) Orphans() []*item.Item {
	reachable := make(map[item.ID]struct{})
	item.Walk(s.BuildTree(), item.Root, func(n *item.Node, _ item.ID) bool {
		reachable[n.ID] = struct{}{}
		return true
	})
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*item.Item, 0)
	for id, it := range s.elements {
		if _, ok := reachable[id]; !ok {
			out = append(out, it.Clone())
		}
	}
	sortByID(out)
	return out
}

func (s *TreeStore) String() string {
	return fmt.Sprintf("TreeStore(%s, %d items)", s.id, s.Len())
}

func sortByID(items []*item.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
