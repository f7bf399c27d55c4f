// Package frontend adapts a catalog registry to the request surface of the
// admin UI: node projection, drag-and-drop commits, cascading deletes and
// search results as nested trees.
package frontend

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/item"
)

// Sync serves one catalog instance.
type Sync struct {
	reg       *catalog.Registry
	catalogID string
	logger    *zap.Logger
}

// Option configures a Sync.
type Option func(*Sync)

func WithLogger(l *zap.Logger) Option {
	return func(s *Sync) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Sync for catalogID backed by reg.
func New(reg *catalog.Registry, catalogID string, opts ...Option) (*Sync, error) {
	if reg == nil {
		return nil, errors.New("frontend: registry required")
	}
	if catalogID == "" {
		return nil, errors.New("frontend: catalog id required")
	}
	s := &Sync{reg: reg, catalogID: catalogID, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("catalog", catalogID))
	return s, nil
}

// CatalogID returns the catalog instance this Sync serves.
func (s *Sync) CatalogID() string { return s.catalogID }

// Registry returns the registry behind s.
func (s *Sync) Registry() *catalog.Registry { return s.reg }

// fail turns err into an *Error and logs the ones an operator must see.
func (s *Sync) fail(op string, err error) error {
	e := classify(err)
	switch e.Code {
	case CodePersistence:
		s.logger.Error("catalog not persisted; memory and disk may differ",
			zap.String("op", op), zap.Error(err))
	case CodeInternal, CodeConflict:
		s.logger.Error("catalog operation failed", zap.String("op", op), zap.Error(err))
	default:
		s.logger.Debug("catalog operation rejected", zap.String("op", op), zap.Error(err))
	}
	return e
}

// GetCatalog returns the catalog description and its root level.
func (s *Sync) GetCatalog(ctx context.Context) (*Catalog, error) {
	items, err := s.reg.GetChilds(ctx, s.catalogID, item.Root, "")
	if err != nil {
		return nil, s.fail("getCatalog", err)
	}
	return &Catalog{
		Kind:      s.reg.Kind(),
		ID:        s.catalogID,
		GroupType: s.reg.GroupType(),
		ItemTypes: describeTypes(s.reg),
		Nodes:     s.ArrayToNode(items),
	}, nil
}

// GetChilds returns the children of data, or the root level when data is
// nil. Children of an item that no longer exists are empty.
func (s *Sync) GetChilds(ctx context.Context, data *item.Item) ([]*Node, error) {
	parent := item.Root
	if data != nil {
		parent = data.ID
	}
	items, err := s.reg.GetChilds(ctx, s.catalogID, parent, "")
	if err != nil {
		return nil, s.fail("getChilds", err)
	}
	return s.ArrayToNode(items), nil
}

// Lookup finds the item with id whatever its type.
func (s *Sync) Lookup(ctx context.Context, id item.ID) (*item.Item, error) {
	it, err := s.find(ctx, id)
	if err != nil {
		return nil, s.fail("lookup", err)
	}
	return it, nil
}

func (s *Sync) find(ctx context.Context, id item.ID) (*item.Item, error) {
	if id.IsRoot() {
		return nil, catalog.ValidationError{Field: "id", Reason: "root is not an item"}
	}
	for _, h := range s.reg.ItemTypes() {
		it, err := s.reg.Find(ctx, s.catalogID, h.Type(), id)
		if err != nil {
			return nil, err
		}
		if it != nil {
			return it, nil
		}
	}
	return nil, catalog.NotFoundError{Kind: "item", ID: string(id)}
}

// GetTree returns the whole catalog as nested nodes, every level ordered
// like GetChilds.
func (s *Sync) GetTree(ctx context.Context) ([]*Node, error) {
	nodes, err := s.subtree(ctx, item.Root, make(map[item.ID]struct{}))
	if err != nil {
		return nil, s.fail("getTree", err)
	}
	return nodes, nil
}

func (s *Sync) subtree(ctx context.Context, parent item.ID, visited map[item.ID]struct{}) ([]*Node, error) {
	items, err := s.reg.GetChilds(ctx, s.catalogID, parent, "")
	if err != nil {
		return nil, err
	}
	nodes := s.ArrayToNode(items)
	for _, n := range nodes {
		if _, loop := visited[n.Data.ID]; loop {
			return nil, catalog.CorruptTreeError{ID: n.ID, Reason: "item is its own descendant"}
		}
		visited[n.Data.ID] = struct{}{}
		if !n.Droppable {
			continue
		}
		if n.Children, err = s.subtree(ctx, n.Data.ID, visited); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// Search returns the hits for term nested under their ancestors, with the
// siblings of every ancestor.
func (s *Sync) Search(ctx context.Context, term string) ([]*Node, error) {
	items, err := s.reg.Search(ctx, s.catalogID, term, true)
	if err != nil {
		return nil, s.fail("search", err)
	}
	return s.TreeToNode(catalog.BuildTree(items)), nil
}

// CreateItem creates data through the handler of its type.
func (s *Sync) CreateItem(ctx context.Context, data *item.Item) (*Node, error) {
	it, err := s.reg.Create(ctx, s.catalogID, data)
	if err != nil {
		return nil, s.fail("createItem", err)
	}
	return s.ToNode(it), nil
}

// UpdateTree commits a drag-and-drop: every sibling is moved under the new
// parent and renumbered 0..n-1 in the given order, one update per sibling.
// The first failing update stops the commit; siblings before it keep their
// new position.
func (s *Sync) UpdateTree(ctx context.Context, req UpdateTreeRequest) ([]*Node, error) {
	parent := item.Root
	if req.Parent != nil && !req.Parent.ID.IsRoot() {
		// The stored type decides, not the one sent along with the request.
		stored, err := s.find(ctx, req.Parent.ID)
		if err != nil {
			return nil, s.fail("updateTree", err)
		}
		if !s.reg.IsGroup(stored.Type) {
			return nil, s.fail("updateTree", catalog.ValidationError{
				Field:  "parent",
				Reason: "items can only be dropped into a " + s.reg.GroupType(),
			})
		}
		parent = stored.ID
	}

	seen := make(map[item.ID]struct{}, len(req.Siblings))
	out := make([]*Node, 0, len(req.Siblings))
	for i, sib := range req.Siblings {
		if sib == nil {
			return out, s.fail("updateTree", catalog.ValidationError{Field: "siblings", Reason: "nil sibling"})
		}
		if _, dup := seen[sib.ID]; dup {
			return out, s.fail("updateTree", catalog.ValidationError{Field: "siblings", Reason: "duplicate id " + string(sib.ID)})
		}
		seen[sib.ID] = struct{}{}

		moved := sib.Strip()
		moved.SortOrder = i
		moved.ParentID = parent
		updated, err := s.reg.Update(ctx, s.catalogID, moved.ID, moved)
		if err != nil {
			return out, s.fail("updateTree", err)
		}
		out = append(out, s.ToNode(updated))
	}
	return out, nil
}

// UpdateItem saves data for it. With a modelID the change is propagated to
// every node mirroring that record instead.
func (s *Sync) UpdateItem(ctx context.Context, it *item.Item, modelID string, data *item.Item) ([]*Node, error) {
	if it == nil || data == nil {
		return nil, s.fail("updateItem", catalog.ValidationError{Reason: "missing item"})
	}
	if modelID != "" {
		items, err := s.reg.UpdateModelItems(ctx, s.catalogID, it.Type, modelID, data)
		if err != nil {
			return nil, s.fail("updateItem", err)
		}
		return s.ArrayToNode(items), nil
	}
	patch := data.Clone()
	if patch.Type == "" {
		patch.Type = it.Type
	}
	updated, err := s.reg.Update(ctx, s.catalogID, it.ID, patch)
	if err != nil {
		return nil, s.fail("updateItem", err)
	}
	return []*Node{s.ToNode(updated)}, nil
}

// DeleteItem removes it and all of its descendants, deepest first.
// Deleting an item that is already gone succeeds.
func (s *Sync) DeleteItem(ctx context.Context, it *item.Item) (*Result, error) {
	if it == nil || it.ID.IsRoot() {
		return nil, s.fail("deleteItem", catalog.ValidationError{Reason: "missing item"})
	}
	if err := s.cascade(ctx, it, make(map[item.ID]struct{})); err != nil {
		return nil, s.fail("deleteItem", err)
	}
	return &Result{OK: true}, nil
}

func (s *Sync) cascade(ctx context.Context, it *item.Item, visited map[item.ID]struct{}) error {
	if _, loop := visited[it.ID]; loop {
		return catalog.CorruptTreeError{ID: string(it.ID), Reason: "item is its own descendant"}
	}
	visited[it.ID] = struct{}{}

	childs, err := s.reg.GetChilds(ctx, s.catalogID, it.ID, "")
	if err != nil {
		return err
	}
	for _, c := range childs {
		if err := s.cascade(ctx, c, visited); err != nil {
			return err
		}
	}
	return s.reg.DeleteItem(ctx, s.catalogID, it.Type, it.ID)
}

// GetActions lists the actions offered for items.
func (s *Sync) GetActions(ctx context.Context, items []*item.Item) []catalog.ActionInfo {
	return catalog.Describe(s.reg.GetActions(ctx, items))
}

// HandleAction runs actionID against items.
func (s *Sync) HandleAction(ctx context.Context, actionID string, items []*item.Item, data map[string]any) (any, error) {
	res, err := s.reg.HandleAction(ctx, s.catalogID, actionID, items, data)
	if err != nil {
		return nil, s.fail("handleAction", err)
	}
	return res, nil
}

// AddTemplate returns the form to add an item of typ.
func (s *Sync) AddTemplate(ctx context.Context, typ string) (*catalog.Template, error) {
	t, err := s.reg.AddTemplate(ctx, s.catalogID, typ)
	if err != nil {
		return nil, s.fail("getAddTemplate", err)
	}
	return t, nil
}

// EditTemplate returns the form to edit it.
func (s *Sync) EditTemplate(ctx context.Context, it *item.Item) (*catalog.Template, error) {
	if it == nil {
		return nil, s.fail("getEditTemplate", catalog.ValidationError{Reason: "missing item"})
	}
	t, err := s.reg.EditTemplate(ctx, s.catalogID, it.Type, it.ID)
	if err != nil {
		return nil, s.fail("getEditTemplate", err)
	}
	return t, nil
}
