// Package catalog dispatches tree operations across the item types of one
// catalog kind and implements the algorithms that span several types.
package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/navtree/pkg/item"
)

// DefaultMaxDepth bounds the upward ancestor walk during search.
const DefaultMaxDepth = 256

// Registry owns the handlers of one catalog kind. A single Registry may back
// many catalog instances that share the same node kinds.
//
// Registries are configured at startup; AddActions must not race with
// lookups.
type Registry struct {
	kind      string
	handlers  map[string]Handler
	order     []string
	groupType string
	actions   []Action
	maxDepth  int
	logger    *zap.Logger

	pending []Handler
}

// Option configures a Registry.
type Option func(*Registry)

// WithHandlers registers item type handlers in order.
func WithHandlers(hs ...Handler) Option {
	return func(r *Registry) {
		r.pending = append(r.pending, hs...)
	}
}

// WithActions registers global actions.
func WithActions(as ...Action) Option {
	return func(r *Registry) {
		r.actions = append(r.actions, as...)
	}
}

// WithLogger sets the logger used for degraded reads.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxDepth caps the ancestor walk performed by Search.
func WithMaxDepth(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// New builds a registry for the given kind. It fails when two handlers
// claim the same type or when more than one handler is a group.
func New(kind string, opts ...Option) (*Registry, error) {
	r := &Registry{
		kind:     kind,
		handlers: make(map[string]Handler),
		maxDepth: DefaultMaxDepth,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, h := range r.pending {
		if err := r.register(h); err != nil {
			return nil, err
		}
	}
	r.pending = nil
	return r, nil
}

func (r *Registry) register(h Handler) error {
	typ := h.Type()
	if typ == "" {
		return fmt.Errorf("catalog %s: handler %q has no type", r.kind, h.Name())
	}
	if _, dup := r.handlers[typ]; dup {
		return fmt.Errorf("catalog %s: item type %q registered twice", r.kind, typ)
	}
	if h.IsGroup() {
		if r.groupType != "" {
			return fmt.Errorf("catalog %s: %q and %q: %w", r.kind, r.groupType, typ, ErrDuplicateGroup)
		}
		r.groupType = typ
	}
	r.handlers[typ] = h
	r.order = append(r.order, typ)
	return nil
}

// AddActions registers additional global actions.
func (r *Registry) AddActions(as ...Action) {
	r.actions = append(r.actions, as...)
}

// Kind returns the catalog kind this registry serves.
func (r *Registry) Kind() string { return r.kind }

// GroupType returns the container type, or "" when none is registered.
func (r *Registry) GroupType() string { return r.groupType }

// IsGroup reports whether typ is the container type.
func (r *Registry) IsGroup(typ string) bool {
	return r.groupType != "" && typ == r.groupType
}

// ItemTypes returns the registered handlers in registration order.
func (r *Registry) ItemTypes() []Handler {
	out := make([]Handler, 0, len(r.order))
	for _, typ := range r.order {
		out = append(out, r.handlers[typ])
	}
	return out
}

// Handler resolves the handler for typ.
func (r *Registry) Handler(typ string) (Handler, error) {
	h, ok := r.handlers[typ]
	if !ok {
		return nil, UnknownTypeError{Type: typ}
	}
	return h, nil
}

func (r *Registry) find(ctx context.Context, h Handler, catalogID string, id item.ID) (*item.Item, error) {
	it, err := h.Find(ctx, catalogID, id)
	if err != nil || it == nil {
		return nil, err
	}
	enrich(h, it)
	return it, nil
}

func (r *Registry) childs(ctx context.Context, h Handler, catalogID string, parentID item.ID) ([]*item.Item, error) {
	items, err := h.GetChilds(ctx, catalogID, parentID)
	if err != nil {
		return nil, err
	}
	enrich(h, items...)
	return items, nil
}

// Find loads one item through the handler of typ. It returns (nil, nil)
// when the handler has no such item.
func (r *Registry) Find(ctx context.Context, catalogID, typ string, id item.ID) (*item.Item, error) {
	h, err := r.Handler(typ)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, h, catalogID, id)
}

// GetChilds returns the children of parentID sorted by SortOrder. With byType
// set only that handler is asked; otherwise all handlers are merged so that
// groups and leaves interleave by position.
func (r *Registry) GetChilds(ctx context.Context, catalogID string, parentID item.ID, byType string) ([]*item.Item, error) {
	if byType != "" {
		h, ok := r.handlers[byType]
		if !ok {
			r.logger.Debug("get childs for unknown type",
				zap.String("catalog", catalogID), zap.String("type", byType))
			return []*item.Item{}, nil
		}
		items, err := r.childs(ctx, h, catalogID, parentID)
		if err != nil {
			return nil, fmt.Errorf("get %s childs of %s: %w", byType, parentID, err)
		}
		item.Sort(items)
		return items, nil
	}

	merged := make([]*item.Item, 0)
	for _, typ := range r.order {
		items, err := r.childs(ctx, r.handlers[typ], catalogID, parentID)
		if err != nil {
			return nil, fmt.Errorf("get %s childs of %s: %w", typ, parentID, err)
		}
		merged = append(merged, items...)
	}
	item.Sort(merged)
	return merged, nil
}

// Create dispatches to the handler of data.Type.
func (r *Registry) Create(ctx context.Context, catalogID string, data *item.Item) (*item.Item, error) {
	if data == nil {
		return nil, ValidationError{Reason: "missing item"}
	}
	h, err := r.Handler(data.Type)
	if err != nil {
		return nil, err
	}
	it, err := h.Create(ctx, catalogID, data)
	if err != nil {
		return nil, err
	}
	enrich(h, it)
	return it, nil
}

// Update dispatches to the handler of data.Type.
func (r *Registry) Update(ctx context.Context, catalogID string, id item.ID, data *item.Item) (*item.Item, error) {
	if data == nil {
		return nil, ValidationError{Reason: "missing item"}
	}
	h, err := r.Handler(data.Type)
	if err != nil {
		return nil, err
	}
	it, err := h.Update(ctx, catalogID, id, data)
	if err != nil {
		return nil, err
	}
	enrich(h, it)
	return it, nil
}

// UpdateModelItems dispatches to the handler of typ.
func (r *Registry) UpdateModelItems(ctx context.Context, catalogID, typ, modelID string, data *item.Item) ([]*item.Item, error) {
	h, err := r.Handler(typ)
	if err != nil {
		return nil, err
	}
	items, err := h.UpdateModelItems(ctx, catalogID, modelID, data)
	if err != nil {
		return nil, err
	}
	enrich(h, items...)
	return items, nil
}

// DeleteItem removes a single item; it does not touch descendants.
func (r *Registry) DeleteItem(ctx context.Context, catalogID, typ string, id item.ID) error {
	h, err := r.Handler(typ)
	if err != nil {
		return err
	}
	return h.DeleteItem(ctx, catalogID, id)
}

// AddTemplate returns the add form of typ.
func (r *Registry) AddTemplate(ctx context.Context, catalogID, typ string) (*Template, error) {
	h, err := r.Handler(typ)
	if err != nil {
		return nil, err
	}
	return h.AddTemplate(ctx, catalogID)
}

// EditTemplate returns the edit form of an item of typ.
func (r *Registry) EditTemplate(ctx context.Context, catalogID, typ string, id item.ID) (*Template, error) {
	h, err := r.Handler(typ)
	if err != nil {
		return nil, err
	}
	return h.EditTemplate(ctx, catalogID, id)
}

// GetActions returns the actions available for a selection. A single item
// whose type provides actions gets those; anything else gets the global set.
func (r *Registry) GetActions(_ context.Context, items []*item.Item) []Action {
	if typed := r.typeActions(items); len(typed) > 0 {
		return typed
	}
	return append([]Action(nil), r.actions...)
}

func (r *Registry) typeActions(items []*item.Item) []Action {
	if len(items) != 1 || items[0] == nil {
		return nil
	}
	h, ok := r.handlers[items[0].Type]
	if !ok {
		return nil
	}
	p, ok := h.(ActionProvider)
	if !ok {
		return nil
	}
	return p.Actions()
}

// HandleAction runs actionID against items. Type actions are searched before
// global ones; an unknown id is a NotFoundError.
func (r *Registry) HandleAction(ctx context.Context, catalogID, actionID string, items []*item.Item, data map[string]any) (any, error) {
	for _, set := range [][]Action{r.typeActions(items), r.actions} {
		for _, a := range set {
			if a.ID() == actionID {
				return a.Handle(ctx, catalogID, items, data)
			}
		}
	}
	return nil, NotFoundError{Kind: "action", ID: actionID}
}
