package catalog

import (
	"context"

	"tableflip.dev/navtree/pkg/item"
)

// Handler implements storage and search for one kind of tree node.
//
// Find returns (nil, nil) when the item does not exist. Handlers do not
// cascade deletes; removing a group's descendants is the caller's job.
type Handler interface {
	Type() string
	Name() string
	Icon() string
	IsGroup() bool

	Find(ctx context.Context, catalogID string, id item.ID) (*item.Item, error)
	Create(ctx context.Context, catalogID string, data *item.Item) (*item.Item, error)
	Update(ctx context.Context, catalogID string, id item.ID, data *item.Item) (*item.Item, error)
	// UpdateModelItems propagates a change of an external record to every
	// tree node that references it.
	UpdateModelItems(ctx context.Context, catalogID string, modelID string, data *item.Item) ([]*item.Item, error)
	DeleteItem(ctx context.Context, catalogID string, id item.ID) error
	GetChilds(ctx context.Context, catalogID string, parentID item.ID) ([]*item.Item, error)
	Search(ctx context.Context, catalogID string, query string) ([]*item.Item, error)

	AddTemplate(ctx context.Context, catalogID string) (*Template, error)
	EditTemplate(ctx context.Context, catalogID string, id item.ID) (*Template, error)
}

// ActionProvider is implemented by handlers that contribute actions for
// items of their own type.
type ActionProvider interface {
	Actions() []Action
}

// TemplateKind tells the UI how to present an add or edit form.
type TemplateKind string

const (
	TemplateComponent TemplateKind = "component"
	TemplateLink      TemplateKind = "link"
	TemplateModel     TemplateKind = "model"
)

// Template describes the form the UI should show to add or edit an item.
type Template struct {
	Kind TemplateKind   `json:"type"`
	Path string         `json:"path"`
	Data map[string]any `json:"data,omitempty"`
}

// Base carries the static description shared by every handler. Embed it and
// implement the storage methods.
type Base struct {
	TypeName    string
	DisplayName string
	IconName    string
	Group       bool
}

func (b Base) Type() string  { return b.TypeName }
func (b Base) Name() string  { return b.DisplayName }
func (b Base) Icon() string  { return b.IconName }
func (b Base) IsGroup() bool { return b.Group }

// AddTemplate returns the generic component form for the type.
func (b Base) AddTemplate(_ context.Context, _ string) (*Template, error) {
	return &Template{
		Kind: TemplateComponent,
		Path: "catalog/" + b.TypeName,
		Data: map[string]any{"type": b.TypeName},
	}, nil
}

// EditTemplate returns the generic component form for an existing item.
func (b Base) EditTemplate(_ context.Context, _ string, id item.ID) (*Template, error) {
	return &Template{
		Kind: TemplateComponent,
		Path: "catalog/" + b.TypeName,
		Data: map[string]any{"type": b.TypeName, "id": id},
	}, nil
}

// UpdateModelItems refuses the call for kinds that do not mirror external
// records.
func (b Base) UpdateModelItems(_ context.Context, _ string, _ string, _ *item.Item) ([]*item.Item, error) {
	return nil, ValidationError{Field: "modelId", Reason: "type " + b.TypeName + " does not mirror records"}
}

// enrich stamps icon and type of h onto every item.
func enrich(h Handler, items ...*item.Item) {
	for _, it := range items {
		if it == nil {
			continue
		}
		it.Icon = h.Icon()
		it.Type = h.Type()
	}
}
