package handlers

import (
	"context"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/store"
)

const GroupType = "group"

// Group is the container kind of a navigation catalog.
type Group struct {
	treeNodes
}

var _ catalog.Handler = (*Group)(nil)

func NewGroup(stores *store.Registry) *Group {
	return &Group{treeNodes{
		Base:      catalog.Base{TypeName: GroupType, DisplayName: "Group", IconName: "folder", Group: true},
		stores:    stores,
		container: GroupType,
	}}
}

func (g *Group) Create(ctx context.Context, catalogID string, data *item.Item) (*item.Item, error) {
	it := data.Strip()
	it.URLPath, it.ModelID, it.TargetBlank = "", "", false
	return g.create(ctx, catalogID, it)
}

func (g *Group) Update(ctx context.Context, catalogID string, id item.ID, data *item.Item) (*item.Item, error) {
	it := data.Strip()
	it.URLPath, it.ModelID, it.TargetBlank = "", "", false
	return g.update(ctx, catalogID, id, it)
}
