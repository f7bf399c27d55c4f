package handlers

import (
	"context"
	"net/url"
	"strings"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/store"
)

const (
	LinkType = "link"

	OpenLinkAction = "open-link"
)

// Link is a leaf pointing at a URL.
type Link struct {
	treeNodes
	actions []catalog.Action
}

var (
	_ catalog.Handler        = (*Link)(nil)
	_ catalog.ActionProvider = (*Link)(nil)
)

func NewLink(stores *store.Registry) *Link {
	l := &Link{treeNodes: treeNodes{
		Base:      catalog.Base{TypeName: LinkType, DisplayName: "Link", IconName: "link"},
		stores:    stores,
		container: GroupType,
	}}
	l.actions = []catalog.Action{catalog.ActionFunc{
		ActionID:   OpenLinkAction,
		ActionName: "Open link",
		IconName:   "open_in_new",
		ActionKind: catalog.ActionLink,
		Fn:         l.open,
	}}
	return l
}

func (l *Link) Create(ctx context.Context, catalogID string, data *item.Item) (*item.Item, error) {
	it, err := linkData(data)
	if err != nil {
		return nil, err
	}
	return l.create(ctx, catalogID, it)
}

func (l *Link) Update(ctx context.Context, catalogID string, id item.ID, data *item.Item) (*item.Item, error) {
	it, err := linkData(data)
	if err != nil {
		return nil, err
	}
	return l.update(ctx, catalogID, id, it)
}

// AddTemplate asks the UI for the dedicated link form.
func (l *Link) AddTemplate(_ context.Context, _ string) (*catalog.Template, error) {
	return &catalog.Template{Kind: catalog.TemplateLink, Path: "catalog/link"}, nil
}

func (l *Link) EditTemplate(ctx context.Context, catalogID string, id item.ID) (*catalog.Template, error) {
	it, err := l.Find(ctx, catalogID, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, catalog.NotFoundError{Kind: LinkType, ID: string(id)}
	}
	return &catalog.Template{
		Kind: catalog.TemplateLink,
		Path: "catalog/link",
		Data: map[string]any{"id": it.ID, "name": it.Name, "urlPath": it.URLPath, "targetBlank": it.TargetBlank},
	}, nil
}

func (l *Link) Actions() []catalog.Action { return l.actions }

// open resolves the stored URL of the selected link.
func (l *Link) open(ctx context.Context, catalogID string, items []*item.Item, _ map[string]any) (any, error) {
	if len(items) != 1 || items[0] == nil {
		return nil, catalog.ValidationError{Reason: "open-link needs exactly one item"}
	}
	it, err := l.Find(ctx, catalogID, items[0].ID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, catalog.NotFoundError{Kind: LinkType, ID: string(items[0].ID)}
	}
	return map[string]any{"url": it.URLPath, "targetBlank": it.TargetBlank}, nil
}

func linkData(data *item.Item) (*item.Item, error) {
	it := data.Strip()
	it.ModelID = ""
	it.URLPath = strings.TrimSpace(it.URLPath)
	if it.URLPath == "" {
		return nil, catalog.ValidationError{Field: "urlPath", Reason: "required"}
	}
	if _, err := url.Parse(it.URLPath); err != nil {
		return nil, catalog.ValidationError{Field: "urlPath", Reason: err.Error()}
	}
	return it, nil
}
