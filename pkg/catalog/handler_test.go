package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"tableflip.dev/navtree/pkg/item"
)

// memHandler keeps items of one type in memory, ignoring the catalog id.
type memHandler struct {
	Base
	mu      sync.Mutex
	items   map[item.ID]*item.Item
	actions []Action
	failGet bool
	deleted []item.ID
}

func newMemHandler(typ string, group bool, items ...*item.Item) *memHandler {
	h := &memHandler{
		Base:  Base{TypeName: typ, DisplayName: typ, IconName: typ + "-icon", Group: group},
		items: make(map[item.ID]*item.Item),
	}
	for _, it := range items {
		cp := it.Clone()
		cp.Type = typ
		h.items[cp.ID] = cp
	}
	return h
}

var errBackend = errors.New("backend down")

func (h *memHandler) Find(_ context.Context, _ string, id item.ID) (*item.Item, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.items[id].Clone(), nil
}

func (h *memHandler) Create(_ context.Context, _ string, data *item.Item) (*item.Item, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if data.Name == "" {
		return nil, ValidationError{Field: "name", Reason: "required"}
	}
	cp := data.Strip()
	h.items[cp.ID] = cp
	return cp.Clone(), nil
}

func (h *memHandler) Update(_ context.Context, _ string, id item.ID, data *item.Item) (*item.Item, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.items[id]; !ok {
		return nil, NotFoundError{Kind: h.TypeName, ID: string(id)}
	}
	cp := data.Strip()
	cp.ID = id
	h.items[id] = cp
	return cp.Clone(), nil
}

func (h *memHandler) DeleteItem(_ context.Context, _ string, id item.ID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.items, id)
	h.deleted = append(h.deleted, id)
	return nil
}

func (h *memHandler) GetChilds(_ context.Context, _ string, parentID item.ID) ([]*item.Item, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failGet {
		return nil, errBackend
	}
	out := []*item.Item{}
	for _, it := range h.items {
		if it.ParentID == parentID {
			out = append(out, it.Clone())
		}
	}
	return out, nil
}

func (h *memHandler) Search(_ context.Context, _ string, query string) ([]*item.Item, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := []*item.Item{}
	for _, it := range h.items {
		if strings.Contains(strings.ToLower(it.Name), strings.ToLower(query)) {
			out = append(out, it.Clone())
		}
	}
	item.Sort(out)
	return out, nil
}

func (h *memHandler) Actions() []Action { return h.actions }
