package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/navtree/pkg/item"
)

// Search returns every item whose name contains query, marked, together
// with the groups on the path from each hit up to the root. With withExtras
// the one-level children of every ancestor are included as well, so the UI
// can show siblings around a hit.
//
// The result is flat; BuildTree turns it into a nested view. A hit always
// wins over an ancestor or extra with the same id.
func (r *Registry) Search(ctx context.Context, catalogID, query string, withExtras bool) ([]*item.Item, error) {
	var matches []*item.Item
	for _, typ := range r.order {
		h := r.handlers[typ]
		found, err := h.Search(ctx, catalogID, query)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", typ, err)
		}
		enrich(h, found...)
		for _, it := range found {
			it.Marked = true
		}
		matches = append(matches, found...)
	}

	w := &ancestorWalk{
		r:          r,
		ctx:        ctx,
		catalogID:  catalogID,
		withExtras: withExtras,
		collected:  make(map[item.ID]struct{}),
	}
	if group, ok := r.handlers[r.groupType]; ok {
		w.group = group
		for _, m := range matches {
			if err := w.from(m); err != nil {
				return nil, err
			}
		}
	}

	seen := make(map[item.ID]struct{}, len(matches)+len(w.acc))
	out := make([]*item.Item, 0, len(matches)+len(w.acc))
	for _, set := range [][]*item.Item{matches, w.acc} {
		for _, it := range set {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			out = append(out, it)
		}
	}
	return out, nil
}

type ancestorWalk struct {
	r          *Registry
	ctx        context.Context
	catalogID  string
	group      Handler
	withExtras bool

	acc       []*item.Item
	collected map[item.ID]struct{}
}

// from walks upward from a hit through the group handler. The walk stops at
// the root, at an unresolvable parent, or at an ancestor an earlier walk
// already collected. A revisited id or a chain longer than the registry's
// max depth fails the whole search.
func (w *ancestorWalk) from(hit *item.Item) error {
	visited := map[item.ID]struct{}{hit.ID: {}}
	parentID := hit.ParentID
	for depth := 0; !parentID.IsRoot(); depth++ {
		if depth >= w.r.maxDepth {
			return w.corrupt(parentID, fmt.Sprintf("ancestor chain deeper than %d", w.r.maxDepth))
		}
		if _, loop := visited[parentID]; loop {
			return w.corrupt(parentID, "parent chain loops")
		}
		visited[parentID] = struct{}{}
		if _, done := w.collected[parentID]; done {
			return nil
		}

		parent, err := w.r.find(w.ctx, w.group, w.catalogID, parentID)
		if err != nil {
			w.r.logger.Warn("search: ancestor lookup failed",
				zap.String("catalog", w.catalogID),
				zap.String("id", string(parentID)),
				zap.Error(err))
			return nil
		}
		if parent == nil {
			return nil
		}
		w.collected[parentID] = struct{}{}
		w.acc = append(w.acc, parent)

		if w.withExtras {
			extras, err := w.r.GetChilds(w.ctx, w.catalogID, parent.ID, "")
			if err != nil {
				w.r.logger.Warn("search: sibling lookup failed",
					zap.String("catalog", w.catalogID),
					zap.String("id", string(parent.ID)),
					zap.Error(err))
			}
			w.acc = append(w.acc, extras...)
		}
		parentID = parent.ParentID
	}
	return nil
}

func (w *ancestorWalk) corrupt(id item.ID, reason string) error {
	err := CorruptTreeError{ID: string(id), Reason: reason}
	w.r.logger.Error("search: corrupt tree", zap.String("catalog", w.catalogID), zap.Error(err))
	return err
}
