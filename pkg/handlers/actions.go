package handlers

import (
	"context"
	"sort"
	"strings"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/store"
)

const SortAlphabeticallyAction = "sort-alphabetically"

// SortAlphabetically returns a global action that renumbers the children of
// the selected container by name, densely from 0. With no selection the
// root level is sorted. The result is the new order of ids.
func SortAlphabetically(stores *store.Registry) catalog.Action {
	return catalog.ActionFunc{
		ActionID:   SortAlphabeticallyAction,
		ActionName: "Sort alphabetically",
		IconName:   "sort_by_alpha",
		ActionKind: catalog.ActionBasic,
		Fn: func(ctx context.Context, catalogID string, items []*item.Item, _ map[string]any) (any, error) {
			s, err := stores.Get(catalogID)
			if err != nil {
				return nil, err
			}
			parent := item.Root
			switch len(items) {
			case 0:
			case 1:
				parent = items[0].ID
			default:
				return nil, catalog.ValidationError{Reason: "sort needs at most one container"}
			}

			children := s.FindElementsByParentID(parent, "")
			sort.SliceStable(children, func(i, j int) bool {
				return strings.ToLower(children[i].Name) < strings.ToLower(children[j].Name)
			})
			order := make([]item.ID, 0, len(children))
			for i, it := range children {
				order = append(order, it.ID)
				if it.SortOrder == i {
					continue
				}
				it.SortOrder = i
				if _, err := s.SetElement(ctx, it.ID, it); err != nil {
					return nil, err
				}
			}
			return order, nil
		},
	}
}
