package catalog

import "tableflip.dev/navtree/pkg/item"

// BuildTree nests a flat list of items through their Childs field. Items are
// copied; the input is left untouched. An item whose parent is not in the
// list becomes a root of the result. Every level is sorted by SortOrder.
func BuildTree(items []*item.Item) []*item.Item {
	index := make(map[item.ID]*item.Item, len(items))
	ordered := make([]*item.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, dup := index[it.ID]; dup {
			continue
		}
		cp := it.Clone()
		cp.Childs = []*item.Item{}
		index[cp.ID] = cp
		ordered = append(ordered, cp)
	}

	roots := make([]*item.Item, 0)
	for _, it := range ordered {
		parent, ok := index[it.ParentID]
		if it.ParentID.IsRoot() || !ok || parent == it {
			roots = append(roots, it)
			continue
		}
		parent.Childs = append(parent.Childs, it)
	}
	sortLevels(roots, make(map[item.ID]struct{}))
	return roots
}

func sortLevels(level []*item.Item, seen map[item.ID]struct{}) {
	item.Sort(level)
	for _, it := range level {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		sortLevels(it.Childs, seen)
	}
}
