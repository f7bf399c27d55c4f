package frontend

import (
	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/item"
)

// Node is the shape the tree widget of the UI consumes.
type Node struct {
	ID        string     `json:"id" yaml:"id"`
	Text      string     `json:"text" yaml:"text"`
	Parent    item.ID    `json:"parent" yaml:"parent"`
	Droppable bool       `json:"droppable" yaml:"droppable"`
	Data      *item.Item `json:"data" yaml:"data"`
	Children  []*Node    `json:"children,omitempty" yaml:"children,omitempty"`
}

// TypeInfo describes one registered node kind.
type TypeInfo struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	IsGroup bool   `json:"isGroup"`
}

// Catalog is the initial payload of a catalog screen.
type Catalog struct {
	Kind      string     `json:"kind"`
	ID        string     `json:"id"`
	GroupType string     `json:"groupType,omitempty"`
	ItemTypes []TypeInfo `json:"itemTypes"`
	Nodes     []*Node    `json:"nodes"`
}

// Result acknowledges operations without a payload.
type Result struct {
	OK bool `json:"ok"`
}

// UpdateTreeRequest carries a drag-and-drop commit: the new parent and its
// complete child list in display order, the moved node included. A nil
// Parent means the root level.
type UpdateTreeRequest struct {
	Parent   *item.Item   `json:"parent"`
	Siblings []*item.Item `json:"siblings"`
}

// ToNode projects one item. The item's Childs are not followed.
func (s *Sync) ToNode(it *item.Item) *Node {
	data := it.Clone()
	data.Childs = nil
	return &Node{
		ID:        string(it.ID),
		Text:      it.Name,
		Parent:    it.ParentID,
		Droppable: s.reg.IsGroup(it.Type),
		Data:      data,
	}
}

// ArrayToNode projects a flat list in the given order.
func (s *Sync) ArrayToNode(items []*item.Item) []*Node {
	out := make([]*Node, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, s.ToNode(it))
	}
	return out
}

// TreeToNode projects a nested list built by catalog.BuildTree, sorting
// every level by SortOrder.
func (s *Sync) TreeToNode(items []*item.Item) []*Node {
	sorted := append([]*item.Item(nil), items...)
	item.Sort(sorted)
	out := make([]*Node, 0, len(sorted))
	for _, it := range sorted {
		if it == nil {
			continue
		}
		n := s.ToNode(it)
		if len(it.Childs) > 0 {
			n.Children = s.TreeToNode(it.Childs)
		}
		out = append(out, n)
	}
	return out
}

func describeTypes(reg *catalog.Registry) []TypeInfo {
	hs := reg.ItemTypes()
	out := make([]TypeInfo, 0, len(hs))
	for _, h := range hs {
		out = append(out, TypeInfo{Type: h.Type(), Name: h.Name(), Icon: h.Icon(), IsGroup: h.IsGroup()})
	}
	return out
}
