package item

import "sort"

// Node is the nested form of an item as written to the persisted document.
type Node struct {
	Item     `yaml:",inline"`
	Children []*Node `json:"children" yaml:"children"`
}

// NewNode wraps a copy of it without transient fields.
func NewNode(it *Item) *Node {
	return &Node{Item: *it.Strip(), Children: []*Node{}}
}

// SortNodes orders every sibling array, at all depths, by SortOrder.
func SortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return Less(&nodes[i].Item, &nodes[j].Item)
	})
	for _, n := range nodes {
		SortNodes(n.Children)
	}
}

// Walk visits nodes depth first, passing the id of the enclosing node.
// Returning false from fn skips the node's children.
func Walk(nodes []*Node, parent ID, fn func(n *Node, parent ID) bool) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if fn(n, parent) {
			Walk(n.Children, n.ID, fn)
		}
	}
}
