// Package handlers provides the node kinds of a navigation catalog: groups,
// links and items that mirror an external record. All of them keep their
// nodes in the catalog's TreeStore.
package handlers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/store"
)

// treeNodes implements the storage half of catalog.Handler on top of the
// TreeStore registered for each catalog id.
type treeNodes struct {
	catalog.Base
	stores *store.Registry
	// container is the only type allowed to hold children.
	container string
}

func (n *treeNodes) store(catalogID string) (*store.TreeStore, error) {
	return n.stores.Get(catalogID)
}

func (n *treeNodes) Find(_ context.Context, catalogID string, id item.ID) (*item.Item, error) {
	s, err := n.store(catalogID)
	if err != nil {
		return nil, err
	}
	it := s.FindElementByID(id)
	if it == nil || it.Type != n.TypeName {
		return nil, nil
	}
	return it, nil
}

func (n *treeNodes) GetChilds(_ context.Context, catalogID string, parentID item.ID) ([]*item.Item, error) {
	s, err := n.store(catalogID)
	if err != nil {
		return nil, err
	}
	return s.FindElementsByParentID(parentID, n.TypeName), nil
}

func (n *treeNodes) Search(_ context.Context, catalogID string, query string) ([]*item.Item, error) {
	s, err := n.store(catalogID)
	if err != nil {
		return nil, err
	}
	return s.Search(query, n.TypeName), nil
}

// DeleteItem removes the node only. Deleting a missing node is not an error.
func (n *treeNodes) DeleteItem(_ context.Context, catalogID string, id item.ID) error {
	s, err := n.store(catalogID)
	if err != nil {
		return err
	}
	if it := s.FindElementByID(id); it != nil && it.Type != n.TypeName {
		return catalog.NotFoundError{Kind: n.TypeName, ID: string(id)}
	}
	s.RemoveElementByID(id)
	return nil
}

// create stores a new node of this kind. A SortOrder of zero places the
// node after its current siblings.
func (n *treeNodes) create(ctx context.Context, catalogID string, data *item.Item) (*item.Item, error) {
	s, err := n.store(catalogID)
	if err != nil {
		return nil, err
	}
	it := data.Strip()
	it.Type = n.TypeName
	it.Icon = n.IconName
	it.Name = strings.TrimSpace(it.Name)
	if it.Name == "" {
		return nil, catalog.ValidationError{Field: "name", Reason: "required"}
	}
	if it.ID.IsRoot() {
		it.ID = item.ID(uuid.NewString())
	} else if s.FindElementByID(it.ID) != nil {
		return nil, catalog.ValidationError{Field: "id", Reason: "already in use: " + string(it.ID)}
	}
	if err := n.checkParent(s, it); err != nil {
		return nil, err
	}
	if it.SortOrder == 0 {
		it.SortOrder = nextSortOrder(s, it.ParentID)
	}
	return s.SetElement(ctx, it.ID, it)
}

// update replaces the stored node with data, keeping id and kind.
func (n *treeNodes) update(ctx context.Context, catalogID string, id item.ID, data *item.Item) (*item.Item, error) {
	s, err := n.store(catalogID)
	if err != nil {
		return nil, err
	}
	old := s.FindElementByID(id)
	if old == nil || old.Type != n.TypeName {
		return nil, catalog.NotFoundError{Kind: n.TypeName, ID: string(id)}
	}
	it := data.Strip()
	it.ID = id
	it.Type = n.TypeName
	it.Icon = n.IconName
	it.Name = strings.TrimSpace(it.Name)
	if it.Name == "" {
		it.Name = old.Name
	}
	if it.ParentID != old.ParentID {
		if err := n.checkParent(s, it); err != nil {
			return nil, err
		}
	}
	return s.SetElement(ctx, id, it)
}

func (n *treeNodes) checkParent(s *store.TreeStore, it *item.Item) error {
	if it.ParentID.IsRoot() {
		return nil
	}
	if it.ParentID == it.ID {
		return catalog.ValidationError{Field: "parentId", Reason: "item cannot contain itself"}
	}
	p := s.FindElementByID(it.ParentID)
	if p == nil {
		return catalog.ValidationError{Field: "parentId", Reason: "no such parent: " + string(it.ParentID)}
	}
	if p.Type != n.container {
		return catalog.ValidationError{Field: "parentId", Reason: "only a " + n.container + " can hold children, " + string(p.ID) + " is a " + p.Type}
	}
	// Refuse to move a node below one of its own descendants.
	for hops := s.Len(); p != nil && !p.ParentID.IsRoot() && hops > 0; hops-- {
		if p.ParentID == it.ID {
			return catalog.ValidationError{Field: "parentId", Reason: "item cannot contain itself"}
		}
		p = s.FindElementByID(p.ParentID)
	}
	return nil
}

func nextSortOrder(s *store.TreeStore, parentID item.ID) int {
	siblings := s.FindElementsByParentID(parentID, "")
	if len(siblings) == 0 {
		return 0
	}
	return siblings[len(siblings)-1].SortOrder + 1
}
