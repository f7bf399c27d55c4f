package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/printers"
)

// Add creates one node.
type Add struct {
	Type      string
	Name      string
	Parent    string
	URL       string
	Blank     bool
	ModelID   string
	SortOrder int

	Sync   *frontend.Sync
	ShowID bool
	Out    io.Writer

	// Created is set once Do succeeds.
	Created *frontend.Node
}

func (n *Add) Do(ctx context.Context) error {
	if n.Sync == nil {
		return errors.New("can not add, no catalog")
	}
	node, err := n.Sync.CreateItem(ctx, &item.Item{
		Name:        n.Name,
		Type:        n.Type,
		ParentID:    item.ParseID(n.Parent),
		SortOrder:   n.SortOrder,
		URLPath:     n.URL,
		TargetBlank: n.Blank,
		ModelID:     n.ModelID,
	})
	if err != nil {
		return err
	}
	n.Created = node

	var parent *item.Item
	if !node.Parent.IsRoot() {
		if parent, err = n.Sync.Lookup(ctx, node.Parent); err != nil {
			return err
		}
	}
	siblings, err := n.Sync.GetChilds(ctx, parent)
	if err != nil {
		return err
	}
	title := n.Sync.CatalogID()
	if parent != nil {
		title = parent.Name
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.Title(title)
	pp.Tree(siblings)
	return nil
}
