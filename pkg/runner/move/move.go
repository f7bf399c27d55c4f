package move

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/printers"
)

// Move drops a node under Parent at Position, the way the tree widget
// commits a drag: the full sibling list is sent in its new order.
type Move struct {
	ID     string
	Parent string
	// Position is the index among the new siblings; negative appends.
	Position int

	Sync   *frontend.Sync
	ShowID bool
	Out    io.Writer
}

func (n *Move) Do(ctx context.Context) error {
	if n.Sync == nil {
		return errors.New("can not move, no catalog")
	}
	moving, err := n.Sync.Lookup(ctx, item.ParseID(n.ID))
	if err != nil {
		return err
	}

	var parent *item.Item
	if pid := item.ParseID(n.Parent); !pid.IsRoot() {
		if parent, err = n.Sync.Lookup(ctx, pid); err != nil {
			return err
		}
	}
	current, err := n.Sync.GetChilds(ctx, parent)
	if err != nil {
		return err
	}

	siblings := make([]*item.Item, 0, len(current)+1)
	for _, c := range current {
		if c.Data.ID != moving.ID {
			siblings = append(siblings, c.Data)
		}
	}
	siblings = Insert(siblings, moving, n.Position)

	nodes, err := n.Sync.UpdateTree(ctx, frontend.UpdateTreeRequest{Parent: parent, Siblings: siblings})
	if err != nil {
		return err
	}
	title := n.Sync.CatalogID()
	if parent != nil {
		title = parent.Name
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.Title(title)
	pp.Tree(nodes)
	return nil
}

// Insert places it at pos in list, clamping pos to the list bounds.
func Insert(list []*item.Item, it *item.Item, pos int) []*item.Item {
	if pos < 0 || pos > len(list) {
		pos = len(list)
	}
	list = append(list, nil)
	copy(list[pos+1:], list[pos:])
	list[pos] = it
	return list
}
