package rename

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/printers"
)

// Rename changes the name of a node. Model-backed nodes rename their record
// and every node mirroring it.
type Rename struct {
	ID   string
	Name string

	Sync   *frontend.Sync
	ShowID bool
	Out    io.Writer
}

func (n *Rename) Do(ctx context.Context) error {
	if n.Sync == nil {
		return errors.New("can not rename, no catalog")
	}
	it, err := n.Sync.Lookup(ctx, item.ParseID(n.ID))
	if err != nil {
		return err
	}
	data := it.Clone()
	data.Name = n.Name

	nodes, err := n.Sync.UpdateItem(ctx, it, it.ModelID, data)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.TitleWithCount("Renamed", len(nodes))
	pp.Tree(nodes)
	return nil
}
