package search

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/printers"
	"tableflip.dev/navtree/pkg/runner/tree"
)

// Search prints the nodes matching Term nested under their ancestors.
type Search struct {
	Term string

	Sync   *frontend.Sync
	Format printers.Format
	ShowID bool
	Out    io.Writer
}

func (n *Search) Do(ctx context.Context) error {
	if n.Sync == nil {
		return errors.New("can not search, no catalog")
	}
	nodes, err := n.Sync.Search(ctx, n.Term)
	if err != nil {
		return err
	}
	return tree.Print(n.Out, n.Format, n.ShowID, fmt.Sprintf("%s: %q", n.Sync.CatalogID(), n.Term), nodes)
}
