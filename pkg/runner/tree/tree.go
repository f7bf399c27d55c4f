package tree

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/printers"
)

// Tree prints a whole catalog.
type Tree struct {
	Sync   *frontend.Sync
	Format printers.Format
	ShowID bool
	Out    io.Writer
}

func (n *Tree) Do(ctx context.Context) error {
	if n.Sync == nil {
		return errors.New("can not print tree, no catalog")
	}
	nodes, err := n.Sync.GetTree(ctx)
	if err != nil {
		return err
	}
	return Print(n.Out, n.Format, n.ShowID, n.Sync.CatalogID(), nodes)
}

// Print writes nodes titled with the catalog id, or encodes them for json
// and yaml output.
func Print(out io.Writer, format printers.Format, showID bool, title string, nodes []*frontend.Node) error {
	switch format {
	case printers.FormatJSON, printers.FormatYAML:
		if out == nil {
			out = color.Output
		}
		if nodes == nil {
			nodes = []*frontend.Node{}
		}
		return printers.Encode(out, format, nodes)
	}
	pp := printers.PrettyPrint{ShowID: showID, Out: out}
	pp.TitleWithCount(title, count(nodes))
	pp.Tree(nodes)
	return nil
}

func count(nodes []*frontend.Node) int {
	n := 0
	for _, node := range nodes {
		n += 1 + count(node.Children)
	}
	return n
}
