package actions

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/printers"
)

// Actions lists the actions offered for a selection, or runs one when Run
// is set. An empty selection addresses the catalog root.
type Actions struct {
	IDs  []string
	Run  string
	Data map[string]any

	Sync *frontend.Sync
	Out  io.Writer
}

func (n *Actions) Do(ctx context.Context) error {
	if n.Sync == nil {
		return errors.New("can not list actions, no catalog")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	items := make([]*item.Item, 0, len(n.IDs))
	for _, id := range n.IDs {
		it, err := n.Sync.Lookup(ctx, item.ParseID(id))
		if err != nil {
			return err
		}
		items = append(items, it)
	}

	if n.Run == "" {
		printers.Actions(out, n.Sync.GetActions(ctx, items))
		return nil
	}

	res, err := n.Sync.HandleAction(ctx, n.Run, items, n.Data)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s: ", n.Run)
	return printers.Encode(out, printers.FormatJSON, res)
}
