package remove

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
)

// Remove deletes a node and everything below it.
type Remove struct {
	ID string

	Sync *frontend.Sync
	Out  io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Sync == nil {
		return errors.New("can not delete, no catalog")
	}
	it, err := n.Sync.Lookup(ctx, item.ParseID(n.ID))
	if err != nil {
		return err
	}
	if _, err := n.Sync.DeleteItem(ctx, it); err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "deleted %s %q\n", it.Type, it.Name)
	return nil
}
