package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/navtree/pkg/store"
)

// Source streams document changes.
type Source interface {
	Watch(ctx context.Context) (<-chan store.Event, error)
}

// Watch prints a line per change until ctx is done.
type Watch struct {
	Source Source
	Out    io.Writer
	// Now is used for timestamps; time.Now when nil.
	Now func() time.Time
}

func (n *Watch) Do(ctx context.Context) error {
	if n.Source == nil {
		return errors.New("can not watch, no store")
	}
	events, err := n.Source.Watch(ctx)
	if err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	now := n.Now
	if now == nil {
		now = time.Now
	}
	faint := color.New(color.Faint)
	for ev := range events {
		_, _ = faint.Fprintf(out, "%s ", now().Format(time.TimeOnly))
		switch ev.Type {
		case store.EventDocumentChanged:
			_, _ = fmt.Fprintf(out, "%s %s\n", ev.Type, ev.CatalogID)
		default:
			_, _ = fmt.Fprintf(out, "%s\n", ev.Type)
		}
	}
	return nil
}
