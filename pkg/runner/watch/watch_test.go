package watch

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/navtree/pkg/store"
)

type fakeSource struct {
	events []store.Event
}

func (f fakeSource) Watch(ctx context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func TestWatchPrintsEvents(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	w := Watch{
		Source: fakeSource{events: []store.Event{
			{Type: store.EventDocumentChanged, CatalogID: "main"},
			{Type: store.EventCatalogsInvalidated},
		}},
		Out: &buf,
		Now: func() time.Time { return time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC) },
	}
	if err := w.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	want := "09:30:00 changed main\n09:30:00 invalidated\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWatchRequiresSource(t *testing.T) {
	if err := (&Watch{}).Do(context.Background()); err == nil {
		t.Fatal("expected error without source")
	}
}
