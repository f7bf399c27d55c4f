package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a document change notification.
type EventType int

const (
	// EventDocumentChanged indicates the document of CatalogID was written
	// or removed.
	EventDocumentChanged EventType = iota

	// EventCatalogsInvalidated is sent when a change could not be attributed
	// to one catalog. Callers should reload everything.
	EventCatalogsInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventDocumentChanged:
		return "changed"
	case EventCatalogsInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// Event is emitted by DiskvBackend.Watch when a document changes on disk.
type Event struct {
	Type      EventType
	CatalogID string
}

const watchQuiet = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. Bursts of writes to
// the same document are coalesced into one event. The channel is closed once
// ctx is done or the watcher fails; events are dropped rather than block
// when the reader falls behind.
func (b *DiskvBackend) Watch(ctx context.Context) (<-chan Event, error) {
	if b.basePath == "" {
		return nil, errors.New("store: backend base path unknown")
	}
	docs := filepath.Join(b.basePath, documentsDir)
	if err := os.MkdirAll(docs, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure documents dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	// The base is watched too so a removed documents dir is noticed.
	for _, dir := range []string{b.basePath, docs} {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer func() { _ = watcher.Close() }()

		c := newCoalescer(watchQuiet, func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		})
		defer c.stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.add(Event{Type: EventCatalogsInvalidated})
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev, ok := b.eventFor(evt); ok {
					c.add(ev)
				}
			}
		}
	}()

	return events, nil
}

func (b *DiskvBackend) eventFor(evt fsnotify.Event) (Event, bool) {
	if id, ok := b.catalogForPath(evt.Name); ok {
		return Event{Type: EventDocumentChanged, CatalogID: id}, true
	}
	if b.isTempPath(evt.Name) || filepath.Clean(evt.Name) == filepath.Join(b.basePath, tempDir) {
		return Event{}, false
	}
	return Event{Type: EventCatalogsInvalidated}, true
}

// catalogForPath derives the catalog id from a document path.
func (b *DiskvBackend) catalogForPath(path string) (string, bool) {
	rel, err := filepath.Rel(b.basePath, path)
	if err != nil || rel == "." {
		return "", false
	}
	dir, file := filepath.Split(rel)
	if filepath.Clean(dir) != documentsDir || !strings.HasSuffix(file, documentSuffix) {
		return "", false
	}
	return decodeCatalog(strings.TrimSuffix(file, documentSuffix))
}

func (b *DiskvBackend) isTempPath(path string) bool {
	rel, err := filepath.Rel(filepath.Join(b.basePath, tempDir), path)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

// coalescer collects events and emits each distinct one once the stream
// has been quiet for delay.
type coalescer struct {
	mu      sync.Mutex
	delay   time.Duration
	emit    func(Event)
	pending map[Event]struct{}
	order   []Event
	timer   *time.Timer
	stopped bool
}

func newCoalescer(delay time.Duration, emit func(Event)) *coalescer {
	return &coalescer{delay: delay, emit: emit, pending: make(map[Event]struct{})}
}

func (c *coalescer) add(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	if _, dup := c.pending[ev]; !dup {
		c.pending[ev] = struct{}{}
		c.order = append(c.order, ev)
	}
	if c.timer == nil {
		c.timer = time.AfterFunc(c.delay, c.fire)
		return
	}
	c.timer.Reset(c.delay)
}

// fire emits under the lock so nothing is emitted after stop returns; emit
// never blocks.
func (c *coalescer) fire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	order := c.order
	c.order = nil
	c.pending = make(map[Event]struct{})
	c.timer = nil
	if c.stopped {
		return
	}
	for _, ev := range order {
		c.emit(ev)
	}
}

func (c *coalescer) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
