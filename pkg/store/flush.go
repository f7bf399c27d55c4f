package store

import (
	"context"
	"sync"
	"time"
)

// flushQueue serializes writes of one store. Requests join the next batch;
// at most one write runs at a time and batches run in submission order. The
// write function snapshots state when it starts, so anything changed while
// a write is in flight is carried by the following batch.
type flushQueue struct {
	write    func() error
	debounce time.Duration

	mu      sync.Mutex
	running bool
	pending bool
	waiters []chan error
	timer   *time.Timer
	gen     uint64
	closed  bool
	lastErr error
	// idle is nil while the queue is idle and closed when it becomes idle.
	idle chan struct{}
}

func newFlushQueue(debounce time.Duration, write func() error) *flushQueue {
	return &flushQueue{write: write, debounce: debounce}
}

// request asks for a write and returns a channel receiving its result.
func (q *flushQueue) request() <-chan error {
	ch := make(chan error, 1)
	q.mu.Lock()
	q.pending = true
	q.waiters = append(q.waiters, ch)
	q.startLocked()
	q.mu.Unlock()
	return ch
}

// flush requests a write and waits for it. Leaving early through ctx does
// not cancel the write.
func (q *flushQueue) flush(ctx context.Context) error {
	ch := q.request()
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// schedule requests a write after the debounce window; every call restarts
// the window.
func (q *flushQueue) schedule() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.debounce <= 0 {
		q.pending = true
		q.startLocked()
		return
	}
	if q.timer != nil {
		q.timer.Stop()
	}
	q.gen++
	gen := q.gen
	q.timer = time.AfterFunc(q.debounce, func() { q.fire(gen) })
	q.busyLocked()
}

func (q *flushQueue) fire(gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.gen || q.timer == nil {
		return
	}
	q.timer = nil
	q.pending = true
	q.startLocked()
}

// drain promotes a pending debounce and waits until no write is queued or
// running. It returns the result of the last write.
func (q *flushQueue) drain(ctx context.Context) error {
	q.mu.Lock()
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
		q.gen++
		q.pending = true
		q.startLocked()
	}
	idle := q.idle
	q.mu.Unlock()

	if idle != nil {
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastErr
}

// close makes later schedule calls write immediately and drains.
func (q *flushQueue) close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	return q.drain(ctx)
}

func (q *flushQueue) startLocked() {
	q.busyLocked()
	if q.running {
		return
	}
	q.running = true
	go q.run()
}

func (q *flushQueue) run() {
	for {
		q.mu.Lock()
		if !q.pending {
			q.running = false
			q.idleLocked()
			q.mu.Unlock()
			return
		}
		q.pending = false
		batch := q.waiters
		q.waiters = nil
		q.mu.Unlock()

		err := q.write()

		q.mu.Lock()
		q.lastErr = err
		q.mu.Unlock()
		for _, ch := range batch {
			ch <- err
		}
	}
}

func (q *flushQueue) busyLocked() {
	if q.idle == nil {
		q.idle = make(chan struct{})
	}
}

func (q *flushQueue) idleLocked() {
	if q.running || q.pending || q.timer != nil || q.idle == nil {
		return
	}
	close(q.idle)
	q.idle = nil
}
