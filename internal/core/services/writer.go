package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// writeJob is one queued store call.
type writeJob struct {
	op  string
	key string
	run func(ctx context.Context) error
}

// writer sends document writes to the store without blocking the caller.
// Jobs run one at a time in the order they were issued. Failures become
// a single notification each.
type writer struct {
	store      driven.DocumentStore
	notifier   driven.Notifier
	collection string
	limiter    *rate.Limiter

	mu      sync.Mutex
	idle    *sync.Cond
	queue   []writeJob
	running bool
	pending int
}

// newWriter creates a writer. A writeRate of zero disables throttling.
func newWriter(store driven.DocumentStore, notifier driven.Notifier, collection string, writeRate float64) *writer {
	w := &writer{
		store:      store,
		notifier:   notifier,
		collection: collection,
	}
	w.idle = sync.NewCond(&w.mu)
	if writeRate > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(writeRate), 1)
	}
	return w
}

// replace overwrites the whole document.
func (w *writer) replace(op, key string, doc domain.Document) {
	fields, err := doc.Fields()
	if err != nil {
		w.fail(op, key, err)
		return
	}
	w.dispatch(op, key, func(ctx context.Context) error {
		return w.store.Set(ctx, w.collection, key, fields)
	})
}

// patch writes value at one field path.
func (w *writer) patch(op, key, path string, value any) {
	normalized, err := domain.Normalize(value)
	if err != nil {
		w.fail(op, key, err)
		return
	}
	w.dispatch(op, key, func(ctx context.Context) error {
		return w.store.Update(ctx, w.collection, key, map[string]any{path: normalized})
	})
}

// deleteField removes one field path.
func (w *writer) deleteField(op, key, path string) {
	w.dispatch(op, key, func(ctx context.Context) error {
		return w.store.DeleteField(ctx, w.collection, key, path)
	})
}

func (w *writer) dispatch(op, key string, run func(ctx context.Context) error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending++
	w.queue = append(w.queue, writeJob{op: op, key: key, run: run})
	if !w.running {
		w.running = true
		go w.drain()
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		if len(w.queue) == 0 {
			w.running = false
			w.mu.Unlock()
			return
		}
		job := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		w.execute(job)

		w.mu.Lock()
		w.pending--
		if w.pending == 0 {
			w.idle.Broadcast()
		}
		w.mu.Unlock()
	}
}

func (w *writer) execute(job writeJob) {
	// Writes outlive the operation that issued them.
	ctx := context.Background()

	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			w.fail(job.op, job.key, err)
			return
		}
	}

	logger.Debug("write %s: %s/%s", job.op, w.collection, job.key)
	if err := job.run(ctx); err != nil {
		w.fail(job.op, job.key, err)
	}
}

func (w *writer) fail(op, key string, err error) {
	err = fmt.Errorf("%w: %w", domain.ErrStoreWrite, err)
	logger.Warn("%s (%s/%s) failed: %v", op, w.collection, key, err)
	sendNotification(w.notifier, domain.Notification{
		Level:       domain.LevelError,
		Operation:   op,
		DocumentKey: key,
		Err:         err,
	})
}

// flush blocks until every queued write has finished. Writes issued
// from other goroutines while it waits are waited for as well.
func (w *writer) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.pending > 0 {
		w.idle.Wait()
	}
}

func sendNotification(n driven.Notifier, msg domain.Notification) {
	if n == nil {
		return
	}
	n.Notify(context.Background(), msg)
}
