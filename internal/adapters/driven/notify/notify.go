// Package notify provides Notifier adapters: one that writes to the
// logger, one that records notifications for exit codes and tests, and
// a fan-out over several.
package notify

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure notifiers implement the interface.
var (
	_ driven.Notifier = Log{}
	_ driven.Notifier = (*Recorder)(nil)
	_ driven.Notifier = (*Fanout)(nil)
	_ driven.Notifier = Func(nil)
)

// Log prints notifications. Errors are always shown; info only with --verbose.
type Log struct{}

// Notify implements driven.Notifier.
func (Log) Notify(_ context.Context, n domain.Notification) {
	if n.Level == domain.LevelError {
		logger.Error("%s", n.Message())
		return
	}
	logger.Info("%s", n.Message())
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	list []domain.Notification
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify implements driven.Notifier.
func (r *Recorder) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

// Notifications returns a copy of what was recorded, oldest first.
func (r *Recorder) Notifications() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.list))
	copy(out, r.list)
	return out
}

// Failed reports whether any error-level notification was recorded.
func (r *Recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.list {
		if n.Level == domain.LevelError {
			return true
		}
	}
	return false
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = nil
}

// Fanout delivers each notification to a changing set of notifiers.
type Fanout struct {
	mu      sync.RWMutex
	next    int
	targets map[int]driven.Notifier
}

// NewFanout creates a fan-out over the given notifiers.
func NewFanout(targets ...driven.Notifier) *Fanout {
	f := &Fanout{targets: make(map[int]driven.Notifier)}
	for _, t := range targets {
		f.Add(t)
	}
	return f
}

// Add registers n and returns a function that removes it again.
func (f *Fanout) Add(n driven.Notifier) (remove func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.targets[id] = n
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.targets, id)
	}
}

// Notify implements driven.Notifier. Targets are called in the order
// they were added.
func (f *Fanout) Notify(ctx context.Context, n domain.Notification) {
	f.mu.RLock()
	ids := make([]int, 0, len(f.targets))
	for id := range f.targets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	list := make([]driven.Notifier, 0, len(ids))
	for _, id := range ids {
		list = append(list, f.targets[id])
	}
	f.mu.RUnlock()

	for _, t := range list {
		if t != nil {
			t.Notify(ctx, n)
		}
	}
}

// Func adapts a function to driven.Notifier.
type Func func(ctx context.Context, n domain.Notification)

// Notify implements driven.Notifier.
func (fn Func) Notify(ctx context.Context, n domain.Notification) {
	fn(ctx, n)
}
