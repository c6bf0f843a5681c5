// Package watch fans document snapshots out to subscribers. Stores that
// see every write in-process (memory, sqlite) publish into a Hub after
// each change.
//
// Each subscriber has its own delivery goroutine and a FIFO of pending
// snapshots: the initial snapshot arrives first, then one call per
// published change in publish order.
package watch

import (
	"context"
	"sync"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Topic names the document a subscription follows.
func Topic(collection, key string) string {
	return collection + "/" + key
}

// Hub routes published snapshots to subscribers by topic.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]*subscriber
	nextID int
}

type subscriber struct {
	fn     func(domain.Fields)
	signal chan struct{}
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	pending []domain.Fields
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]*subscriber)}
}

// Subscribe registers fn for topic and queues initial as its first
// snapshot. Callers publish under the same lock they read initial with,
// so no change is missed between the read and the subscription.
// The subscription ends when stop is called or ctx is done.
func (h *Hub) Subscribe(ctx context.Context, topic string, initial domain.Fields, fn func(domain.Fields)) (stop func()) {
	s := &subscriber{
		fn:      fn,
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		pending: []domain.Fields{initial.Clone()},
	}
	s.signal <- struct{}{}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]*subscriber)
	}
	h.subs[topic][id] = s
	h.mu.Unlock()

	stop = func() {
		s.once.Do(func() {
			close(s.done)
			h.mu.Lock()
			delete(h.subs[topic], id)
			if len(h.subs[topic]) == 0 {
				delete(h.subs, topic)
			}
			h.mu.Unlock()
		})
	}

	go s.run(ctx, stop)
	return stop
}

// Publish hands a snapshot of topic to every subscriber.
func (h *Hub) Publish(topic string, fields domain.Fields) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs[topic] {
		s.offer(fields.Clone())
	}
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, subs := range h.subs {
		n += len(subs)
	}
	return n
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*subscriber
	for _, subs := range h.subs {
		for _, s := range subs {
			all = append(all, s)
		}
	}
	h.subs = make(map[string]map[int]*subscriber)
	h.mu.Unlock()

	for _, s := range all {
		s.once.Do(func() { close(s.done) })
	}
}

func (s *subscriber) offer(fields domain.Fields) {
	s.mu.Lock()
	s.pending = append(s.pending, fields)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) run(ctx context.Context, stop func()) {
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			stop()
			return
		case <-s.signal:
			for {
				s.mu.Lock()
				if len(s.pending) == 0 {
					s.mu.Unlock()
					break
				}
				fields := s.pending[0]
				s.pending[0] = nil
				s.pending = s.pending[1:]
				s.mu.Unlock()

				select {
				case <-s.done:
					return
				default:
				}
				s.fn(fields)
			}
		}
	}
}
