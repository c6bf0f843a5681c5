package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/watch"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Useful for tests and for throwaway sessions.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]domain.Fields
	hub         *watch.Hub
	closed      bool
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]domain.Fields),
		hub:         watch.NewHub(),
	}
}

// Get retrieves a document.
func (s *DocumentStore) Get(_ context.Context, collection, key string) (domain.Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	doc, ok := s.collections[collection][key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc.Clone(), nil
}

// Set replaces the whole document.
func (s *DocumentStore) Set(_ context.Context, collection, key string, fields domain.Fields) error {
	doc, err := domain.ToFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	s.put(collection, key, doc)
	return nil
}

// Update patches field paths, creating the document if needed.
func (s *DocumentStore) Update(_ context.Context, collection, key string, updates map[string]any) error {
	normalized, err := domain.ToFields(updates)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}

	doc := s.collections[collection][key].Clone()
	if doc == nil {
		doc = domain.Fields{}
	}
	if err := domain.ApplyUpdates(doc, normalized); err != nil {
		return fmt.Errorf("patching %s/%s: %w", collection, key, err)
	}
	s.put(collection, key, doc)
	return nil
}

// DeleteField removes one field path.
func (s *DocumentStore) DeleteField(_ context.Context, collection, key, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}

	doc, ok := s.collections[collection][key]
	if !ok {
		return nil
	}
	doc = doc.Clone()
	if err := domain.DeletePath(doc, path); err != nil {
		return err
	}
	s.put(collection, key, doc)
	return nil
}

// Keys lists a collection's document keys in sorted order.
func (s *DocumentStore) Keys(_ context.Context, collection string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}

	keys := make([]string, 0, len(s.collections[collection]))
	for k := range s.collections[collection] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch follows one document.
func (s *DocumentStore) Watch(
	ctx context.Context,
	collection, key string,
	fn func(domain.Fields),
) (func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	return s.hub.Subscribe(ctx, watch.Topic(collection, key), s.collections[collection][key], fn), nil
}

// Close ends all watches. Later calls fail with domain.ErrStoreClosed.
func (s *DocumentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.hub.Close()
	return nil
}

// put stores doc and publishes it (caller must hold lock).
func (s *DocumentStore) put(collection, key string, doc domain.Fields) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]domain.Fields)
	}
	s.collections[collection][key] = doc
	s.hub.Publish(watch.Topic(collection, key), doc)
}
