package services

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ensure EditorService implements the interface.
var _ driving.EditorService = (*EditorService)(nil)

// EditorService opens page editors over one collection. Editors opened
// from the same service share a write queue.
type EditorService struct {
	store      driven.DocumentStore
	notifier   driven.Notifier
	collection string
	writes     *writer
	newID      func() string
}

// NewEditorService creates an editor service. writeRate caps store
// writes per second; zero means unlimited. notifier may be nil.
func NewEditorService(
	store driven.DocumentStore,
	notifier driven.Notifier,
	collection string,
	writeRate float64,
) *EditorService {
	return &EditorService{
		store:      store,
		notifier:   notifier,
		collection: collection,
		writes:     newWriter(store, notifier, collection, writeRate),
		newID:      uuid.NewString,
	}
}

// Open returns an editor for the document key. Call Load before editing.
func (s *EditorService) Open(key string) driving.PageEditor {
	return s.OpenPage(key)
}

// OpenPage is Open returning the concrete editor.
func (s *EditorService) OpenPage(key string) *PageEditor {
	return newPageEditor(s, key)
}

// Flush waits for every write issued by editors of this service.
func (s *EditorService) Flush() {
	s.writes.flush()
}
