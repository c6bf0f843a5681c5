package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// DocumentStore persists schema-less documents grouped into collections.
// Each call is atomic at the document level. There are no cross-document
// transactions and no concurrency tokens: the last write to land wins.
type DocumentStore interface {
	// Get retrieves a document. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, collection, key string) (domain.Fields, error)

	// Set replaces the whole document, creating it if needed.
	Set(ctx context.Context, collection, key string, fields domain.Fields) error

	// Update patches the document at dotted field paths, creating the
	// document if it does not exist. Sibling fields are preserved.
	Update(ctx context.Context, collection, key string, updates map[string]any) error

	// DeleteField removes one field path. Missing documents and paths are not an error.
	DeleteField(ctx context.Context, collection, key, path string) error

	// Keys lists the document keys of a collection in sorted order.
	Keys(ctx context.Context, collection string) ([]string, error)

	// Watch calls fn with the current snapshot (nil when absent) and then
	// once per change until stop is called or ctx is done.
	Watch(ctx context.Context, collection, key string, fn func(domain.Fields)) (stop func(), err error)

	// Close releases the store's resources.
	Close() error
}
