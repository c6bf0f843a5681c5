package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure ContentService implements the interface.
var _ driving.ContentService = (*ContentService)(nil)

// ContentService reads documents for display and moves them in and out
// of the store in bulk.
type ContentService struct {
	store      driven.DocumentStore
	collection string
}

// NewContentService creates a content service over one collection.
func NewContentService(store driven.DocumentStore, collection string) *ContentService {
	return &ContentService{
		store:      store,
		collection: collection,
	}
}

// Collection returns the collection this service reads.
func (s *ContentService) Collection() string {
	return s.collection
}

// Get returns a document. An absent document is an empty one.
func (s *ContentService) Get(ctx context.Context, key string) (domain.Document, error) {
	fields, err := s.store.Get(ctx, s.collection, key)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewDocument(), nil
	}
	if err != nil {
		return domain.NewDocument(), fmt.Errorf("%w: %w", domain.ErrStoreRead, err)
	}
	return domain.DecodeDocument(fields)
}

// List returns the document keys in sorted order.
func (s *ContentService) List(ctx context.Context) ([]string, error) {
	keys, err := s.store.Keys(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreRead, err)
	}
	return keys, nil
}

// Watch pushes the document to fn on subscribe and on every change.
// Snapshots that fail to decode are skipped.
func (s *ContentService) Watch(ctx context.Context, key string, fn func(domain.Document)) (func(), error) {
	return s.store.Watch(ctx, s.collection, key, func(fields domain.Fields) {
		doc, err := domain.DecodeDocument(fields)
		if err != nil {
			logger.Warn("watch %s/%s: skipping snapshot: %v", s.collection, key, err)
			return
		}
		fn(doc)
	})
}

// Export writes a document to w.
func (s *ContentService) Export(ctx context.Context, key string, format driving.ExportFormat, w io.Writer) error {
	doc, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	fields, err := doc.Fields()
	if err != nil {
		return fmt.Errorf("encoding document %q: %w", key, err)
	}

	switch format {
	case driving.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	case driving.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(fields)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: export format %q", domain.ErrInvalidInput, format)
}

// Import replaces a document with the one read from r. The input is
// decoded fully before anything is written.
func (s *ContentService) Import(ctx context.Context, key string, format driving.ExportFormat, r io.Reader) error {
	var raw map[string]any

	switch format {
	case driving.FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return fmt.Errorf("%w: decoding json: %v", domain.ErrInvalidInput, err)
		}
	case driving.FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			return fmt.Errorf("%w: decoding yaml: %v", domain.ErrInvalidInput, err)
		}
	default:
		return fmt.Errorf("%w: import format %q", domain.ErrInvalidInput, format)
	}

	fields, err := domain.ToFields(raw)
	if err != nil {
		return err
	}
	doc, err := domain.DecodeDocument(fields)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	for _, name := range doc.Order() {
		if err := domain.ValidateSectionKey(name); err != nil {
			return err
		}
		for _, b := range doc.Sections[name].Content {
			if err := domain.ValidateBlock(b); err != nil {
				return fmt.Errorf("section %q: %w", name, err)
			}
		}
	}

	normalized, err := doc.Fields()
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.collection, key, normalized); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreWrite, err)
	}
	logger.Info("imported %s/%s with %d sections", s.collection, key, len(doc.Sections))
	return nil
}
