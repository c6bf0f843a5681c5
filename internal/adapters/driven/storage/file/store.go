// Package file provides a driven.DocumentStore that keeps every document
// as a JSON file: <dir>/<collection>/<key>.json.
//
// Writes go to a temporary file that is renamed into place, so readers
// never see a half-written document. Watch uses fsnotify and therefore
// also sees edits made by other processes or by hand.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

const docExt = ".json"

// Store is a directory-backed document store.
type Store struct {
	dir string

	// mu serialises read-modify-write cycles within this process.
	mu sync.Mutex

	watchMu  sync.Mutex
	watchers map[*docWatcher]struct{}
	closed   bool
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".folio", "data", "documents")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating document directory: %w", err)
	}
	return &Store{
		dir:      dir,
		watchers: make(map[*docWatcher]struct{}),
	}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Get retrieves a document.
func (s *Store) Get(_ context.Context, collection, key string) (domain.Fields, error) {
	path, err := s.docPath(collection, key)
	if err != nil {
		return nil, err
	}
	fields, _, err := readDocument(path)
	return fields, err
}

// Set replaces the whole document.
func (s *Store) Set(_ context.Context, collection, key string, fields domain.Fields) error {
	doc, err := domain.ToFields(fields)
	if err != nil {
		return err
	}
	return s.modify(collection, key, func(domain.Fields) (domain.Fields, error) {
		return doc, nil
	})
}

// Update patches field paths, creating the document if needed.
func (s *Store) Update(_ context.Context, collection, key string, updates map[string]any) error {
	patch, err := domain.ToFields(updates)
	if err != nil {
		return err
	}
	return s.modify(collection, key, func(cur domain.Fields) (domain.Fields, error) {
		if cur == nil {
			cur = domain.Fields{}
		}
		if err := domain.ApplyUpdates(cur, patch); err != nil {
			return nil, err
		}
		return cur, nil
	})
}

// DeleteField removes one field path. Missing documents stay absent.
func (s *Store) DeleteField(_ context.Context, collection, key, path string) error {
	if _, err := domain.SplitPath(path); err != nil {
		return err
	}
	return s.modify(collection, key, func(cur domain.Fields) (domain.Fields, error) {
		if cur == nil {
			return nil, nil
		}
		if err := domain.DeletePath(cur, path); err != nil {
			return nil, err
		}
		return cur, nil
	})
}

// Keys lists a collection's document keys in sorted order.
func (s *Store) Keys(_ context.Context, collection string) ([]string, error) {
	dir, err := s.collectionDir(collection)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}

	keys := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, docExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, docExt))
	}
	sort.Strings(keys)
	return keys, nil
}

// Close stops every watch.
func (s *Store) Close() error {
	s.watchMu.Lock()
	s.closed = true
	watchers := make([]*docWatcher, 0, len(s.watchers))
	for w := range s.watchers {
		watchers = append(watchers, w)
	}
	s.watchMu.Unlock()

	for _, w := range watchers {
		w.stop()
	}
	return nil
}

func (s *Store) modify(collection, key string, apply func(domain.Fields) (domain.Fields, error)) error {
	path, err := s.docPath(collection, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, _, err := readDocument(path)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	next, err := apply(cur)
	if err != nil || next == nil {
		return err
	}
	return writeDocument(path, next)
}

func (s *Store) collectionDir(collection string) (string, error) {
	if err := validateName("collection", collection); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, collection), nil
}

func (s *Store) docPath(collection, key string) (string, error) {
	dir, err := s.collectionDir(collection)
	if err != nil {
		return "", err
	}
	if err := validateName("key", key); err != nil {
		return "", err
	}
	return filepath.Join(dir, key+docExt), nil
}

// validateName keeps collection and key names inside the store directory.
func validateName(field, name string) error {
	switch {
	case name == "":
		return &domain.ValidationError{Field: field, Reason: "is required"}
	case strings.HasPrefix(name, "."):
		return &domain.ValidationError{Field: field, Reason: "must not start with a dot"}
	case strings.ContainsAny(name, `/\`):
		return &domain.ValidationError{Field: field, Reason: "must not contain path separators"}
	}
	return nil
}

// readDocument returns the parsed document and its raw bytes.
func readDocument(path string) (domain.Fields, []byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var fields domain.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, data, fmt.Errorf("parsing %s: %w", path, err)
	}
	if fields == nil {
		fields = domain.Fields{}
	}
	return fields, data, nil
}

func writeDocument(path string, fields domain.Fields) error {
	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating collection directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	logger.Debug("wrote %s", path)
	return nil
}

// sameContent reports whether two raw snapshots are identical.
func sameContent(a, b []byte) bool {
	return bytes.Equal(a, b)
}
