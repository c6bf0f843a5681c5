package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/watch"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

var _ driven.DocumentStore = (*Store)(nil)

// Get retrieves a document.
func (s *Store) Get(ctx context.Context, collection, key string) (domain.Fields, error) {
	return getDocument(ctx, s.db, collection, key)
}

// Set replaces the whole document.
func (s *Store) Set(ctx context.Context, collection, key string, fields domain.Fields) error {
	doc, err := domain.ToFields(fields)
	if err != nil {
		return err
	}
	return s.write(ctx, collection, key, func(domain.Fields) (domain.Fields, error) {
		return doc, nil
	})
}

// Update patches field paths, creating the document if needed.
func (s *Store) Update(ctx context.Context, collection, key string, updates map[string]any) error {
	patch, err := domain.ToFields(updates)
	if err != nil {
		return err
	}
	return s.write(ctx, collection, key, func(cur domain.Fields) (domain.Fields, error) {
		if cur == nil {
			cur = domain.Fields{}
		}
		if err := domain.ApplyUpdates(cur, patch); err != nil {
			return nil, err
		}
		return cur, nil
	})
}

// DeleteField removes one field path. Missing documents are left absent.
func (s *Store) DeleteField(ctx context.Context, collection, key, path string) error {
	if _, err := domain.SplitPath(path); err != nil {
		return err
	}
	return s.write(ctx, collection, key, func(cur domain.Fields) (domain.Fields, error) {
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
func (s *Store) Keys(ctx context.Context, collection string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM documents WHERE collection = ? ORDER BY key", collection)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return keys, nil
}

// Watch follows one document. Only writes through this Store are seen.
func (s *Store) Watch(ctx context.Context, collection, key string, fn func(domain.Fields)) (func(), error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	initial, err := getDocument(ctx, s.db, collection, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.hub.Subscribe(ctx, watch.Topic(collection, key), initial, fn), nil
}

// write runs a read-modify-write of one document in a transaction. A nil
// result from apply means "leave the document as it is".
func (s *Store) write(
	ctx context.Context,
	collection, key string,
	apply func(cur domain.Fields) (domain.Fields, error),
) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getDocument(ctx, tx, collection, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	next, err := apply(cur)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshalling document: %w", err)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (collection, key, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, collection, key, string(data), now, now)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document: %w", err)
	}

	s.hub.Publish(watch.Topic(collection, key), next)
	return nil
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getDocument(ctx context.Context, q queryRower, collection, key string) (domain.Fields, error) {
	var data string
	err := q.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND key = ?", collection, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	var fields domain.Fields
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("unmarshalling document %s/%s: %w", collection, key, err)
	}
	if fields == nil {
		fields = domain.Fields{}
	}
	return fields, nil
}
