// Package mongo provides a MongoDB-backed driven.DocumentStore.
//
// Each CMS collection maps to a MongoDB collection and each document key to
// its _id. Field-path patches become $set/$unset updates, so concurrent
// edits to different sections of one document do not clobber each other.
// Watch uses change streams, which need a replica set or Atlas cluster.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

const idField = "_id"

// Store is a document store backed by one MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	mu      sync.Mutex
	watches map[*changeWatch]struct{}
}

// NewStore connects to uri and checks the connection. The client's own
// timeouts apply to every later call.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, &domain.ValidationError{Field: "store.mongo_uri", Reason: "is required"}
	}
	if database == "" {
		database = "folio"
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Debug("connected to mongo database %s", database)
	return &Store{
		client:  client,
		db:      client.Database(database),
		watches: make(map[*changeWatch]struct{}),
	}, nil
}

// Get retrieves a document.
func (s *Store) Get(ctx context.Context, collection, key string) (domain.Fields, error) {
	raw, err := s.db.Collection(collection).FindOne(ctx, byID(key)).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s/%s: %w", collection, key, err)
	}
	return rawToFields(raw)
}

// Set replaces the whole document.
func (s *Store) Set(ctx context.Context, collection, key string, fields domain.Fields) error {
	doc, err := toDocument(key, fields)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collection).ReplaceOne(ctx, byID(key), doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, key, err)
	}
	return nil
}

// Update patches field paths with $set, creating the document if needed.
func (s *Store) Update(ctx context.Context, collection, key string, updates map[string]any) error {
	set, err := setStage(updates)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collection).UpdateOne(ctx, byID(key), set, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, key, err)
	}
	return nil
}

// DeleteField removes one field path with $unset.
func (s *Store) DeleteField(ctx context.Context, collection, key, path string) error {
	unset, err := unsetStage(path)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collection).UpdateOne(ctx, byID(key), unset)
	if err != nil {
		return fmt.Errorf("unset %s on %s/%s: %w", path, collection, key, err)
	}
	return nil
}

// Keys lists a collection's document ids in sorted order.
func (s *Store) Keys(ctx context.Context, collection string) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: idField, Value: 1}}).
		SetSort(bson.D{{Key: idField, Value: 1}})

	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	var rows []struct {
		ID any `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		if id, ok := r.ID.(string); ok {
			keys = append(keys, id)
		}
	}
	return keys, nil
}

// Close stops every watch and disconnects.
func (s *Store) Close() error {
	s.mu.Lock()
	watches := make([]*changeWatch, 0, len(s.watches))
	for w := range s.watches {
		watches = append(watches, w)
	}
	s.mu.Unlock()

	for _, w := range watches {
		w.stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func byID(key string) bson.D {
	return bson.D{{Key: idField, Value: key}}
}

// toDocument normalises fields and stamps the _id.
func toDocument(key string, fields domain.Fields) (bson.M, error) {
	normalized, err := domain.ToFields(fields)
	if err != nil {
		return nil, err
	}
	doc := bson.M(normalized)
	doc[idField] = key
	return doc, nil
}

// setStage builds {$set: {path: value}} after checking every path.
func setStage(updates map[string]any) (bson.D, error) {
	normalized, err := domain.ToFields(updates)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	for path, value := range normalized {
		if _, err := domain.SplitPath(path); err != nil {
			return nil, err
		}
		if path == idField {
			return nil, &domain.ValidationError{Field: path, Reason: "cannot be updated"}
		}
		set[path] = value
	}
	return bson.D{{Key: "$set", Value: set}}, nil
}

// unsetStage builds {$unset: {path: ""}}.
func unsetStage(path string) (bson.D, error) {
	if _, err := domain.SplitPath(path); err != nil {
		return nil, err
	}
	return bson.D{{Key: "$unset", Value: bson.D{{Key: path, Value: ""}}}}, nil
}

// rawToFields goes through relaxed extended JSON so nested documents come
// back as plain maps rather than bson.D.
func rawToFields(raw bson.Raw) (domain.Fields, error) {
	ext, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	var fields domain.Fields
	if err := json.Unmarshal(ext, &fields); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if fields == nil {
		fields = domain.Fields{}
	}
	delete(fields, idField)
	return fields, nil
}
