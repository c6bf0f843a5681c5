package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
)

type changeWatch struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (w *changeWatch) stop() {
	w.once.Do(w.cancel)
	<-w.done
}

// changeEvent is the part of a change stream event the store reads.
type changeEvent struct {
	OperationType string   `bson:"operationType"`
	FullDocument  bson.Raw `bson:"fullDocument"`
}

// Watch follows one document through a change stream. The stream is
// opened before the first read so no change is missed.
func (s *Store) Watch(ctx context.Context, collection, key string, fn func(domain.Fields)) (func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)

	coll := s.db.Collection(collection)
	stream, err := coll.Watch(watchCtx, documentPipeline(key),
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s/%s: %w", collection, key, err)
	}

	initial, err := s.Get(watchCtx, collection, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		_ = stream.Close(context.Background())
		cancel()
		return nil, err
	}

	w := &changeWatch{cancel: cancel, done: make(chan struct{})}
	s.mu.Lock()
	s.watches[w] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer close(w.done)
		defer func() {
			s.mu.Lock()
			delete(s.watches, w)
			s.mu.Unlock()
		}()
		defer stream.Close(context.Background())

		fn(initial)
		for stream.Next(watchCtx) {
			var ev changeEvent
			if err := stream.Decode(&ev); err != nil {
				logger.Warn("watch %s/%s: %v", collection, key, err)
				continue
			}
			fields, ok, err := snapshotOf(ev)
			if err != nil {
				logger.Warn("watch %s/%s: %v", collection, key, err)
				continue
			}
			if ok {
				fn(fields)
			}
		}
		if err := stream.Err(); err != nil && watchCtx.Err() == nil {
			logger.Warn("watch %s/%s ended: %v", collection, key, err)
		}
	}()

	return w.stop, nil
}

// documentPipeline filters a collection's change stream down to one _id.
func documentPipeline(key string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: key}}}},
	}
}

// snapshotOf turns a change event into the snapshot to deliver. ok is
// false for events that carry no document state.
func snapshotOf(ev changeEvent) (fields domain.Fields, ok bool, err error) {
	switch ev.OperationType {
	case "delete":
		return nil, true, nil
	case "insert", "replace", "update":
		if len(ev.FullDocument) == 0 {
			// Deleted again before the update lookup ran.
			return nil, true, nil
		}
		fields, err := rawToFields(ev.FullDocument)
		return fields, err == nil, err
	}
	return nil, false, nil
}
