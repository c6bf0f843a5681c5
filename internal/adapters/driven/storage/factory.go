// Package storage selects the document store named by the settings.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/mongo"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// documentsDir is the file backend's subdirectory of the data dir.
const documentsDir = "documents"

// Open creates the configured document store. The caller closes it.
func Open(ctx context.Context, settings domain.StoreSettings) (driven.DocumentStore, error) {
	logger.Debug("opening %s document store", settings.Backend)

	switch settings.Backend {
	case domain.BackendMemory:
		return memory.NewDocumentStore(), nil

	case domain.BackendSQLite, "":
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil

	case domain.BackendFile:
		dir := ""
		if settings.DataDir != "" {
			dir = filepath.Join(settings.DataDir, documentsDir)
		}
		store, err := file.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}
		return store, nil

	case domain.BackendMongo:
		store, err := mongo.NewStore(ctx, settings.MongoURI, settings.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("opening mongo store: %w", err)
		}
		return store, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, settings.Backend)
}
