package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := Open(ctx, domain.StoreSettings{Backend: domain.BackendMemory})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &memory.DocumentStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		dir := t.TempDir()
		store, err := Open(ctx, domain.StoreSettings{Backend: domain.BackendSQLite, DataDir: dir})
		require.NoError(t, err)
		defer store.Close()

		require.IsType(t, &sqlite.Store{}, store)
		assert.Equal(t, dir, filepath.Dir(store.(*sqlite.Store).Path()))
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		store, err := Open(ctx, domain.StoreSettings{Backend: domain.BackendFile, DataDir: dir})
		require.NoError(t, err)
		defer store.Close()

		require.IsType(t, &file.Store{}, store)
		assert.Equal(t, filepath.Join(dir, "documents"), store.(*file.Store).Dir())
		_, err = os.Stat(filepath.Join(dir, "documents"))
		assert.NoError(t, err)
	})

	t.Run("mongo without uri", func(t *testing.T) {
		_, err := Open(ctx, domain.StoreSettings{Backend: domain.BackendMongo})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, domain.StoreSettings{Backend: "redis"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedBackend)
	})
}

func TestOpen_StoresRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []domain.StoreBackend{domain.BackendMemory, domain.BackendSQLite, domain.BackendFile} {
		t.Run(string(backend), func(t *testing.T) {
			store, err := Open(ctx, domain.StoreSettings{Backend: backend, DataDir: t.TempDir()})
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Update(ctx, "cms", "home", map[string]any{
				"sections.intro": map[string]any{"content": []any{}, "index": 0},
			}))
			require.NoError(t, store.Update(ctx, "cms", "home", map[string]any{
				"sections.intro.content": []any{map[string]any{"type": "rte", "value": "<p>hi</p>"}},
			}))

			fields, err := store.Get(ctx, "cms", "home")
			require.NoError(t, err)
			doc, err := domain.DecodeDocument(fields)
			require.NoError(t, err)

			require.Contains(t, doc.Sections, "intro")
			assert.Equal(t, 0, doc.Sections["intro"].Index)
			assert.Equal(t, []domain.Block{domain.RichText{Value: "<p>hi</p>"}}, doc.Sections["intro"].Content)

			require.NoError(t, store.DeleteField(ctx, "cms", "home", "sections.intro"))
			fields, err = store.Get(ctx, "cms", "home")
			require.NoError(t, err)
			doc, err = domain.DecodeDocument(fields)
			require.NoError(t, err)
			assert.Empty(t, doc.Sections)

			keys, err := store.Keys(ctx, "cms")
			require.NoError(t, err)
			assert.Equal(t, []string{"home"}, keys)
		})
	}
}
