package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/adapters/driven/notify"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

const testCollection = "cms"

var errQuota = errors.New("write quota exceeded")

// callLog records store calls and can fail writes on demand.
type callLog struct {
	driven.DocumentStore

	mu        sync.Mutex
	calls     []string
	failWrite bool
	failRead  bool
}

func newCallLog() *callLog {
	return &callLog{DocumentStore: memory.NewDocumentStore()}
}

func (c *callLog) record(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *callLog) shouldFail() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failWrite
}

func (c *callLog) setFailWrite(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWrite = v
}

func (c *callLog) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *callLog) Get(ctx context.Context, collection, key string) (domain.Fields, error) {
	c.mu.Lock()
	fail := c.failRead
	c.mu.Unlock()
	if fail {
		return nil, errors.New("unavailable")
	}
	return c.DocumentStore.Get(ctx, collection, key)
}

func (c *callLog) Set(ctx context.Context, collection, key string, fields domain.Fields) error {
	c.record("set %s", key)
	if c.shouldFail() {
		return errQuota
	}
	return c.DocumentStore.Set(ctx, collection, key, fields)
}

func (c *callLog) Update(ctx context.Context, collection, key string, updates map[string]any) error {
	for path := range updates {
		c.record("update %s %s", key, path)
	}
	if c.shouldFail() {
		return errQuota
	}
	return c.DocumentStore.Update(ctx, collection, key, updates)
}

func (c *callLog) DeleteField(ctx context.Context, collection, key, path string) error {
	c.record("delete %s %s", key, path)
	if c.shouldFail() {
		return errQuota
	}
	return c.DocumentStore.DeleteField(ctx, collection, key, path)
}

// testEditor bundles an editor service with its collaborators.
type testEditor struct {
	store    *callLog
	notifier *notify.Recorder
	svc      *EditorService
}

func newTestEditor(t *testing.T) *testEditor {
	t.Helper()
	store := newCallLog()
	rec := notify.NewRecorder()
	svc := NewEditorService(store, rec, testCollection, 0)

	var (
		mu sync.Mutex
		n  int
	)
	svc.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("block-%d", n)
	}

	t.Cleanup(func() {
		svc.Flush()
		store.Close()
	})
	return &testEditor{store: store, notifier: rec, svc: svc}
}

// open returns a loaded editor for key.
func (te *testEditor) open(t *testing.T, key string) *PageEditor {
	t.Helper()
	p := te.svc.OpenPage(key)
	require.NoError(t, p.Load(context.Background()))
	return p
}

// calls returns the store calls made once pending writes land.
func (te *testEditor) calls() []string {
	te.svc.Flush()
	return te.store.Calls()
}

// stored reads the persisted document after pending writes land.
func (te *testEditor) stored(t *testing.T, key string) domain.Document {
	t.Helper()
	te.svc.Flush()
	fields, err := te.store.DocumentStore.Get(context.Background(), testCollection, key)
	require.NoError(t, err)
	doc, err := domain.DecodeDocument(fields)
	require.NoError(t, err)
	return doc
}

// seed stores a document directly.
func (te *testEditor) seed(t *testing.T, key string, doc domain.Document) {
	t.Helper()
	fields, err := doc.Fields()
	require.NoError(t, err)
	require.NoError(t, te.store.DocumentStore.Set(context.Background(), testCollection, key, fields))
}

func yes(string) bool { return true }
func no(string) bool  { return false }
