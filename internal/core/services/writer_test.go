package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/adapters/driven/notify"
	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestWriter_RunsInIssueOrder(t *testing.T) {
	store := newCallLog()
	defer store.Close()
	w := newWriter(store, nil, testCollection, 0)

	var want []string
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("sections.s%d", i)
		w.patch("add section", "home", path, map[string]any{"index": i})
		want = append(want, "update home "+path)
	}
	w.flush()

	assert.Equal(t, want, store.Calls())
}

func TestWriter_LastWriteWins(t *testing.T) {
	store := newCallLog()
	defer store.Close()
	w := newWriter(store, nil, testCollection, 0)

	w.patch("update section", "home", "sections.a.content", []any{})
	w.patch("update section", "home", "sections.a.content", []any{map[string]any{"type": "rte", "value": "second"}})
	w.flush()

	fields, err := store.Get(context.Background(), testCollection, "home")
	require.NoError(t, err)
	got, _ := domain.GetPath(fields, "sections.a.content")
	assert.Equal(t, []any{map[string]any{"type": "rte", "value": "second"}}, got)
}

func TestWriter_FailureNotifiesOnce(t *testing.T) {
	store := newCallLog()
	defer store.Close()
	store.setFailWrite(true)
	rec := notify.NewRecorder()
	w := newWriter(store, rec, testCollection, 0)

	w.deleteField("delete section", "home", "sections.a")
	w.flush()

	got := rec.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, domain.LevelError, got[0].Level)
	assert.Equal(t, "delete section", got[0].Operation)
	assert.Equal(t, "home", got[0].DocumentKey)
	assert.ErrorIs(t, got[0].Err, domain.ErrStoreWrite)
	assert.ErrorIs(t, got[0].Err, errQuota)

	// No retry.
	assert.Len(t, store.Calls(), 1)
}

func TestWriter_UnencodableValueFailsWithoutStoreCall(t *testing.T) {
	store := newCallLog()
	defer store.Close()
	rec := notify.NewRecorder()
	w := newWriter(store, rec, testCollection, 0)

	w.patch("update section", "home", "sections.a", make(chan int))
	w.flush()

	assert.Empty(t, store.Calls())
	require.Len(t, rec.Notifications(), 1)
	assert.True(t, errors.Is(rec.Notifications()[0].Err, domain.ErrStoreWrite))
}

func TestWriter_NilNotifier(t *testing.T) {
	store := newCallLog()
	defer store.Close()
	store.setFailWrite(true)
	w := newWriter(store, nil, testCollection, 0)

	assert.NotPanics(t, func() {
		w.replace("save document", "home", domain.NewDocument())
		w.flush()
	})
}

func TestWriter_Throttle(t *testing.T) {
	store := newCallLog()
	defer store.Close()
	w := newWriter(store, nil, testCollection, 20)

	start := time.Now()
	for i := 0; i < 3; i++ {
		w.patch("update section", "home", "sections.a.index", i)
	}
	w.flush()

	// One token up front, then one every 50ms.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Len(t, store.Calls(), 3)
}

func TestWriter_FlushWithNothingPending(t *testing.T) {
	store := newCallLog()
	defer store.Close()
	w := newWriter(store, nil, testCollection, 0)

	done := make(chan struct{})
	go func() {
		w.flush()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flush blocked with no pending writes")
	}
}

func TestWriter_FlushWhileOtherGoroutinesWrite(t *testing.T) {
	store := newCallLog()
	defer store.Close()
	w := newWriter(store, nil, testCollection, 0)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				w.patch("update section", "home", fmt.Sprintf("sections.g%d.index", g), i)
				if i%10 == 0 {
					w.flush()
				}
			}
		}()
	}
	wg.Wait()
	w.flush()

	assert.Len(t, store.Calls(), 200)
}
