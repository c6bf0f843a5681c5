package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("store.backend", "file"))
	require.NoError(t, store.Set("store.backend", "mongo"))

	val, ok := store.Get("store.backend")
	assert.True(t, ok)
	assert.Equal(t, "mongo", val)

	_, ok = store.Get("store.collection")
	assert.False(t, ok)
}

func TestConfigStore_SetAll(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("store.collection", "pages"))

	require.NoError(t, store.SetAll(map[string]any{
		"store.backend": "file",
		"web.addr":      ":9090",
	}))

	assert.Equal(t, "file", store.GetString("store.backend"))
	assert.Equal(t, ":9090", store.GetString("web.addr"))
	assert.Equal(t, "pages", store.GetString("store.collection"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.SetAll(map[string]any{
		"web.addr":           ":9090",
		"store.write_rate":   2.5,
		"int":                3,
		"int64":              int64(4),
		"timeout.string":     "5s",
		"timeout.duration":   2 * time.Second,
		"timeout.bad_string": "soon",
	}))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("web.addr"), ":9090"},
		{"string wrong type", store.GetString("int"), ""},
		{"string missing", store.GetString("missing"), ""},
		{"float", store.GetFloat("store.write_rate"), 2.5},
		{"float from int", store.GetFloat("int"), 3.0},
		{"float from int64", store.GetFloat("int64"), 4.0},
		{"float wrong type", store.GetFloat("web.addr"), 0.0},
		{"float missing", store.GetFloat("missing"), 0.0},
		{"duration from string", store.GetDuration("timeout.string"), 5 * time.Second},
		{"duration as is", store.GetDuration("timeout.duration"), 2 * time.Second},
		{"duration from seconds", store.GetDuration("int"), 3 * time.Second},
		{"duration unparsable", store.GetDuration("timeout.bad_string"), time.Duration(0)},
		{"duration wrong type", store.GetDuration("store.write_rate"), time.Duration(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.SetAll(map[string]any{"store.write_rate": float64(i), "web.addr": ":80"})
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetFloat("store.write_rate")
			_ = store.GetString("web.addr")
		}()
	}
	wg.Wait()

	assert.Equal(t, ":80", store.GetString("web.addr"))
}

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = NewConfigStore()
}
