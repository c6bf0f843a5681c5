package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("nil content service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingContentService)
	})

	t.Run("valid ports creates server with default renderer", func(t *testing.T) {
		ports := &Ports{Content: &mockContentService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, ports.Renderer)
	})
}

func TestInstructions_NameCollectionAndTools(t *testing.T) {
	text := instructions("pages")

	assert.Contains(t, text, `"pages"`)
	for _, tool := range []string{toolListDocuments, toolGetDocument, toolRenderDocument} {
		assert.Contains(t, text, tool)
	}
}

func TestServer_HTTPHandler(t *testing.T) {
	server, err := NewServer(&Ports{Content: &mockContentService{}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// A bare GET without a session is refused rather than served.
	assert.GreaterOrEqual(t, rec.Code, 400)
}

func TestServer_RunHTTPStopsWithContext(t *testing.T) {
	server, err := NewServer(&Ports{Content: &mockContentService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, domain.WebSettings{Addr: "127.0.0.1:0"}) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingContentService)
	assert.NoError(t, (&Ports{Content: &mockContentService{}}).Validate())
}
