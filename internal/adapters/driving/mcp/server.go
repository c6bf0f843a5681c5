package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/folio/internal/adapters/driving/web"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// defaultHeaderTimeout applies when the web settings leave it unset.
const defaultHeaderTimeout = 10 * time.Second

// Server exposes one collection of CMS documents to MCP clients. It is
// read-only: editing stays with the CLI and the TUI.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a server over ports. A nil renderer is replaced by
// one using the built-in page templates.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if ports.Renderer == nil {
		ports.Renderer = web.NewRenderer(nil)
	}

	impl := &mcp.Implementation{Name: "folio", Version: Version}
	s := &Server{
		ports: ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: instructions(ports.Content.Collection()),
		}),
	}

	s.registerTools()
	s.registerResources()
	return s, nil
}

// instructions tells clients what the tools read.
func instructions(collection string) string {
	return fmt.Sprintf(`Read-only access to the CMS documents in collection %q.
A document is a set of named sections, each an ordered list of blocks
(rte, imgRte, gallery, carousel). Call %s for the keys, then %s for the
structure or %s for the public HTML page.`,
		collection, toolListDocuments, toolGetDocument, toolRenderDocument)
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("mcp: serving collection %s over stdio", s.ports.Content.Collection())
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves over HTTP on settings.Addr until ctx is cancelled, with
// the same header timeout as the public page server.
func (s *Server) RunHTTP(ctx context.Context, settings domain.WebSettings) error {
	timeout := settings.ReadHeaderTimeout
	if timeout <= 0 {
		timeout = defaultHeaderTimeout
	}
	httpServer := &http.Server{
		Addr:              settings.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: timeout,
	}

	go func() {
		<-ctx.Done()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("mcp: serving collection %s on %s", s.ports.Content.Collection(), settings.Addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
