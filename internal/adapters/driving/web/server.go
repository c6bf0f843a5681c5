package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

const jsonSuffix = ".json"

// Server serves rendered documents of one collection:
//
//	GET /{collection}            document keys as JSON
//	GET /{collection}/{key}      rendered page
//	GET /{collection}/{key}.json stored document
type Server struct {
	content  driving.ContentService
	renderer *Renderer
	settings domain.WebSettings
	mux      *http.ServeMux
}

// NewServer creates a server reading through content.
func NewServer(content driving.ContentService, renderer *Renderer, settings domain.WebSettings) *Server {
	if renderer == nil {
		renderer = NewRenderer(nil)
	}
	s := &Server{
		content:  content,
		renderer: renderer,
		settings: settings,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{collection}", s.handleList)
	s.mux.HandleFunc("GET /{collection}/{key}", s.handleDocument)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	timeout := s.settings.ReadHeaderTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpServer := &http.Server{
		Addr:              s.settings.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: timeout,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.ownsCollection(w, r) {
		return
	}
	keys, err := s.content.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, keys)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if !s.ownsCollection(w, r) {
		return
	}

	key, asJSON := strings.CutSuffix(r.PathValue("key"), jsonSuffix)
	if key == "" {
		http.NotFound(w, r)
		return
	}

	doc, err := s.content.Get(r.Context(), key)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if asJSON {
		writeJSON(w, doc)
		return
	}

	// Render into a buffer so a template error still yields a clean 500.
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, key, doc); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) ownsCollection(w http.ResponseWriter, r *http.Request) bool {
	if r.PathValue("collection") != s.content.Collection() {
		http.NotFound(w, r)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.Warn("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
