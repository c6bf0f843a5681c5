package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for folio resources.
	uriScheme = "folio://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Keys of every document in the collection",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{key}",
		Name:        "document",
		Description: "A stored document as JSON",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pages/{key}",
		Name:        "page",
		Description: "A document rendered as its public HTML page",
		MIMEType:    "text/html",
	}, s.handlePageResource)
}

// handleDocumentsResource lists document keys.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	keys, err := s.ports.Content.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling keys: %w", err)
	}
	return textResult(req.Params.URI, "application/json", string(data)), nil
}

// handleDocumentResource returns one stored document.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractKey(req.Params.URI, "documents/")
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Content.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}
	return textResult(req.Params.URI, "application/json", string(data)), nil
}

// handlePageResource returns one rendered page.
func (s *Server) handlePageResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractKey(req.Params.URI, "pages/")
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Content.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	var buf bytes.Buffer
	if err := s.ports.Renderer.Render(&buf, key, doc); err != nil {
		return nil, err
	}
	return textResult(req.Params.URI, "text/html", buf.String()), nil
}

func textResult(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

// extractKey extracts the key from a URI like folio://documents/{key}.
func extractKey(uri, kind string) string {
	prefix := uriScheme + kind
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	key := strings.TrimPrefix(uri, prefix)
	if strings.Contains(key, "/") {
		return ""
	}
	return key
}
