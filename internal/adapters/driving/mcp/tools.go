package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Collection string   `json:"collection"`
	Keys       []string `json:"keys"`
}

// DocumentInput selects one document.
type DocumentInput struct {
	Key string `json:"key" jsonschema:"the document key, e.g. home"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	Key      string          `json:"key"`
	Sections []SectionOutput `json:"sections"`
}

// SectionOutput is one section in display order.
type SectionOutput struct {
	Key    string        `json:"key"`
	Index  int           `json:"index"`
	Blocks []BlockOutput `json:"blocks"`
}

// BlockOutput flattens a block for assistants.
type BlockOutput struct {
	ID            string   `json:"id,omitempty"`
	Type          string   `json:"type"`
	Title         string   `json:"title,omitempty"`
	Label         string   `json:"label,omitempty"`
	Value         string   `json:"value,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	ImagePosition string   `json:"image_position,omitempty"`
	ImageURLs     []string `json:"image_urls,omitempty"`
}

// RenderDocumentOutput is the output schema for the render_document tool.
type RenderDocumentOutput struct {
	Key  string `json:"key"`
	HTML string `json:"html"`
}

// Tool names.
const (
	toolListDocuments  = "list_documents"
	toolGetDocument    = "get_document"
	toolRenderDocument = "render_document"
)

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolListDocuments,
		Description: "List the CMS documents in the configured collection",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolGetDocument,
		Description: "Get a CMS document's sections and blocks in display order",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolRenderDocument,
		Description: "Render a CMS document as the public HTML page",
	}, s.handleRenderDocument)
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	keys, err := s.ports.Content.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}
	if keys == nil {
		keys = []string{}
	}
	return nil, ListDocumentsOutput{Collection: s.ports.Content.Collection(), Keys: keys}, nil
}

func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	if input.Key == "" {
		return nil, GetDocumentOutput{}, fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}

	doc, err := s.ports.Content.Get(ctx, input.Key)
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}
	return nil, documentOutput(input.Key, doc), nil
}

func (s *Server) handleRenderDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, RenderDocumentOutput, error) {
	if input.Key == "" {
		return nil, RenderDocumentOutput{}, fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}

	doc, err := s.ports.Content.Get(ctx, input.Key)
	if err != nil {
		return nil, RenderDocumentOutput{}, err
	}

	var b strings.Builder
	if err := s.ports.Renderer.Render(&b, input.Key, doc); err != nil {
		return nil, RenderDocumentOutput{}, err
	}
	return nil, RenderDocumentOutput{Key: input.Key, HTML: b.String()}, nil
}

func documentOutput(key string, doc domain.Document) GetDocumentOutput {
	out := GetDocumentOutput{Key: key, Sections: []SectionOutput{}}
	for _, name := range doc.Order() {
		entry := doc.Sections[name]
		sec := SectionOutput{Key: name, Index: entry.Index, Blocks: make([]BlockOutput, 0, len(entry.Content))}
		for _, b := range entry.Content {
			sec.Blocks = append(sec.Blocks, blockOutput(b))
		}
		out.Sections = append(out.Sections, sec)
	}
	return out
}

func blockOutput(b domain.Block) BlockOutput {
	out := BlockOutput{ID: b.BlockID(), Type: string(b.Type()), Title: b.BlockTitle()}
	switch v := domain.CloneBlock(b).(type) {
	case domain.RichText:
		out.Label, out.Value = v.Label, v.Value
	case domain.ImageText:
		out.Label, out.Value = v.Label, v.Value
		out.ImageURL, out.ImagePosition = v.ImageURL, string(v.ImagePosition)
	case domain.Gallery:
		out.ImageURLs = v.ImageURLs
	case domain.Carousel:
		out.ImageURLs = v.ImageURLs
	}
	return out
}
