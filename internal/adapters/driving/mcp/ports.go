package mcp

import (
	"github.com/custodia-labs/folio/internal/adapters/driving/web"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ports aggregates what the MCP server reads through.
type Ports struct {
	// Content reads documents of the configured collection.
	Content driving.ContentService

	// Renderer produces HTML for render_document. Optional; the
	// built-in templates are used when nil.
	Renderer *web.Renderer
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Content == nil {
		return ErrMissingContentService
	}
	return nil
}
