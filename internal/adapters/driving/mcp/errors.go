// Package mcp provides an MCP (Model Context Protocol) server adapter for folio.
// It gives AI assistants read-only access to CMS documents.
package mcp

import "errors"

// ErrMissingContentService is returned when the content service is not provided.
var ErrMissingContentService = errors.New("mcp: content service is required")
