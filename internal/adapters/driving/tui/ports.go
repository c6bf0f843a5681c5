// Package tui provides an interactive terminal user interface for folio.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Content lists the documents of the collection.
	Content driving.ContentService

	// Editor opens documents for editing.
	Editor driving.EditorService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(content driving.ContentService, editor driving.EditorService) *Ports {
	return &Ports{
		Content: content,
		Editor:  editor,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Content == nil {
		return ErrMissingContentService
	}
	if p.Editor == nil {
		return ErrMissingEditorService
	}
	return nil
}
