// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists the documents of the collection.
	ViewDocuments ViewType = iota
	// ViewSections lists the sections of one document.
	ViewSections
	// ViewBlocks lists the blocks of one section.
	ViewBlocks
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewSections:
		return "sections"
	case ViewBlocks:
		return "blocks"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the document keys of the collection.
type DocumentsLoaded struct {
	Keys []string
	Err  error
}

// DocumentSelected asks the app to open a document for editing.
type DocumentSelected struct {
	Key string
}

// DocumentOpened carries a loaded page editor.
type DocumentOpened struct {
	Page driving.PageEditor
	Err  error
}

// SectionSelected asks the app to edit the blocks of a section.
type SectionSelected struct {
	Key string
}

// NotificationReceived carries a notification raised by a background write.
type NotificationReceived struct {
	Notification domain.Notification
}
