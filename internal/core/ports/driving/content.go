package driving

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// ExportFormat selects the encoding of exported documents.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ParseExportFormat converts a user-supplied format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatJSON, FormatYAML:
		return ExportFormat(s), nil
	case "yml":
		return FormatYAML, nil
	}
	return "", &domain.ValidationError{Field: "format", Reason: fmt.Sprintf("unknown format %q (want json or yaml)", s)}
}

// ContentService is the read side of the CMS, used by read-only surfaces
// and by bulk import/export.
type ContentService interface {
	// Collection returns the collection this service reads.
	Collection() string

	// Get returns a document. An absent document is an empty one.
	Get(ctx context.Context, key string) (domain.Document, error)

	// List returns the document keys in sorted order.
	List(ctx context.Context) ([]string, error)

	// Watch pushes the document to fn on load and on every change
	// until stop is called or ctx is done.
	Watch(ctx context.Context, key string, fn func(domain.Document)) (stop func(), err error)

	// Export writes a document to w.
	Export(ctx context.Context, key string, format ExportFormat, w io.Writer) error

	// Import replaces a document with the one read from r.
	Import(ctx context.Context, key string, format ExportFormat, r io.Reader) error
}

// EditorService opens documents for editing.
type EditorService interface {
	// Open returns an editor for a document. The caller must Load it.
	Open(key string) PageEditor
}

// PageEditor edits the sections of one document. Mutations update local
// state immediately and persist in the background.
type PageEditor interface {
	Key() string
	Load(ctx context.Context) error
	Order() []string
	Section(key string) (domain.SectionEntry, bool)
	Document() domain.Document
	AddSection(key string) error
	DeleteSection(key string, confirm domain.Confirm) (bool, error)
	ReorderSections(from, to int) error
	MoveSection(key string, to int) error
	RenameSection(oldKey, newKey string) error
	Edit(key string) (SectionEditor, error)
	SaveAll()
	Flush()
}

// SectionEditor edits the ordered blocks of one section. Block indices
// outside [0, len(Blocks())) are caller errors and panic.
type SectionEditor interface {
	Key() string
	Blocks() []domain.Block
	AddBlock() int
	UpdateBlock(index int, block domain.Block) error
	ChangeType(index int, target domain.BlockType)
	DeleteBlock(index int, confirm domain.Confirm) bool
	Edit(index int)
	Done()
	Editing() (int, bool)
}
