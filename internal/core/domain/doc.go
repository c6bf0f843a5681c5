// Package domain defines the core content model for folio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Block: one discriminated content unit (rich text, image+text, gallery, carousel)
//   - SectionEntry: an ordered sequence of blocks plus its persisted position
//   - Document: every section of a page, keyed by section name
//   - Fields: the schema-less form a Document takes inside a document store
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
