// Package sqlite provides a SQLite-based implementation of driven.DocumentStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each CMS document is one row holding
// the document as JSON; field-path patches are applied as read-modify-write
// inside a transaction, which gives document-level atomicity.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.folio/data/folio.db
//
// # Watching
//
// Watch only sees writes made through the same Store. Other processes writing
// to the same file are not observed; use the file backend for that.
package sqlite
