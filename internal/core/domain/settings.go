package domain

import (
	"fmt"
	"time"
)

// StoreBackend names a document store implementation.
type StoreBackend string

const (
	BackendMemory StoreBackend = "memory"
	BackendSQLite StoreBackend = "sqlite"
	BackendFile   StoreBackend = "file"
	BackendMongo  StoreBackend = "mongo"
)

// IsValid reports whether b is a known backend.
func (b StoreBackend) IsValid() bool {
	switch b {
	case BackendMemory, BackendSQLite, BackendFile, BackendMongo:
		return true
	}
	return false
}

// String returns the backend name.
func (b StoreBackend) String() string {
	return string(b)
}

// StoreSettings configures the document store.
type StoreSettings struct {
	// Backend selects the store implementation.
	Backend StoreBackend

	// DataDir holds the sqlite database or the JSON document tree.
	DataDir string

	// Collection groups the CMS documents, e.g. "cms" or "departments".
	Collection string

	// MongoURI is the connection string for the mongo backend.
	MongoURI string

	// MongoDatabase is the database name for the mongo backend.
	MongoDatabase string

	// WriteRate caps writes per second. Zero means unlimited.
	WriteRate float64
}

// WebSettings configures the public renderer.
type WebSettings struct {
	// Addr is the listen address for "folio serve".
	Addr string

	// ReadHeaderTimeout bounds how long a client may take to send headers.
	ReadHeaderTimeout time.Duration
}

// Settings is the complete application configuration.
type Settings struct {
	Store StoreSettings
	Web   WebSettings
}

// DefaultSettings returns settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Store: StoreSettings{
			Backend:       BackendSQLite,
			Collection:    "cms",
			MongoDatabase: "folio",
		},
		Web: WebSettings{
			Addr:              ":8080",
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Validate checks settings for consistency.
func (s Settings) Validate() error {
	if !s.Store.Backend.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedBackend, s.Store.Backend)
	}
	if s.Store.Collection == "" {
		return &ValidationError{Field: "store.collection", Reason: "is required"}
	}
	if s.Store.Backend == BackendMongo && s.Store.MongoURI == "" {
		return &ValidationError{Field: "store.mongo_uri", Reason: "is required for the mongo backend"}
	}
	if s.Store.WriteRate < 0 {
		return &ValidationError{Field: "store.write_rate", Reason: "must not be negative"}
	}
	return nil
}
