package driven

import "time"

// ConfigStore holds folio settings under dotted keys such as
// "store.backend" or "web.addr". Values keep the type they were stored
// with, so the typed getters convert and return the zero value on a
// missing key or a type they cannot read.
type ConfigStore interface {
	// Get retrieves a raw value and reports whether the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value.
	GetString(key string) string

	// GetFloat retrieves a numeric value. Integers are widened.
	GetFloat(key string) float64

	// GetDuration retrieves a duration written either as a Go duration
	// string ("10s") or as a whole number of seconds.
	GetDuration(key string) time.Duration

	// Set stores one value and persists it.
	Set(key string, value any) error

	// SetAll stores every value and persists them together, so a reader
	// never sees half of a settings update.
	SetAll(values map[string]any) error

	// Path returns where the settings live.
	Path() string
}
