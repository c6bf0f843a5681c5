// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.folio.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - TemplateStore: user-editable page templates with built-in fallbacks
package file
