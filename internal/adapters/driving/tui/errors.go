package tui

import "errors"

// ErrMissingEditorService is returned when the editor service is not provided.
var ErrMissingEditorService = errors.New("tui: editor service is required")

// ErrMissingContentService is returned when the content service is not provided.
var ErrMissingContentService = errors.New("tui: content service is required")
