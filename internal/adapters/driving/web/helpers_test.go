package web

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

func writeTemplate(t *testing.T, store driven.TemplateStore, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), name+".tmpl"), []byte(text), 0600))
}
